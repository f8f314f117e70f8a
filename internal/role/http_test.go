package role

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/resep-api/internal/apperr"
	"github.com/yourusername/resep-api/internal/webx"
)

type memoryRepository struct {
	roles  map[int64]*Role
	nextID int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{roles: map[int64]*Role{}, nextID: 1}
}

func (r *memoryRepository) Create(ctx context.Context, role *Role) (*Role, error) {
	role.ID = r.nextID
	r.nextID++
	r.roles[role.ID] = role
	return role, nil
}

func (r *memoryRepository) List(ctx context.Context) ([]*Role, error) {
	var list []*Role
	for _, role := range r.roles {
		list = append(list, role)
	}
	return list, nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id int64) (*Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, apperr.NotFound("ロールが見つかりません")
	}
	return role, nil
}

func (r *memoryRepository) Update(ctx context.Context, role *Role) (*Role, error) {
	if _, ok := r.roles[role.ID]; !ok {
		return nil, apperr.NotFound("ロールが見つかりません")
	}
	r.roles[role.ID] = role
	return role, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.roles[id]; !ok {
		return apperr.NotFound("ロールが見つかりません")
	}
	delete(r.roles, id)
	return nil
}

func newRoleRouter(t *testing.T) (*gin.Engine, *memoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := newMemoryRepository()

	router := gin.New()
	router.Use(webx.ErrorMiddleware(nil))
	router.POST("/api/roles", CreateHandler(repo))
	router.GET("/api/roles", ListHandler(repo))
	router.GET("/api/roles/:roleId", GetHandler(repo))
	router.PUT("/api/roles/:roleId", UpdateHandler(repo))
	router.DELETE("/api/roles/:roleId", DeleteHandler(repo))
	return router, repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateRole(t *testing.T) {
	router, repo := newRoleRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/roles", map[string]string{"nama_role": "admin"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var body struct {
		Data Role `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.Name != "admin" {
		t.Fatalf("nama_role = %q, want admin", body.Data.Name)
	}
	if _, ok := repo.roles[body.Data.ID]; !ok {
		t.Fatal("created role must be stored")
	}
}

func TestCreateRoleValidation(t *testing.T) {
	router, _ := newRoleRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/roles", map[string]string{"nama_role": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Errors["nama_role"]) == 0 {
		t.Fatalf("expected field error for nama_role, got: %v", body.Errors)
	}
}

func TestGetRoleNotFound(t *testing.T) {
	router, _ := newRoleRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/roles/99", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusNotFound, rec.Body.String())
	}
}

func TestGetRoleInvalidID(t *testing.T) {
	router, _ := newRoleRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/roles/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestUpdateRole(t *testing.T) {
	router, repo := newRoleRouter(t)
	created, _ := repo.Create(t.Context(), &Role{Name: "user"})

	rec := doJSON(t, router, http.MethodPut, "/api/roles/1", map[string]string{"nama_role": "member"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if repo.roles[created.ID].Name != "member" {
		t.Fatalf("nama_role = %q, want member", repo.roles[created.ID].Name)
	}
}

func TestDeleteRole(t *testing.T) {
	router, repo := newRoleRouter(t)
	created, _ := repo.Create(t.Context(), &Role{Name: "user"})

	rec := doJSON(t, router, http.MethodDelete, "/api/roles/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if _, ok := repo.roles[created.ID]; ok {
		t.Fatal("deleted role must be removed")
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/roles/1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
