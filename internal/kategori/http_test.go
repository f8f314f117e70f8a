package kategori

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
	jenis     map[int64]*Jenis
	kats      map[int64]*Kategori
	nextJenis int64
	nextKat   int64
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		jenis:     map[int64]*Jenis{},
		kats:      map[int64]*Kategori{},
		nextJenis: 1,
		nextKat:   1,
	}
}

func (r *memoryRepository) CreateJenis(ctx context.Context, j *Jenis) (*Jenis, error) {
	j.ID = r.nextJenis
	r.nextJenis++
	r.jenis[j.ID] = j
	return j, nil
}

func (r *memoryRepository) ListJenis(ctx context.Context) ([]*Jenis, error) {
	var list []*Jenis
	for _, j := range r.jenis {
		list = append(list, j)
	}
	return list, nil
}

func (r *memoryRepository) GetJenisByID(ctx context.Context, id int64) (*Jenis, error) {
	j, ok := r.jenis[id]
	if !ok {
		return nil, apperr.NotFound("カテゴリ種別が見つかりません")
	}
	return j, nil
}

func (r *memoryRepository) UpdateJenis(ctx context.Context, j *Jenis) (*Jenis, error) {
	if _, ok := r.jenis[j.ID]; !ok {
		return nil, apperr.NotFound("カテゴリ種別が見つかりません")
	}
	r.jenis[j.ID] = j
	return j, nil
}

func (r *memoryRepository) DeleteJenis(ctx context.Context, id int64) error {
	if _, ok := r.jenis[id]; !ok {
		return apperr.NotFound("カテゴリ種別が見つかりません")
	}
	delete(r.jenis, id)
	return nil
}

func (r *memoryRepository) CreateKategori(ctx context.Context, k *Kategori) (*Kategori, error) {
	k.ID = r.nextKat
	r.nextKat++
	r.kats[k.ID] = k
	return k, nil
}

func (r *memoryRepository) ListKategori(ctx context.Context) ([]*Kategori, error) {
	var list []*Kategori
	for _, k := range r.kats {
		list = append(list, k)
	}
	return list, nil
}

func (r *memoryRepository) GetKategoriByID(ctx context.Context, id int64) (*Kategori, error) {
	k, ok := r.kats[id]
	if !ok {
		return nil, apperr.NotFound("カテゴリが見つかりません")
	}
	return k, nil
}

func (r *memoryRepository) UpdateKategori(ctx context.Context, k *Kategori) (*Kategori, error) {
	if _, ok := r.kats[k.ID]; !ok {
		return nil, apperr.NotFound("カテゴリが見つかりません")
	}
	r.kats[k.ID] = k
	return k, nil
}

func (r *memoryRepository) DeleteKategori(ctx context.Context, id int64) error {
	if _, ok := r.kats[id]; !ok {
		return apperr.NotFound("カテゴリが見つかりません")
	}
	delete(r.kats, id)
	return nil
}

func newKategoriRouter(t *testing.T) (*gin.Engine, *memoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := newMemoryRepository()

	router := gin.New()
	router.Use(webx.ErrorMiddleware(nil))
	router.POST("/api/jenis-kategori", CreateJenisHandler(repo))
	router.GET("/api/jenis-kategori", ListJenisHandler(repo))
	router.GET("/api/jenis-kategori/:jenisId", GetJenisHandler(repo))
	router.PUT("/api/jenis-kategori/:jenisId", UpdateJenisHandler(repo))
	router.DELETE("/api/jenis-kategori/:jenisId", DeleteJenisHandler(repo))
	router.POST("/api/kategori", CreateKategoriHandler(repo))
	router.GET("/api/kategori", ListKategoriHandler(repo))
	router.GET("/api/kategori/:kategoriId", GetKategoriHandler(repo))
	router.PUT("/api/kategori/:kategoriId", UpdateKategoriHandler(repo))
	router.DELETE("/api/kategori/:kategoriId", DeleteKategoriHandler(repo))
	return router, repo
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateJenis(t *testing.T) {
	router, repo := newKategoriRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/jenis-kategori",
		map[string]any{"nama_jenis": "Makanan"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var body struct {
		Data Jenis `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.Name != "Makanan" {
		t.Fatalf("nama_jenis = %q, want Makanan", body.Data.Name)
	}
	if _, ok := repo.jenis[body.Data.ID]; !ok {
		t.Fatal("created jenis must be stored")
	}
}

func TestCreateJenisValidation(t *testing.T) {
	router, _ := newKategoriRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/jenis-kategori", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Errors["nama_jenis"]) == 0 {
		t.Fatalf("expected field error for nama_jenis, got: %v", body.Errors)
	}
}

func TestCreateKategori(t *testing.T) {
	router, repo := newKategoriRouter(t)
	jenis, _ := repo.CreateJenis(t.Context(), &Jenis{Name: "Makanan"})

	rec := doJSON(t, router, http.MethodPost, "/api/kategori", map[string]any{
		"id_jenis_kategori": jenis.ID,
		"nama_kategori":     "Sarapan",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var body struct {
		Data Kategori `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.JenisID != jenis.ID {
		t.Fatalf("id_jenis_kategori = %d, want %d", body.Data.JenisID, jenis.ID)
	}
	if body.Data.Name != "Sarapan" {
		t.Fatalf("nama_kategori = %q, want Sarapan", body.Data.Name)
	}
}

func TestCreateKategoriRejectsNonPositiveJenis(t *testing.T) {
	router, _ := newKategoriRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/kategori", map[string]any{
		"id_jenis_kategori": 0,
		"nama_kategori":     "Sarapan",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestUpdateKategori(t *testing.T) {
	router, repo := newKategoriRouter(t)
	jenis, _ := repo.CreateJenis(t.Context(), &Jenis{Name: "Makanan"})
	created, _ := repo.CreateKategori(t.Context(), &Kategori{JenisID: jenis.ID, Name: "Sarapan"})

	rec := doJSON(t, router, http.MethodPut, "/api/kategori/1", map[string]any{
		"id_jenis_kategori": jenis.ID,
		"nama_kategori":     "Makan Malam",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if repo.kats[created.ID].Name != "Makan Malam" {
		t.Fatalf("nama_kategori = %q, want Makan Malam", repo.kats[created.ID].Name)
	}
}

func TestGetKategoriNotFound(t *testing.T) {
	router, _ := newKategoriRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/kategori/99", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusNotFound, rec.Body.String())
	}
}

func TestDeleteJenis(t *testing.T) {
	router, repo := newKategoriRouter(t)
	created, _ := repo.CreateJenis(t.Context(), &Jenis{Name: "Makanan"})

	rec := doJSON(t, router, http.MethodDelete, "/api/jenis-kategori/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if _, ok := repo.jenis[created.ID]; ok {
		t.Fatal("deleted jenis must be removed")
	}
}
