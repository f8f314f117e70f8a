package webx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/resep-api/internal/apperr"
)

func serveWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorMiddleware(nil))
	router.GET("/", func(c *gin.Context) {
		_ = c.Error(err)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestErrorMiddlewareStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperr.ValidationMessage("bad input"), http.StatusBadRequest},
		{"invalid credentials", apperr.InvalidCredentials(), http.StatusUnauthorized},
		{"invalid token", apperr.InvalidToken(nil), http.StatusUnauthorized},
		{"missing token", apperr.MissingToken(), http.StatusUnauthorized},
		{"not found", apperr.NotFound("missing"), http.StatusNotFound},
		{"conflict", apperr.Conflict("duplicate"), http.StatusConflict},
		{"corrupt credential", apperr.CorruptCredential(errors.New("bad hash")), http.StatusInternalServerError},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError},
		{"unknown error", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serveWithError(t, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}

			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["errors"] == nil {
				t.Fatal("expected errors in body")
			}
		})
	}
}

func TestErrorMiddlewareValidationFields(t *testing.T) {
	rec := serveWithError(t, apperr.Validation(map[string][]string{
		"email": {"必須項目です"},
	}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Errors["email"]) != 1 {
		t.Fatalf("expected field-level detail, got: %v", body.Errors)
	}
}

func TestErrorMiddlewareDoesNotOverrideWrittenResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorMiddleware(nil))
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		_ = c.Error(errors.New("late error"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestNotFoundHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.NoRoute(NotFoundHandler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		OK(c, "Success get data", gin.H{"value": 1})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != float64(200) || body["code"] != "OK" {
		t.Fatalf("unexpected envelope: %v", body)
	}
	if body["message"] == "" || body["data"] == nil {
		t.Fatalf("envelope must carry message and data: %v", body)
	}
}
