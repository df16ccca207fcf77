package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const specPath = "../../api/announcements-openapi.yaml"

func loadValidator(t *testing.T) *OpenAPIValidator {
	t.Helper()
	doc, err := LoadOpenAPIDocument(specPath)
	require.NoError(t, err)

	validator, err := NewOpenAPIValidator(doc)
	require.NoError(t, err)
	return validator
}

// validatedRouter registers the announcement paths behind the validator
// with stub handlers, so the middleware can be tested in isolation.
func validatedRouter(t *testing.T, validator *OpenAPIValidator, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	group := r.Group("/announcements")
	group.Use(validator.Middleware())
	group.GET("", handler)
	group.POST("", handler)
	group.GET("/:id", handler)
	return r
}

func validFullBody() gin.H {
	return gin.H{
		"id":              uuid.NewString(),
		"title":           "t",
		"content":         "c",
		"publicationDate": "01/01/2026 10:00",
		"lastUpdate":      "01/01/2026 10:00",
		"categories":      []string{"CITY"},
	}
}

func TestLoadOpenAPIDocumentMissing(t *testing.T) {
	_, err := LoadOpenAPIDocument(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "OpenAPI YAML not found")
}

func TestRequestValidationRejectsMissingFields(t *testing.T) {
	validator := loadValidator(t)
	r := validatedRouter(t, validator, func(c *gin.Context) {
		t.Fatal("handler must not run for invalid requests")
	})

	body, _ := json.Marshal(gin.H{"title": "no content"})
	req := httptest.NewRequest(http.MethodPost, "/announcements", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Request validation failed", resp["message"])
	require.NotEmpty(t, resp["errors"])
}

func TestRequestValidationRejectsBadDatePattern(t *testing.T) {
	validator := loadValidator(t)
	r := validatedRouter(t, validator, func(c *gin.Context) {
		t.Fatal("handler must not run for invalid requests")
	})

	body, _ := json.Marshal(gin.H{
		"title":           "t",
		"content":         "c",
		"publicationDate": "2026-01-01 10:00",
		"categories":      []string{"CITY"},
	})
	req := httptest.NewRequest(http.MethodPost, "/announcements", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestValidationRejectsUnknownSortValue(t *testing.T) {
	validator := loadValidator(t)
	r := validatedRouter(t, validator, func(c *gin.Context) {
		t.Fatal("handler must not run for invalid requests")
	})

	req := httptest.NewRequest(http.MethodGet, "/announcements?sort=content", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidRequestAndResponsePassThrough(t *testing.T) {
	validator := loadValidator(t)
	r := validatedRouter(t, validator, func(c *gin.Context) {
		c.JSON(http.StatusCreated, validFullBody())
	})

	body, _ := json.Marshal(gin.H{
		"title":           "t",
		"content":         "c",
		"publicationDate": "01/01/2026 10:00",
		"categories":      []string{"CITY"},
	})
	req := httptest.NewRequest(http.MethodPost, "/announcements", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "t", resp["title"])
}

func TestPanickingHandlerStillReports500(t *testing.T) {
	validator := loadValidator(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(gin.Recovery())
	group := r.Group("/announcements")
	group.Use(validator.Middleware())
	group.GET("/:id", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/announcements/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// The recovery middleware must reach the real writer, not the
	// validation buffer.
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNonConformingResponseIsReplacedWith500(t *testing.T) {
	validator := loadValidator(t)
	r := validatedRouter(t, validator, func(c *gin.Context) {
		// Missing required fields of the Announcement schema.
		c.JSON(http.StatusOK, gin.H{"id": uuid.NewString()})
	})

	req := httptest.NewRequest(http.MethodGet, "/announcements/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Response validation failed", resp["message"])
}
