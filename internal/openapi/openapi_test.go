package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"boilerplate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testApp() models.AppConfig {
	return models.AppConfig{Name: "FastAPI Boilerplate", Version: "1.0.0", Environment: "development"}
}

func TestBuild(t *testing.T) {
	doc := Build(testApp())

	assert.Equal(t, Version, doc.OpenAPI)
	assert.Equal(t, "FastAPI Boilerplate", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.Equal(t, "MIT", doc.Info.License.Name)
	assert.Equal(t, "support@example.com", doc.Info.Contact.Email)
	assert.Equal(t, "https://example.com/terms/", doc.Info.TermsOfService)

	require.Len(t, doc.Tags, 3)
	assert.Equal(t, []string{"root", "health", "status"}, []string{doc.Tags[0].Name, doc.Tags[1].Name, doc.Tags[2].Name})

	for _, path := range []string{"/", "/health", "/status"} {
		item, ok := doc.Paths[path]
		require.True(t, ok, path)
		require.NotNil(t, item.Get, path)
		resp, ok := item.Get.Responses["200"]
		require.True(t, ok, path)
		media := resp.Content["application/json"]
		require.NotNil(t, media.Schema)
		_, ok = doc.Components.Schemas[media.Schema.Ref[len("#/components/schemas/"):]]
		assert.True(t, ok, "schema for %s must be defined", path)
	}

	status := doc.Components.Schemas["StatusResponse"]
	assert.ElementsMatch(t, []string{"status", "application", "version", "environment", "timestamp"}, status.Required)
}

func TestHandler_JSON(t *testing.T) {
	h := NewHandler(testApp())

	rec := httptest.NewRecorder()
	h.ServeJSON(rec, httptest.NewRequest(http.MethodGet, JSONPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.Equal(t, "3.0.3", schema["openapi"])
	assert.Contains(t, schema, "info")
	assert.Contains(t, schema, "paths")

	paths := schema["paths"].(map[string]interface{})
	assert.Contains(t, paths, "/")
	assert.Contains(t, paths, "/health")
	assert.Contains(t, paths, "/status")

	example := paths["/health"].(map[string]interface{})["get"].(map[string]interface{})["responses"].(map[string]interface{})["200"].(map[string]interface{})["content"].(map[string]interface{})["application/json"].(map[string]interface{})["example"].(map[string]interface{})
	assert.Equal(t, "healthy", example["status"])
}

func TestHandler_YAML(t *testing.T) {
	h := NewHandler(testApp())

	rec := httptest.NewRecorder()
	h.ServeYAML(rec, httptest.NewRequest(http.MethodGet, YAMLPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

	var schema map[string]interface{}
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &schema))
	assert.Equal(t, "3.0.3", schema["openapi"])
	info := schema["info"].(map[string]interface{})
	assert.Equal(t, "FastAPI Boilerplate", info["title"])

	ref := schema["paths"].(map[string]interface{})["/status"].(map[string]interface{})["get"].(map[string]interface{})["responses"].(map[string]interface{})["200"].(map[string]interface{})["content"].(map[string]interface{})["application/json"].(map[string]interface{})["schema"].(map[string]interface{})["$ref"]
	assert.Equal(t, "#/components/schemas/StatusResponse", ref)
}

func TestHandler_Pages(t *testing.T) {
	h := NewHandler(testApp())

	rec := httptest.NewRecorder()
	h.ServeDocs(rec, httptest.NewRequest(http.MethodGet, DocsPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "swagger-ui")
	assert.Contains(t, rec.Body.String(), "openapi.json")
	assert.Contains(t, rec.Body.String(), "<title>FastAPI Boilerplate - Swagger UI</title>")

	rec = httptest.NewRecorder()
	h.ServeRedoc(rec, httptest.NewRequest(http.MethodGet, RedocPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `spec-url="/openapi.json"`)
	assert.Contains(t, rec.Body.String(), "redoc.standalone.js")
}

func TestHandler_DocumentCached(t *testing.T) {
	h := NewHandler(testApp())

	first, err := h.Document()
	require.NoError(t, err)
	second, err := h.Document()
	require.NoError(t, err)

	assert.Same(t, &first[0], &second[0])
}
