package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"boilerplate/internal/models"

	"gopkg.in/yaml.v3"
)

const (
	JSONPath  = "/openapi.json"
	YAMLPath  = "/openapi.yaml"
	DocsPath  = "/docs"
	RedocPath = "/redoc"
)

// Handler serves the document and the two documentation pages. The
// document is built and rendered on first use and cached afterwards.
type Handler struct {
	app models.AppConfig

	once     sync.Once
	jsonBody []byte
	yamlBody []byte
	docsBody []byte
	redoc    []byte
	err      error
}

// NewHandler creates a Handler for the given application identity.
func NewHandler(app models.AppConfig) *Handler {
	return &Handler{app: app}
}

func (h *Handler) render() error {
	h.once.Do(func() {
		doc := Build(h.app)

		h.jsonBody, h.err = json.Marshal(doc)
		if h.err != nil {
			h.err = fmt.Errorf("failed to render OpenAPI JSON: %w", h.err)
			return
		}

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if h.err = enc.Encode(doc); h.err != nil {
			h.err = fmt.Errorf("failed to render OpenAPI YAML: %w", h.err)
			return
		}
		if h.err = enc.Close(); h.err != nil {
			h.err = fmt.Errorf("failed to render OpenAPI YAML: %w", h.err)
			return
		}
		h.yamlBody = buf.Bytes()

		page := pageData{Title: h.app.Name, SpecURL: JSONPath}
		if h.docsBody, h.err = renderPage(swaggerTemplate, page); h.err != nil {
			return
		}
		h.redoc, h.err = renderPage(redocTemplate, page)
	})
	return h.err
}

// Document returns the cached JSON rendering.
func (h *Handler) Document() ([]byte, error) {
	if err := h.render(); err != nil {
		return nil, err
	}
	return h.jsonBody, nil
}

func (h *Handler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	h.serve(w, "application/json", func() []byte { return h.jsonBody })
}

func (h *Handler) ServeYAML(w http.ResponseWriter, r *http.Request) {
	h.serve(w, "application/yaml", func() []byte { return h.yamlBody })
}

func (h *Handler) ServeDocs(w http.ResponseWriter, r *http.Request) {
	h.serve(w, "text/html; charset=utf-8", func() []byte { return h.docsBody })
}

func (h *Handler) ServeRedoc(w http.ResponseWriter, r *http.Request) {
	h.serve(w, "text/html; charset=utf-8", func() []byte { return h.redoc })
}

func (h *Handler) serve(w http.ResponseWriter, contentType string, body func() []byte) {
	if err := h.render(); err != nil {
		http.Error(w, "documentation unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body())
}

type pageData struct {
	Title   string
	SpecURL string
}

func renderPage(tmpl *template.Template, data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s page: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

var swaggerTemplate = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html>
<head>
<link type="text/css" rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
<title>{{.Title}} - Swagger UI</title>
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
const ui = SwaggerUIBundle({
  url: '{{.SpecURL}}',
  dom_id: '#swagger-ui',
  layout: 'BaseLayout',
  deepLinking: true,
  showExtensions: true,
  showCommonExtensions: true,
  presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
})
</script>
</body>
</html>
`))

var redocTemplate = template.Must(template.New("redoc").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Title}} - ReDoc</title>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1">
<link href="https://fonts.googleapis.com/css?family=Montserrat:300,400,700|Roboto:300,400,700" rel="stylesheet">
<style>
  body {
    margin: 0;
    padding: 0;
  }
</style>
</head>
<body>
<noscript>
  ReDoc requires Javascript to function. Please enable it to browse the documentation.
</noscript>
<redoc spec-url="{{.SpecURL}}"></redoc>
<script src="https://cdn.jsdelivr.net/npm/redoc@2/bundles/redoc.standalone.js"></script>
</body>
</html>
`))
