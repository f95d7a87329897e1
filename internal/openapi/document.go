// Package openapi describes the HTTP API as an OpenAPI 3.0 document and
// serves it along with the Swagger UI and ReDoc pages.
package openapi

import "boilerplate/internal/models"

const Version = "3.0.3"

type Document struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       Info                `json:"info" yaml:"info"`
	Tags       []Tag               `json:"tags,omitempty" yaml:"tags,omitempty"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components Components          `json:"components" yaml:"components"`
}

type Info struct {
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	Version        string   `json:"version" yaml:"version"`
	TermsOfService string   `json:"termsOfService,omitempty" yaml:"termsOfService,omitempty"`
	Contact        *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`
	License        *License `json:"license,omitempty" yaml:"license,omitempty"`
}

type Contact struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

type License struct {
	Name string `json:"name" yaml:"name"`
}

type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type PathItem struct {
	Get *Operation `json:"get,omitempty" yaml:"get,omitempty"`
}

type Operation struct {
	Tags        []string            `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string              `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string              `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type MediaType struct {
	Schema  *Schema     `json:"schema,omitempty" yaml:"schema,omitempty"`
	Example interface{} `json:"example,omitempty" yaml:"example,omitempty"`
}

type Schema struct {
	Ref         string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Title       string             `json:"title,omitempty" yaml:"title,omitempty"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Example     interface{}        `json:"example,omitempty" yaml:"example,omitempty"`
}

type Components struct {
	Schemas map[string]*Schema `json:"schemas" yaml:"schemas"`
}

const description = `A production-ready service boilerplate with:

* **Health Checks**: Monitor application health
* **Status**: Get detailed application status
* **Observability**: Integrated OpenTelemetry for tracing and metrics

## Features

* Automatic API documentation
* OpenTelemetry integration for distributed tracing
* Prometheus metrics export
* Health and status endpoints
`

const exampleTimestamp = "2024-01-01T00:00:00.000000"

// Build assembles the document for the given application identity.
func Build(app models.AppConfig) *Document {
	root := models.RootResponse{Message: "Welcome to " + app.Name, Docs: "/docs", Health: "/health", Status: "/status"}
	health := models.HealthResponse{Status: "healthy", Timestamp: exampleTimestamp}
	status := models.StatusResponse{
		Status:      "operational",
		Application: app.Name,
		Version:     app.Version,
		Environment: app.Environment,
		Timestamp:   exampleTimestamp,
	}

	return &Document{
		OpenAPI: Version,
		Info: Info{
			Title:          app.Name,
			Description:    description,
			Version:        app.Version,
			TermsOfService: "https://example.com/terms/",
			Contact:        &Contact{Name: "API Support", Email: "support@example.com"},
			License:        &License{Name: "MIT"},
		},
		Tags: []Tag{
			{Name: "root", Description: "Root endpoint providing API information and available routes"},
			{Name: "health", Description: "Health check endpoints for monitoring and observability"},
			{Name: "status", Description: "Status endpoints providing detailed application information"},
		},
		Paths: map[string]PathItem{
			"/": {Get: &Operation{
				Tags:        []string{"root"},
				Summary:     "Root endpoint",
				Description: "Returns welcome message and available API endpoints",
				OperationID: "root",
				Responses:   jsonResponse("Successful response with API information", "RootResponse", root),
			}},
			"/health": {Get: &Operation{
				Tags:        []string{"health"},
				Summary:     "Health check",
				Description: "Health check endpoint for monitoring application health and metrics tracking",
				OperationID: "health_check",
				Responses:   jsonResponse("Application is healthy", "HealthResponse", health),
			}},
			"/status": {Get: &Operation{
				Tags:        []string{"status"},
				Summary:     "Status check",
				Description: "Detailed status endpoint providing comprehensive application information",
				OperationID: "status_check",
				Responses:   jsonResponse("Detailed application status", "StatusResponse", status),
			}},
		},
		Components: Components{Schemas: map[string]*Schema{
			"RootResponse": object("RootResponse", "Root endpoint response schema", root, map[string]string{
				"message": "Welcome message",
				"docs":    "API documentation endpoint",
				"health":  "Health check endpoint",
				"status":  "Status endpoint",
			}, "message", "docs", "health", "status"),
			"HealthResponse": object("HealthResponse", "Health check response schema", health, map[string]string{
				"status":    "Health status",
				"timestamp": "ISO format timestamp",
			}, "status", "timestamp"),
			"StatusResponse": object("StatusResponse", "Status check response schema", status, map[string]string{
				"status":      "Operational status",
				"application": "Application name",
				"version":     "Application version",
				"environment": "Current environment",
				"timestamp":   "ISO format timestamp",
			}, "status", "application", "version", "environment", "timestamp"),
		}},
	}
}

func jsonResponse(desc, schema string, example interface{}) map[string]Response {
	return map[string]Response{
		"200": {
			Description: desc,
			Content: map[string]MediaType{
				"application/json": {
					Schema:  &Schema{Ref: "#/components/schemas/" + schema},
					Example: example,
				},
			},
		},
	}
}

// object builds a schema whose properties are all required strings.
func object(title, desc string, example interface{}, props map[string]string, required ...string) *Schema {
	s := &Schema{
		Title:       title,
		Type:        "object",
		Description: desc,
		Properties:  make(map[string]*Schema, len(props)),
		Required:    required,
		Example:     example,
	}
	for name, d := range props {
		s.Properties[name] = &Schema{Type: "string", Description: d}
	}
	return s
}
