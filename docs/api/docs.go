// Package api registers the OpenAPI document served at /swagger.
// The template is maintained by hand alongside the handler annotations.
package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/records": {
            "get": {"tags": ["Records"], "summary": "List sample records", "responses": {"200": {"description": "OK"}, "204": {"description": "No Content"}}},
            "post": {"tags": ["Records"], "summary": "Create a sample record", "responses": {"201": {"description": "Created"}}}
        },
        "/records/{id}": {
            "get": {"tags": ["Records"], "summary": "Get a sample record", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Records"], "summary": "Delete a sample record", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/records/{id}/form": {
            "patch": {"tags": ["Records"], "summary": "Apply form field changes", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/records/{id}/photos": {
            "post": {"tags": ["Photos"], "summary": "Upload photos", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/records/{id}/photos/{index}": {
            "delete": {"tags": ["Photos"], "summary": "Delete a photo", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "index", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK"}}}
        },
        "/records/{id}/photos/{index}/primary": {
            "post": {"tags": ["Photos"], "summary": "Set the primary photo", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "index", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK"}}}
        },
        "/records/{id}/color": {
            "get": {"tags": ["Photos"], "summary": "Colour summary of the active photo", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/records/{id}/pxrf": {
            "post": {"tags": ["Records"], "summary": "Import a pXRF CSV", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/records/{id}/export/markdown": {
            "get": {"tags": ["Exports"], "summary": "Export a record as Markdown", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/records/{id}/export/json": {
            "get": {"tags": ["Exports"], "summary": "Export a record as JSON", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/records/{id}/draft": {
            "get": {"tags": ["Exports"], "summary": "Build the local quick-draft narrative", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/boreholes": {
            "get": {"tags": ["Boreholes"], "summary": "List borehole logs", "responses": {"200": {"description": "OK"}, "204": {"description": "No Content"}}},
            "post": {"tags": ["Boreholes"], "summary": "Create a borehole log", "responses": {"201": {"description": "Created"}}}
        },
        "/boreholes/{id}": {
            "get": {"tags": ["Boreholes"], "summary": "Get a borehole log", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Boreholes"], "summary": "Update collar and naming fields", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Boreholes"], "summary": "Delete a borehole log", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/boreholes/{id}/intervals": {
            "post": {"tags": ["Boreholes"], "summary": "Append a depth interval", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/boreholes/{id}/intervals/{intervalId}": {
            "delete": {"tags": ["Boreholes"], "summary": "Delete a depth interval by id", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "intervalId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/boreholes/{id}/export/csv": {
            "get": {"tags": ["Exports"], "summary": "Export a borehole log as CSV", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/describe": {
            "post": {"tags": ["Describe"], "summary": "Generate an AI field description", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}, "502": {"description": "Bad Gateway"}, "504": {"description": "Gateway Timeout"}}}
        },
        "/health": {
            "get": {"tags": ["Health"], "summary": "Service health", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "GeoDescribe API",
	Description:      "Field data-collection backend: sample and borehole records, photo processing, pXRF statistics, exports, and AI field descriptions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
