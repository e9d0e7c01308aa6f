// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/api/health": {
            "get": {"tags": ["system"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Database unavailable"}}}
        },
        "/api/diagnostics/templates": {
            "get": {"tags": ["diagnostics"], "security": [{"BearerAuth": []}], "summary": "List active diagnostic templates", "responses": {"200": {"description": "OK"}}}
        },
        "/api/diagnostics/templates/{id}": {
            "get": {"tags": ["diagnostics"], "security": [{"BearerAuth": []}], "summary": "Get a template with its areas and questions",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/api/diagnostics/templates/slug/{slug}": {
            "get": {"tags": ["diagnostics"], "security": [{"BearerAuth": []}], "summary": "Get a template by slug",
                "parameters": [{"name": "slug", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/api/sessions": {
            "get": {"tags": ["sessions"], "security": [{"BearerAuth": []}], "summary": "List my diagnostic sessions",
                "parameters": [{"name": "status", "in": "query", "type": "string"}, {"name": "template_id", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["sessions"], "security": [{"BearerAuth": []}], "summary": "Start a diagnostic session",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartSessionRequest"}}],
                "responses": {"201": {"description": "Created"}, "404": {"description": "Template not found"}}}
        },
        "/api/sessions/compare": {
            "get": {"tags": ["sessions"], "security": [{"BearerAuth": []}], "summary": "Compare two completed sessions",
                "parameters": [{"name": "a", "in": "query", "required": true, "type": "string"}, {"name": "b", "in": "query", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Session not completed"}}}
        },
        "/api/sessions/{id}": {
            "get": {"tags": ["sessions"], "security": [{"BearerAuth": []}], "summary": "Get a session with its responses and progress",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["sessions"], "security": [{"BearerAuth": []}], "summary": "Cancel an in-progress session",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Not in progress"}}}
        },
        "/api/sessions/{id}/responses": {
            "post": {"tags": ["sessions"], "security": [{"BearerAuth": []}], "summary": "Answer one question",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResponseInput"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid value"}, "409": {"description": "Not in progress"}}}
        },
        "/api/sessions/{id}/responses/batch": {
            "post": {"tags": ["sessions"], "security": [{"BearerAuth": []}], "summary": "Answer several questions at once",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BatchResponseRequest"}}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/sessions/{id}/progress": {
            "get": {"tags": ["sessions"], "security": [{"BearerAuth": []}], "summary": "Completion progress of a session",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/sessions/{id}/finalize": {
            "post": {"tags": ["sessions"], "security": [{"BearerAuth": []}], "summary": "Finalize a session and compute its scores",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Not in progress"}}}
        },
        "/api/sessions/{id}/recommendations": {
            "get": {"tags": ["sessions"], "security": [{"BearerAuth": []}], "summary": "Recommendations of a completed session",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Not completed"}}},
            "post": {"tags": ["sessions"], "security": [{"BearerAuth": []}], "summary": "Regenerate the recommendations of a completed session",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Not completed"}}}
        },
        "/api/activity": {
            "get": {"tags": ["activity"], "security": [{"BearerAuth": []}], "summary": "My recent diagnostic activity",
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "StartSessionRequest": {
            "type": "object",
            "required": ["template_id"],
            "properties": {"template_id": {"type": "integer"}, "business_profile_id": {"type": "integer"}}
        },
        "ResponseInput": {
            "type": "object",
            "required": ["question_id"],
            "properties": {"question_id": {"type": "integer"}, "numeric_value": {"type": "number"}, "text_value": {"type": "string"}}
        },
        "BatchResponseRequest": {
            "type": "object",
            "required": ["responses"],
            "properties": {"responses": {"type": "array", "items": {"$ref": "#/definitions/ResponseInput"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Business Diagnostic API",
	Description:      "Scores business self-assessments and turns the results into a prioritized improvement plan.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
