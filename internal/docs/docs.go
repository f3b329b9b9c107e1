// Package docs registers the OpenAPI description served at /swagger.
package docs

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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Create an account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Open a session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Close the session", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/auth/me": {
            "get": {"tags": ["auth"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/habits": {
            "get": {
                "tags": ["habits"],
                "summary": "Habits of the caller, newest first",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Habit"}}}}
            },
            "post": {
                "tags": ["habits"],
                "summary": "Add a habit",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/createHabitRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/habits/{id}": {
            "get": {"tags": ["habits"], "summary": "One habit", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["habits"], "summary": "Edit a habit", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}},
            "delete": {"tags": ["habits"], "summary": "Remove a habit", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}
        },
        "/habits/{id}/toggle": {
            "post": {"tags": ["habits"], "summary": "Flip today's completion", "security": [{"BearerAuth": []}], "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/screen": {
            "get": {"tags": ["screen"], "summary": "Current screen view model", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/screen/start": {
            "post": {"tags": ["screen"], "summary": "Pick the first screen of the session", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/screen/navigate": {
            "post": {"tags": ["screen"], "summary": "Switch screen", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/screen/onboarding/complete": {
            "post": {"tags": ["screen"], "summary": "Finish onboarding", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/badges": {
            "get": {"tags": ["badges"], "summary": "Badges with their earned state", "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "category", "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/suggestions": {
            "get": {"tags": ["suggestions"], "summary": "Built-in suggestions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/suggestions/generate": {
            "post": {"tags": ["suggestions"], "summary": "AI habit suggestions for a goal", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/suggestions/adopt": {
            "post": {"tags": ["suggestions"], "summary": "Create a habit from a suggestion", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}}}
        },
        "/notifications/permission": {
            "get": {"tags": ["notifications"], "summary": "Notification permission", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["notifications"], "summary": "Record the notification decision", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/notifications/subscriptions": {
            "post": {"tags": ["notifications"], "summary": "Register a push endpoint", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}},
            "delete": {"tags": ["notifications"], "summary": "Remove a push endpoint", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/notifications/vapid-key": {
            "get": {"tags": ["notifications"], "summary": "VAPID public key", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/stats/weekly": {
            "get": {"tags": ["stats"], "summary": "Completion statistics for a date range", "security": [{"BearerAuth": []}], "parameters": [{"in": "query", "name": "start_date", "type": "string"}, {"in": "query", "name": "end_date", "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/profile": {
            "get": {"tags": ["stats"], "summary": "Profile statistics", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "registerRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "display_name": {"type": "string"},
                "timezone": {"type": "string"}
            }
        },
        "loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "createHabitRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "emoji": {"type": "string"},
                "category": {"type": "string"},
                "frequency": {"type": "string"},
                "reminder_time": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "domain.Habit": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "name": {"type": "string"},
                "emoji": {"type": "string"},
                "category": {"type": "string"},
                "frequency": {"type": "string"},
                "reminder_time": {"type": "string"},
                "notes": {"type": "string"},
                "streak": {"type": "integer"},
                "completed_today": {"type": "boolean"},
                "version": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "TrackLoom API",
	Description:      "Habit tracking with streaks, badges, reminders and AI suggestions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
