package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Cineboard API",
        "description": "Film production scheduling service: scene catalog, shoot-day synthesis, calendar views, and call sheet exports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Dashboard login"},
        {"name": "Scenes", "description": "Scene catalog management"},
        {"name": "Schedule", "description": "Shooting schedule generation and optimization"},
        {"name": "Calendar", "description": "Month grid and day views"},
        {"name": "Editor", "description": "Event edit sessions"},
        {"name": "CallSheets", "description": "Call sheet exports and downloads"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scenes": {
            "get": {
                "tags": ["Scenes"],
                "summary": "List scenes",
                "parameters": [
                    {"name": "location", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "vfx", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scenes/import": {
            "post": {
                "tags": ["Scenes"],
                "summary": "Bulk import scenes",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportScenesRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/scenes/{id}/status": {
            "patch": {
                "tags": ["Scenes"],
                "summary": "Update scene status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSceneStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/clusters": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Location cluster breakdown",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/generate": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Generate shooting schedule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Generation already in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Scene catalog empty", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/optimize": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Optimize schedule via remote service",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OptimizeScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Optimizer failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/events": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List schedule events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/{year}/{month}": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Calendar month grid",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"},
                    {"name": "month", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/day": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Events for a single day",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/edit": {
            "post": {
                "tags": ["Editor"],
                "summary": "Begin editing an event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/draft": {
            "patch": {
                "tags": ["Editor"],
                "summary": "Update edit session draft",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateDraftRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No open session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/save": {
            "post": {
                "tags": ["Editor"],
                "summary": "Save edit session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No open session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/cancel": {
            "post": {
                "tags": ["Editor"],
                "summary": "Cancel edit session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No content"},
                    "412": {"description": "No open session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/call-sheet": {
            "post": {
                "tags": ["CallSheets"],
                "summary": "Generate a call sheet",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["text", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/call-sheets/export": {
            "post": {
                "tags": ["CallSheets"],
                "summary": "Batch export call sheets",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["text", "pdf"]}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/call-sheets/download": {
            "get": {
                "tags": ["CallSheets"],
                "summary": "Download a call sheet",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "produces": ["application/octet-stream"],
                "responses": {
                    "200": {"description": "File stream"},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ImportScenesRequest": {
            "type": "object",
            "required": ["scenes"],
            "properties": {
                "scenes": {"type": "array", "items": {"$ref": "#/definitions/SceneInput"}}
            }
        },
        "SceneInput": {
            "type": "object",
            "required": ["number", "title", "location"],
            "properties": {
                "number": {"type": "integer"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "estimated_duration": {"type": "number"},
                "characters": {"type": "array", "items": {"type": "string"}},
                "props": {"type": "array", "items": {"type": "string"}},
                "vfx": {"type": "boolean"}
            }
        },
        "UpdateSceneStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["scheduled", "in_progress", "completed", "delayed"]}
            }
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["start_date"],
            "properties": {
                "start_date": {"type": "string", "example": "2026-03-01"}
            }
        },
        "OptimizeScheduleRequest": {
            "type": "object",
            "properties": {
                "actor_constraints": {"type": "object"},
                "location_preferences": {"type": "object"}
            }
        },
        "UpdateDraftRequest": {
            "type": "object",
            "properties": {
                "location": {"type": "string"},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "18:00"},
                "status": {"type": "string"},
                "notes": {"type": "string"},
                "scene_durations": {"type": "object"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "warning": {"type": "string"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
