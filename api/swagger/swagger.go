package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Schedule LIFF API",
        "description": "Class timetable assistant for the LINE LIFF app and chat bot",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Schedule", "description": "Intent answers for the active term"},
        {"name": "Subjects", "description": "Recurring class rows"},
        {"name": "Holidays", "description": "Holidays and class cancellations"},
        {"name": "Terms", "description": "Academic terms"},
        {"name": "Export", "description": "Timetable downloads"},
        {"name": "Auth", "description": "User scoped tokens"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness probe",
                "security": [],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness probe",
                "security": [],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Store unavailable"}}
            }
        },
        "/schedule/query": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Resolve a schedule intent",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScheduleQuery"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/term/resolve": {
            "get": {
                "tags": ["Terms"],
                "summary": "Resolve the active academic term",
                "parameters": [{"name": "date", "in": "query", "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TermResolveResponse"}},
                    "404": {"description": "No term", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms": {
            "get": {
                "tags": ["Terms"],
                "summary": "List academic terms",
                "parameters": [
                    {"name": "academic_year", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Terms"],
                "summary": "Create an academic term (API key only)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTermRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Overlapping term", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Add a class row to the active term",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectInput"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/subjects/list": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List class rows of the active term",
                "parameters": [{"name": "user_id", "in": "query", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/subjects/get": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Get one class row",
                "parameters": [
                    {"name": "user_id", "in": "query", "type": "string", "required": true},
                    {"name": "id", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/subjects/update": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Update a class row",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectInput"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/subjects/delete": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Delete a class row",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IDRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/holidays": {
            "post": {
                "tags": ["Holidays"],
                "summary": "Record a holiday or cancel a class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HolidayInput"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/holidays/list": {
            "get": {
                "tags": ["Holidays"],
                "summary": "List holidays and cancellations in a window",
                "parameters": [
                    {"name": "user_id", "in": "query", "type": "string", "required": true},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/holidays/delete": {
            "post": {
                "tags": ["Holidays"],
                "summary": "Delete a holiday or cancellation",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IDRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/schedule/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the active term timetable",
                "produces": ["text/csv", "application/pdf", "text/calendar"],
                "parameters": [
                    {"name": "user_id", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "ics"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/schedule/export/share": {
            "post": {
                "tags": ["Export"],
                "summary": "Create a signed download link",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ShareRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedule/export/shared/{token}": {
            "get": {
                "tags": ["Export"],
                "summary": "Fetch a shared export",
                "security": [],
                "parameters": [{"name": "token", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "File"}, "404": {"description": "Link expired or invalid"}}
            }
        },
        "/auth/token": {
            "post": {
                "tags": ["Auth"],
                "summary": "Issue a token scoped to one LINE user (API key only)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ShareRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "ScheduleQuery": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "intent": {"type": "string"},
                "date": {"type": "string"},
                "weekday": {"type": "string"},
                "modifier": {"type": "string"}
            },
            "required": ["user_id"]
        },
        "ScheduleResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "type": {"type": "string"},
                "mode": {"type": "string"},
                "view": {"type": "string"},
                "date": {"type": "string"},
                "today": {"type": "string"},
                "semester": {"type": "string"},
                "meta": {"type": "object"},
                "week": {"type": "object"},
                "holiday": {"type": "object"},
                "data": {"type": "array", "items": {"type": "object"}},
                "message": {"type": "string"},
                "extra": {"type": "object"},
                "warn": {"type": "string"}
            }
        },
        "TermResolveResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean"},
                "today": {"type": "string"},
                "academic_year": {"type": "string"},
                "term": {"type": "integer"},
                "semester": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"}
            }
        },
        "CreateTermRequest": {
            "type": "object",
            "properties": {
                "academic_year": {"type": "string"},
                "term": {"type": "integer"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"}
            },
            "required": ["academic_year", "term", "start_date", "end_date"]
        },
        "SubjectInput": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "user_id": {"type": "string"},
                "day": {"type": "string"},
                "subject_code": {"type": "string"},
                "subject_name": {"type": "string"},
                "section": {"type": "string"},
                "type": {"type": "string"},
                "room": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "instructor": {"type": "string"}
            }
        },
        "HolidayInput": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "type": {"type": "string", "enum": ["holiday", "cancel"]},
                "subject_id": {"type": "string"},
                "all_day": {"type": "boolean"},
                "start_at": {"type": "string"},
                "end_at": {"type": "string"},
                "title": {"type": "string"},
                "note": {"type": "string"}
            },
            "required": ["user_id", "type", "start_at"]
        },
        "IDRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "id": {"type": "integer"}
            },
            "required": ["user_id", "id"]
        },
        "ShareRequest": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "format": {"type": "string"}
            },
            "required": ["user_id"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "ok": {"type": "boolean"},
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
