// Package docs holds the swagger specification served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o cmd/api/docs
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
    "paths": {
        "/documents": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Upload a source document",
                "parameters": [
                    {
                        "type": "file",
                        "name": "document",
                        "in": "formData",
                        "required": true,
                        "description": "Document file (.txt, .md, .html, .pdf, .docx)"
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.IngestResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/quizzes": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quizzes"],
                "summary": "Build a quiz from an ingested corpus",
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.BuildQuizRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.BuildQuizResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/answer": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Answer the current question",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "Session ID"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionStateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/advance": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Advance to the next question",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "Session ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionStateResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/sessions/{id}/result": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get the session scoreboard",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "Session ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionResultResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.IngestResponse": {
            "type": "object",
            "properties": {
                "corpus_id": {"type": "string"},
                "segment_count": {"type": "integer"}
            }
        },
        "dto.BuildQuizRequest": {
            "type": "object",
            "properties": {
                "corpus_id": {"type": "string"},
                "topic": {"type": "string"},
                "num_questions": {"type": "integer"}
            }
        },
        "dto.BuildQuizResponse": {
            "type": "object",
            "properties": {
                "quiz_id": {"type": "string"},
                "topic": {"type": "string"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/dto.QuestionView"}},
                "shortfall": {"type": "integer"},
                "session_id": {"type": "string"},
                "session_token": {"type": "string"}
            }
        },
        "dto.QuestionView": {
            "type": "object",
            "properties": {
                "prompt": {"type": "string"},
                "choices": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.AnswerRequest": {
            "type": "object",
            "properties": {
                "choice_index": {"type": "integer"}
            }
        },
        "dto.SessionStateResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "current_index": {"type": "integer"},
                "finished": {"type": "boolean"}
            }
        },
        "dto.QuestionResult": {
            "type": "object",
            "properties": {
                "prompt": {"type": "string"},
                "chosen_index": {"type": "integer"},
                "correct_index": {"type": "integer"},
                "correct": {"type": "boolean"},
                "explanation": {"type": "string"}
            }
        },
        "dto.SessionResultResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "finished": {"type": "boolean"},
                "score": {"type": "integer"},
                "total": {"type": "integer"},
                "questions": {"type": "array", "items": {"$ref": "#/definitions/dto.QuestionResult"}}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object", "additionalProperties": true}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer YOUR_SESSION_TOKEN' to authorize."
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Quiz Builder API",
	Description:      "Builds multiple-choice quizzes from uploaded documents and runs quiz sessions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
