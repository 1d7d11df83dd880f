package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CardWise API",
        "description": "Backend for the CardWise flashcard quiz application",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, registration and logout"},
        {"name": "Game", "description": "Public question pool"},
        {"name": "Profile", "description": "Contributor profile and questions"},
        {"name": "Users", "description": "User administration"},
        {"name": "Questions", "description": "Question moderation"},
        {"name": "Settings", "description": "Application settings"},
        {"name": "Exports", "description": "Question exports"}
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
                    "200": {"description": "Session cookie set", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "Account restricted"}
                }
            }
        },
        "/auth/admin/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate administrator",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session cookie set"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register contributor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Account created"},
                    "403": {"description": "Registrations closed"},
                    "409": {"description": "Email or username taken"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "Session revoked"}
                }
            }
        },
        "/game/questions": {
            "get": {
                "tags": ["Game"],
                "summary": "Active question pool",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/settings/public": {
            "get": {
                "tags": ["Settings"],
                "summary": "Public settings flags",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/profile/me": {
            "get": {
                "tags": ["Profile"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK"},
                    "302": {"description": "Redirect to /login without a session"}
                }
            }
        },
        "/profile/questions": {
            "get": {
                "tags": ["Profile"],
                "summary": "List own questions",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Profile"],
                "summary": "Create question (starts pending)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateQuestionRequest"}}
                ],
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/profile/questions/bulk": {
            "post": {
                "tags": ["Profile"],
                "summary": "Bulk import question;answer lines",
                "responses": {"201": {"description": "Imported"}}
            }
        },
        "/profile/questions/{id}": {
            "put": {
                "tags": ["Profile"],
                "summary": "Update own question",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the owner"}}
            },
            "delete": {
                "tags": ["Profile"],
                "summary": "Delete own question",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/profile/change-password": {
            "post": {
                "tags": ["Profile"],
                "summary": "Change password and end session",
                "responses": {"204": {"description": "Changed"}}
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create user",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/admin/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update user",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete user (questions detach)",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/admin/questions": {
            "get": {
                "tags": ["Questions"],
                "summary": "List questions with owners",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Questions"],
                "summary": "Create question (admin picks status)",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/admin/questions/{id}/approve": {
            "post": {
                "tags": ["Questions"],
                "summary": "Approve pending question",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "Now active"}, "409": {"description": "Not pending"}}
            }
        },
        "/admin/questions/{id}/reject": {
            "post": {
                "tags": ["Questions"],
                "summary": "Reject pending question",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "Now inactive"}, "409": {"description": "Not pending"}}
            }
        },
        "/admin/questions/export": {
            "post": {
                "tags": ["Exports"],
                "summary": "Export questions to CSV or PDF",
                "responses": {"201": {"description": "Signed download URL returned"}}
            }
        },
        "/admin/exports/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download export via signed token",
                "parameters": [{"name": "token", "in": "path", "type": "string", "required": true}],
                "responses": {"200": {"description": "File stream"}, "403": {"description": "Invalid or expired token"}}
            }
        },
        "/admin/settings": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get settings",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Update settings",
                "responses": {"200": {"description": "OK"}}
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
        "RegisterRequest": {
            "type": "object",
            "required": ["username", "email", "phone", "password"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateQuestionRequest": {
            "type": "object",
            "required": ["question", "answer"],
            "properties": {
                "question": {"type": "string"},
                "answer": {"type": "string"},
                "status": {"type": "string", "enum": ["active", "inactive", "pending"]}
            }
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
