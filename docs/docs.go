// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/api/main.go`.
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
        "/auth/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register an admin account",
                "parameters": [
                    {"description": "Account credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.SignupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Account"}},
                    "400": {"description": "Invalid input or username taken", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "Registration closed", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "description": "Authenticate and receive the session cookie. Five consecutive failures deactivate the account.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Admin login",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Login successful", "schema": {"$ref": "#/definitions/models.LoginResponse"}},
                    "400": {"description": "Invalid request format", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Rejected login", "schema": {"$ref": "#/definitions/models.LoginErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/verify-token": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Verify the session cookie",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VerifyTokenResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}}
                }
            }
        },
        "/auth/profile/{id}": {
            "delete": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Delete an admin account",
                "parameters": [
                    {"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "400": {"description": "Invalid account ID", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Account not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts",
                "parameters": [
                    {"type": "string", "description": "Search term", "name": "search", "in": "query"},
                    {"type": "string", "default": "all", "description": "Search field (all, title, content)", "name": "field", "in": "query"},
                    {"type": "string", "description": "First creation day (YYYY-MM-DD)", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "Last creation day (YYYY-MM-DD)", "name": "end_date", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PostPage"}},
                    "400": {"description": "Invalid query", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"CookieAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create a post",
                "parameters": [
                    {"description": "Post", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreatePostRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Post"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/posts/{id}": {
            "get": {
                "description": "Returns a post and counts the view",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Post"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"CookieAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Update a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdatePostRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Post"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Delete a post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/contacts": {
            "get": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["contacts"],
                "summary": "List inquiries",
                "parameters": [
                    {"type": "string", "description": "Search term", "name": "search", "in": "query"},
                    {"type": "string", "default": "name", "description": "Search field (name, email, phone, message)", "name": "field", "in": "query"},
                    {"type": "string", "default": "all", "description": "Status filter (all, pending, in progress, completed)", "name": "status", "in": "query"},
                    {"type": "string", "description": "First creation day (YYYY-MM-DD)", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "Last creation day (YYYY-MM-DD)", "name": "end_date", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "description": "Page size", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ContactPage"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["contacts"],
                "summary": "Submit an inquiry",
                "parameters": [
                    {"description": "Inquiry", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateContactRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Contact"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/contacts/{id}": {
            "put": {
                "security": [{"CookieAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["contacts"],
                "summary": "Change an inquiry's status",
                "parameters": [
                    {"type": "string", "description": "Inquiry ID", "name": "id", "in": "path", "required": true},
                    {"description": "New status", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateContactStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Contact"}},
                    "404": {"description": "Inquiry not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"CookieAuth": []}],
                "produces": ["application/json"],
                "tags": ["contacts"],
                "summary": "Delete an inquiry",
                "parameters": [
                    {"type": "string", "description": "Inquiry ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "404": {"description": "Inquiry not found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/upload": {
            "post": {
                "security": [{"CookieAuth": []}],
                "description": "Returns a presigned PUT URL and the URL to store in the post's file_urls",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["upload"],
                "summary": "Request an attachment upload URL",
                "parameters": [
                    {"description": "File to upload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UploadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UploadResponse"}},
                    "503": {"description": "Uploads not configured", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}},
                    "503": {"description": "Service unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.Account": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "is_active": {"type": "boolean"},
                "failed_login_attempts": {"type": "integer"},
                "last_login_attempt": {"type": "string"},
                "ip_address": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.SignupRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string", "maxLength": 50, "minLength": 3},
                "password": {"type": "string", "maxLength": 72}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string", "maxLength": 50},
                "password": {"type": "string", "maxLength": 72}
            }
        },
        "models.LoginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "account": {"$ref": "#/definitions/models.Account"}
            }
        },
        "models.LoginErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "remaining_attempts": {"type": "integer"}
            }
        },
        "models.VerifyTokenResponse": {
            "type": "object",
            "properties": {
                "is_valid": {"type": "boolean"},
                "account": {"$ref": "#/definitions/models.Account"}
            }
        },
        "models.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "number": {"type": "integer"},
                "title": {"type": "string"},
                "content": {"type": "string"},
                "file_urls": {"type": "array", "items": {"type": "string"}},
                "views": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.PostPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.Post"}},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"}
            }
        },
        "models.CreatePostRequest": {
            "type": "object",
            "required": ["title", "content"],
            "properties": {
                "number": {"type": "integer", "minimum": 1},
                "title": {"type": "string", "maxLength": 200},
                "content": {"type": "string"},
                "file_urls": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.UpdatePostRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 200},
                "content": {"type": "string"},
                "file_urls": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.Contact": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "in progress", "completed"]},
                "created_at": {"type": "string"}
            }
        },
        "models.ContactPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.Contact"}},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"}
            }
        },
        "models.CreateContactRequest": {
            "type": "object",
            "required": ["name", "email", "phone", "message"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "email": {"type": "string"},
                "phone": {"type": "string", "maxLength": 30},
                "message": {"type": "string", "maxLength": 5000}
            }
        },
        "models.UpdateContactStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["pending", "in progress", "completed"]}
            }
        },
        "models.UploadRequest": {
            "type": "object",
            "required": ["file_name"],
            "properties": {
                "file_name": {"type": "string", "maxLength": 255},
                "content_type": {"type": "string", "maxLength": 100}
            }
        },
        "models.UploadResponse": {
            "type": "object",
            "properties": {
                "upload_url": {"type": "string"},
                "file_url": {"type": "string"},
                "key": {"type": "string"},
                "expires_in": {"type": "integer"}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "healthy"},
                "database": {"type": "string", "example": "up"},
                "time": {"type": "string", "example": "2024-03-20T13:00:00Z"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "models.SuccessResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "CookieAuth": {
            "type": "apiKey",
            "name": "token",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Boardsite API",
	Description:      "Board, inquiry and admin account API for the organization website.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
