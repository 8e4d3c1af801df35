// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `swag init -g cmd/main.go -o internal/docs` after changing
// handler annotations.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.Credentials"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Identity"}},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Conflict"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.Credentials"}}
                ],
                "responses": {
                    "200": {"description": "user, token"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/auth/check": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Identity"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts",
                "parameters": [
                    {"type": "integer", "description": "Page, starting at 1", "name": "page", "in": "query"},
                    {"type": "string", "description": "Author", "name": "username", "in": "query"},
                    {"type": "string", "description": "Tag", "name": "tag", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Post"}},
                        "headers": {"Last-Page": {"type": "integer", "description": "Number of the last page"}}
                    },
                    "400": {"description": "Bad Request"},
                    "500": {"description": "Internal Server Error"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Write post",
                "parameters": [
                    {"description": "Post", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PostRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Post"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/posts/stream": {
            "get": {
                "tags": ["posts"],
                "summary": "Live posts",
                "parameters": [
                    {"type": "string", "description": "Author", "name": "username", "in": "query"},
                    {"type": "string", "description": "Tag", "name": "tag", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"}
                }
            }
        },
        "/api/posts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Read post",
                "parameters": [
                    {"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Post"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Update post",
                "parameters": [
                    {"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PostRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Post"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["posts"],
                "summary": "Delete post",
                "parameters": [
                    {"type": "string", "description": "Post id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "handlers.Credentials": {
            "type": "object",
            "properties": {
                "password": {"type": "string", "example": "s3cret"},
                "username": {"type": "string", "example": "alice"}
            }
        },
        "handlers.PostRequest": {
            "type": "object",
            "properties": {
                "body": {"type": "string", "example": "First post"},
                "tags": {"type": "array", "items": {"type": "string"}, "example": ["go", "web"]},
                "title": {"type": "string", "example": "Hello"}
            }
        },
        "models.Identity": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "models.Post": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "body": {"type": "string"},
                "publishedDate": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}},
                "title": {"type": "string"},
                "user": {"$ref": "#/definitions/models.Identity"}
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Blog API",
	Description:      "Users, sessions and posts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
