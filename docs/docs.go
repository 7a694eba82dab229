// Package docs registers the gateway's OpenAPI document with swag so
// echo-swagger can serve it at /swagger/*.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.tokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/secured/admin/add": {
            "post": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Add a user",
                "parameters": [
                    {"description": "User details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.addUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/secured/admin/all": {
            "get": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Secured ping",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/secured/users": {
            "get": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.User"}}}
                }
            }
        },
        "/secured/getCustomerByEmail/{email}": {
            "get": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Find a user by email",
                "parameters": [{"type": "string", "description": "Email address", "name": "email", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/secured/getCustomerByPhoneNumber/{phoneNumber}": {
            "get": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Find a user by phone number",
                "parameters": [{"type": "string", "description": "Phone number", "name": "phoneNumber", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/secured/getAllAccounts": {
            "get": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List all accounts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Account"}}}
                }
            }
        },
        "/secured/getAllAccounts/{userId}": {
            "get": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List a user's accounts",
                "parameters": [{"type": "integer", "description": "User id", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Account"}}}
                }
            }
        },
        "/secured/getAccountByAccountId/{accountId}": {
            "get": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Get an account by id",
                "parameters": [{"type": "integer", "description": "Account id", "name": "accountId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Account"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/secured/getAccountByAccountNumber/{accountNumber}": {
            "get": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Get an account by number",
                "parameters": [{"type": "integer", "description": "Account number", "name": "accountNumber", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Account"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/secured/depositAccount/userId/{userId}/accountNumber/{accountNumber}/amount/{amount}": {
            "put": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Deposit into an account",
                "parameters": [
                    {"type": "integer", "description": "Alert recipient", "name": "userId", "in": "path", "required": true},
                    {"type": "integer", "description": "Account number", "name": "accountNumber", "in": "path", "required": true},
                    {"type": "string", "description": "Amount, e.g. 100.50", "name": "amount", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/secured/withdrawAccount/userId/{userId}/accountNumber/{accountNumber}/amount/{amount}": {
            "put": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Withdraw from an account",
                "parameters": [
                    {"type": "integer", "description": "Alert recipient", "name": "userId", "in": "path", "required": true},
                    {"type": "integer", "description": "Account number", "name": "accountNumber", "in": "path", "required": true},
                    {"type": "string", "description": "Amount, e.g. 100.50", "name": "amount", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/secured/deleteAccountById/{accountId}": {
            "delete": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Delete an account",
                "parameters": [{"type": "integer", "description": "Account id", "name": "accountId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/secured/createAccount": {
            "post": {
                "security": [{"BearerAuth": []}, {"BasicAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Create an account",
                "parameters": [
                    {"description": "Account details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createAccountRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Account": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "accountNumber": {"type": "integer"},
                "userId": {"type": "integer"},
                "accountType": {"type": "string"},
                "balance": {"type": "string"}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone_number": {"type": "string"},
                "enabled": {"type": "boolean"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.Principal": {
            "type": "object",
            "properties": {
                "identifier": {"type": "string"},
                "user_id": {"type": "integer"},
                "roles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.addUserRequest": {
            "type": "object",
            "required": ["email", "name", "password", "phone_number"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone_number": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "roles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.createAccountRequest": {
            "type": "object",
            "required": ["accountNumber", "userId"],
            "properties": {
                "accountNumber": {"type": "integer"},
                "userId": {"type": "integer"},
                "accountType": {"type": "string"},
                "balance": {"type": "string"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.tokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "token_type": {"type": "string"},
                "principal": {"$ref": "#/definitions/domain.Principal"}
            }
        }
    },
    "securityDefinitions": {
        "BasicAuth": {"type": "basic"},
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Payment Gateway API",
	Description:      "Authenticated gateway in front of the account service. Deposits and withdrawals trigger customer alerts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
