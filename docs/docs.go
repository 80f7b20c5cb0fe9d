// Package docs registers the OpenAPI document served under /swagger.
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
        "/categories": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "List categories",
                "parameters": [
                    {"type": "string", "description": "income or expense", "name": "kind", "in": "query"},
                    {"type": "string", "description": "Case-insensitive name search", "name": "search", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.GetCategoriesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Create a category",
                "parameters": [
                    {"description": "Category", "name": "category", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateCategory"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.CategoryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/categories/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Get a category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CategoryResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Update a category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "category", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateCategory"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CategoryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["categories"],
                "summary": "Delete a category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/categories/{id}/purge": {
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["categories"],
                "summary": "Permanently remove a deleted category",
                "parameters": [
                    {"type": "integer", "description": "Category ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Checks the database connection.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        },
        "/summary": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Totals, balance, per-category totals and the five most recent transactions. Without dates the current month is used.",
                "produces": ["application/json"],
                "tags": ["summary"],
                "summary": "Financial summary",
                "parameters": [
                    {"type": "string", "description": "Inclusive start (YYYY-MM-DD), requires end_date", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "Inclusive end (YYYY-MM-DD), requires start_date", "name": "end_date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SummaryResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/transactions": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Live transactions of the caller, newest first by default.",
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "string", "description": "income or expense", "name": "kind", "in": "query"},
                    {"type": "integer", "description": "Category ID", "name": "category_id", "in": "query"},
                    {"type": "string", "description": "Inclusive lower date bound (YYYY-MM-DD)", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "Inclusive upper date bound (YYYY-MM-DD)", "name": "end_date", "in": "query"},
                    {"type": "string", "description": "cash, credit_card, debit_card, bank_transfer or other", "name": "payment_method", "in": "query"},
                    {"type": "string", "description": "Case-insensitive search in description and source", "name": "search", "in": "query"},
                    {"type": "string", "description": "-date, date, amount, -amount, created_at or -created_at", "name": "ordering", "in": "query"},
                    {"type": "integer", "description": "Page size (default 100, max 500)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Rows to skip", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.GetTransactionsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Create a transaction",
                "parameters": [
                    {"description": "Transaction", "name": "transaction", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateTransaction"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.TransactionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/transactions/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Deleted transactions are returned too, with deleted_at set.",
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Get a transaction",
                "parameters": [
                    {"type": "integer", "description": "Transaction ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TransactionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Fields left out are unchanged.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Update a transaction",
                "parameters": [
                    {"type": "integer", "description": "Transaction ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "transaction", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateTransaction"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TransactionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["transactions"],
                "summary": "Delete a transaction",
                "parameters": [
                    {"type": "integer", "description": "Transaction ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.CategoryResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "integer", "example": 1},
                "kind": {"type": "string", "example": "expense"},
                "name": {"type": "string", "example": "Food"},
                "updated_at": {"type": "string"}
            }
        },
        "models.CategoryTotalResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "kind": {"type": "string", "example": "expense"},
                "name": {"type": "string", "example": "Food"},
                "total": {"type": "string", "example": "250.00"}
            }
        },
        "models.CreateCategory": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "expense"},
                "name": {"type": "string", "example": "Food"}
            }
        },
        "models.CreateTransaction": {
            "type": "object",
            "properties": {
                "amount": {"type": "string", "example": "100.00"},
                "category_id": {"type": "integer", "example": 1},
                "date": {"type": "string", "example": "2024-01-20"},
                "description": {"type": "string", "example": "Supermarket"},
                "kind": {"type": "string", "example": "expense"},
                "payment_method": {"type": "string", "example": "debit_card"},
                "source": {"type": "string", "example": ""}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "error"},
                "kind": {"type": "string", "example": "validation_error"}
            }
        },
        "models.GetCategoriesResponse": {
            "type": "object",
            "properties": {
                "categories": {"type": "array", "items": {"$ref": "#/definitions/models.CategoryResponse"}}
            }
        },
        "models.GetTransactionsResponse": {
            "type": "object",
            "properties": {
                "total": {"type": "integer", "example": 100},
                "transactions": {"type": "array", "items": {"$ref": "#/definitions/models.TransactionResponse"}}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"}
            }
        },
        "models.SummaryResponse": {
            "type": "object",
            "properties": {
                "balance": {"type": "string", "example": "750.00"},
                "category_totals": {"type": "array", "items": {"$ref": "#/definitions/models.CategoryTotalResponse"}},
                "end_date": {"type": "string", "example": "2024-01-31"},
                "recent_transactions": {"type": "array", "items": {"$ref": "#/definitions/models.TransactionResponse"}},
                "start_date": {"type": "string", "example": "2024-01-01"},
                "total_expense": {"type": "string", "example": "250.00"},
                "total_income": {"type": "string", "example": "1000.00"}
            }
        },
        "models.TransactionResponse": {
            "type": "object",
            "properties": {
                "amount": {"type": "string", "example": "100.00"},
                "category_id": {"type": "integer", "example": 1},
                "category_name": {"type": "string", "example": "Food"},
                "created_at": {"type": "string"},
                "date": {"type": "string", "example": "2024-01-20"},
                "deleted_at": {"type": "string"},
                "description": {"type": "string", "example": "Supermarket"},
                "id": {"type": "integer", "example": 1},
                "kind": {"type": "string", "example": "expense"},
                "payment_method": {"type": "string", "example": "debit_card"},
                "source": {"type": "string", "example": ""},
                "updated_at": {"type": "string"}
            }
        },
        "models.UpdateCategory": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "expense"},
                "name": {"type": "string", "example": "Groceries"}
            }
        },
        "models.UpdateTransaction": {
            "type": "object",
            "properties": {
                "amount": {"type": "string", "example": "120.50"},
                "category_id": {"type": "integer", "example": 1},
                "date": {"type": "string", "example": "2024-01-21"},
                "description": {"type": "string", "example": "Supermarket"},
                "kind": {"type": "string", "example": "expense"},
                "payment_method": {"type": "string", "example": "cash"},
                "source": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Personal Finance Ledger API",
	Description:      "Categories, income and expense transactions, and period summaries per user.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
