// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with `swag init -g cmd/inventory_backend/main.go -o internal/docs`.
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
        "/sales/add-sale": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "Record a sale",
                "parameters": [{"in": "body", "name": "sale", "required": true, "schema": {"$ref": "#/definitions/dto.CreateSaleRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SaleEnvelope"}},
                    "400": {"description": "Invalid input or insufficient stock"},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Product or customer not found"}
                }
            }
        },
        "/sales/list-sales": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "List sales",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListSalesResponse"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/sales/sale-details/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "Get a sale",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SaleEnvelope"}},
                    "404": {"description": "Sale not found"}
                }
            }
        },
        "/sales/update-sale/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "Replace a sale's line items",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "sale", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateSaleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SaleEnvelope"}},
                    "400": {"description": "Invalid input, unlisted product or insufficient stock"},
                    "404": {"description": "Sale or product not found"}
                }
            }
        },
        "/sales/is-paid/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "Set a sale's payment status",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "status", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateSalePaidRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SaleEnvelope"}},
                    "400": {"description": "isPaid must be a boolean"},
                    "404": {"description": "Sale not found"}
                }
            }
        },
        "/sales/is-active/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "Activate or void a sale",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "status", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateSaleActiveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SaleEnvelope"}},
                    "400": {"description": "isActive must be a boolean"},
                    "404": {"description": "Sale not found"}
                }
            }
        },
        "/sales/delete-sale/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "Delete a sale",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponse"}},
                    "404": {"description": "Sale not found"}
                }
            }
        },
        "/products": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.ProductResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Create a product",
                "parameters": [{"in": "body", "name": "product", "required": true, "schema": {"$ref": "#/definitions/dto.CreateProductRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ProductResponse"}},
                    "400": {"description": "Invalid input"},
                    "409": {"description": "Product name already used"}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get a product",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProductResponse"}},
                    "404": {"description": "Product not found"}
                }
            }
        },
        "/customers": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["customers"],
                "summary": "Create a customer",
                "parameters": [{"in": "body", "name": "customer", "required": true, "schema": {"$ref": "#/definitions/dto.CreateCustomerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CustomerResponse"}},
                    "400": {"description": "Invalid input"},
                    "409": {"description": "Mobile number already used"}
                }
            }
        },
        "/customers/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["customers"],
                "summary": "Get a customer",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CustomerResponse"}},
                    "404": {"description": "Customer not found"}
                }
            }
        }
    },
    "definitions": {
        "dto.SaleItemRequest": {
            "type": "object",
            "required": ["productId", "quantity"],
            "properties": {
                "productId": {"type": "string"},
                "quantity": {"type": "integer", "minimum": 1, "maximum": 1000000000}
            }
        },
        "dto.CreateSaleRequest": {
            "type": "object",
            "required": ["paymentMethod", "products"],
            "properties": {
                "products": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleItemRequest"}},
                "customerId": {"type": "string"},
                "paymentMethod": {"type": "string", "enum": ["Cash", "Online", "Credit Card", "Debit Card", "UPI", "Bank Transfer"]},
                "totalPrice": {"type": "string"},
                "isPaid": {"type": "boolean"},
                "date": {"type": "string", "format": "date-time"}
            }
        },
        "dto.UpdateSaleRequest": {
            "type": "object",
            "required": ["products"],
            "properties": {
                "products": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleItemRequest"}},
                "paymentMethod": {"type": "string", "enum": ["Cash", "Online", "Credit Card", "Debit Card", "UPI", "Bank Transfer"]},
                "totalPrice": {"type": "string"},
                "isPaid": {"type": "boolean"}
            }
        },
        "dto.UpdateSalePaidRequest": {
            "type": "object",
            "required": ["isPaid"],
            "properties": {"isPaid": {"type": "boolean"}}
        },
        "dto.UpdateSaleActiveRequest": {
            "type": "object",
            "required": ["isActive"],
            "properties": {"isActive": {"type": "boolean"}}
        },
        "dto.SaleItemResponse": {
            "type": "object",
            "properties": {
                "productId": {"type": "string"},
                "quantity": {"type": "integer"},
                "productName": {"type": "string"},
                "description": {"type": "string"},
                "unitPrice": {"type": "string"}
            }
        },
        "dto.SaleCustomerResponse": {
            "type": "object",
            "properties": {
                "customerId": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "mobile": {"type": "string"}
            }
        },
        "dto.SaleResponse": {
            "type": "object",
            "properties": {
                "saleID": {"type": "string"},
                "products": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleItemResponse"}},
                "customerId": {"type": "string"},
                "customer": {"$ref": "#/definitions/dto.SaleCustomerResponse"},
                "paymentMethod": {"type": "string"},
                "totalPrice": {"type": "string"},
                "date": {"type": "string", "format": "date-time"},
                "isPaid": {"type": "boolean"},
                "isActive": {"type": "boolean"},
                "createdAt": {"type": "string", "format": "date-time"},
                "createdBy": {"type": "string"},
                "lastUpdatedAt": {"type": "string", "format": "date-time"},
                "lastUpdatedBy": {"type": "string"}
            }
        },
        "dto.SaleEnvelope": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "sale": {"$ref": "#/definitions/dto.SaleResponse"}
            }
        },
        "dto.ListSalesResponse": {
            "type": "object",
            "properties": {
                "sales": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleResponse"}}
            }
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "dto.CreateProductRequest": {
            "type": "object",
            "required": ["productName", "description", "quantity"],
            "properties": {
                "productName": {"type": "string"},
                "description": {"type": "string"},
                "quantity": {"type": "integer", "minimum": 0},
                "price": {"type": "string"},
                "isListed": {"type": "boolean"}
            }
        },
        "dto.ProductResponse": {
            "type": "object",
            "properties": {
                "productID": {"type": "string"},
                "productName": {"type": "string"},
                "description": {"type": "string"},
                "quantity": {"type": "integer"},
                "price": {"type": "string"},
                "isListed": {"type": "boolean"},
                "createdAt": {"type": "string", "format": "date-time"},
                "lastUpdatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "dto.CreateCustomerRequest": {
            "type": "object",
            "required": ["name", "mobile"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "mobile": {"type": "string"}
            }
        },
        "dto.CustomerResponse": {
            "type": "object",
            "properties": {
                "customerID": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "mobile": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Inventory Backend API",
	Description:      "Sales and stock management for shop owners.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
