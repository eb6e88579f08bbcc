// Package docs provides Swagger documentation for the Go Storefront API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Go Storefront API",
        "description": "Cart, favorites, catalog and checkout for a single shopper session.\n\n1. **Catalog** - Paged product grid with search, sort and filters\n2. **Cart** - Quantities per product, persisted on every change\n3. **Favorites** - Toggle products in and out\n4. **Checkout** - Quote and place orders\n5. **Stream** - Server-sent snapshots of all of the above",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/MrKriegler/go-storefront"
        },
        "license": {
            "name": "MIT"
        },
        "version": "1.0.0"
    },
    "host": "localhost:8080",
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "securityDefinitions": {
        "ApiKey": {"type": "apiKey", "in": "header", "name": "X-API-Key"}
    },
    "security": [{"ApiKey": []}],
    "paths": {
        "/catalog": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Load a catalog page",
                "description": "page=0 replaces the grid with the first page for q; higher pages append.",
                "operationId": "loadCatalog",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "description": "Search text; empty lists the catalog"},
                    {"name": "page", "in": "query", "type": "integer", "minimum": 0, "default": 0}
                ],
                "responses": {
                    "200": {"description": "Catalog state", "schema": {"$ref": "#/definitions/CatalogView"}},
                    "400": {"description": "Invalid page", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "409": {"description": "Superseded by a newer load", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "502": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/catalog/state": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Current catalog state",
                "operationId": "catalogState",
                "responses": {
                    "200": {"description": "Catalog state", "schema": {"$ref": "#/definitions/CatalogView"}}
                }
            }
        },
        "/catalog/next": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Append the next page",
                "description": "No-op while a load is in flight or when every item is loaded.",
                "operationId": "loadNextPage",
                "responses": {
                    "200": {"description": "Catalog state", "schema": {"$ref": "#/definitions/CatalogView"}},
                    "502": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/catalog/refresh": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Reload page 0 for the current query",
                "operationId": "refreshCatalog",
                "responses": {
                    "200": {"description": "Catalog state", "schema": {"$ref": "#/definitions/CatalogView"}},
                    "502": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/catalog/sort": {
            "put": {
                "tags": ["Catalog"],
                "summary": "Change sort order",
                "description": "Choosing the active order again restores arrival order. Does not refetch.",
                "operationId": "changeSort",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {
                        "type": "object",
                        "properties": {"sort": {"type": "string", "enum": ["default", "price_asc", "price_desc", "alpha"]}}
                    }}
                ],
                "responses": {
                    "200": {"description": "Catalog state", "schema": {"$ref": "#/definitions/CatalogView"}},
                    "400": {"description": "Unknown sort", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/catalog/filters": {
            "put": {
                "tags": ["Catalog"],
                "summary": "Replace filters and reload",
                "operationId": "changeFilters",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Filters"}}
                ],
                "responses": {
                    "200": {"description": "Catalog state", "schema": {"$ref": "#/definitions/CatalogView"}},
                    "400": {"description": "Invalid filters", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "502": {"description": "Catalog unavailable", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Clear filters and reload",
                "operationId": "clearFilters",
                "responses": {
                    "200": {"description": "Catalog state", "schema": {"$ref": "#/definitions/CatalogView"}}
                }
            }
        },
        "/cart": {
            "get": {
                "tags": ["Cart"],
                "summary": "Get the cart",
                "operationId": "getCart",
                "responses": {
                    "200": {"description": "Cart snapshot", "schema": {"$ref": "#/definitions/CartSnapshot"}}
                }
            },
            "delete": {
                "tags": ["Cart"],
                "summary": "Empty the cart",
                "operationId": "clearCart",
                "responses": {
                    "200": {"description": "Cart snapshot", "schema": {"$ref": "#/definitions/CartSnapshot"}}
                }
            }
        },
        "/cart/items": {
            "post": {
                "tags": ["Cart"],
                "summary": "Add one unit of a product",
                "operationId": "addToCart",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {
                        "type": "object",
                        "properties": {"product": {"$ref": "#/definitions/Product"}}
                    }}
                ],
                "responses": {
                    "200": {"description": "Cart snapshot", "schema": {"$ref": "#/definitions/CartSnapshot"}},
                    "400": {"description": "Invalid product", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/cart/items/{product_id}": {
            "parameters": [
                {"name": "product_id", "in": "path", "required": true, "type": "string"}
            ],
            "get": {
                "tags": ["Cart"],
                "summary": "Quantity held for a product",
                "operationId": "getCartItem",
                "responses": {
                    "200": {"description": "Cart item", "schema": {"$ref": "#/definitions/CartItem"}}
                }
            },
            "put": {
                "tags": ["Cart"],
                "summary": "Set quantity; zero or less removes the line",
                "operationId": "setCartQuantity",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {
                        "type": "object",
                        "properties": {"quantity": {"type": "integer"}}
                    }}
                ],
                "responses": {
                    "200": {"description": "Cart snapshot", "schema": {"$ref": "#/definitions/CartSnapshot"}},
                    "400": {"description": "Missing quantity", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "delete": {
                "tags": ["Cart"],
                "summary": "Remove a line",
                "operationId": "removeFromCart",
                "responses": {
                    "200": {"description": "Cart snapshot", "schema": {"$ref": "#/definitions/CartSnapshot"}}
                }
            }
        },
        "/cart/items/{product_id}/increase": {
            "post": {
                "tags": ["Cart"],
                "summary": "Increase a line by one",
                "operationId": "increaseCartQuantity",
                "parameters": [{"name": "product_id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Cart snapshot", "schema": {"$ref": "#/definitions/CartSnapshot"}}
                }
            }
        },
        "/cart/items/{product_id}/decrease": {
            "post": {
                "tags": ["Cart"],
                "summary": "Decrease a line by one; a line at one is removed",
                "operationId": "decreaseCartQuantity",
                "parameters": [{"name": "product_id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Cart snapshot", "schema": {"$ref": "#/definitions/CartSnapshot"}}
                }
            }
        },
        "/favorites": {
            "get": {
                "tags": ["Favorites"],
                "summary": "List favorites",
                "operationId": "listFavorites",
                "responses": {
                    "200": {"description": "Favorites snapshot", "schema": {"$ref": "#/definitions/FavoritesSnapshot"}}
                }
            }
        },
        "/favorites/toggle": {
            "post": {
                "tags": ["Favorites"],
                "summary": "Toggle a product",
                "operationId": "toggleFavorite",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {
                        "type": "object",
                        "properties": {"product": {"$ref": "#/definitions/Product"}}
                    }}
                ],
                "responses": {
                    "200": {"description": "Toggle result", "schema": {
                        "type": "object",
                        "properties": {
                            "isFavorite": {"type": "boolean"},
                            "favorites": {"$ref": "#/definitions/FavoritesSnapshot"}
                        }
                    }},
                    "400": {"description": "Invalid product", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/favorites/{product_id}": {
            "get": {
                "tags": ["Favorites"],
                "summary": "Is a product a favorite",
                "operationId": "getFavorite",
                "parameters": [{"name": "product_id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Favorite status", "schema": {
                        "type": "object",
                        "properties": {"id": {"type": "string"}, "isFavorite": {"type": "boolean"}}
                    }}
                }
            }
        },
        "/checkout/quote": {
            "post": {
                "tags": ["Checkout"],
                "summary": "Price a checkout",
                "description": "A cart checkout without lines prices the current cart.",
                "operationId": "quoteCheckout",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckoutRequest"}}
                ],
                "responses": {
                    "200": {"description": "Order summary", "schema": {"$ref": "#/definitions/OrderSummary"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "422": {"description": "Nothing to check out", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/checkout": {
            "post": {
                "tags": ["Checkout"],
                "summary": "Place an order",
                "description": "Publishes order.placed.v1 and empties the cart for a cart checkout.",
                "operationId": "placeOrder",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckoutRequest"}}
                ],
                "responses": {
                    "201": {"description": "Order placed", "schema": {"$ref": "#/definitions/Order"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "422": {"description": "Nothing to check out", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "500": {"description": "Publish failed", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/stream": {
            "get": {
                "tags": ["Stream"],
                "summary": "Server-sent state snapshots",
                "description": "Emits cart, favorites and catalog events; the first of each is the current state. Accepts api_key as a query parameter.",
                "operationId": "stream",
                "produces": ["text/event-stream"],
                "responses": {
                    "200": {"description": "Event stream"}
                }
            }
        }
    },
    "definitions": {
        "Product": {
            "type": "object",
            "required": ["id", "title", "price"],
            "properties": {
                "id": {"type": "integer", "example": 1},
                "title": {"type": "string", "example": "Essence Mascara Lash Princess"},
                "brand": {"type": "string"},
                "thumbnail": {"type": "string"},
                "price": {"type": "number", "example": 9.99},
                "category": {"type": "string", "example": "beauty"},
                "description": {"type": "string"},
                "discountPercentage": {"type": "number"},
                "rating": {"type": "number", "example": 4.94},
                "stock": {"type": "integer"},
                "images": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CartLine": {
            "description": "Product fields with quantity alongside",
            "allOf": [
                {"$ref": "#/definitions/Product"},
                {"type": "object", "properties": {"quantity": {"type": "integer", "minimum": 1}}}
            ]
        },
        "CartSnapshot": {
            "type": "object",
            "properties": {
                "version": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/CartLine"}},
                "count": {"type": "integer", "description": "Sum of quantities"},
                "subtotal": {"type": "string", "example": "19.98"}
            }
        },
        "CartItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "quantity": {"type": "integer"},
                "inCart": {"type": "boolean"}
            }
        },
        "FavoritesSnapshot": {
            "type": "object",
            "properties": {
                "version": {"type": "integer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/Product"}},
                "count": {"type": "integer"}
            }
        },
        "Filters": {
            "type": "object",
            "properties": {
                "priceMin": {"type": "number"},
                "priceMax": {"type": "number"},
                "minRating": {"type": "number"},
                "category": {"type": "string"}
            }
        },
        "CatalogView": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/Product"}},
                "loaded": {"type": "integer"},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "query": {"type": "string"},
                "sort": {"type": "string"},
                "filters": {"$ref": "#/definitions/Filters"},
                "loading": {"type": "boolean"},
                "loadingMore": {"type": "boolean"},
                "error": {"type": "string"},
                "generation": {"type": "integer"},
                "version": {"type": "integer"},
                "hasMore": {"type": "boolean"},
                "activeFilters": {"type": "integer"}
            }
        },
        "CheckoutRequest": {
            "type": "object",
            "required": ["mode"],
            "properties": {
                "mode": {"type": "string", "enum": ["singleProduct", "cart"]},
                "product": {"$ref": "#/definitions/Product"},
                "lines": {"type": "array", "items": {"$ref": "#/definitions/CartLine"}}
            }
        },
        "OrderSummary": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"type": "object"}},
                "subtotal": {"type": "string"},
                "tax": {"type": "string"},
                "shipping": {"type": "string"},
                "total": {"type": "string"},
                "currency": {"type": "string", "example": "INR"}
            }
        },
        "Order": {
            "type": "object",
            "properties": {
                "orderId": {"type": "string", "example": "ORD-3f2b..."},
                "mode": {"type": "string"},
                "summary": {"$ref": "#/definitions/OrderSummary"},
                "placedAt": {"type": "string", "format": "date-time"}
            }
        },
        "ProblemDetails": {
            "type": "object",
            "description": "RFC 7807 Problem Details",
            "properties": {
                "type": {"type": "string", "example": "about:blank"},
                "title": {"type": "string", "example": "Bad Gateway"},
                "status": {"type": "integer", "example": 502},
                "detail": {"type": "string", "example": "Failed to load products"},
                "message": {"type": "string", "example": "Server error. Please try again."}
            }
        }
    },
    "tags": [
        {"name": "Catalog", "description": "Product grid paging, search, sort and filters"},
        {"name": "Cart", "description": "Cart lines and quantities"},
        {"name": "Favorites", "description": "Saved products"},
        {"name": "Checkout", "description": "Quotes and orders"},
        {"name": "Stream", "description": "Live state snapshots"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Go Storefront API",
	Description:      "Cart, favorites, catalog and checkout for a single shopper session",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
