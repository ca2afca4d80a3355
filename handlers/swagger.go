package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r gin.IRoutes) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>ddmp - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "ddmp", "version": "v0.1.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Error": { "type": "object", "properties": { "error": {"type":"string"}, "details": {} } },
      "Collection": { "type": "object", "properties": { "id": {"type":"string"}, "name": {"type":"string"}, "userId": {"type":"string"}, "schema": {"type":"object","additionalProperties":{"type":"string","enum":["String","Number","Boolean","Date","Array","JSON","Mixed"]}}, "createdAt": {"type":"string","format":"date-time"}, "updatedAt": {"type":"string","format":"date-time"} } },
      "Document": { "type": "object", "properties": { "_id": {"type":"string"}, "createdAt": {"type":"string","format":"date-time"}, "updatedAt": {"type":"string","format":"date-time"} }, "additionalProperties": true }
    }
  },
  "security": [ { "bearer": [] } ],
  "paths": {
    "/collections": {
      "post": {
        "summary": "Create a collection with a field schema",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"schema":{"type":"object"}}}}}},
        "responses": { "201": { "description": "collection created" }, "400": { "description": "name and valid schema required" } }
      },
      "get": { "summary": "List the caller's collections", "responses": { "200": { "description": "collections" } } }
    },
    "/collections/{collectionId}/documents": {
      "get": {
        "summary": "List documents with equality filters, paging and sorting",
        "parameters": [
          {"name":"page","in":"query","schema":{"type":"integer","minimum":1,"default":1}},
          {"name":"limit","in":"query","schema":{"type":"integer","minimum":1,"default":10}},
          {"name":"sortBy","in":"query","schema":{"type":"string"}},
          {"name":"order","in":"query","schema":{"type":"string","enum":["asc","desc"]}}
        ],
        "responses": { "200": { "description": "documents" }, "403": { "description": "unauthorized" }, "404": { "description": "collection not found" } }
      },
      "post": { "summary": "Create a document", "responses": { "201": { "description": "document created" }, "400": { "description": "validation failed" } } }
    },
    "/collections/{collectionId}/documents/{documentId}": {
      "get": { "summary": "Get a document", "responses": { "200": { "description": "document" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a document", "responses": { "200": { "description": "updated document" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a document", "responses": { "200": { "description": "document deleted" }, "404": { "description": "not found" } } }
    },
    "/collections/{collectionId}/export": {
      "post": { "summary": "Export all documents as NDJSON to object storage", "responses": { "200": { "description": "presigned download URL" }, "501": { "description": "export not configured" } } }
    },
    "/profile": { "get": { "summary": "Greeting for the authenticated principal", "responses": { "200": { "description": "welcome message" } } } },
    "/api/v1/me": { "get": { "summary": "Token claims of the caller", "responses": { "200": { "description": "claims" } } } },
    "/auth/logout": { "post": { "summary": "Revoke the presented access token", "responses": { "200": { "description": "logged out" }, "501": { "description": "revocation unavailable" } } } },
    "/health": { "get": { "summary": "Liveness check", "security": [], "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "security": [], "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "security": [], "responses": { "200": { "description": "metrics" } } } }
  }
}`
