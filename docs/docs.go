// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{.Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {"post": {"summary": "Log in with email or CPF", "tags": ["auth"], "responses": {"200": {"description": "token"}, "401": {"description": "invalid credentials"}, "429": {"description": "too many attempts"}}}},
        "/auth/signup/condominium": {"post": {"summary": "Register a condominium and its administrator", "tags": ["auth"], "responses": {"201": {"description": "created"}, "409": {"description": "duplicate"}}}},
        "/auth/signup/resident": {"post": {"summary": "Register a resident with an access code", "tags": ["auth"], "responses": {"201": {"description": "created"}, "404": {"description": "unknown access code or unit"}}}},
        "/me": {"get": {"summary": "Current identity", "tags": ["auth"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "identity"}}}},
        "/plans": {"get": {"summary": "List plans", "tags": ["plans"], "responses": {"200": {"description": "plans"}}}},
        "/condominiums/{condominiumId}/dashboard": {"get": {"summary": "Administrator dashboard", "tags": ["units"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "dashboard"}}}},
        "/condominiums/{condominiumId}/units": {
            "get": {"summary": "List units", "tags": ["units"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "units"}}},
            "post": {"summary": "Add a unit", "tags": ["units"], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "created"}, "409": {"description": "quota exceeded or duplicate unit"}}}
        },
        "/condominiums/{condominiumId}/units/{unitId}/residents": {"get": {"summary": "Residents who may pick up a unit's packages", "tags": ["units"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "residents"}}}},
        "/condominiums/{condominiumId}/doorstaff": {"post": {"summary": "Create a doorstaff account", "tags": ["users"], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "created"}}}},
        "/condominiums/{condominiumId}/packages": {"post": {"summary": "Pre-register an expected package", "tags": ["packages"], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "created"}, "403": {"description": "not linked to unit"}}}},
        "/condominiums/{condominiumId}/packages/receive": {"post": {"summary": "Register a package received at the front desk", "tags": ["packages"], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "created"}, "422": {"description": "unit belongs to another condominium"}}}},
        "/condominiums/{condominiumId}/packages/pending": {"get": {"summary": "Pending packages", "tags": ["packages"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "packages"}}}},
        "/condominiums/{condominiumId}/packages/history": {"get": {"summary": "Closed packages", "tags": ["packages"], "security": [{"BearerAuth": []}], "parameters": [{"name": "mine", "in": "query", "type": "boolean"}, {"name": "status", "in": "query", "type": "string", "enum": ["DELIVERED", "CANCELLED"]}], "responses": {"200": {"description": "history"}}}},
        "/condominiums/{condominiumId}/packages/{packageId}/cancel": {"post": {"summary": "Cancel an own pre-registration", "tags": ["packages"], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "cancelled"}, "403": {"description": "not the registering resident"}, "409": {"description": "not pending"}}}},
        "/condominiums/{condominiumId}/packages/{packageId}/withdrawal": {"post": {"summary": "Record a pickup", "tags": ["pickup"], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "withdrawal"}, "409": {"description": "not pending"}}}},
        "/condominiums/{condominiumId}/packages/{packageId}/proof": {
            "post": {"summary": "Upload a withdrawal proof document", "tags": ["pickup"], "security": [{"BearerAuth": []}], "consumes": ["multipart/form-data"], "responses": {"201": {"description": "proof reference"}}},
            "get": {"summary": "Signed link to the stored proof", "tags": ["pickup"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "url"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "condoparcel API",
	Description:      "Package reception and pickup for residential condominiums.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
