// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
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
        "/events/{eventID}/batches": {
            "get": {"tags": ["batches"], "summary": "Batches and gates of an event", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "batches"}, "404": {"description": "Event not found"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["batches"], "summary": "Split the roster into batches", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"201": {"description": "batches"}, "409": {"description": "Results already recorded"}, "422": {"description": "Empty roster"}}}
        },
        "/events/{eventID}/competitors": {
            "get": {"tags": ["batches"], "summary": "Registered riders in roster order", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "competitors"}}}
        },
        "/events/{eventID}/rounds/{round}": {
            "get": {"tags": ["brackets"], "summary": "Both tiers of a round", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}, {"type": "integer", "name": "round", "in": "path", "required": true}],
                "responses": {"200": {"description": "round"}, "409": {"description": "Round not seeded yet"}}}
        },
        "/events/{eventID}/rounds/{round}/brackets/{tier}": {
            "get": {"tags": ["brackets"], "summary": "Matches of one tier in a round", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}, {"type": "integer", "name": "round", "in": "path", "required": true}, {"type": "string", "name": "tier", "in": "path", "required": true}],
                "responses": {"200": {"description": "matches"}, "404": {"description": "Event, round or tier not found"}}}
        },
        "/events/{eventID}/rounds/{round}/finalize": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["rounds"], "summary": "Close a round's results", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}, {"type": "integer", "name": "round", "in": "path", "required": true}],
                "responses": {"200": {"description": "finalized"}, "409": {"description": "Not the current round"}, "422": {"description": "Recorded placements conflict"}}}
        },
        "/events/{eventID}/status": {
            "get": {"tags": ["brackets"], "summary": "Current round and phase", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "status"}}}
        },
        "/events/{eventID}/standings": {
            "get": {"tags": ["results"], "summary": "Cumulative standings", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "standings"}}}
        },
        "/events/{eventID}/results": {
            "get": {"tags": ["rounds"], "summary": "Final results table", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}],
                "responses": {"200": {"description": "results"}, "409": {"description": "Event not complete"}}}
        },
        "/events/{eventID}/finishes": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["results"], "summary": "Record or amend a rider's result for a round", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}, {"name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.FinishInput"}}],
                "responses": {"200": {"description": "finish"}, "404": {"description": "Rider not seated or round not open"}, "422": {"description": "Placement out of range or taken"}}}
        },
        "/events/{eventID}/finishes/bulk": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["results"], "summary": "Record many results at once", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "eventID", "in": "path", "required": true}, {"name": "input", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/services.FinishInput"}}}],
                "responses": {"200": {"description": "results, applied, failed"}}}
        }
    },
    "definitions": {
        "services.FinishInput": {
            "type": "object",
            "properties": {
                "competitor_id": {"type": "integer"},
                "round": {"type": "integer"},
                "placement": {"type": "integer"},
                "penalty": {"type": "integer"}
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
	Title:            "Push-bike heats API",
	Description:      "Batches, heat brackets, results and standings of push-bike race events.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
