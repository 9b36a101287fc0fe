// Package docs holds the OpenAPI description served at /swagger/*.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/matches": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Record a match result",
                "parameters": [
                    {"description": "Match result", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.RecordMatchInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/services.RecordMatchResult"}},
                    "404": {"description": "Tournament or team not found"},
                    "422": {"description": "Validation failed"}
                }
            }
        },
        "/matches/{matchID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Get a ledger entry",
                "parameters": [{"type": "string", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Replace a recorded match, keeping its id",
                "parameters": [
                    {"type": "string", "description": "Match ID", "name": "matchID", "in": "path", "required": true},
                    {"description": "New match result", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.RecordMatchInput"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "422": {"description": "Validation failed"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["matches"],
                "summary": "Remove a match and roll back its effects",
                "parameters": [{"type": "string", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/matches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "List a tournament's ledger entries",
                "parameters": [
                    {"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "string", "description": "Only matches of this team", "name": "team_id", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/standings": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Tournament standings",
                "parameters": [{"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/tournaments/{tournamentID}/teams": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["teams"],
                "summary": "Create a team inside a tournament",
                "parameters": [
                    {"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true},
                    {"description": "Team with optional initial roster", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateTeamInput"}}
                ],
                "responses": {"201": {"description": "Created"}, "404": {"description": "Not Found"}}
            }
        },
        "/players": {
            "get": {
                "produces": ["application/json"],
                "tags": ["players"],
                "summary": "List players with career stats",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["players"],
                "summary": "Create a player",
                "parameters": [
                    {"description": "Player profile", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreatePlayerInput"}}
                ],
                "responses": {"201": {"description": "Created"}, "422": {"description": "Validation failed"}}
            }
        },
        "/players/{playerID}/photo": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["players"],
                "summary": "Upload a player photo",
                "parameters": [
                    {"type": "string", "description": "Player ID", "name": "playerID", "in": "path", "required": true},
                    {"type": "file", "description": "Image file", "name": "photo", "in": "formData", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Photo storage not configured"}}
            }
        },
        "/admin/audit": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Compare stored aggregates with the match ledger",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "models.PlayerResult": {
            "type": "object",
            "properties": {
                "player_id": {"type": "string"},
                "result": {"type": "string", "enum": ["win", "loss", "draw", "sub"]},
                "roster_entry_id": {"type": "string", "readOnly": true}
            }
        },
        "services.RecordMatchInput": {
            "type": "object",
            "properties": {
                "tournament_id": {"type": "string"},
                "team_id": {"type": "string"},
                "opponent_name": {"type": "string"},
                "player_results": {"type": "array", "items": {"$ref": "#/definitions/models.PlayerResult"}}
            }
        },
        "services.PartialApplyWarning": {
            "type": "object",
            "properties": {
                "scope": {"type": "string"},
                "team_id": {"type": "string"},
                "player_id": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "services.RecordMatchResult": {
            "type": "object",
            "properties": {
                "match_id": {"type": "string"},
                "team_result": {"type": "string", "enum": ["win", "loss", "draw"]},
                "points_awarded": {"type": "integer"},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/services.PartialApplyWarning"}}
            }
        },
        "services.CreatePlayerInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "dob": {"type": "string"},
                "instagram_link": {"type": "string"},
                "facebook_link": {"type": "string"}
            }
        },
        "services.CreateTeamInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "player_ids": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Xenon match accrual API",
	Description:      "Records match results, keeps player, team and roster aggregates in step with the match ledger, and rolls them back on edit or removal.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
