// Package docs registers the OpenAPI description served at /swagger.
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
        "/progress": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["progress"],
                "summary": "Get progress",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProfileResponse"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/progress/levels/{level}/results": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["progress"],
                "summary": "Submit a level result",
                "parameters": [
                    {"type": "string", "example": "FLASHCARDS", "description": "Level ID", "name": "level", "in": "path", "required": true},
                    {"description": "Round score", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SubmitResultRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ResultResponse"}},
                    "400": {"description": "Missing or out-of-range score", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "Unknown level", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/levels": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["progress"],
                "summary": "Get the level map",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LevelMapResponse"}}}
            }
        },
        "/shop/catalog": {
            "get": {
                "security": [{"TelegramInitData": []}],
                "produces": ["application/json"],
                "tags": ["shop"],
                "summary": "Get the shop catalog",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.CatalogResponse"}}}
            }
        },
        "/shop/purchases": {
            "post": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shop"],
                "summary": "Buy an item",
                "parameters": [
                    {"description": "Item to buy", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.PurchaseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.PurchaseResponse"}},
                    "402": {"description": "Not enough coins", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "Unknown item or category", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/avatar/{category}": {
            "put": {
                "security": [{"TelegramInitData": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["shop"],
                "summary": "Equip an owned item",
                "parameters": [
                    {"enum": ["color", "accessory", "background", "aura"], "type": "string", "description": "Cosmetic family", "name": "category", "in": "path", "required": true},
                    {"description": "Item to equip", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.EquipRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProfileResponse"}},
                    "409": {"description": "Item not owned", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/content/quiz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Draw a quiz round",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.QuizQuestion"}}}}
            }
        },
        "/content/odd-one-out": {
            "get": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Draw odd-one-out puzzles",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.OddOneOutQuestion"}}}}
            }
        },
        "/content/countdown": {
            "get": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Time left until the exam",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Countdown"}}}
            }
        }
    },
    "definitions": {
        "dto.SubmitResultRequest": {
            "type": "object",
            "required": ["score"],
            "properties": {"score": {"type": "integer"}}
        },
        "dto.PurchaseRequest": {
            "type": "object",
            "required": ["category", "itemId"],
            "properties": {"category": {"type": "string"}, "itemId": {"type": "string"}}
        },
        "dto.EquipRequest": {
            "type": "object",
            "required": ["itemId"],
            "properties": {"itemId": {"type": "string"}}
        },
        "dto.LevelView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "position": {"type": "integer"},
                "unlocked": {"type": "boolean"},
                "bestScore": {"type": "integer"},
                "multiplier": {"type": "integer"},
                "lifetimeCap": {"type": "integer"},
                "rewardsGranted": {"type": "integer"}
            }
        },
        "dto.LevelMapResponse": {
            "type": "object",
            "properties": {
                "levels": {"type": "array", "items": {"$ref": "#/definitions/dto.LevelView"}},
                "passThreshold": {"type": "integer"},
                "firstClearBonusMinutes": {"type": "integer"}
            }
        },
        "dto.ProfileResponse": {
            "type": "object",
            "properties": {
                "learnerId": {"type": "string"},
                "coins": {"type": "integer"},
                "earnedMinutes": {"type": "integer"},
                "receivedFirstLevelTime": {"type": "boolean"},
                "unlockedLevels": {"type": "array", "items": {"type": "string"}},
                "levelScores": {"type": "object", "additionalProperties": {"type": "integer"}},
                "purchasedItems": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
                "avatar": {"$ref": "#/definitions/models.Avatar"},
                "levels": {"type": "array", "items": {"$ref": "#/definitions/dto.LevelView"}}
            }
        },
        "dto.ResultResponse": {
            "type": "object",
            "properties": {
                "outcome": {"$ref": "#/definitions/models.Outcome"},
                "profile": {"$ref": "#/definitions/dto.ProfileResponse"}
            }
        },
        "dto.PurchaseResponse": {
            "type": "object",
            "properties": {
                "purchase": {"$ref": "#/definitions/models.PurchaseOutcome"},
                "profile": {"$ref": "#/definitions/dto.ProfileResponse"}
            }
        },
        "dto.ItemView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "cost": {"type": "integer"},
                "owned": {"type": "boolean"},
                "equipped": {"type": "boolean"},
                "affordable": {"type": "boolean"}
            }
        },
        "dto.CategoryView": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/dto.ItemView"}}
            }
        },
        "dto.CatalogResponse": {
            "type": "object",
            "properties": {
                "coins": {"type": "integer"},
                "categories": {"type": "array", "items": {"$ref": "#/definitions/dto.CategoryView"}}
            }
        },
        "models.Avatar": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "accessory": {"type": "string"},
                "background": {"type": "string"},
                "aura": {"type": "string"}
            }
        },
        "models.Outcome": {
            "type": "object",
            "properties": {
                "level": {"type": "string"},
                "score": {"type": "integer"},
                "passed": {"type": "boolean"},
                "coinsAwarded": {"type": "integer"},
                "bonusMinutes": {"type": "integer"},
                "previousBest": {"type": "integer"},
                "newBest": {"type": "boolean"},
                "unlocked": {"type": "string"}
            }
        },
        "models.PurchaseOutcome": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "itemId": {"type": "string"},
                "cost": {"type": "integer"},
                "balance": {"type": "integer"},
                "alreadyOwned": {"type": "boolean"}
            }
        },
        "models.QuizQuestion": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "question": {"type": "string"},
                "options": {"type": "array", "items": {"type": "string"}},
                "correctAnswer": {"type": "string"},
                "type": {"type": "string", "enum": ["translation", "sentence-completion"]}
            }
        },
        "models.OddOneOutQuestion": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "words": {"type": "array", "items": {"type": "string"}},
                "oddWord": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "models.Countdown": {
            "type": "object",
            "properties": {
                "target": {"type": "string"},
                "days": {"type": "integer"},
                "hours": {"type": "integer"},
                "minutes": {"type": "integer"},
                "seconds": {"type": "integer"},
                "remainingSeconds": {"type": "integer"},
                "passed": {"type": "boolean"}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "object"},
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"},
                "path": {"type": "string"},
                "method": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "TelegramInitData": {
            "description": "Telegram Mini App init_data string",
            "type": "apiKey",
            "name": "init_data",
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
	Title:            "Vocab Progress API",
	Description:      "Progress, rewards and cosmetics for the vocabulary game client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
