// Package docs holds the OpenAPI description served under /swagger.
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
				"tags": [
					"ops"
				],
				"summary": "Readiness probe",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"503": {
						"description": "Service Unavailable",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				}
			}
		},
		"/healthz": {
			"get": {
				"tags": [
					"ops"
				],
				"summary": "Liveness probe",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/users": {
			"post": {
				"tags": [
					"users"
				],
				"summary": "Register",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.RegisterInput"
						}
					}
				]
			}
		},
		"/api/sessions": {
			"post": {
				"tags": [
					"sessions"
				],
				"summary": "Login",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.LoginInput"
						}
					}
				]
			}
		},
		"/api/sessions/current": {
			"get": {
				"tags": [
					"sessions"
				],
				"summary": "Current user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/stakeholders": {
			"get": {
				"tags": [
					"stakeholders"
				],
				"summary": "List stakeholders",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"stakeholders"
				],
				"summary": "Create stakeholder",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.ReferenceInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/document-types": {
			"get": {
				"tags": [
					"document-types"
				],
				"summary": "List document types",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"document-types"
				],
				"summary": "Create document type",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.ReferenceInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/coordinates": {
			"get": {
				"tags": [
					"coordinates"
				],
				"summary": "List coordinates",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"coordinates"
				],
				"summary": "Create coordinate",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.CoordinateInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/coordinates/{id}": {
			"get": {
				"tags": [
					"coordinates"
				],
				"summary": "Get coordinate",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "resource id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"delete": {
				"tags": [
					"coordinates"
				],
				"summary": "Delete coordinate",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "resource id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/documents": {
			"get": {
				"tags": [
					"documents"
				],
				"summary": "List documents",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "substring of the title, case-insensitive",
						"name": "title",
						"in": "query"
					},
					{
						"type": "string",
						"description": "comma separated stakeholder ids, any of",
						"name": "stakeholders",
						"in": "query"
					},
					{
						"type": "string",
						"description": "document type id",
						"name": "type",
						"in": "query"
					},
					{
						"type": "string",
						"description": "TEXT, CONCEPT, ARCHITECTURAL or BLUEPRINTS/ACTUALS",
						"name": "scale",
						"in": "query"
					},
					{
						"type": "string",
						"description": "",
						"name": "language",
						"in": "query"
					},
					{
						"type": "string",
						"description": "YYYY, YYYY-MM or YYYY-MM-DD",
						"name": "startDate",
						"in": "query"
					},
					{
						"type": "string",
						"description": "YYYY, YYYY-MM or YYYY-MM-DD",
						"name": "endDate",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "page size",
						"name": "limit",
						"in": "query"
					},
					{
						"type": "integer",
						"description": "items to skip",
						"name": "offset",
						"in": "query"
					}
				]
			},
			"post": {
				"tags": [
					"documents"
				],
				"summary": "Create document",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.DocumentInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/documents/{id}": {
			"get": {
				"tags": [
					"documents"
				],
				"summary": "Get document",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "resource id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"put": {
				"tags": [
					"documents"
				],
				"summary": "Update document",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "resource id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.DocumentInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/documents/{id}/connections": {
			"get": {
				"tags": [
					"documents"
				],
				"summary": "Document connections",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "resource id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/media": {
			"post": {
				"tags": [
					"media"
				],
				"summary": "Upload media",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"413": {
						"description": "Payload Too Large",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"consumes": [
					"multipart/form-data"
				],
				"parameters": [
					{
						"type": "file",
						"description": "file to upload",
						"name": "file",
						"in": "formData",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/media/{id}": {
			"get": {
				"tags": [
					"media"
				],
				"summary": "Get media",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "resource id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/media/{id}/content": {
			"get": {
				"tags": [
					"media"
				],
				"summary": "Download media content",
				"produces": [
					"application/octet-stream"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "file"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorPayload"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "resource id",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/graph": {
			"get": {
				"tags": [
					"graph"
				],
				"summary": "Timeline graph",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		}
	},
	"definitions": {
		"handler.errorPayload": {
			"type": "object",
			"properties": {
				"request_id": {
					"type": "string"
				},
				"error": {
					"type": "object",
					"properties": {
						"code": {
							"type": "string"
						},
						"message": {
							"type": "string"
						},
						"details": {
							"type": "object",
							"additionalProperties": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"service.ReferenceInput": {
			"type": "object",
			"required": [
				"name"
			],
			"properties": {
				"name": {
					"type": "string",
					"maxLength": 200
				}
			}
		},
		"service.RegisterInput": {
			"type": "object",
			"required": [
				"email",
				"password",
				"name",
				"surname"
			],
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string",
					"minLength": 8,
					"maxLength": 72
				},
				"name": {
					"type": "string"
				},
				"surname": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"role": {
					"type": "string",
					"enum": [
						"PLANNER",
						"DEVELOPER",
						"VISITOR",
						"RESIDENT"
					]
				}
			}
		},
		"service.LoginInput": {
			"type": "object",
			"required": [
				"email",
				"password"
			],
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"service.CoordinateInput": {
			"type": "object",
			"required": [
				"name",
				"type",
				"coordinates"
			],
			"properties": {
				"name": {
					"type": "string"
				},
				"type": {
					"type": "string",
					"enum": [
						"Point",
						"Polygon"
					]
				},
				"coordinates": {
					"type": "array",
					"items": {}
				}
			}
		},
		"service.ConnectionInput": {
			"type": "object",
			"required": [
				"document",
				"type"
			],
			"properties": {
				"document": {
					"type": "string"
				},
				"type": {
					"type": "string",
					"enum": [
						"DIRECT",
						"COLLATERAL",
						"PROJECTION",
						"UPDATE"
					]
				}
			}
		},
		"service.DocumentInput": {
			"type": "object",
			"required": [
				"title",
				"stakeholders",
				"scale",
				"type",
				"date"
			],
			"properties": {
				"title": {
					"type": "string"
				},
				"stakeholders": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"scale": {
					"type": "string",
					"enum": [
						"TEXT",
						"CONCEPT",
						"ARCHITECTURAL",
						"BLUEPRINTS/ACTUALS"
					]
				},
				"architecturalScale": {
					"type": "string",
					"example": "1:1000"
				},
				"type": {
					"type": "string"
				},
				"date": {
					"type": "string",
					"example": "2014-06"
				},
				"language": {
					"type": "string"
				},
				"summary": {
					"type": "string"
				},
				"connections": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/service.ConnectionInput"
					}
				},
				"media": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"coordinates": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Kiruna eXplorer API",
	Description:      "Documents, geometries and the timeline of the Kiruna relocation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
