// Package swagger registers the OpenAPI document served at /swagger/doc.json.
// Regenerate with `swag init -g cmd/api/main.go -o docs/swagger` after
// changing handler annotations.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Treasure Trove maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/containers": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "containers"
                ],
                "summary": "List containers",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ContainersResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/containers/{id}/label": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "containers"
                ],
                "summary": "Reprint a container label",
                "parameters": [
                    {
                        "type": "string",
                        "format": "uuid",
                        "description": "Container ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "202": {
                        "description": "Accepted",
                        "schema": {
                            "$ref": "#/definitions/LabelResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/form": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "submissions"
                ],
                "summary": "Submission form data",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/FormResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/items": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "items"
                ],
                "summary": "List items",
                "parameters": [
                    {
                        "maximum": 500,
                        "minimum": 1,
                        "type": "integer",
                        "default": 50,
                        "description": "Page size",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "minimum": 0,
                        "type": "integer",
                        "description": "Items to skip",
                        "name": "offset",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ListItemsResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/items/export": {
            "get": {
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "tags": [
                    "items"
                ],
                "summary": "Export the inventory",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/submissions": {
            "post": {
                "description": "Extracts items from free text, files them into a container and prints a label",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "submissions"
                ],
                "summary": "Record a submission",
                "parameters": [
                    {
                        "description": "Free-text submission",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateSubmissionRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/SubmissionResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/SubmissionResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "ContainerResponse": {
            "type": "object",
            "properties": {
                "created_at": {
                    "type": "string",
                    "example": "2026-03-01T09:30:00Z"
                },
                "id": {
                    "type": "string",
                    "example": "0b7d7c9e-3f5a-4c1e-9a57-2f0c1d6b8e11"
                },
                "kind": {
                    "type": "string",
                    "example": "bin"
                },
                "name": {
                    "type": "string",
                    "example": "Spring 1"
                }
            }
        },
        "ContainersResponse": {
            "type": "object",
            "properties": {
                "containers": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ContainerResponse"
                    }
                }
            }
        },
        "CreateSubmissionRequest": {
            "type": "object",
            "required": [
                "text"
            ],
            "properties": {
                "container_new": {
                    "type": "string",
                    "maxLength": 480,
                    "example": "Loft box"
                },
                "container_select": {
                    "type": "string",
                    "maxLength": 120,
                    "example": "0b7d7c9e-3f5a-4c1e-9a57-2f0c1d6b8e11"
                },
                "location": {
                    "type": "string",
                    "maxLength": 500,
                    "example": "loft, left of the hatch"
                },
                "text": {
                    "type": "string",
                    "maxLength": 20000,
                    "example": "3 boxes of nails\nhammer"
                }
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "example": "container not found"
                }
            }
        },
        "FormResponse": {
            "type": "object",
            "properties": {
                "containers": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ContainerResponse"
                    }
                },
                "defaults": {
                    "$ref": "#/definitions/session.FormDefaults"
                }
            }
        },
        "ItemResponse": {
            "type": "object",
            "properties": {
                "container_id": {
                    "type": "string",
                    "example": "0b7d7c9e-3f5a-4c1e-9a57-2f0c1d6b8e11"
                },
                "container_name": {
                    "type": "string",
                    "example": "Spring 1"
                },
                "created_at": {
                    "type": "string",
                    "example": "2026-03-01T09:30:00Z"
                },
                "id": {
                    "type": "string",
                    "example": "5f0e2c1a-8b7d-4e3f-a1c2-9d8e7f6a5b4c"
                },
                "location": {
                    "type": "string",
                    "example": "garage shelf 2"
                },
                "name": {
                    "type": "string",
                    "example": "boxes of nails"
                },
                "quantity": {
                    "type": "integer",
                    "example": 3
                }
            }
        },
        "LabelResponse": {
            "type": "object",
            "properties": {
                "label": {
                    "$ref": "#/definitions/models.Label"
                }
            }
        },
        "ListItemsResponse": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ItemResponse"
                    }
                },
                "limit": {
                    "type": "integer",
                    "example": 50
                },
                "offset": {
                    "type": "integer",
                    "example": 0
                },
                "total": {
                    "type": "integer",
                    "example": 42
                }
            }
        },
        "SubmissionResponse": {
            "type": "object",
            "properties": {
                "container": {
                    "$ref": "#/definitions/ContainerResponse"
                },
                "error": {
                    "type": "string",
                    "example": "inventory not saved"
                },
                "extraction": {
                    "type": "string",
                    "enum": [
                        "structured",
                        "fallback"
                    ],
                    "example": "fallback"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ItemResponse"
                    }
                },
                "label": {
                    "$ref": "#/definitions/models.Label"
                },
                "persisted": {
                    "type": "boolean",
                    "example": true
                },
                "submission_id": {
                    "type": "string",
                    "example": "9a1b2c3d-4e5f-4a6b-8c7d-0e1f2a3b4c5d"
                },
                "warnings": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "models.Label": {
            "type": "object",
            "properties": {
                "header": {
                    "$ref": "#/definitions/models.LabelLine"
                },
                "lines": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.LabelLine"
                    }
                }
            }
        },
        "models.LabelLine": {
            "type": "object",
            "properties": {
                "text": {
                    "type": "string"
                },
                "y": {
                    "type": "integer"
                }
            }
        },
        "session.FormDefaults": {
            "type": "object",
            "properties": {
                "container_id": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Treasure Trove API",
	Description:      "Household inventory ledger: record free-text submissions, list containers and items, export and print labels.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
