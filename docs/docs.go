package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "Charity platform task management API",
        "title": "Charity Tasks API",
        "version": "1.0"
    },
    "host": "localhost:8000",
    "basePath": "/",
    "schemes": ["http"],
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Health Check",
                "description": "Liveness probe that also pings the database",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    },
                    "503": {
                        "description": "Database unreachable"
                    }
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "User Login",
                "description": "Login with email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "credentials",
                        "description": "Login credentials",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "email": {
                                    "type": "string",
                                    "example": "admin@charity.dev"
                                },
                                "password": {
                                    "type": "string",
                                    "example": "admin123"
                                }
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Login successful, token returned"
                    },
                    "401": {
                        "description": "Unauthorized"
                    }
                }
            }
        },
        "/api/tasks": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Create task",
                "description": "Create a task and assign it to a user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {
                        "description": "Task created"
                    },
                    "400": {
                        "description": "Validation failed"
                    },
                    "403": {
                        "description": "Missing capability"
                    }
                }
            },
            "get": {
                "tags": ["Tasks"],
                "summary": "List tasks",
                "description": "Filtered, paginated task listing",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {
                        "description": "Task page with metadata"
                    }
                }
            }
        },
        "/api/tasks/my": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List my tasks",
                "description": "Tasks assigned to the caller",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {
                        "description": "Task page with metadata"
                    }
                }
            }
        },
        "/api/dashboard/statistics": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Task statistics",
                "description": "Per-status counts plus overdue and total",
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {
                        "description": "Statistics object"
                    }
                }
            }
        },
        "/api/reports/tasks/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export tasks",
                "description": "Export the filtered task list as an xlsx workbook",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {
                        "description": "Workbook download"
                    },
                    "403": {
                        "description": "Missing capability"
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Charity Tasks API",
	Description:      "Charity platform task management API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
