// docs/docs.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/printers": {
            "get": {
                "tags": ["Printers"],
                "summary": "List printers",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Printers retrieved successfully"},
                    "502": {"description": "Spooler error"}
                }
            }
        },
        "/printers/{name}": {
            "get": {
                "tags": ["Printers"],
                "summary": "Get printer",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Printer retrieved successfully"},
                    "404": {"description": "Printer not found"}
                }
            }
        },
        "/printers/{name}/diagnosis": {
            "get": {
                "tags": ["Printers"],
                "summary": "Diagnose printer driver",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Diagnosis completed"},
                    "404": {"description": "Printer not found"}
                }
            }
        },
        "/printers/{name}/test-jobs": {
            "get": {
                "tags": ["Printers"],
                "summary": "Queued test pages",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "Test jobs retrieved successfully"}}
            }
        },
        "/printers/{name}/enabled": {
            "put": {
                "tags": ["Printers"],
                "summary": "Enable or disable printer",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "Printer updated"}, "400": {"description": "Invalid request"}}
            }
        },
        "/printers/{name}/accepting": {
            "put": {
                "tags": ["Printers"],
                "summary": "Accept or reject jobs",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "Printer updated"}, "400": {"description": "Invalid request"}}
            }
        },
        "/printers/{name}/shared": {
            "put": {
                "tags": ["Printers"],
                "summary": "Share printer",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "Printer updated"}, "400": {"description": "Invalid request"}}
            }
        },
        "/printers/{name}/policies": {
            "put": {
                "tags": ["Printers"],
                "summary": "Set printer policies",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "Printer updated"}, "400": {"description": "Invalid request"}}
            }
        },
        "/printers/{name}/job-sheets": {
            "put": {
                "tags": ["Printers"],
                "summary": "Set job sheets",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "Printer updated"}, "400": {"description": "Invalid request"}}
            }
        },
        "/printers/{name}/access": {
            "put": {
                "tags": ["Printers"],
                "summary": "Set printer access",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "Printer updated"}, "400": {"description": "Invalid request"}}
            }
        },
        "/printers/{name}/options/{option}": {
            "put": {
                "tags": ["Printers"],
                "summary": "Set option default",
                "parameters": [
                    {"type": "string", "name": "name", "in": "path", "required": true},
                    {"type": "string", "name": "option", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "Printer updated"}, "400": {"description": "Invalid request"}}
            },
            "delete": {
                "tags": ["Printers"],
                "summary": "Remove option default",
                "parameters": [
                    {"type": "string", "name": "name", "in": "path", "required": true},
                    {"type": "string", "name": "option", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "Printer updated"}}
            }
        },
        "/printers/{name}/activate": {
            "post": {
                "tags": ["Printers"],
                "summary": "Activate new printer",
                "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}],
                "responses": {"200": {"description": "Printer activated"}}
            }
        },
        "/devices": {
            "get": {
                "tags": ["Devices"],
                "summary": "List devices",
                "responses": {"200": {"description": "Devices retrieved successfully"}}
            }
        },
        "/ppd/diagnose": {
            "post": {
                "tags": ["PPD"],
                "summary": "Diagnose PPD",
                "consumes": ["text/plain"],
                "responses": {"200": {"description": "Diagnosis completed"}, "400": {"description": "Invalid PPD"}}
            }
        },
        "/ppd/sync": {
            "post": {
                "tags": ["PPD"],
                "summary": "Synchronize PPD options",
                "consumes": ["application/json"],
                "responses": {"200": {"description": "Options synchronized"}, "400": {"description": "Invalid request"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Printer Service API",
	Description:      "Printer metadata and driver diagnosis service for CUPS",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
