// Package docs registers the Swagger document served under /swagger. It is
// maintained by hand alongside the @Router annotations in internal/handlers,
// so a route added there must be added here too.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
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
        "/health": {
            "get": {
                "description": "Returns the health status of the API and its optional dependencies",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        },
        "/providers": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Returns the AI providers the backend offers. Falls back to the default list when the backend is unavailable.",
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List generation providers",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/creative.ProvidersResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/formats": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Returns the resizing and repurposing formats. Falls back to the default list when the backend is unavailable.",
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List output formats",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/creative.FormatsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/generate": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Enqueues a generation job on the backend and starts following its progress",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Start a generation job",
                "parameters": [
                    {"description": "Generation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.GenerateRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/models.GenerateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/jobs": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Returns the caller's most recent generation jobs",
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "List generation jobs",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of jobs (default 50, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.JobListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/jobs/{job_id}": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Returns the latest known state of a generation job, including its assets once completed",
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Get job progress",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "job_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.JobView"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"Bearer": []}],
                "description": "Stops the poll loop of a job. The backend job itself is not canceled.",
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Stop following a job",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "job_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.JobView"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/assets/{asset_id}": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["assets"],
                "summary": "Get a generated asset",
                "parameters": [
                    {"type": "string", "description": "Generated asset ID", "name": "asset_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/creative.GeneratedAsset"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/assets/{asset_id}/edits": {
            "put": {
                "security": [{"Bearer": []}],
                "description": "Takes crop, saturation and overlays in display pixels, normalizes them against the asset's dimensions and submits them to the backend. Logo overlays are not sent yet and produce a notice.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["assets"],
                "summary": "Apply edits to a generated asset",
                "parameters": [
                    {"type": "string", "description": "Generated asset ID", "name": "asset_id", "in": "path", "required": true},
                    {"description": "Editor state", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ApplyEditsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ApplyEditsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/downloads": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Returns a download URL for the given assets",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["downloads"],
                "summary": "Get a download link",
                "parameters": [
                    {"description": "Assets to download", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.DownloadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DownloadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/downloads/batch": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Takes the choices of the download panel. PSD falls back to JPEG with a notice.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["downloads"],
                "summary": "Download a selection of assets",
                "parameters": [
                    {"description": "Download choices", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.BatchDownloadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DownloadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "List projects",
                "parameters": [
                    {"type": "integer", "description": "Page size (default 20)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/creative.ProjectList"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects/{project_id}": {
            "delete": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Delete a project",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "project_id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects/{project_id}/status": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Get project status",
                "parameters": [
                    {"type": "string", "description": "Project ID", "name": "project_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/creative.ProjectStatus"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "creative.Dimensions": {
            "type": "object",
            "properties": {
                "height": {"type": "integer"},
                "width": {"type": "integer"}
            }
        },
        "creative.EditRequest": {
            "type": "object",
            "properties": {
                "crop": {"$ref": "#/definitions/geometry.Rect"},
                "logo_overlays": {"type": "array", "items": {"$ref": "#/definitions/creative.LogoOverlayEdit"}},
                "saturation": {"type": "number"},
                "text_overlays": {"type": "array", "items": {"$ref": "#/definitions/creative.TextOverlayEdit"}}
            }
        },
        "creative.FormatSpec": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "height": {"type": "integer"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "platform_id": {"type": "string"},
                "platform_name": {"type": "string"},
                "width": {"type": "integer"}
            }
        },
        "creative.FormatsResponse": {
            "type": "object",
            "properties": {
                "repurposing": {"type": "array", "items": {"$ref": "#/definitions/creative.FormatSpec"}},
                "resizing": {"type": "array", "items": {"$ref": "#/definitions/creative.FormatSpec"}}
            }
        },
        "creative.GeneratedAsset": {
            "type": "object",
            "properties": {
                "assetUrl": {"type": "string"},
                "dimensions": {"$ref": "#/definitions/creative.Dimensions"},
                "filename": {"type": "string"},
                "formatName": {"type": "string"},
                "id": {"type": "string"},
                "isNsfw": {"type": "boolean"},
                "originalAssetId": {"type": "string"},
                "platformName": {"type": "string"}
            }
        },
        "creative.LogoOverlayEdit": {
            "type": "object",
            "properties": {
                "bounds": {"$ref": "#/definitions/geometry.Rect"},
                "opacity": {"type": "number"}
            }
        },
        "creative.Project": {
            "type": "object",
            "properties": {
                "asset_count": {"type": "integer"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "creative.ProjectList": {
            "type": "object",
            "properties": {
                "projects": {"type": "array", "items": {"$ref": "#/definitions/creative.Project"}},
                "total": {"type": "integer"}
            }
        },
        "creative.ProjectStatus": {
            "type": "object",
            "properties": {
                "progress": {"type": "integer"},
                "project_id": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "creative.ProvidersResponse": {
            "type": "object",
            "properties": {
                "default_provider": {"type": "string"},
                "providers": {"type": "array", "items": {"type": "string"}}
            }
        },
        "creative.TextOverlayEdit": {
            "type": "object",
            "properties": {
                "position": {"$ref": "#/definitions/geometry.Point"},
                "style": {"$ref": "#/definitions/creative.TextStyle"},
                "text": {"type": "string"}
            }
        },
        "creative.TextStyle": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "font_family": {"type": "string"},
                "font_size": {"type": "number"}
            }
        },
        "edits.LogoOverlay": {
            "type": "object",
            "properties": {
                "height": {"type": "number"},
                "id": {"type": "string"},
                "opacity": {"type": "number"},
                "source": {"type": "string"},
                "width": {"type": "number"},
                "x": {"type": "number"},
                "y": {"type": "number"}
            }
        },
        "edits.TextOverlay": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "font_family": {"type": "string"},
                "font_size": {"type": "number"},
                "id": {"type": "string"},
                "text": {"type": "string"},
                "x": {"type": "number"},
                "y": {"type": "number"}
            }
        },
        "geometry.Point": {
            "type": "object",
            "properties": {
                "x": {"type": "number"},
                "y": {"type": "number"}
            }
        },
        "geometry.Rect": {
            "type": "object",
            "properties": {
                "height": {"type": "number"},
                "width": {"type": "number"},
                "x": {"type": "number"},
                "y": {"type": "number"}
            }
        },
        "models.ApplyEditsRequest": {
            "type": "object",
            "properties": {
                "crop": {"$ref": "#/definitions/geometry.Rect"},
                "crop_area": {"type": "integer", "example": 100},
                "display_width": {"type": "number", "example": 600},
                "logo_overlays": {"type": "array", "items": {"$ref": "#/definitions/edits.LogoOverlay"}},
                "saturation": {"type": "integer", "example": -50},
                "text_overlays": {"type": "array", "items": {"$ref": "#/definitions/edits.TextOverlay"}}
            }
        },
        "models.ApplyEditsResponse": {
            "type": "object",
            "properties": {
                "asset": {"$ref": "#/definitions/creative.GeneratedAsset"},
                "edits": {"$ref": "#/definitions/creative.EditRequest"},
                "notices": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.BatchDownloadRequest": {
            "type": "object",
            "properties": {
                "asset_ids": {"type": "array", "items": {"type": "string"}},
                "format": {"type": "string", "example": "JPEG"},
                "grouping": {"type": "string", "example": "Batch"},
                "quality": {"type": "string", "example": "High"}
            }
        },
        "models.DownloadRequest": {
            "type": "object",
            "required": ["asset_ids"],
            "properties": {
                "asset_ids": {"type": "array", "minItems": 1, "items": {"type": "string"}},
                "format": {"type": "string", "example": "jpeg"},
                "quality": {"type": "string", "example": "high"}
            }
        },
        "models.DownloadResponse": {
            "type": "object",
            "properties": {
                "download_url": {"type": "string"},
                "notices": {"type": "array", "items": {"type": "string"}}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.GenerateRequest": {
            "type": "object",
            "required": ["format_ids", "project_id"],
            "properties": {
                "custom_prompt": {"type": "string"},
                "format_ids": {"type": "array", "minItems": 1, "items": {"type": "string"}, "example": ["instagram-post", "facebook-post"]},
                "project_id": {"type": "string", "example": "6f1c2a9e-3b7d-4f5a-9c1e-2d8b7a6f5e4d"},
                "provider": {"type": "string", "example": "gemini"}
            }
        },
        "models.GenerateResponse": {
            "type": "object",
            "properties": {
                "job_id": {"type": "string"},
                "status": {"type": "string"},
                "status_url": {"type": "string"}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"type": "object", "additionalProperties": {"type": "string"}},
                "status": {"type": "string"}
            }
        },
        "models.JobListResponse": {
            "type": "object",
            "properties": {
                "jobs": {"type": "array", "items": {"$ref": "#/definitions/models.JobSummary"}}
            }
        },
        "models.JobSummary": {
            "type": "object",
            "properties": {
                "asset_count": {"type": "integer"},
                "completed_at": {"type": "string"},
                "created_at": {"type": "string"},
                "error_message": {"type": "string"},
                "format_ids": {"type": "array", "items": {"type": "string"}},
                "job_id": {"type": "string"},
                "progress": {"type": "integer"},
                "project_id": {"type": "string"},
                "provider": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "models.JobView": {
            "type": "object",
            "properties": {
                "asset_count": {"type": "integer"},
                "error": {"type": "string"},
                "job_id": {"type": "string"},
                "progress": {"type": "integer", "example": 40},
                "results": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/creative.GeneratedAsset"}}},
                "state": {"type": "string", "example": "polling"},
                "status": {"type": "string", "example": "running"},
                "updated_at": {"type": "string"},
                "user_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "AI CREAT Gateway API",
	Description:      "Gateway for the AI CREAT dashboard. Starts generation jobs and follows their progress, normalizes manual edits before they reach the generation backend, and brokers downloads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
