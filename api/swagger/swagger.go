package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Salesflow API",
        "description": "Field-sales workflow assistant: missions, visit sessions, report audits and exports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Missions", "description": "Manager-assigned tasks per customer"},
        {"name": "Visits", "description": "Rep visit session lifecycle"},
        {"name": "Reports", "description": "Filed visit reports and exports"},
        {"name": "Assignments", "description": "Sales rep to customer mapping"},
        {"name": "Ops", "description": "Operational endpoints"}
    ],
    "paths": {
        "/missions": {
            "get": {
                "tags": ["Missions"],
                "summary": "List missions",
                "description": "With ?customer= returns the customer's pending missions bucketed by due date; otherwise the raw pending list.",
                "parameters": [
                    {"name": "customer", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Missions"],
                "summary": "Assign a mission to a customer",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignMissionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "403": {"description": "Manager role required"}
                }
            }
        },
        "/missions/{id}": {
            "delete": {
                "tags": ["Missions"],
                "summary": "Withdraw a pending mission",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Archived"},
                    "404": {"description": "Unknown mission"},
                    "409": {"description": "Mission is not pending"}
                }
            }
        },
        "/visits": {
            "post": {
                "tags": ["Visits"],
                "summary": "Open a visit session",
                "description": "Loads and classifies the customer's pending missions. Replaces any session the rep already holds.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenVisitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Session opened", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Customer not assigned to the rep"}
                }
            }
        },
        "/visits/{id}": {
            "get": {
                "tags": ["Visits"],
                "summary": "Visit session status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown session"}
                }
            },
            "delete": {
                "tags": ["Visits"],
                "summary": "Discard a visit session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Discarded"}
                }
            }
        },
        "/visits/{id}/report": {
            "post": {
                "tags": ["Visits"],
                "summary": "Submit a typed report draft",
                "description": "Re-audits the draft against due-today missions on every submission.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VisitReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "Audited session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Session already closed"}
                }
            }
        },
        "/visits/{id}/voice": {
            "post": {
                "tags": ["Visits"],
                "summary": "Submit a voice report",
                "description": "Transcribes the audio, then follows the same audit path as a typed draft.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VisitVoiceRequest"}}
                ],
                "responses": {
                    "200": {"description": "Audited session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Transcription failed"}
                }
            }
        },
        "/visits/{id}/close": {
            "post": {
                "tags": ["Visits"],
                "summary": "Close a visit and file the outcome",
                "description": "Files the report, completes due-today missions and creates the follow-up mission in one transaction.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Filed report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Session not ready to close"},
                    "503": {"description": "Store write failed, session preserved"}
                }
            }
        },
        "/reports": {
            "get": {
                "tags": ["Reports"],
                "summary": "List filed visit reports",
                "parameters": [
                    {"name": "salesRep", "in": "query", "type": "string"},
                    {"name": "customer", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "to", "in": "query", "type": "string", "format": "date-time"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/export": {
            "post": {
                "tags": ["Reports"],
                "summary": "Request a report export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Job queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unsupported format or inverted range"}
                }
            }
        },
        "/reports/export/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job"}
                }
            }
        },
        "/reports/export/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished export",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        },
        "/assignments": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Assign a customer to a sales rep",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/reps": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List sales reps",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/reps/{rep}/customers": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List customers for a sales rep",
                "parameters": [
                    {"name": "rep", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ops/metrics": {
            "get": {
                "tags": ["Ops"],
                "summary": "System metrics snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "AssignMissionRequest": {
            "type": "object",
            "properties": {
                "customer": {"type": "string"},
                "topic": {"type": "string"},
                "description": {"type": "string"}
            },
            "required": ["customer", "topic"]
        },
        "OpenVisitRequest": {
            "type": "object",
            "properties": {
                "customer": {"type": "string"}
            },
            "required": ["customer"]
        },
        "VisitReportRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            },
            "required": ["text"]
        },
        "VisitVoiceRequest": {
            "type": "object",
            "properties": {
                "audio_base64": {"type": "string"},
                "language": {"type": "string"}
            },
            "required": ["audio_base64"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "sales_rep": {"type": "string"},
                "customer": {"type": "string"},
                "from": {"type": "string", "format": "date-time"},
                "to": {"type": "string", "format": "date-time"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["format"]
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {
                "sales_rep": {"type": "string"},
                "customer": {"type": "string"}
            },
            "required": ["sales_rep", "customer"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
