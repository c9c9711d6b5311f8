package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Hostel Grievance API",
        "description": "Backend for hostel grievance registration and triage",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Registration", "description": "Student and staff onboarding"},
        {"name": "Authentication", "description": "Token issuance"},
        {"name": "Profile", "description": "Own profile lookup"},
        {"name": "Grievances", "description": "Complaint filing and triage"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/register/student": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register a student",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Already registered"}
                }
            }
        },
        "/register/admin": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register an admin",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Already registered"}
                }
            }
        },
        "/login/student": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate a student",
                "responses": {
                    "200": {"description": "Token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/login/admin": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate an admin",
                "responses": {
                    "200": {"description": "Token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/profile/student": {
            "get": {
                "tags": ["Profile"],
                "summary": "Get own student profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Profile"},
                    "403": {"description": "Wrong role"}
                }
            }
        },
        "/profile/admin": {
            "get": {
                "tags": ["Profile"],
                "summary": "Get own admin profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Profile"},
                    "403": {"description": "Wrong role"}
                }
            }
        },
        "/api/grievances": {
            "post": {
                "tags": ["Grievances"],
                "summary": "File a grievance",
                "consumes": ["multipart/form-data"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error"},
                    "403": {"description": "Students only"}
                }
            }
        },
        "/api/grievances/my": {
            "get": {
                "tags": ["Grievances"],
                "summary": "List own grievances",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Grievance list"},
                    "403": {"description": "Students only"}
                }
            }
        },
        "/all/greivances/admin": {
            "get": {
                "tags": ["Grievances"],
                "summary": "List hostel grievances",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Grievance list"},
                    "403": {"description": "Admins only"}
                }
            }
        },
        "/all/greivances/admin/export": {
            "get": {
                "tags": ["Grievances"],
                "summary": "Export hostel grievances as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Report file"},
                    "403": {"description": "Admins only"}
                }
            }
        },
        "/grievance/{id}": {
            "get": {
                "tags": ["Grievances"],
                "summary": "Fetch one grievance",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Grievance"},
                    "403": {"description": "Out of scope"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/grievance/{id}/status": {
            "post": {
                "tags": ["Grievances"],
                "summary": "Update grievance status",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Updated grievance"},
                    "400": {"description": "Invalid status"},
                    "403": {"description": "Wrong hostel"},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
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
                "error": {"$ref": "#/definitions/APIError"}
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
