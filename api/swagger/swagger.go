package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Class Routine Admin API",
        "description": "Room occupancy, course load and routine administration",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [
        {"BearerAuth": []}
    ],
    "tags": [
        {"name": "Dashboard", "description": "Occupancy, course load and teacher load views"},
        {"name": "Routine", "description": "Weekly routine grid and date overrides"},
        {"name": "Sections", "description": "Section merge forest"},
        {"name": "Rooms", "description": "Semester rooms"},
        {"name": "Programs", "description": "Academic programs"},
        {"name": "Settings", "description": "Default time slots and semester calendars"},
        {"name": "Calendar", "description": "Date arithmetic helpers"},
        {"name": "Reports", "description": "Asynchronous CSV and PDF exports"}
    ],
    "paths": {
        "/semesters/{semesterId}": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get semester calendar",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Create or replace a semester calendar",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SemesterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/{semesterId}/occupancy": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Room occupancy grid",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"},
                    {"name": "programs", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "csv"},
                    {"name": "tab", "in": "query", "type": "string", "enum": ["All", "Theory", "Lab"]},
                    {"name": "date", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/{semesterId}/courses": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Course load with merge trees",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"},
                    {"name": "programId", "in": "query", "type": "string"},
                    {"name": "courseType", "in": "query", "type": "string"},
                    {"name": "minCredit", "in": "query", "type": "number"},
                    {"name": "maxCredit", "in": "query", "type": "number"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/{semesterId}/teachers": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Teacher loads",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"},
                    {"name": "programId", "in": "query", "type": "string"},
                    {"name": "designation", "in": "query", "type": "string"},
                    {"name": "minCreditLoad", "in": "query", "type": "number"},
                    {"name": "maxCreditLoad", "in": "query", "type": "number"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/{semesterId}/sections/forest": {
            "get": {
                "tags": ["Sections"],
                "summary": "Flattened section merge forest",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/{semesterId}/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms of a semester",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"},
                    {"name": "buildingId", "in": "query", "type": "string"},
                    {"name": "programId", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Create room",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/{id}": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Get room detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Rooms"],
                "summary": "Update room",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RoomRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "semesterSystem", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Create program",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProgramRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/programs/{id}": {
            "get": {
                "tags": ["Programs"],
                "summary": "Get program detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Programs"],
                "summary": "Update program",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProgramRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/{semesterId}/routine": {
            "get": {
                "tags": ["Routine"],
                "summary": "Routine grid of a semester",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/{semesterId}/routine/cells": {
            "put": {
                "tags": ["Routine"],
                "summary": "Assign a class to a routine cell",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RoutineCellRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Routine"],
                "summary": "Free a routine cell",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RoutineCellRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Cell already free", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/semesters/{semesterId}/overrides": {
            "put": {
                "tags": ["Routine"],
                "summary": "Set date-specific overrides",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OverridesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sections/{sectionId}/merge": {
            "put": {
                "tags": ["Sections"],
                "summary": "Merge a section under a parent section",
                "parameters": [
                    {"name": "sectionId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MergeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Merge would create a cycle", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-slots": {
            "get": {
                "tags": ["Settings"],
                "summary": "List default time slots",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Settings"],
                "summary": "Replace default time slots",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TimeSlotsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar/occurrences": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Count weekday occurrences in a date range",
                "parameters": [
                    {"name": "day", "in": "query", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "end", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/generate": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue an export job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/status/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished export",
                "security": [],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Expired or tampered link", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "TimeSlot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "enum": ["Theory", "Lab"]},
                "startTime": {"type": "string", "example": "08:00"},
                "endTime": {"type": "string", "example": "09:15"}
            },
            "required": ["type", "startTime", "endTime"]
        },
        "ClassDetail": {
            "type": "object",
            "properties": {
                "courseCode": {"type": "string"},
                "section": {"type": "string"},
                "pId": {"type": "string"},
                "teacher": {"type": "string"},
                "levelTerm": {"type": "string"},
                "color": {"type": "string"}
            },
            "required": ["courseCode", "section", "pId"]
        },
        "RoomRequest": {
            "type": "object",
            "properties": {
                "roomNumber": {"type": "string"},
                "buildingId": {"type": "string"},
                "floorId": {"type": "string"},
                "categoryId": {"type": "string"},
                "typeId": {"type": "string"},
                "capacity": {"type": "integer"},
                "assignedToPId": {"type": "string"},
                "sharedWithPIds": {"type": "array", "items": {"type": "string"}},
                "roomSpecificSlots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}}
            },
            "required": ["roomNumber", "assignedToPId"]
        },
        "ProgramRequest": {
            "type": "object",
            "properties": {
                "pId": {"type": "string"},
                "shortName": {"type": "string"},
                "fullName": {"type": "string"},
                "semesterSystem": {"type": "string"},
                "activeDays": {"type": "array", "items": {"type": "string"}},
                "programSpecificSlots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}}
            },
            "required": ["pId", "shortName", "semesterSystem"]
        },
        "RoutineCellRequest": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "roomNumber": {"type": "string"},
                "slot": {"type": "string", "example": "08:00 - 09:15"},
                "class": {"$ref": "#/definitions/ClassDetail"}
            },
            "required": ["day", "roomNumber", "slot"]
        },
        "OverrideRequest": {
            "type": "object",
            "properties": {
                "roomNumber": {"type": "string"},
                "slot": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "class": {"$ref": "#/definitions/ClassDetail"}
            },
            "required": ["roomNumber", "slot", "date"]
        },
        "OverridesRequest": {
            "type": "object",
            "properties": {
                "overrides": {"type": "array", "items": {"$ref": "#/definitions/OverrideRequest"}}
            },
            "required": ["overrides"]
        },
        "MergeRequest": {
            "type": "object",
            "properties": {
                "parentSectionId": {"type": "string"}
            }
        },
        "TimeSlotsRequest": {
            "type": "object",
            "properties": {
                "slots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}}
            },
            "required": ["slots"]
        },
        "DateRange": {
            "type": "object",
            "properties": {
                "startDate": {"type": "string", "format": "date"},
                "endDate": {"type": "string", "format": "date"}
            },
            "required": ["startDate", "endDate"]
        },
        "SemesterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "typeConfigs": {"type": "object", "additionalProperties": {"$ref": "#/definitions/DateRange"}}
            },
            "required": ["name"]
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["routine_grid", "course_load", "teacher_load", "occupancy"]},
                "semesterId": {"type": "string"},
                "programIds": {"type": "array", "items": {"type": "string"}},
                "tab": {"type": "string", "enum": ["All", "Theory", "Lab"]},
                "day": {"type": "string"},
                "date": {"type": "string", "format": "date"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["type", "semesterId", "format"]
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
