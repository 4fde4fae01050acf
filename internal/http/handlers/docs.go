package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type endpointDoc struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Description string            `json:"description"`
	Body        map[string]string `json:"body,omitempty"`
}

var (
	writeBody = map[string]string{
		"title":       "string (required)",
		"description": "string (optional)",
		"priority":    "string (low, medium, high) (optional)",
		"dueDate":     "ISO date string (optional)",
	}

	endpoints = []endpointDoc{
		{Method: http.MethodGet, Path: "/api/tasks", Description: "Get all tasks"},
		{Method: http.MethodGet, Path: "/api/tasks/:id", Description: "Get a specific task by ID"},
		{Method: http.MethodPost, Path: "/api/tasks", Description: "Create a new task", Body: writeBody},
		{Method: http.MethodPut, Path: "/api/tasks/:id", Description: "Update an existing task", Body: writeBody},
		{Method: http.MethodPatch, Path: "/api/tasks/:id", Description: "Partially update a task", Body: map[string]string{
			"title":       "string (optional)",
			"description": "string (optional)",
			"priority":    "string (low, medium, high) (optional)",
			"completed":   "boolean (optional)",
			"dueDate":     "ISO date string (optional, null clears)",
		}},
		{Method: http.MethodDelete, Path: "/api/tasks/:id", Description: "Delete a task"},
		{Method: http.MethodGet, Path: "/ws", Description: "Websocket feed of task change events"},
	}
)

// Docs describes the REST surface and publishes the write schema.
func (h *Handler) Docs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"description": "TaskFlow API - A RESTful API for managing tasks",
		"version":     "1.0.0",
		"endpoints":   endpoints,
		"schema":      h.Schema.Document(),
	})
}
