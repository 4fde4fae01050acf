package handlers

import (
	"errors"
	"io"
	"net/http"

	"taskflow/internal/domain"
	"taskflow/internal/logger"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes caps request bodies on task writes.
const maxBodyBytes = 1 << 20

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	// Development echoes internal error details in 500 responses.
	Development   bool
	AllowedOrigin string
}

type Handler struct {
	Tasks  *service.TaskService
	Schema *service.InputSchema
	cfg    HandlerConfig
}

func NewHandler(tasks *service.TaskService, schema *service.InputSchema, cfg HandlerConfig) *Handler {
	return &Handler{
		Tasks:  tasks,
		Schema: schema,
		cfg:    cfg,
	}
}

func readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		return nil, domain.NewValidationError("Request body could not be read")
	}
	if len(body) > maxBodyBytes {
		return nil, domain.NewValidationError("Request body is too large")
	}
	return body, nil
}

func errorJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": true, "message": message})
}

// respondError maps service errors onto status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		errorJSON(c, http.StatusBadRequest, ve.Message)
	case errors.Is(err, domain.ErrInvalidInput):
		errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		errorJSON(c, http.StatusNotFound, "Task not found")
	case errors.Is(err, domain.ErrConflict):
		errorJSON(c, http.StatusPreconditionFailed, "Task was modified by another request")
	default:
		logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		var details any
		if h.cfg.Development {
			details = err.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   true,
			"message": "Something went wrong!",
			"details": details,
		})
	}
}
