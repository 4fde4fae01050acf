package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskflow/internal/domain"

	"github.com/gin-gonic/gin"
)

// ListTasks returns every task in insertion order.
func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	task, err := h.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("ETag", task.ETag())
	c.JSON(http.StatusOK, task)
}

func (h *Handler) CreateTask(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	in, err := h.Schema.Decode(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("ETag", task.ETag())
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT: the body must carry a valid title.
func (h *Handler) UpdateTask(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	in, err := h.Schema.Decode(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	task, err := h.Tasks.Replace(c.Request.Context(), c.Param("id"), in, c.GetHeader("If-Match"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("ETag", task.ETag())
	c.JSON(http.StatusOK, task)
}

// PatchTask merges only the provided fields.
func (h *Handler) PatchTask(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var patch domain.TaskPatch
	if len(body) > 0 {
		if err := json.Unmarshal(body, &patch); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				err = domain.NewValidationError("Request body must be valid JSON")
			}
			h.respondError(c, err)
			return
		}
	}

	task, err := h.Tasks.Patch(c.Request.Context(), c.Param("id"), patch, c.GetHeader("If-Match"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("ETag", task.ETag())
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	removed, err := h.Tasks.Delete(c.Request.Context(), c.Param("id"), c.GetHeader("If-Match"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted successfully",
		"taskId":  removed.ID,
	})
}
