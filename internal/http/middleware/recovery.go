package middleware

import (
	"fmt"
	"net/http"

	"taskflow/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into the generic 500 body. Details carry the panic
// value in development and are null otherwise.
func Recovery(development bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		logger.Error("panic recovered", "error", err, "method", c.Request.Method, "path", c.Request.URL.Path)

		var details any
		if development {
			details = fmt.Sprint(err)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   true,
			"message": "Something went wrong!",
			"details": details,
		})
	})
}
