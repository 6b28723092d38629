package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"launchsignal-backend/internal/shared/response"
)

// BodyLimit caps request bodies at maxBytes. Declared oversize bodies are
// rejected up front; others fail while being read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.ErrorResponse(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
