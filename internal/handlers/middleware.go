package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger writes one debug line per request; server errors are logged at warn.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	if h.log == nil {
		return
	}
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"elapsed", time.Since(start),
	}
	if c.Writer.Status() >= 500 {
		h.log.Warnw("http_request_failed", fields...)
		return
	}
	h.log.Debugw("http_request", fields...)
}
