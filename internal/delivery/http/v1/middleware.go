package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDCtxKey = "request_id"
)

func (h *handlerImpl) HandleRequestLogMiddleware(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)

	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	var event *zerolog.Event
	switch {
	case status >= http.StatusInternalServerError:
		event = h.logger.Error()
	case status >= http.StatusBadRequest:
		event = h.logger.Warn()
	default:
		event = h.logger.Info()
	}
	event.
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("handled request")
}

// requestLogger returns the handler logger tagged with the request id.
func (h *handlerImpl) requestLogger(c *gin.Context) *zerolog.Logger {
	logger := h.logger.With().
		Str("request_id", c.GetString(requestIDCtxKey)).
		Logger()
	return &logger
}
