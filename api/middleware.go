package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/charles-oliveira/web-2/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 128
)

// RequestLogger tags each request with a request id, stores a request
// logger in the context and logs the outcome by status class.
func RequestLogger(base *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		log := base.WithComponent(logger.ComponentHTTP).With(logger.FieldRequestID, requestID)
		ctx := logger.WithContext(c.Request.Context(), log)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		log.Log(ctx, level, "request completed",
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			logger.FieldQuery, c.Request.URL.RawQuery,
			logger.FieldStatusCode, status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
			logger.FieldClientIP, c.ClientIP(),
		)
	}
}
