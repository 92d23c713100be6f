package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mwhitfield/horizon/internal/logger"
)

// loggerKey is the context key under which the request-scoped logger lives.
const loggerKey = "logger"

// Logger creates a middleware that logs HTTP requests using structured
// logging. It stores a request-scoped child logger in the context and logs
// method, path, status, duration and client details on completion.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := GetRequestID(c)
		requestLogger := log.WithRequestID(requestID)
		c.Set(loggerKey, requestLogger)

		c.Next()

		duration := time.Since(start)

		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": duration.Milliseconds(),
			"ip":          c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if len(c.Request.URL.RawQuery) > 0 {
			fields["query"] = c.Request.URL.RawQuery
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		statusCode := c.Writer.Status()
		switch {
		case statusCode >= 500:
			requestLogger.Error("Request completed with server error", nil, fields)
		case statusCode >= 400:
			requestLogger.Warn("Request completed with client error", fields)
		default:
			requestLogger.Info("Request completed", fields)
		}
	}
}

// GetLogger retrieves the logger from the Gin context.
// Returns nil if not found.
func GetLogger(c *gin.Context) *logger.Logger {
	if log, exists := c.Get(loggerKey); exists {
		if requestLogger, ok := log.(*logger.Logger); ok {
			return requestLogger
		}
	}
	return nil
}
