package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"taskmanager/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger attaches a request-scoped logger to the request context and
// writes one line per request once the handler chain returns.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		l := logger.With("request_id", GetRequestID(c))
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), l))

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"route", routeLabel(c),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if u, ok := CurrentUser(c); ok {
			attrs = append(attrs, "user_id", u.ID)
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		l.Log(c.Request.Context(), level, "request", attrs...)
	}
}

// Recovery turns a panic into a 500 and logs it with the request logger.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithContext(c.Request.Context()).Error("panic recovered", "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}
