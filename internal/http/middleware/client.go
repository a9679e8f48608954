package middleware

import (
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

const maxUserAgent = 256

// ClientInfo exposes the caller's address and user agent to services
// through the request context.
func ClientInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		ua := c.Request.UserAgent()
		if len(ua) > maxUserAgent {
			ua = ua[:maxUserAgent]
		}
		ctx := service.WithClientInfo(c.Request.Context(), service.ClientInfo{
			IP:        c.ClientIP(),
			UserAgent: ua,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
