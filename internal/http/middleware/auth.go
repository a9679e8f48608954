package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"taskmanager/internal/domain"
	"taskmanager/internal/logger"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// JWT requires an "Authorization: Bearer <token>" header and stores the
// resolved user in the gin context.
func JWT(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, domain.ErrNotAuthenticated)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			var de *domain.Error
			if errors.Is(err, domain.ErrUnauthorized) && errors.As(err, &de) {
				logger.WithContext(c.Request.Context()).Debug("token rejected", "error", err)
				abortUnauthorized(c, de)
				return
			}
			logger.WithContext(c.Request.Context()).Error("authenticate failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by JWT.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context, err *domain.Error) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Message})
}
