package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	dom "todoapi/internal/domain"

	"github.com/gin-gonic/gin"
)

// HeaderName carries the session token on requests and on register/login responses.
const HeaderName = "x-auth"

const (
	contextKeyUser  = "user"
	contextKeyToken = "token"
)

// Authenticator resolves a presented token to its user. Unknown or revoked
// tokens must be reported as ErrInvalidToken; other errors are store failures.
type Authenticator interface {
	FindByToken(ctx context.Context, token string) (dom.User, error)
}

// UserFromContext returns the user set by RequireToken.
func UserFromContext(c *gin.Context) (dom.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return dom.User{}, false
	}
	u, ok := v.(dom.User)
	return u, ok
}

// TokenFromContext returns the token the current request was authenticated with.
func TokenFromContext(c *gin.Context) string {
	return c.GetString(contextKeyToken)
}

// RequireToken returns a middleware that resolves the x-auth header to a user
// and sets it in context. If missing, invalid or revoked, responds with 401.
func RequireToken(users Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(HeaderName))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		user, err := users.FindByToken(c.Request.Context(), token)
		if errors.Is(err, ErrInvalidToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Set(contextKeyUser, user)
		c.Set(contextKeyToken, token)
		c.Next()
	}
}
