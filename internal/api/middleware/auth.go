package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	UsernameKey = "username"
	RoleKey     = "role"
)

// TokenValidator checks an access token.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token. The token query
// parameter is accepted for event streams, where browsers cannot set headers.
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token required"})
			return
		}

		claims, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token", "details": err.Error()})
			return
		}

		c.Set(UsernameKey, claims.Username)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
