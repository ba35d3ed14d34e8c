package middleware

import (
	"context"
	"net/http"
	"restaurant_manager/internal/models"
	"restaurant_manager/internal/services"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth_claims"

// Authenticator validates an access token and returns its claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Claims, error)
}

// Auth requires a valid bearer token and stores its claims on the context.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "missing or malformed authorization header")
			return
		}
		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRoles admits only authenticated users holding one of roles. It must
// run after Auth.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !allowed[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Not authorized to access this resource",
				"error":   "role " + string(claims.Role) + " is not permitted",
			})
			return
		}
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*services.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}

// ActorFrom returns the authenticated actor, or the zero Actor when the
// request is anonymous.
func ActorFrom(c *gin.Context) models.Actor {
	if claims, ok := ClaimsFrom(c); ok {
		return claims.Actor()
	}
	return models.Actor{}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Not authorized",
		"error":   reason,
	})
}
