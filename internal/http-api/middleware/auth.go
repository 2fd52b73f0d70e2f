package middleware

import (
	"net/http"
	"strings"

	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/service"
	"yamdb/internal/policy"

	"github.com/gin-gonic/gin"
)

const (
	userKey  = "user"
	actorKey = "actor"
)

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// Requests without a valid bearer token are rejected with 401.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": policy.ErrUnauthenticated.Error()})
			return
		}
		authenticate(c, authService, authHeader)
	}
}

// OptionalAuth lets anonymous requests through; a header that is present
// must still carry a valid token.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}
		authenticate(c, authService, authHeader)
	}
}

func authenticate(c *gin.Context, authService service.AuthService, authHeader string) {
	// format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid authorization header format"})
		return
	}

	user, err := authService.Authenticate(c.Request.Context(), parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "given token not valid"})
		return
	}

	c.Set(userKey, user)
	c.Set(actorKey, policy.ActorFor(user))
	c.Next()
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// CurrentActor returns the caller as seen by the policy, nil when anonymous.
func CurrentActor(c *gin.Context) *policy.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(*policy.Actor); ok {
			return a
		}
	}
	return nil
}
