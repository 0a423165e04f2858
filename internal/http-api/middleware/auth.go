package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"yamdb/internal/http-api/models"
	"yamdb/internal/http-api/policy"
	"yamdb/internal/http-api/repository"
	"yamdb/internal/middleware/auth"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// TokenParser verifies access tokens.
type TokenParser interface {
	Parse(tokenString string) (*auth.Claims, error)
}

// UserLoader resolves the user a token was issued to.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticate resolves the request actor from a Bearer token.
// Requests without an Authorization header continue as anonymous; a header
// that does not resolve to an active user is rejected with 401.
func Authenticate(tokens TokenParser, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(actorKey, policy.Anonymous())
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		// role and superuser flag come from the store so changes apply at once
		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.ErrorContext(c.Request.Context(), "Failed to load token user",
				"error", err,
				"user_id", claims.UserID,
				"request_id", RequestIDFrom(c.Request.Context()),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
			return
		}
		if err != nil || !user.IsActive {
			unauthorized(c, "user not found or inactive")
			return
		}

		c.Set(actorKey, policy.ActorFromUser(user))
		c.Next()
	}
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

// ActorFrom returns the actor set by Authenticate, anonymous if none.
func ActorFrom(c *gin.Context) policy.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(policy.Actor); ok {
			return actor
		}
	}
	return policy.Anonymous()
}

// WithActor stores actor on the context. Used by tests and internal callers.
func WithActor(c *gin.Context, actor policy.Actor) {
	c.Set(actorKey, actor)
}
