package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recetario/backend/internal/models"
)

// UserGetter resolves a user id to its record for the role check.
type UserGetter interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireAdmin gates moderation routes behind the admin capability.
// It must run after AuthMiddleware. Ownership alone never suffices for
// moderation transitions.
func RequireAdmin(users UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		user, err := users.GetUser(c.Request.Context(), *userID)
		if err != nil || !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
