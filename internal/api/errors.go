package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recetario/backend/internal/service"
)

// respondError maps service-layer errors to HTTP statuses. Unknown
// errors are logged and surface as an opaque 500: infrastructure
// detail never reaches the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrAlreadySaved),
		errors.Is(err, service.ErrInvalidResetCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
