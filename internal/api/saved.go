package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recetario/backend/internal/middleware"
	"github.com/recetario/backend/internal/service"
	"github.com/recetario/backend/internal/types"
)

// SavedRecipeHandler exposes the saved-recipe bookmark operations.
type SavedRecipeHandler struct {
	saved *service.SavedRecipeService
}

// NewSavedRecipeHandler creates a new SavedRecipeHandler instance.
func NewSavedRecipeHandler(saved *service.SavedRecipeService) *SavedRecipeHandler {
	return &SavedRecipeHandler{saved: saved}
}

func (h *SavedRecipeHandler) Save(c *gin.Context) {
	var req types.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.saved.Save(c.Request.Context(), *userID, req.RecipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe saved"})
}

func (h *SavedRecipeHandler) Unsave(c *gin.Context) {
	var req types.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.saved.Unsave(c.Request.Context(), *userID, req.RecipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe removed from saved"})
}

func (h *SavedRecipeHandler) ListSaved(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := h.saved.ListSaved(c.Request.Context(), *userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
