package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recetario/backend/internal/models"
)

// SavedRecipeService manages a user's saved-recipe bookmarks.
type SavedRecipeService struct {
	db *gorm.DB
}

// NewSavedRecipeService creates a new SavedRecipeService instance.
func NewSavedRecipeService(db *gorm.DB) *SavedRecipeService {
	return &SavedRecipeService{db: db}
}

// Save bookmarks a recipe for the user. Saving an unknown recipe fails
// with ErrRecipeNotFound; saving twice fails with ErrAlreadySaved.
func (s *SavedRecipeService) Save(ctx context.Context, userID, recipeID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrRecipeNotFound
		}
		return err
	}

	var existing models.SavedRecipe
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error
	if err == nil {
		return ErrAlreadySaved
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	saved := models.SavedRecipe{UserID: userID, RecipeID: recipeID}
	return s.db.WithContext(ctx).Create(&saved).Error
}

// Unsave removes the bookmark. Removing a bookmark that does not exist
// is not an error.
func (s *SavedRecipeService) Unsave(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.SavedRecipe{}).Error
}

// ListSaved returns the user's saved recipes. Bookmarks are weak
// references: ids whose recipe has been deleted simply drop out of the
// join, and visibility still applies to what remains.
func (s *SavedRecipeService) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	viewer, err := resolveViewer(ctx, s.db, &userID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, ErrUserNotFound
	}

	saved := s.db.WithContext(ctx).Model(&models.SavedRecipe{}).Select("recipe_id").Where("user_id = ?", userID)
	query := s.db.WithContext(ctx).Where("id IN (?)", saved)
	if !viewer.IsAdmin {
		query = query.Where("status = ? OR user_id = ?", true, userID)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	isSaved := true
	for i := range recipes {
		r := &recipes[i]
		r.IsSaved = &isSaved
		if !viewer.IsAdmin && r.UserID != userID {
			r.Comments = r.ApprovedComments()
		}
	}
	return recipes, nil
}
