package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedRecipe is a user's bookmark of a recipe. The reference is weak:
// deleting a recipe leaves the row behind and listings join recipes so
// dangling ids drop out.
type SavedRecipe struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_saved_user_recipe" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_saved_user_recipe" json:"user_id"`
}

func (SavedRecipe) TableName() string {
	return "saved_recipes"
}

func (s *SavedRecipe) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
