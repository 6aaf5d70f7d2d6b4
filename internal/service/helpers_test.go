package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/recetario/backend/internal/models"
)

func intPtr(v int) *int { return &v }

func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedRecipe(t *testing.T, db *gorm.DB, owner *models.User, name string, approved bool) *models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		Name:           name,
		Classification: "Cena",
		Description:    "una receta de prueba",
		Portions:       2,
		Status:         approved,
		UserID:         owner.ID,
		OwnerUsername:  owner.Username,
		Ingredients: models.IngredientList{
			{Name: "sal", Amount: 1, Unit: "pizca"},
		},
		Steps:    models.StepList{{Description: "mezclar todo"}},
		Comments: models.CommentList{},
	}
	require.NoError(t, db.Create(&recipe).Error)
	return &recipe
}

func seedComment(t *testing.T, db *gorm.DB, recipe *models.Recipe, author *models.User, text string, rating *int, approved bool) uuid.UUID {
	t.Helper()
	comment := models.Comment{
		ID:       uuid.New(),
		UserID:   author.ID,
		Username: author.Username,
		Text:     text,
		Rating:   rating,
		Approved: approved,
	}
	recipe.Comments = append(recipe.Comments, comment)
	if approved {
		recipe.RecomputeRating()
	}
	require.NoError(t, db.Save(recipe).Error)
	return comment.ID
}
