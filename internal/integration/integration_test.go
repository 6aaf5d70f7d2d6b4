package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recetario/backend/internal/models"
	"github.com/recetario/backend/internal/service"
	"github.com/recetario/backend/internal/testhelpers"
	"github.com/recetario/backend/internal/types"
)

// TestRecipeLifecyclePostgres runs the moderation and query flow against
// a real PostgreSQL, covering the jsonb_array_elements predicates the
// sqlite-backed unit tests cannot exercise.
func TestRecipeLifecyclePostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := testhelpers.SetupPostgresDatabase(t)
	ctx := context.Background()

	recipes := service.NewRecipeService(db)
	moderation := service.NewModerationService(db)
	saved := service.NewSavedRecipeService(db)

	owner := models.User{Username: "owner", Email: "owner@example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&owner).Error)
	reader := models.User{Username: "reader", Email: "reader@example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&reader).Error)

	recipe := models.Recipe{
		Name:           "Sopa de tomate",
		Classification: "Cena",
		Description:    "para el invierno",
		Portions:       4,
		Status:         false,
		UserID:         owner.ID,
		OwnerUsername:  owner.Username,
		Ingredients: models.IngredientList{
			{Name: "Tomate", Amount: 6, Unit: "unidades"},
			{Name: "Ajo", Amount: 1, Unit: "unidades"},
		},
		Steps: models.StepList{{Description: "hervir y licuar"}},
	}
	require.NoError(t, db.Create(&recipe).Error)

	// Invisible while pending.
	listed, err := recipes.List(ctx, service.ListQuery{}, nil)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = moderation.ApproveRecipe(ctx, recipe.ID)
	require.NoError(t, err)

	// Ingredient membership filter over the jsonb column.
	listed, err = recipes.List(ctx, service.ListQuery{Ingredient: "tomate"}, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Sopa de tomate", listed[0].Name)

	listed, err = recipes.List(ctx, service.ListQuery{ExcludeIngredient: "ajo"}, nil)
	require.NoError(t, err)
	assert.Empty(t, listed)

	// Name search reaches into ingredient names too.
	listed, err = recipes.List(ctx, service.ListQuery{Name: "ajo"}, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// Comment round-trip through the jsonb comments column.
	comment, err := recipes.AddComment(ctx, recipe.ID, reader.ID, &types.AddCommentRequest{Text: "rica", Rating: intPtr(4)})
	require.NoError(t, err)

	pending, err := moderation.PendingComments(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, comment.ID, pending[0].CommentID)

	updated, err := moderation.ApproveComment(ctx, recipe.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.Rating)

	require.NoError(t, saved.Save(ctx, reader.ID, recipe.ID))
	savedList, err := saved.ListSaved(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, savedList, 1)
	assert.Equal(t, recipe.ID, savedList[0].ID)
}

func intPtr(v int) *int { return &v }
