package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recetario/backend/internal/models"
	"github.com/recetario/backend/internal/service"
	"github.com/recetario/backend/internal/testhelpers"
	"github.com/recetario/backend/internal/types"
)

func strPtr(v string) *string { return &v }

func TestCreateRecipeStartsPending(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "cocinero", models.RoleUser)

	recipe, err := svc.Create(ctx, owner.ID, &types.CreateRecipeRequest{
		Name:           "Tarta de verdura",
		Classification: "Almuerzo",
		Description:    "tarta liviana",
		Portions:       4,
		Ingredients: []types.IngredientPayload{
			{Name: "Acelga", Amount: 500, Unit: "g"},
		},
		Steps: []types.StepPayload{{Description: "hervir la acelga"}},
	})
	require.NoError(t, err)

	assert.False(t, recipe.Status)
	assert.Equal(t, 0.0, recipe.Rating)
	assert.Equal(t, owner.ID, recipe.UserID)
	assert.Equal(t, "cocinero", recipe.OwnerUsername)
	assert.False(t, recipe.UploadDate.IsZero())

	// Pending recipes never show up in the public listing.
	recipes, err := svc.List(ctx, service.ListQuery{}, nil)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestCreateRecipeUnknownOwner(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db)

	_, err := svc.Create(context.Background(), uuid.New(), &types.CreateRecipeRequest{
		Name:           "x",
		Classification: "Otro",
		Description:    "y",
		Portions:       1,
	})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUpdateRecipeOwnerOnly(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner", models.RoleUser)
	other := seedUser(t, db, "other", models.RoleUser)
	recipe := seedRecipe(t, db, owner, "milanesas", true)

	_, err := svc.Update(ctx, recipe.ID, other.ID, &types.UpdateRecipeRequest{Name: strPtr("robada")})
	assert.ErrorIs(t, err, service.ErrForbidden)

	updated, err := svc.Update(ctx, recipe.ID, owner.ID, &types.UpdateRecipeRequest{
		Name:     strPtr("milanesas napo"),
		Portions: intPtr(6),
	})
	require.NoError(t, err)
	assert.Equal(t, "milanesas napo", updated.Name)
	assert.Equal(t, 6, updated.Portions)
	// Untouched fields survive a partial update.
	assert.Equal(t, "una receta de prueba", updated.Description)
	assert.True(t, updated.Status)
}

func TestUpdateMissingRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db)

	owner := seedUser(t, db, "owner", models.RoleUser)
	_, err := svc.Update(context.Background(), uuid.New(), owner.ID, &types.UpdateRecipeRequest{})
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestDeleteRecipeOwnerOnly(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner", models.RoleUser)
	other := seedUser(t, db, "other", models.RoleUser)
	recipe := seedRecipe(t, db, owner, "flan", true)

	assert.ErrorIs(t, svc.Delete(ctx, recipe.ID, other.ID), service.ErrForbidden)
	assert.NoError(t, svc.Delete(ctx, recipe.ID, owner.ID))

	_, err := svc.Get(ctx, recipe.ID, &owner.ID)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestAddCommentStartsUnapproved(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner", models.RoleUser)
	commenter := seedUser(t, db, "commenter", models.RoleUser)
	recipe := seedRecipe(t, db, owner, "locro", true)

	comment, err := svc.AddComment(ctx, recipe.ID, commenter.ID, &types.AddCommentRequest{
		Text:   "riquisimo",
		Rating: intPtr(5),
	})
	require.NoError(t, err)
	assert.False(t, comment.Approved)
	assert.Equal(t, "commenter", comment.Username)

	// The rating does not count until the comment is approved, and the
	// detail view hides the comment from everyone.
	got, err := svc.Get(ctx, recipe.ID, &owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Rating)
	assert.Empty(t, got.Comments)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.Len(t, stored.Comments, 1)
	assert.True(t, stored.HasUnapprovedComments())
}

func TestAddCommentMissingRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db)

	commenter := seedUser(t, db, "commenter", models.RoleUser)
	_, err := svc.AddComment(context.Background(), uuid.New(), commenter.ID, &types.AddCommentRequest{Text: "hola"})
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestGetFiltersUnapprovedCommentsForOwner(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner", models.RoleUser)
	commenter := seedUser(t, db, "commenter", models.RoleUser)
	recipe := seedRecipe(t, db, owner, "empanadas", true)
	seedComment(t, db, recipe, commenter, "aprobado", intPtr(4), true)
	seedComment(t, db, recipe, commenter, "pendiente", intPtr(1), false)

	got, err := svc.Get(ctx, recipe.ID, &owner.ID)
	require.NoError(t, err)
	assert.Len(t, got.Comments, 1)
	assert.Equal(t, "aprobado", got.Comments[0].Text)
	assert.Equal(t, 4.0, got.Rating)
}

func TestListByUsername(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner", models.RoleUser)
	admin := seedUser(t, db, "admin", models.RoleAdmin)
	seedRecipe(t, db, owner, "publica", true)
	seedRecipe(t, db, owner, "pendiente", false)

	// Anonymous viewers only see the approved recipe.
	recipes, err := svc.ListByUsername(ctx, "owner", nil)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
	assert.Equal(t, "publica", recipes[0].Name)

	// The owner sees both.
	recipes, err = svc.ListByUsername(ctx, "owner", &owner.ID)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)

	// So does an admin.
	recipes, err = svc.ListByUsername(ctx, "owner", &admin.ID)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)

	_, err = svc.ListByUsername(ctx, "nadie", nil)
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
