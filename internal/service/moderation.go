package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recetario/backend/internal/models"
)

// ModerationService drives the approval state machine for recipes and
// comments. Authorization is enforced upstream: every route reaching
// this service passes the admin capability check.
type ModerationService struct {
	db *gorm.DB
}

// NewModerationService creates a new ModerationService instance.
func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// PendingComment is one unapproved comment flattened out of its recipe
// for the moderation queue.
type PendingComment struct {
	RecipeID   uuid.UUID `json:"recipe_id"`
	RecipeName string    `json:"recipe_name"`
	CommentID  uuid.UUID `json:"comment_id"`
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	Text       string    `json:"text"`
	Rating     *int      `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ApproveRecipe transitions a recipe from pending to approved. The
// operation is idempotent: approving an already-approved recipe leaves
// status true.
func (s *ModerationService) ApproveRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	recipe.Status = true
	if err := s.db.WithContext(ctx).Save(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// RejectRecipe removes a pending recipe permanently. There is no
// "rejected" state: rejection is a hard delete.
func (s *ModerationService) RejectRecipe(ctx context.Context, id uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrRecipeNotFound
		}
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

// ApproveComment marks an embedded comment approved and recomputes the
// recipe's aggregate rating before the single atomic save, so the
// stored rating is always consistent with the stored comment set.
func (s *ModerationService) ApproveComment(ctx context.Context, recipeID, commentID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	comment := recipe.FindComment(commentID)
	if comment == nil {
		return nil, ErrCommentNotFound
	}

	comment.Approved = true
	recipe.RecomputeRating()

	if err := s.db.WithContext(ctx).Save(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// RejectComment removes a comment from the recipe aggregate and
// recomputes the rating. Rejection deletes: comments have no
// soft-rejected state.
func (s *ModerationService) RejectComment(ctx context.Context, recipeID, commentID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrRecipeNotFound
		}
		return err
	}

	if !recipe.RemoveComment(commentID) {
		return ErrCommentNotFound
	}
	recipe.RecomputeRating()

	return s.db.WithContext(ctx).Save(&recipe).Error
}

// PendingRecipes lists every recipe awaiting approval.
func (s *ModerationService) PendingRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Where("status = ?", false).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// PendingComments lists every unapproved comment across all recipes,
// flattened for the moderation queue. Candidate rows are narrowed by
// unnesting the comments column in SQL, then filtered precisely in
// memory.
func (s *ModerationService) PendingComments(ctx context.Context) ([]PendingComment, error) {
	cond := "EXISTS (SELECT 1 FROM json_each(comments) WHERE json_extract(value, '$.approved') = 0)"
	if s.db.Dialector.Name() == "postgres" {
		cond = "EXISTS (SELECT 1 FROM jsonb_array_elements(comments) AS c WHERE NOT (c->>'approved')::boolean)"
	}

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).
		Where(cond).
		Find(&recipes).Error; err != nil {
		return nil, err
	}

	pending := make([]PendingComment, 0)
	for i := range recipes {
		r := &recipes[i]
		for _, c := range r.Comments {
			if c.Approved {
				continue
			}
			pending = append(pending, PendingComment{
				RecipeID:   r.ID,
				RecipeName: r.Name,
				CommentID:  c.ID,
				UserID:     c.UserID,
				Username:   c.Username,
				Text:       c.Text,
				Rating:     c.Rating,
				CreatedAt:  c.CreatedAt,
			})
		}
	}
	return pending, nil
}
