package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recetario/backend/internal/models"
)

// Viewer identifies the requesting user for visibility decisions. A nil
// *Viewer is an anonymous request: non-owner, non-admin.
type Viewer struct {
	ID      uuid.UUID
	IsAdmin bool
}

// CanViewRecipe is the visibility predicate: approved recipes are
// public, pending recipes are visible only to their owner or an admin.
func CanViewRecipe(r *models.Recipe, v *Viewer) bool {
	if r.Status {
		return true
	}
	if v == nil {
		return false
	}
	return v.IsAdmin || v.ID == r.UserID
}

// resolveViewer loads the viewer's role for the given user id. A nil id
// yields a nil viewer (anonymous). Unknown ids also yield nil rather
// than an error: a stale token must not grant more visibility than no
// token at all.
func resolveViewer(ctx context.Context, db *gorm.DB, userID *uuid.UUID) (*Viewer, error) {
	if userID == nil {
		return nil, nil
	}
	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", *userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &Viewer{ID: user.ID, IsAdmin: user.IsAdmin()}, nil
}
