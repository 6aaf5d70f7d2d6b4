package types

import "github.com/google/uuid"

// Auth requests

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetCodeRequest struct {
	ResetCode string `json:"reset_code" binding:"required"`
}

type ResetPasswordRequest struct {
	ResetCode   string `json:"reset_code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// Recipe requests

type PhotoPayload struct {
	Data        []byte `json:"data" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

type IngredientPayload struct {
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Unit   string  `json:"unit" binding:"required,oneof=g kg unidades tazas ml cucharadas cucharaditas pizca litros cc"`
}

type StepPayload struct {
	Description string         `json:"description" binding:"required"`
	Photos      []PhotoPayload `json:"photos" binding:"omitempty,max=3,dive"`
}

type CreateRecipeRequest struct {
	Name            string              `json:"name" binding:"required,max=30"`
	Classification  string              `json:"classification" binding:"required,oneof=Desayuno Almuerzo Cena Merienda Snack Vegano Vegetariano 'Sin TACC' Otro"`
	Description     string              `json:"description" binding:"required,max=200"`
	Portions        int                 `json:"portions" binding:"required,gt=0"`
	Ingredients     []IngredientPayload `json:"ingredients" binding:"required,min=1,dive"`
	Steps           []StepPayload       `json:"steps" binding:"required,min=1,dive"`
	FrontpagePhotos []PhotoPayload      `json:"frontpage_photos" binding:"omitempty,max=3,dive"`
}

// UpdateRecipeRequest carries the owner-editable fields; absent fields
// are left untouched.
type UpdateRecipeRequest struct {
	Name            *string             `json:"name" binding:"omitempty,max=30"`
	Classification  *string             `json:"classification" binding:"omitempty,oneof=Desayuno Almuerzo Cena Merienda Snack Vegano Vegetariano 'Sin TACC' Otro"`
	Description     *string             `json:"description" binding:"omitempty,max=200"`
	Portions        *int                `json:"portions" binding:"omitempty,gt=0"`
	Ingredients     []IngredientPayload `json:"ingredients" binding:"omitempty,min=1,dive"`
	Steps           []StepPayload       `json:"steps" binding:"omitempty,min=1,dive"`
	FrontpagePhotos []PhotoPayload      `json:"frontpage_photos" binding:"omitempty,max=3,dive"`
}

type AddCommentRequest struct {
	Text   string `json:"text" binding:"required,max=500"`
	Rating *int   `json:"rating" binding:"omitempty,min=1,max=5"`
}

type SaveRecipeRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
}
