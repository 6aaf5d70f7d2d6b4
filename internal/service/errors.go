package service

import "errors"

// Sentinel errors produced by the service layer. Handlers map these to
// HTTP statuses; anything else is treated as an infrastructure failure
// and surfaces as a generic 500.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadySaved       = errors.New("recipe already saved")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
)
