package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/recetario/backend/internal/models"
	"github.com/recetario/backend/internal/types"
)

const resetCodeTTL = time.Hour

// EmailSender delivers one-time codes. Consumed as an interface so
// tests can stub delivery.
type EmailSender interface {
	SendPasswordResetCode(to, code string) error
}

// ResetCodeStore holds password-reset codes with a TTL.
type ResetCodeStore interface {
	Set(ctx context.Context, code string, userID uuid.UUID, ttl time.Duration) error
	// Get returns ErrInvalidResetCode for unknown or expired codes.
	Get(ctx context.Context, code string) (uuid.UUID, error)
	Delete(ctx context.Context, code string) error
}

// AuthService handles registration, login, token issuance/validation
// and the password-reset flow.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	codes     ResetCodeStore
	email     EmailSender
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(db *gorm.DB, jwtSecret string, codes ResetCodeStore, email EmailSender) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		codes:     codes,
		email:     email,
	}
}

// Register creates a new user with the default role. Username and email
// are both unique.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	var existing models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.GenerateToken(user.ID)
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GenerateToken issues an HS256 token for the user.
func (s *AuthService) GenerateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a token, returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	return &types.TokenClaims{UserID: userID}, nil
}

// RequestPasswordReset generates a short one-time code, stores it with
// a TTL and emails it to the user.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrUserNotFound
		}
		return err
	}

	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	code := hex.EncodeToString(buf)

	if err := s.codes.Set(ctx, code, user.ID, resetCodeTTL); err != nil {
		return err
	}
	return s.email.SendPasswordResetCode(user.Email, code)
}

// VerifyResetCode checks that a code is known and not expired without
// consuming it.
func (s *AuthService) VerifyResetCode(ctx context.Context, code string) error {
	_, err := s.codes.Get(ctx, code)
	return err
}

// ResetPassword replaces the user's password and consumes the code.
func (s *AuthService) ResetPassword(ctx context.Context, code, newPassword string) error {
	userID, err := s.codes.Get(ctx, code)
	if err != nil {
		return err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrUserNotFound
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return err
	}

	return s.codes.Delete(ctx, code)
}
