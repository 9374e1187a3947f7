package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bryllupspakken/backend/internal/model"
	"github.com/bryllupspakken/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceImpl implements AuthService with bcrypt hashes.
type AuthServiceImpl struct {
	users repository.AdminUserRepository
	cost  int
}

// NewAuthService creates an AuthServiceImpl.
func NewAuthService(users repository.AdminUserRepository) AuthService {
	return &AuthServiceImpl{users: users, cost: bcrypt.DefaultCost}
}

// HashPassword returns the bcrypt hash stored in admin_users.password_hash.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*model.AdminUser, error) {
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Info("login rejected, unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if u.PasswordHash == "" {
		slog.Info("login rejected, no password set", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		slog.Info("login rejected, wrong password", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}
	slog.Info("admin logged in", "user_id", u.ID)
	return u, nil
}

// ValidatePasswordChange checks a new password and its confirmation.
func ValidatePasswordChange(password, confirm string) error {
	switch {
	case password == "" || confirm == "":
		return ErrPasswordRequired
	case len([]rune(password)) < MinPasswordLength:
		return ErrPasswordTooShort
	case password != confirm:
		return ErrPasswordMismatch
	}
	return nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID, password, confirm string) error {
	if err := ValidatePasswordChange(password, confirm); err != nil {
		return err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, string(b)); err != nil {
		slog.Error("password update failed", "user_id", userID, "error", err)
		return fmt.Errorf("update password: %w", err)
	}
	slog.Info("admin password changed", "user_id", userID)
	return nil
}

func (s *AuthServiceImpl) CurrentUser(ctx context.Context, userID string) (*model.AdminUser, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find admin %s: %w", userID, err)
	}
	return u, nil
}

func (s *AuthServiceImpl) AdminFromGoogle(ctx context.Context, info *GoogleUserInfo) (*model.AdminUser, error) {
	if info == nil || info.Email == "" || !info.EmailVerified {
		return nil, ErrUnknownAdmin
	}
	u, err := s.users.FindByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Info("google sign-in rejected, not an admin", "sub", info.Sub)
			return nil, ErrUnknownAdmin
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	slog.Info("admin logged in", "user_id", u.ID, "provider", "google")
	return u, nil
}
