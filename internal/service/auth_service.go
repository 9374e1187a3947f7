package service

import (
	"context"
	"errors"

	"github.com/bryllupspakken/backend/internal/model"
)

// MinPasswordLength is the shortest password an admin may set.
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordRequired   = errors.New("password and confirmation are required")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUnknownAdmin       = errors.New("no admin with that email")
)

// GoogleUserInfo is the subset of the Google userinfo response used for sign-in.
type GoogleUserInfo struct {
	Sub           string
	Email         string
	Name          string
	EmailVerified bool
}

// AuthService authenticates admins.
type AuthService interface {
	// Login checks email and password and returns the admin on success.
	Login(ctx context.Context, email, password string) (*model.AdminUser, error)
	// ChangePassword replaces the admin's password hash.
	ChangePassword(ctx context.Context, userID, password, confirm string) error
	// CurrentUser loads the signed-in admin.
	CurrentUser(ctx context.Context, userID string) (*model.AdminUser, error)
	// AdminFromGoogle maps a verified Google account onto an existing admin.
	// Google sign-in never creates accounts.
	AdminFromGoogle(ctx context.Context, info *GoogleUserInfo) (*model.AdminUser, error)
}
