// Package authpw provides password authentication and account provisioning.
package authpw

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"planner/api/internal/rbac"
	"planner/api/internal/store"
)

// ErrInvalidCredentials is returned for any sign-in failure. The message
// never distinguishes a missing account from a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service provides password authentication
type Service struct {
	store UserStore
}

// UserStore defines the storage interface for auth
type UserStore interface {
	GetUserByLogin(ctx context.Context, login string) (store.User, error)
	GetUserByID(ctx context.Context, userID int64) (store.User, error)
	CreateUser(ctx context.Context, user store.User) (store.User, error)
	UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error
	CreatePasswordReset(ctx context.Context, tokenHash string, userID int64, expiresAt time.Time) error
	GetPasswordReset(ctx context.Context, tokenHash string) (int64, error)
	MarkPasswordResetUsed(ctx context.Context, tokenHash string) error
}

// NewService creates a new auth service
func NewService(store UserStore) *Service {
	return &Service{store: store}
}

// SignInRequest contains sign-in parameters
type SignInRequest struct {
	Login    string
	Password string
}

// SignIn authenticates a user by username or email.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (store.User, error) {
	if req.Login == "" || req.Password == "" {
		return store.User{}, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByLogin(ctx, strings.TrimSpace(req.Login))
	if err != nil {
		return store.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return store.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// ProvisionRequest contains the fields an admin supplies when creating an
// account. There is no self-signup; accounts only come from here or from
// bootstrap seeding.
type ProvisionRequest struct {
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Role        string
	HomeStoreID *int64
}

// ProvisionResponse carries the created user plus the one-time temporary
// password to include in the invite email. The raw password is never
// stored.
type ProvisionResponse struct {
	User         store.User
	TempPassword string
}

// ProvisionUser creates a user with a generated temporary password.
func (s *Service) ProvisionUser(ctx context.Context, req ProvisionRequest) (*ProvisionResponse, error) {
	if req.Username == "" || req.Email == "" {
		return nil, errors.New("username and email are required")
	}
	if _, err := rbac.ParseRole(req.Role); err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}

	if _, err := s.store.GetUserByLogin(ctx, req.Username); err == nil {
		return nil, errors.New("username already registered")
	}
	if _, err := s.store.GetUserByLogin(ctx, req.Email); err == nil {
		return nil, errors.New("email already registered")
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("generate temp password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.store.CreateUser(ctx, store.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		HomeStoreID:  req.HomeStoreID,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &ProvisionResponse{User: created, TempPassword: tempPassword}, nil
}

// SeedUser creates a user with a known password if the login is free.
// Used by bootstrap seeding; returns the existing user when already
// present.
func (s *Service) SeedUser(ctx context.Context, req ProvisionRequest, password string) (store.User, error) {
	if existing, err := s.store.GetUserByLogin(ctx, req.Username); err == nil {
		return existing, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return store.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateUser(ctx, store.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		HomeStoreID:  req.HomeStoreID,
	})
}

// RequestPasswordReset creates a password reset token. The raw token goes
// out by email; only its hash is stored.
func (s *Service) RequestPasswordReset(ctx context.Context, login string) (string, store.User, error) {
	user, err := s.store.GetUserByLogin(ctx, login)
	if err != nil {
		// Don't reveal if the account exists
		return "", store.User{}, nil
	}

	token, err := generateToken()
	if err != nil {
		return "", store.User{}, err
	}

	expiresAt := time.Now().Add(1 * time.Hour)
	if err := s.store.CreatePasswordReset(ctx, hashToken(token), user.ID, expiresAt); err != nil {
		return "", store.User{}, err
	}

	return token, user, nil
}

// ResetPasswordRequest contains password reset parameters
type ResetPasswordRequest struct {
	Token       string
	NewPassword string
}

// ResetPassword resets a user's password using a reset token
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if req.Token == "" || req.NewPassword == "" {
		return errors.New("token and new password are required")
	}
	if len(req.NewPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	userID, err := s.store.GetPasswordReset(ctx, hashToken(req.Token))
	if err != nil {
		return errors.New("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.UpdateUserPassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// Password already changed at this point, so a failure here only
	// leaves a spent token behind.
	_ = s.store.MarkPasswordResetUsed(ctx, hashToken(req.Token))

	return nil
}

// ChangePassword updates a signed-in user's password after checking the
// current one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if len(next) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return errors.New("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.store.UpdateUserPassword(ctx, userID, string(hash))
}

// generateToken creates a secure random token
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// generateTempPassword creates a random one-time password for invites.
func generateTempPassword() (string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
