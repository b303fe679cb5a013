package authpw

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"planner/api/internal/store"
)

// mockUserStore is a mock implementation of UserStore for testing
type mockUserStore struct {
	nextID int64
	users  map[int64]store.User
	resets map[string]struct {
		userID    int64
		expiresAt time.Time
		used      bool
	}
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		users: make(map[int64]store.User),
		resets: make(map[string]struct {
			userID    int64
			expiresAt time.Time
			used      bool
		}),
	}
}

func (m *mockUserStore) GetUserByLogin(ctx context.Context, login string) (store.User, error) {
	for _, user := range m.users {
		if user.Username == login || strings.EqualFold(user.Email, login) {
			return user, nil
		}
	}
	return store.User{}, errors.New("user not found")
}

func (m *mockUserStore) GetUserByID(ctx context.Context, userID int64) (store.User, error) {
	if user, ok := m.users[userID]; ok {
		return user, nil
	}
	return store.User{}, errors.New("user not found")
}

func (m *mockUserStore) CreateUser(ctx context.Context, user store.User) (store.User, error) {
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserStore) UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error {
	if user, ok := m.users[userID]; ok {
		user.PasswordHash = passwordHash
		m.users[userID] = user
		return nil
	}
	return errors.New("user not found")
}

func (m *mockUserStore) CreatePasswordReset(ctx context.Context, tokenHash string, userID int64, expiresAt time.Time) error {
	m.resets[tokenHash] = struct {
		userID    int64
		expiresAt time.Time
		used      bool
	}{userID: userID, expiresAt: expiresAt, used: false}
	return nil
}

func (m *mockUserStore) GetPasswordReset(ctx context.Context, tokenHash string) (int64, error) {
	if reset, ok := m.resets[tokenHash]; ok && !reset.used && time.Now().Before(reset.expiresAt) {
		return reset.userID, nil
	}
	return 0, errors.New("invalid or expired token")
}

func (m *mockUserStore) MarkPasswordResetUsed(ctx context.Context, tokenHash string) error {
	if reset, ok := m.resets[tokenHash]; ok {
		reset.used = true
		m.resets[tokenHash] = reset
	}
	return nil
}

func seedPassword(t *testing.T, m *mockUserStore, username, email, password, role string) store.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := m.CreateUser(context.Background(), store.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	mockStore := newMockUserStore()
	svc := NewService(mockStore)
	seedPassword(t, mockStore, "amaya", "amaya@example.com", "password123", "store_associate")

	t.Run("by username", func(t *testing.T) {
		user, err := svc.SignIn(ctx, SignInRequest{Login: "amaya", Password: "password123"})
		if err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
		if user.Username != "amaya" {
			t.Errorf("expected username amaya, got %s", user.Username)
		}
	})

	t.Run("by email case-insensitive", func(t *testing.T) {
		_, err := svc.SignIn(ctx, SignInRequest{Login: "AMAYA@example.com", Password: "password123"})
		if err != nil {
			t.Fatalf("SignIn by email failed: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.SignIn(ctx, SignInRequest{Login: "amaya", Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown account gets the same error", func(t *testing.T) {
		_, err := svc.SignIn(ctx, SignInRequest{Login: "nobody", Password: "password123"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := svc.SignIn(ctx, SignInRequest{})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestProvisionUser(t *testing.T) {
	ctx := context.Background()
	mockStore := newMockUserStore()
	svc := NewService(mockStore)

	t.Run("creates user with temp password", func(t *testing.T) {
		resp, err := svc.ProvisionUser(ctx, ProvisionRequest{
			Username:  "drew",
			Email:     "drew@example.com",
			FirstName: "Drew",
			LastName:  "Marsh",
			Role:      "district_manager",
		})
		if err != nil {
			t.Fatalf("ProvisionUser failed: %v", err)
		}
		if resp.TempPassword == "" {
			t.Fatal("expected a non-empty temp password")
		}
		if resp.User.PasswordHash == resp.TempPassword {
			t.Error("temp password must not be stored in plain text")
		}

		// The temp password is usable for sign-in.
		if _, err := svc.SignIn(ctx, SignInRequest{Login: "drew", Password: resp.TempPassword}); err != nil {
			t.Errorf("sign in with temp password failed: %v", err)
		}
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := svc.ProvisionUser(ctx, ProvisionRequest{
			Username: "drew",
			Email:    "other@example.com",
			Role:     "store_associate",
		})
		if err == nil {
			t.Error("expected error for duplicate username")
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := svc.ProvisionUser(ctx, ProvisionRequest{
			Username: "drew2",
			Email:    "drew@example.com",
			Role:     "store_associate",
		})
		if err == nil {
			t.Error("expected error for duplicate email")
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := svc.ProvisionUser(ctx, ProvisionRequest{
			Username: "kit",
			Email:    "kit@example.com",
			Role:     "regional_overlord",
		})
		if err == nil {
			t.Error("expected error for unknown role")
		}
	})
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	mockStore := newMockUserStore()
	svc := NewService(mockStore)
	user := seedPassword(t, mockStore, "amaya", "amaya@example.com", "oldpassword", "store_associate")

	token, gotUser, err := svc.RequestPasswordReset(ctx, "amaya@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a reset token")
	}
	if gotUser.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, gotUser.ID)
	}
	if _, stored := mockStore.resets[token]; stored {
		t.Error("raw reset token must not be stored")
	}

	if err := svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, NewPassword: "newpassword1"}); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	if _, err := svc.SignIn(ctx, SignInRequest{Login: "amaya", Password: "newpassword1"}); err != nil {
		t.Errorf("sign in with new password failed: %v", err)
	}
	if _, err := svc.SignIn(ctx, SignInRequest{Login: "amaya", Password: "oldpassword"}); err == nil {
		t.Error("old password should no longer work")
	}

	t.Run("token is single use", func(t *testing.T) {
		err := svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, NewPassword: "anotherpass1"})
		if err == nil {
			t.Error("expected error reusing a spent token")
		}
	})

	t.Run("unknown account does not leak", func(t *testing.T) {
		tok, _, err := svc.RequestPasswordReset(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("RequestPasswordReset failed: %v", err)
		}
		if tok != "" {
			t.Error("expected empty token for unknown account")
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		tok, _, err := svc.RequestPasswordReset(ctx, "amaya")
		if err != nil {
			t.Fatalf("RequestPasswordReset failed: %v", err)
		}
		if err := svc.ResetPassword(ctx, ResetPasswordRequest{Token: tok, NewPassword: "short"}); err == nil {
			t.Error("expected error for short password")
		}
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	mockStore := newMockUserStore()
	svc := NewService(mockStore)
	user := seedPassword(t, mockStore, "kit", "kit@example.com", "firstpass1", "business_executive")

	if err := svc.ChangePassword(ctx, user.ID, "wrongpass", "secondpass1"); err == nil {
		t.Error("expected error for wrong current password")
	}

	if err := svc.ChangePassword(ctx, user.ID, "firstpass1", "secondpass1"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.SignIn(ctx, SignInRequest{Login: "kit", Password: "secondpass1"}); err != nil {
		t.Errorf("sign in with changed password failed: %v", err)
	}
}
