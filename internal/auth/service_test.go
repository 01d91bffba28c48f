package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"agrolink/internal/database"
	"agrolink/internal/models"
	"agrolink/internal/store"
)

func setupTestAuth(t *testing.T) (*Service, func()) {
	dbService, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// No simulated delay in tests
	service := NewService(dbService, models.AuthConfig{})

	cleanup := func() {
		dbService.Close()
	}

	return service, cleanup
}

func TestSignup_OpensSession(t *testing.T) {
	service, cleanup := setupTestAuth(t)
	defer cleanup()

	ctx := context.Background()

	session, err := service.Signup(ctx, SignupParams{
		Username:        "asa-agro",
		Password:        "demo",
		ConfirmPassword: "demo",
		Role:            models.RoleFactory,
		FarmId:          1,
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if session.Username != "asa-agro" {
		t.Errorf("Expected username asa-agro, got %s", session.Username)
	}

	current, err := service.CurrentSession(ctx)
	if err != nil {
		t.Fatalf("CurrentSession failed: %v", err)
	}
	if current.Username != "asa-agro" {
		t.Errorf("Expected session for asa-agro, got %s", current.Username)
	}
}

func TestSignup_Validation(t *testing.T) {
	service, cleanup := setupTestAuth(t)
	defer cleanup()

	ctx := context.Background()

	cases := []struct {
		name   string
		params SignupParams
	}{
		{"empty username", SignupParams{Password: "demo", ConfirmPassword: "demo", Role: models.RoleInvestor}},
		{"short password", SignupParams{Username: "u", Password: "abc", ConfirmPassword: "abc", Role: models.RoleInvestor}},
		{"mismatched confirm", SignupParams{Username: "u", Password: "demo", ConfirmPassword: "demo2", Role: models.RoleInvestor}},
		{"factory without farm", SignupParams{Username: "u", Password: "demo", ConfirmPassword: "demo", Role: models.RoleFactory}},
		{"unknown role", SignupParams{Username: "u", Password: "demo", ConfirmPassword: "demo", Role: "admin"}},
	}

	for _, tc := range cases {
		_, err := service.Signup(ctx, tc.params)
		var validationErr *store.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("%s: expected ValidationError, got: %v", tc.name, err)
		}
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	service, cleanup := setupTestAuth(t)
	defer cleanup()

	ctx := context.Background()
	params := SignupParams{
		Username:        "investor-one",
		Password:        "demo",
		ConfirmPassword: "demo",
		Role:            models.RoleInvestor,
	}

	if _, err := service.Signup(ctx, params); err != nil {
		t.Fatalf("First signup failed: %v", err)
	}

	_, err := service.Signup(ctx, params)
	if !errors.Is(err, store.ErrUserExists) {
		t.Errorf("Expected ErrUserExists, got: %v", err)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	service, cleanup := setupTestAuth(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := service.Signup(ctx, SignupParams{
		Username:        "investor-one",
		Password:        "demo",
		ConfirmPassword: "demo",
		Role:            models.RoleInvestor,
	}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	// Unknown user and wrong password look identical to the caller
	if _, err := service.Login(ctx, "nobody", "demo"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown user, got: %v", err)
	}
	if _, err := service.Login(ctx, "investor-one", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for wrong password, got: %v", err)
	}

	session, err := service.Login(ctx, "investor-one", "demo")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if session.Role != models.RoleInvestor {
		t.Errorf("Expected investor role, got %s", session.Role)
	}
}

func TestLogout(t *testing.T) {
	service, cleanup := setupTestAuth(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := service.Signup(ctx, SignupParams{
		Username:        "investor-one",
		Password:        "demo",
		ConfirmPassword: "demo",
		Role:            models.RoleInvestor,
	}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if err := service.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	_, err := service.CurrentSession(ctx)
	if !errors.Is(err, store.ErrNoSession) {
		t.Errorf("Expected ErrNoSession after logout, got: %v", err)
	}
}
