package database

import (
	"context"
	"errors"
	"testing"

	"agrolink/internal/models"
	"agrolink/internal/store"
)

func TestCreateUser_Duplicate(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	params := store.CreateUserParams{Username: "asa-agro", Password: "demo", Role: models.RoleFactory, FarmId: 1}

	user, err := service.CreateUser(ctx, params)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.Username != "asa-agro" {
		t.Errorf("Expected username asa-agro, got %s", user.Username)
	}
	if user.FarmId != 1 {
		t.Errorf("Expected farm id 1, got %d", user.FarmId)
	}

	_, err = service.CreateUser(ctx, params)
	if !errors.Is(err, store.ErrUserExists) {
		t.Errorf("Expected ErrUserExists, got: %v", err)
	}
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetUserByUsername(context.Background(), "nobody")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestSaveSession_ReplacesExisting(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	if err := service.SaveSession(ctx, models.Session{Username: "first", Role: models.RoleInvestor}); err != nil {
		t.Fatalf("First SaveSession failed: %v", err)
	}
	if err := service.SaveSession(ctx, models.Session{Username: "second", Role: models.RoleFactory, FarmId: 2}); err != nil {
		t.Fatalf("Second SaveSession failed: %v", err)
	}

	session, err := service.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session.Username != "second" {
		t.Errorf("Expected session for second, got %s", session.Username)
	}
	if session.FarmId != 2 {
		t.Errorf("Expected farm id 2, got %d", session.FarmId)
	}
}

func TestClearSession(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	if err := service.SaveSession(ctx, models.Session{Username: "user", Role: models.RoleInvestor}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := service.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}

	_, err := service.GetSession(ctx)
	if !errors.Is(err, store.ErrNoSession) {
		t.Errorf("Expected ErrNoSession after clear, got: %v", err)
	}

	// Clearing again should not error
	if err := service.ClearSession(ctx); err != nil {
		t.Errorf("Second ClearSession failed: %v", err)
	}
}
