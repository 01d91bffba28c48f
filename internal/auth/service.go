/**
 * Copyright 2025-present AgroLink
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agrolink/internal/models"
	"agrolink/internal/store"

	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so login failures do not leak which one it was.
var ErrInvalidCredentials = errors.New("invalid username or password")

const minPasswordLength = 4

// SignupParams contains the registration form fields.
type SignupParams struct {
	Username        string
	Password        string
	ConfirmPassword string
	Role            models.Role
	FarmId          int64
}

// Service handles registration, login, and the single persisted session.
type Service struct {
	store store.MarketStore
	delay time.Duration
}

func NewService(marketStore store.MarketStore, cfg models.AuthConfig) *Service {
	return &Service{
		store: marketStore,
		delay: cfg.SimulatedDelay,
	}
}

// Signup validates the registration form, creates the user, and opens a
// session for them.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*models.Session, error) {
	if err := validateSignup(params); err != nil {
		return nil, err
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, store.CreateUserParams{
		Username: params.Username,
		Password: params.Password,
		Role:     params.Role,
		FarmId:   params.FarmId,
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("User registered",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return s.openSession(ctx, user)
}

// Login checks credentials and opens a session.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Session, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Password != password {
		zap.L().Warn("Login failed", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	zap.L().Info("User logged in",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	return s.openSession(ctx, user)
}

// Logout clears the current session. Logging out with no session is fine.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	zap.L().Info("Session cleared")
	return nil
}

// CurrentSession returns the active session, or store.ErrNoSession.
func (s *Service) CurrentSession(ctx context.Context) (*models.Session, error) {
	return s.store.GetSession(ctx)
}

func (s *Service) openSession(ctx context.Context, user *models.User) (*models.Session, error) {
	session := models.Session{
		Username:  user.Username,
		Role:      user.Role,
		FarmId:    user.FarmId,
		CreatedAt: time.Now(),
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &session, nil
}

func validateSignup(params SignupParams) error {
	if strings.TrimSpace(params.Username) == "" {
		return &store.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if len(params.Password) < minPasswordLength {
		return &store.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	if params.Password != params.ConfirmPassword {
		return &store.ValidationError{Field: "confirm_password", Reason: "passwords do not match"}
	}
	switch params.Role {
	case models.RoleFactory:
		if params.FarmId <= 0 {
			return &store.ValidationError{Field: "farm_id", Reason: "factory accounts must select a farm"}
		}
	case models.RoleInvestor:
		// no farm binding
	default:
		return &store.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role %q", params.Role)}
	}
	return nil
}

// wait applies the cosmetic auth latency the storefront shows.
func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
