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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agrolink/internal/models"
	"agrolink/internal/store"

	"go.uber.org/zap"
)

func (s *Service) CreateUser(ctx context.Context, params store.CreateUserParams) (*models.User, error) {
	zap.L().Info("Creating user",
		zap.String("username", params.Username),
		zap.String("role", string(params.Role)))

	result, err := s.db.ExecContext(ctx, queryInsertUser,
		params.Username, params.Password, string(params.Role), params.FarmId)
	if err != nil {
		zap.L().Error("Failed to insert user", zap.String("username", params.Username), zap.Error(err))
		return nil, fmt.Errorf("unable to insert user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, fmt.Errorf("user %s: %w", params.Username, store.ErrUserExists)
	}

	zap.L().Info("User created successfully",
		zap.String("username", params.Username),
		zap.String("role", string(params.Role)))

	return s.GetUserByUsername(ctx, params.Username)
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	zap.L().Debug("Querying user by username", zap.String("username", username))

	var user models.User
	var role string
	err := s.db.QueryRowContext(ctx, queryGetUserByUsername, username).Scan(
		&user.Username, &user.Password, &role, &user.FarmId, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", username, store.ErrNotFound)
		}
		zap.L().Error("Failed to query user", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("unable to query user: %w", err)
	}

	user.Role = models.Role(role)
	return &user, nil
}

func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, queryGetUsers)
	if err != nil {
		zap.L().Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("unable to query users: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var users []models.User
	for rows.Next() {
		var user models.User
		var role string
		if err := rows.Scan(&user.Username, &user.Password, &role, &user.FarmId, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan user row: %w", err)
		}
		user.Role = models.Role(role)
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	zap.L().Debug("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}

// SaveSession replaces the current session record. The marketplace has a
// single running session, mirroring the UI's one auth record.
func (s *Service) SaveSession(ctx context.Context, session models.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, queryClearSessions); err != nil {
		return fmt.Errorf("unable to clear sessions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, queryInsertSession,
		session.Username, string(session.Role), session.FarmId); err != nil {
		return fmt.Errorf("unable to insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	zap.L().Info("Session established",
		zap.String("username", session.Username),
		zap.String("role", string(session.Role)),
		zap.Int64("farm_id", session.FarmId))
	return nil
}

func (s *Service) GetSession(ctx context.Context) (*models.Session, error) {
	var session models.Session
	var role string
	err := s.db.QueryRowContext(ctx, queryGetSession).Scan(
		&session.Username, &role, &session.FarmId, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoSession
		}
		return nil, fmt.Errorf("unable to query session: %w", err)
	}

	session.Role = models.Role(role)
	return &session, nil
}

func (s *Service) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, queryClearSessions); err != nil {
		return fmt.Errorf("unable to clear session: %w", err)
	}
	zap.L().Info("Session cleared")
	return nil
}
