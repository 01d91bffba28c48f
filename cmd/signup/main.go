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

package main

import (
	"context"
	"flag"
	"fmt"

	"agrolink/internal/auth"
	"agrolink/internal/common"
	"agrolink/internal/config"
	"agrolink/internal/models"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	username := flag.String("username", "", "Username for the new account")
	password := flag.String("password", "", "Password (minimum 4 characters)")
	confirm := flag.String("confirm", "", "Password confirmation")
	role := flag.String("role", "investor", "Account role: factory or investor")
	farmId := flag.Int64("farm", 0, "Farm id (required for factory accounts)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	dbService, err := common.InitializeStoreOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	authService := auth.NewService(dbService, cfg.Auth)

	session, err := authService.Signup(ctx, auth.SignupParams{
		Username:        *username,
		Password:        *password,
		ConfirmPassword: *confirm,
		Role:            models.Role(*role),
		FarmId:          *farmId,
	})
	if err != nil {
		zap.L().Fatal("Signup failed", zap.Error(err))
	}

	common.PrintHeader("ACCOUNT CREATED", common.DefaultWidth)
	fmt.Printf("Username: %s\n", session.Username)
	fmt.Printf("Role:     %s\n", session.Role)
	if session.Role == models.RoleFactory {
		fmt.Printf("Farm:     %d\n", session.FarmId)
	}
	common.PrintFooter("Signed in as "+session.Username, common.DefaultWidth)
}
