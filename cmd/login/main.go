package main

import (
	"context"
	"flag"
	"fmt"

	"agrolink/internal/auth"
	"agrolink/internal/common"
	"agrolink/internal/config"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	username := flag.String("username", "", "Username")
	password := flag.String("password", "", "Password")
	logout := flag.Bool("logout", false, "Clear the current session instead of logging in")
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

	if *logout {
		if err := authService.Logout(ctx); err != nil {
			zap.L().Fatal("Logout failed", zap.Error(err))
		}
		fmt.Println("Signed out")
		return
	}

	session, err := authService.Login(ctx, *username, *password)
	if err != nil {
		zap.L().Fatal("Login failed", zap.Error(err))
	}

	fmt.Printf("Signed in as %s (%s)\n", session.Username, session.Role)
}
