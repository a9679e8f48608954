package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"taskmanager/internal/config"
	"taskmanager/internal/db"
	"taskmanager/internal/domain"
	"taskmanager/internal/logger"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
)

func main() {
	username := flag.String("username", "testuser", "username")
	email := flag.String("email", "test@example.com", "email")
	password := flag.String("password", "testpass123", "password")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	pool := db.MustConnect(cfg.DatabaseURL)
	defer pool.Close()

	tokens, err := service.NewTokenManager(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		logger.Fatal("token manager", "error", err)
	}
	auth := service.NewAuthService(db.NewPoolStore(pool), repository.NewPostgresManager(),
		service.NewPasswordHasher(cfg.BcryptCost), tokens)

	ctx := context.Background()

	u, err := auth.Register(ctx, service.RegisterInput{Username: *username, Email: *email, Password: *password})
	switch {
	case err == nil:
		logger.Info("user created", "id", u.ID, "username", u.Username)
	case errors.Is(err, domain.ErrDuplicate):
		logger.Info("user already exists", "username", *username, "reason", err.Error())
	default:
		logger.Fatal("create user failed", "error", err)
	}

	token, err := auth.Login(ctx, *username, *password)
	if err != nil {
		logger.Fatal("login failed", "error", err)
	}
	fmt.Println(token.AccessToken)
}
