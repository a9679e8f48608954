package main

import (
	"context"
	"database/sql"
	"flag"

	"taskmanager/internal/config"
	"taskmanager/internal/logger"
	"taskmanager/internal/migrations"
)

func main() {
	status := flag.Bool("status", false, "print migration status and exit")
	down := flag.Bool("down", false, "roll back the latest migration")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	// driver "pgx" is registered by the migrations package
	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("open database", "error", err)
	}
	defer sqlDB.Close()

	ctx := context.Background()
	switch {
	case *status:
		err = migrations.Status(ctx, sqlDB)
	case *down:
		err = migrations.Down(ctx, sqlDB)
	default:
		err = migrations.Up(ctx, sqlDB)
	}
	if err != nil {
		logger.Fatal("migrate failed", "error", err)
	}
	logger.Info("migrate done")
}
