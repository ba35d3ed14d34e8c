package main

import (
	"context"
	"flag"
	"restaurant_manager/internal/config"
	"restaurant_manager/internal/database"
	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/migrations"
	"restaurant_manager/internal/redis"

	"go.uber.org/zap"
)

func main() {
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	demo := flag.Bool("demo", true, "create demo tables and menu items")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	lg, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()

	// Initialize database
	db, err := database.Initialize(ctx, cfg.DatabaseURL, cfg.DBLogLevel, lg)
	if err != nil {
		lg.Fatal("Failed to connect to database", zap.Error(err))
	}

	if *reset {
		lg.Info("Dropping existing tables")
		if err := migrations.ResetSchema(db); err != nil {
			lg.Fatal("Failed to drop tables", zap.Error(err))
		}
		clearReportCache(ctx, cfg.RedisURL, lg)
	}

	seed := migrations.Seed{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Demo:          *demo,
	}
	if err := migrations.RunMigrations(ctx, db, seed, lg); err != nil {
		lg.Fatal("Failed to initialize database", zap.Error(err))
	}

	lg.Info("Database initialization completed")
}

// clearReportCache drops cached reports built from the old data. Redis being
// down is not fatal here.
func clearReportCache(ctx context.Context, redisURL string, lg *zap.Logger) {
	client, err := redis.Initialize(ctx, redisURL)
	if err != nil {
		lg.Warn("Skipping report cache reset", zap.Error(err))
		return
	}
	defer func() { _ = client.Close() }()

	if err := client.InvalidateReports(ctx); err != nil {
		lg.Warn("Failed to clear report cache", zap.Error(err))
		return
	}
	lg.Info("Report cache cleared")
}
