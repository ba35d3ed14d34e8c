package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"restaurant_manager/internal/config"
	"restaurant_manager/internal/database"
	"restaurant_manager/internal/handlers"
	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/middleware"
	"restaurant_manager/internal/migrations"
	"restaurant_manager/internal/redis"
	"restaurant_manager/internal/repository"
	"restaurant_manager/internal/services"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	lg, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("Server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	// Initialize database
	db, err := database.Initialize(ctx, cfg.DatabaseURL, cfg.DBLogLevel, lg)
	if err != nil {
		return err
	}
	seed := migrations.Seed{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Demo:          cfg.SeedDemoData,
	}
	if err := migrations.RunMigrations(ctx, db, seed, lg); err != nil {
		return err
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	// Initialize repositories
	store := repository.NewStore(db)

	// Initialize services
	userService := services.NewUserService(store.Users(), redisClient, cfg.JWTSecret, cfg.JWTTTL, lg.Named("users"))
	staffService := services.NewStaffService(store, lg.Named("staff"))
	menuService := services.NewMenuService(store.MenuItems())
	tableService := services.NewTableService(store.Tables())
	orderService := services.NewOrderService(store, services.NewTableProjector(lg.Named("tables")), services.OrderOptions{
		PermissiveTransitions: cfg.PermissiveTransitions,
		RejectRepeatPayment:   cfg.RejectPaymentReprocess,
	}, lg.Named("orders"))
	reportService := services.NewReportService(repository.NewReportRepository(db), redisClient, cfg.CacheTTL, lg.Named("reports"))

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(userService, staffService, menuService, tableService, orderService, reportService,
		map[string]handlers.HealthCheck{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
			"redis":    redisClient.Ping,
		}, lg.Named("http"))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(lg), middleware.Recovery(lg))
	apiHandler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("Server starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	lg.Info("Server stopped cleanly")
	return nil
}
