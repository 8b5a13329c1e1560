package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymbook/internal/config"
	"gymbook/internal/db"
	"gymbook/internal/email"
	"gymbook/internal/enrollment"
	"gymbook/internal/logger"
	"gymbook/internal/server"
)

// @title GymBook API
// @version 1.0
// @description Gym class booking service.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init()
		logger.Fatal("Failed to load config", "error", err)
	}

	logger.Init(cfg.LogLevel)
	defer logger.Sync()
	logger.Info("Starting GymBook application")

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var emailService *email.Service
	if cfg.EmailEnabled {
		emailService = email.New(email.Config{
			From:      cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
			SMTPHost:  cfg.SMTPHost,
			SMTPPort:  cfg.SMTPPort,
			SMTPUser:  cfg.SMTPUser,
			SMTPPass:  cfg.SMTPPass,
			RedisAddr: cfg.RedisAddr,
		})
		defer emailService.Close()

		if err := emailService.Ping(ctx); err != nil {
			logger.Warn("Email queue unreachable, notifications will be retried", "error", err)
		}
		go emailService.Start(ctx)
		logger.Info("Email service initialized")
	}

	enrollment.StartCounterReconciler(ctx, enrollment.NewRepository(database), cfg.ReconcileInterval)

	srv := server.New(database, cfg, emailService)
	go srv.RunMaintenance(ctx)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
