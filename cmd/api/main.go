package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-pos/internal/config"
	"go-pos/internal/server"
	"go-pos/internal/ws"
	"go-pos/pkg/database"
	"go-pos/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	log := logger.New(logger.Config{
		Development: cfg.IsDevelopment(),
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
	})
	defer log.Sync() //nolint:errcheck

	// 2. Setup Database
	db, err := database.Connect(database.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		URL:      cfg.Database.URL,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := server.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	log.Info("database ready", zap.String("driver", db.Driver()))

	// 3. Setup WebSocket Hub
	hub := ws.NewHub(log.Named("ws"))
	go hub.Run()
	defer hub.Stop()

	// 4. Wiring
	svcs := server.NewServices(cfg, db, hub, log)

	if cfg.Auth.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := svcs.Auth.SeedAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			log.Warn("failed to seed admin user", zap.Error(err))
		}
		cancel()
	}

	app := server.New(cfg, svcs, hub, log)

	// 5. Graceful Shutdown
	go func() {
		addr := ":" + cfg.Server.Port
		log.Info("POS server listening", zap.String("addr", addr), zap.Bool("auth", cfg.Auth.Enabled))
		if err := app.Listen(addr); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
