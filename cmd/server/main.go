// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/asset-audit/internal/config"
	"github.com/javajoker/asset-audit/internal/database"
	"github.com/javajoker/asset-audit/internal/i18n"
	"github.com/javajoker/asset-audit/internal/router"
	"github.com/javajoker/asset-audit/internal/services"
	"github.com/javajoker/asset-audit/internal/store"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	st, cleanup, err := openStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open store")
	}
	defer cleanup()

	storage, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize photo storage")
	}

	// Initialize router
	r := router.Initialize(st, storage, cfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":  cfg.Server.Port,
			"store": cfg.Store.Driver,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}

// openStore builds the configured store and seeds it when asked to.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	var seed *store.Seed
	if cfg.Store.Seed {
		seed = store.DefaultSeed()
	}

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { database.Close(db) }

		if err := database.RunMigrations(db); err != nil {
			cleanup()
			return nil, nil, err
		}

		st := store.NewGormStore(db)
		if seed != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := store.ApplySeed(ctx, st, seed); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("failed to seed database: %w", err)
			}
		}
		return st, cleanup, nil
	default:
		st, err := store.NewMemStore(seed)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil
	}
}
