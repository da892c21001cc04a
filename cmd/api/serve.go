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
	"go.uber.org/zap"

	"github.com/harentsoaR/doctors-portal/internal/config"
	"github.com/harentsoaR/doctors-portal/internal/handlers"
	"github.com/harentsoaR/doctors-portal/internal/routes"
	"github.com/harentsoaR/doctors-portal/internal/services"
	"github.com/harentsoaR/doctors-portal/internal/store"
	"github.com/harentsoaR/doctors-portal/internal/utils"
)

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.StoreTimeout)
	if err != nil {
		logger.Error("failed to connect to MongoDB", zap.Error(err))
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Warn("failed to disconnect from MongoDB", zap.Error(err))
		}
	}()
	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	if err := db.EnsureIndexes(ctx); err != nil {
		if errors.Is(err, store.ErrBookingIndex) {
			logger.Error("booking uniqueness index missing; concurrent duplicate bookings will not be rejected, remove duplicate (treatment, date, patient) bookings and restart", zap.Error(err))
		} else {
			logger.Error("failed to ensure indexes", zap.Error(err))
		}
	}

	// --- Services ---
	issuer := utils.NewTokenIssuer(cfg.AccessTokenSecret, cfg.TokenTTL)
	notifier := services.NewNotificationService(cfg.TextbeltAPIKey, cfg.TextbeltURL, logger)
	access := services.NewAccessService(db.Users())

	h := handlers.NewHandler(
		services.NewAvailabilityService(db.Services(), db.Bookings()),
		services.NewBookingService(db.Bookings(), notifier, logger),
		services.NewDirectoryService(db.Users(), db.Doctors(), issuer, logger),
		access,
		logger,
	)

	if cfg.TokenIssuerKeyHash == "" {
		logger.Warn("TOKEN_ISSUER_KEY_HASH is not set; PUT /user/:email issues tokens to any caller")
	}

	router := routes.NewRouter(h, routes.Options{
		Issuer:          issuer,
		Access:          access,
		IssuerKeyHash:   cfg.TokenIssuerKeyHash,
		CORSOrigins:     cfg.CORSOrigins,
		AllowAllOrigins: cfg.AllowAllOrigins(),
		RateLimitPerMin: cfg.RateLimitPerMin,
		Logger:          logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		logger.Error("server failed", zap.Error(err))
		return err
	case <-quit:
	}

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
