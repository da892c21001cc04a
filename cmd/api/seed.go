package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/harentsoaR/doctors-portal/internal/config"
	"github.com/harentsoaR/doctors-portal/internal/models"
	"github.com/harentsoaR/doctors-portal/internal/store"
	"github.com/harentsoaR/doctors-portal/internal/utils"
)

type seedService struct {
	Name  string   `mapstructure:"name"`
	Slots []string `mapstructure:"slots"`
	Price float64  `mapstructure:"price"`
}

// loadSeedServices reads the "services" list from a YAML, JSON or TOML file.
func loadSeedServices(path string) ([]models.Service, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var entries []seedService
	if err := v.UnmarshalKey("services", &entries); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("seed file has no services")
	}

	out := make([]models.Service, 0, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("service #%d has no name", i+1)
		}
		slots := e.Slots
		if slots == nil {
			slots = []string{}
		}
		out = append(out, models.Service{Name: e.Name, Slots: slots, Price: e.Price})
	}
	return out, nil
}

func runSeed(ctx context.Context, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	catalogue, err := loadSeedServices(path)
	if err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := store.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase, cfg.StoreTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer db.Close(context.Background())

	if err := db.EnsureIndexes(ctx); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
	}

	services := db.Services()
	for _, svc := range catalogue {
		res, err := services.UpsertByName(ctx, svc)
		if err != nil {
			return err
		}
		logger.Info("seeded service",
			zap.String("name", svc.Name),
			zap.Int("slots", len(svc.Slots)),
			zap.Int64("upserted", res.UpsertedCount),
		)
	}
	logger.Info("seed complete", zap.Int("services", len(catalogue)))
	return nil
}
