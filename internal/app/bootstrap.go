package app

import (
	"context"
	"fmt"
	"guide-tracking-service/internal/adapters/repositories"
	"guide-tracking-service/internal/config"
	"guide-tracking-service/internal/platform/db"
	"guide-tracking-service/internal/ports"
	"guide-tracking-service/internal/render"
	"guide-tracking-service/internal/services"
	"time"

	"go.uber.org/zap"
)

// Build wires the configured store backend, loads the seed guides and
// returns a started tracker. The returned close func releases the store.
func Build(ctx context.Context, cfg config.Config, log *zap.Logger) (*services.Tracker, func() error, error) {
	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	seeds, err := repositories.LoadSeeds(cfg.SeedPath, cfg.Location)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("build tracker: %w", err)
	}

	renderer := render.NewRenderer(render.NewFormatter(cfg.Location))
	tracker := services.NewTracker(store, renderer, log)
	if err := tracker.Start(ctx, seeds); err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("build tracker: %w", err)
	}

	return tracker, closeStore, nil
}

func openStore(cfg config.Config, log *zap.Logger) (ports.GuideStore, func() error, error) {
	now := time.Now

	switch cfg.StoreBackend {
	case config.StoreSQLite:
		conn, err := db.OpenMemory()
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		log.Info("store ready", zap.String("backend", config.StoreSQLite))
		return repositories.NewSqliteGuideStore(conn, log, now, cfg.Location), conn.Close, nil
	}

	log.Info("store ready", zap.String("backend", config.StoreMemory))
	return repositories.NewMemoryGuideStore(now), func() error { return nil }, nil
}
