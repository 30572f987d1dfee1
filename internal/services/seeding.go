package services

import (
	"context"
	"fmt"
	"guide-tracking-service/internal/domain"
	"guide-tracking-service/internal/ports"
)

// SeedStore inserts guides in order, stopping at the first failure.
func SeedStore(ctx context.Context, store ports.GuideStore, guides []domain.Guide) error {
	for _, g := range guides {
		if err := store.Insert(ctx, g); err != nil {
			return fmt.Errorf("seed store: insert %q: %w", g.ID, err)
		}
	}
	return nil
}
