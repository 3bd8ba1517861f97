package repository

import (
	"context"

	"github.com/emaskripto-boop/Emaskripto/internal/models"
	"github.com/emaskripto-boop/Emaskripto/internal/store"
)

// GetStats returns the shared activity feed, falling back to the seed
// default before anything has been persisted.
func (r *Repository) GetStats(ctx context.Context) (models.GlobalStats, error) {
	var stats models.GlobalStats
	found, err := r.store.Get(ctx, store.StatsKey, &stats)
	if err != nil {
		return models.GlobalStats{}, err
	}
	if !found {
		return models.DefaultStats(), nil
	}
	return stats, nil
}

func (t *Tx) Stats() (models.GlobalStats, error) {
	var stats models.GlobalStats
	found, err := t.txn.Get(store.StatsKey, &stats)
	if err != nil {
		return models.GlobalStats{}, err
	}
	if !found {
		return models.DefaultStats(), nil
	}
	return stats, nil
}

func (t *Tx) SaveStats(stats models.GlobalStats) error {
	return t.txn.Set(store.StatsKey, stats)
}
