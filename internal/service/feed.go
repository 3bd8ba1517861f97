package service

import (
	"context"

	"github.com/emaskripto-boop/Emaskripto/internal/models"
	"github.com/emaskripto-boop/Emaskripto/internal/repository"
)

// Stats returns the current activity feed snapshot.
func (s *Service) Stats(ctx context.Context) (models.GlobalStats, error) {
	return s.repo.GetStats(ctx)
}

// The append operations below are the only way feed lists grow: each prepends
// one record and enforces its retention cap, replacing the whole-document
// partial merge the feed used to be updated with.

func (s *Service) AppendTransaction(ctx context.Context, tx models.Transaction) error {
	return s.updateStats(ctx, func(stats *models.GlobalStats) {
		stats.PushTransaction(tx)
	})
}

func (s *Service) AppendDeposit(ctx context.Context, dep models.Deposit) error {
	return s.updateStats(ctx, func(stats *models.GlobalStats) {
		stats.PushDeposit(dep)
	})
}

func (s *Service) AppendWithdrawal(ctx context.Context, wd models.Withdrawal) error {
	return s.updateStats(ctx, func(stats *models.GlobalStats) {
		stats.PushWithdrawal(wd)
	})
}

func (s *Service) AppendAnnouncement(ctx context.Context, a models.Announcement) error {
	return s.updateStats(ctx, func(stats *models.GlobalStats) {
		stats.PushAnnouncement(a)
	})
}

func (s *Service) updateStats(ctx context.Context, apply func(*models.GlobalStats)) error {
	return s.repo.Update(ctx, func(tx *repository.Tx) error {
		stats, err := tx.Stats()
		if err != nil {
			return err
		}
		apply(&stats)
		return tx.SaveStats(stats)
	})
}
