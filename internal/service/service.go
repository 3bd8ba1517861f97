package service

import (
	"context"
	"time"

	"github.com/emaskripto-boop/Emaskripto/config"
	"github.com/emaskripto-boop/Emaskripto/internal/models"
	"github.com/emaskripto-boop/Emaskripto/internal/repository"
	"github.com/emaskripto-boop/Emaskripto/utils"
)

// Service owns the application operations: accounts, the activity feed,
// wallet requests, trading, and moderation. All state lives in the document
// store behind the repository.
type Service struct {
	repo   Repository
	logger *utils.Logger

	// UX pacing only, zero in tests.
	loginDelay    time.Duration
	registerDelay time.Duration
}

type Repository interface {
	GetAccounts(ctx context.Context) ([]models.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	GetSession(ctx context.Context) (string, error)
	GetStats(ctx context.Context) (models.GlobalStats, error)
	Update(ctx context.Context, fn func(tx *repository.Tx) error) error
}

func New(repo Repository, cfg *config.Config, logger *utils.Logger) *Service {
	return &Service{
		repo:          repo,
		logger:        logger,
		loginDelay:    time.Duration(cfg.LoginDelayMS) * time.Millisecond,
		registerDelay: time.Duration(cfg.RegisterDelayMS) * time.Millisecond,
	}
}

// pace blocks for the configured UX delay, honoring cancellation.
func pace(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// sessionIndex resolves the current session to an index into accounts.
func sessionIndex(tx *repository.Tx) ([]models.Account, int, error) {
	username, err := tx.Session()
	if err != nil {
		return nil, -1, err
	}
	if username == "" {
		return nil, -1, models.ErrNoSession
	}

	accounts, err := tx.Accounts()
	if err != nil {
		return nil, -1, err
	}

	idx := repository.FindAccount(accounts, username)
	if idx < 0 {
		return nil, -1, models.ErrAccountNotFound
	}
	return accounts, idx, nil
}
