package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/emaskripto-boop/Emaskripto/config"
	"github.com/emaskripto-boop/Emaskripto/internal/models"
	"github.com/emaskripto-boop/Emaskripto/internal/repository"
	"github.com/emaskripto-boop/Emaskripto/internal/store"
	"github.com/emaskripto-boop/Emaskripto/utils"
)

// newTestService builds the full stack over a temp SQLite file with the UX
// pacing delays zeroed.
func newTestService(t *testing.T) (*Service, *repository.Repository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&store.Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := utils.InitLogger("error")
	repo := repository.New(store.New(db, logger), logger)
	return New(repo, &config.Config{}, logger), repo
}

// setBalance overwrites one account's balance directly through the store.
func setBalance(t *testing.T, repo *repository.Repository, username string, bal models.Balance) {
	t.Helper()
	err := repo.Update(context.Background(), func(tx *repository.Tx) error {
		accounts, err := tx.Accounts()
		if err != nil {
			return err
		}
		idx := repository.FindAccount(accounts, username)
		if idx < 0 {
			return models.ErrAccountNotFound
		}
		accounts[idx].Balance = bal
		return tx.SaveAccounts(accounts)
	})
	if err != nil {
		t.Fatalf("set balance: %v", err)
	}
}

func account(t *testing.T, repo *repository.Repository, username string) models.Account {
	t.Helper()
	acct, err := repo.GetAccountByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if acct == nil {
		t.Fatalf("account %s not found", username)
	}
	return *acct
}
