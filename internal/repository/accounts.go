package repository

import (
	"context"
	"strings"

	"github.com/emaskripto-boop/Emaskripto/internal/models"
	"github.com/emaskripto-boop/Emaskripto/internal/store"
)

func (r *Repository) GetAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if _, err := r.store.Get(ctx, store.AccountsKey, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAccountByUsername looks an account up case-insensitively. A missing
// account is (nil, nil).
func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	accounts, err := r.GetAccounts(ctx)
	if err != nil {
		return nil, err
	}

	if idx := FindAccount(accounts, username); idx >= 0 {
		return &accounts[idx], nil
	}
	return nil, nil
}

// FindAccount returns the index of the account with the given username
// (case-insensitive, surrounding whitespace ignored), or -1.
func FindAccount(accounts []models.Account, username string) int {
	username = strings.TrimSpace(username)
	for i := range accounts {
		if strings.EqualFold(accounts[i].Username, username) {
			return i
		}
	}
	return -1
}

// FindAccountByReferralCode returns the index of the account owning the given
// referral code, or -1. Codes compare case-insensitively.
func FindAccountByReferralCode(accounts []models.Account, code string) int {
	code = strings.TrimSpace(code)
	for i := range accounts {
		if strings.EqualFold(accounts[i].ReferralCode, code) {
			return i
		}
	}
	return -1
}

func (t *Tx) Accounts() ([]models.Account, error) {
	var accounts []models.Account
	if _, err := t.txn.Get(store.AccountsKey, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (t *Tx) SaveAccounts(accounts []models.Account) error {
	return t.txn.Set(store.AccountsKey, accounts)
}
