package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/emaskripto-boop/Emaskripto/internal/models"
	"github.com/emaskripto-boop/Emaskripto/internal/repository"
	"github.com/emaskripto-boop/Emaskripto/utils"
)

const (
	// Commodity reward credited to an inviter per referred registration,
	// and the starting bonus the referred account gets.
	referralReward = 1.0
	welcomeBonus   = 0.05
)

// Register creates an account, credits the inviter when a valid referral code
// is supplied, announces the new user on the feed, and points the session at
// the new account. The whole operation commits atomically.
func (s *Service) Register(ctx context.Context, username, referralCode string) (*models.Account, error) {
	if err := pace(ctx, s.registerDelay); err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, models.ErrInvalidUsername
	}
	referralCode = strings.ToUpper(strings.TrimSpace(referralCode))

	var created models.Account
	err := s.repo.Update(ctx, func(tx *repository.Tx) error {
		accounts, err := tx.Accounts()
		if err != nil {
			return err
		}

		if repository.FindAccount(accounts, username) >= 0 {
			return models.ErrDuplicateUsername
		}

		code, err := newReferralCode(accounts)
		if err != nil {
			return err
		}

		account := models.Account{
			Username:     username,
			ReferralCode: code,
			Referrals:    []models.Referral{},
			History:      []models.Transaction{},
		}

		if referralCode != "" {
			// Unknown codes grant nothing and change nothing.
			if idx := repository.FindAccountByReferralCode(accounts, referralCode); idx >= 0 {
				inviter := &accounts[idx]
				inviter.Balance.Gold += referralReward
				inviter.Referrals = append(inviter.Referrals, models.Referral{
					ID:     utils.NewID("REF"),
					Name:   username,
					Status: models.ReferralActive,
					Reward: referralReward,
					Date:   time.Now().Format("02/01/2006"),
				})
				account.Balance.Gold = welcomeBonus
			}
		}

		accounts = append(accounts, account)
		if err := tx.SaveAccounts(accounts); err != nil {
			return err
		}
		if err := tx.SetSession(account.Username); err != nil {
			return err
		}

		stats, err := tx.Stats()
		if err != nil {
			return err
		}
		stats.PushAnnouncement(models.Announcement{Name: account.Username, Joined: "just now"})
		if err := tx.SaveStats(stats); err != nil {
			return err
		}

		created = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Registered account %s (code %s)", created.Username, created.ReferralCode)
	return &created, nil
}

// Login resolves the username case-insensitively and points the session at
// the match. Passwords are collected by the UI but never checked here.
func (s *Service) Login(ctx context.Context, username string) (*models.Account, error) {
	if err := pace(ctx, s.loginDelay); err != nil {
		return nil, err
	}

	var account models.Account
	err := s.repo.Update(ctx, func(tx *repository.Tx) error {
		accounts, err := tx.Accounts()
		if err != nil {
			return err
		}

		idx := repository.FindAccount(accounts, username)
		if idx < 0 {
			return models.ErrAccountNotFound
		}

		if err := tx.SetSession(accounts[idx].Username); err != nil {
			return err
		}
		account = accounts[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Login: %s", account.Username)
	return &account, nil
}

// Logout clears the session pointer. Always succeeds, logged in or not.
func (s *Service) Logout(ctx context.Context) error {
	return s.repo.Update(ctx, func(tx *repository.Tx) error {
		return tx.ClearSession()
	})
}

// Session returns the account the session pointer references, or nil when
// logged out (or the pointer is dangling).
func (s *Service) Session(ctx context.Context) (*models.Account, error) {
	username, err := s.repo.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if username == "" {
		return nil, nil
	}
	return s.repo.GetAccountByUsername(ctx, username)
}

// newReferralCode draws GOLD-#### codes until one is free. The 4-digit space
// is small, so uniqueness is enforced by retry instead of being assumed.
func newReferralCode(accounts []models.Account) (string, error) {
	for attempt := 0; attempt < 50; attempt++ {
		code := fmt.Sprintf("GOLD-%04d", 1000+rand.Intn(9000))
		if repository.FindAccountByReferralCode(accounts, code) < 0 {
			return code, nil
		}
	}
	return "", errors.New("referral code space exhausted")
}
