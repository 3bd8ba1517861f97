package service

import (
	"context"
	"math"
	"strings"

	"github.com/emaskripto-boop/Emaskripto/internal/models"
	"github.com/emaskripto-boop/Emaskripto/internal/repository"
	"github.com/emaskripto-boop/Emaskripto/utils"
)

const (
	minWithdrawalUSDT = 10.0
	defaultCurrency   = "USDT (TRC20)"
)

// RequestDeposit records a PENDING deposit on the feed for the session
// account. Nothing is credited until moderation completes it.
func (s *Service) RequestDeposit(ctx context.Context, amount float64, currency, senderAddress string) (*models.Deposit, error) {
	if math.IsNaN(amount) || amount <= 0 {
		return nil, models.ErrInvalidAmount
	}
	senderAddress = strings.TrimSpace(senderAddress)
	if senderAddress == "" {
		return nil, models.ErrInvalidAddress
	}
	if currency == "" {
		currency = defaultCurrency
	}

	var dep models.Deposit
	err := s.repo.Update(ctx, func(tx *repository.Tx) error {
		accounts, idx, err := sessionIndex(tx)
		if err != nil {
			return err
		}

		dep = models.Deposit{
			ID:            utils.NewID("DEP"),
			User:          accounts[idx].Username,
			Amount:        amount,
			Currency:      currency,
			SenderAddress: senderAddress,
			Timestamp:     "just now",
			Status:        models.StatusPending,
		}

		stats, err := tx.Stats()
		if err != nil {
			return err
		}
		stats.PushDeposit(dep)
		return tx.SaveStats(stats)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Deposit request %s: %s %.2f %s", dep.ID, dep.User, dep.Amount, dep.Currency)
	return &dep, nil
}

// RequestWithdrawal moves the amount from the spendable balance into escrow
// and records a PENDING withdrawal. Moderation later burns the reserve
// (COMPLETED) or releases it back (FAILED), so the spendable balance is
// touched exactly once per outcome.
func (s *Service) RequestWithdrawal(ctx context.Context, amount float64) (*models.Withdrawal, error) {
	if math.IsNaN(amount) || amount < minWithdrawalUSDT {
		return nil, models.ErrInvalidAmount
	}

	var wd models.Withdrawal
	err := s.repo.Update(ctx, func(tx *repository.Tx) error {
		accounts, idx, err := sessionIndex(tx)
		if err != nil {
			return err
		}

		bal := &accounts[idx].Balance
		if bal.USDT < amount {
			return models.ErrInsufficientBalance
		}
		bal.USDT -= amount
		bal.Reserved += amount

		if err := tx.SaveAccounts(accounts); err != nil {
			return err
		}

		wd = models.Withdrawal{
			ID:        utils.NewID("WD"),
			User:      accounts[idx].Username,
			Amount:    amount,
			Currency:  defaultCurrency,
			Timestamp: "just now",
			Status:    models.StatusPending,
		}

		stats, err := tx.Stats()
		if err != nil {
			return err
		}
		stats.PushWithdrawal(wd)
		return tx.SaveStats(stats)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Withdrawal request %s: %s %.2f", wd.ID, wd.User, wd.Amount)
	return &wd, nil
}

// Buy trades spendable USDT for Gold at the given price and records the trade
// in the account history and the global feed.
func (s *Service) Buy(ctx context.Context, amount, price float64) (*models.Transaction, error) {
	if math.IsNaN(amount) || amount <= 0 || math.IsNaN(price) || price <= 0 {
		return nil, models.ErrInvalidAmount
	}

	var trade models.Transaction
	err := s.repo.Update(ctx, func(tx *repository.Tx) error {
		accounts, idx, err := sessionIndex(tx)
		if err != nil {
			return err
		}

		cost := amount * price
		bal := &accounts[idx].Balance
		if bal.USDT < cost {
			return models.ErrInsufficientBalance
		}
		bal.USDT -= cost
		bal.Gold += amount

		trade = models.Transaction{
			ID:        utils.NewID("TX"),
			User:      accounts[idx].Username,
			Amount:    utils.RoundTo(amount, 6),
			Price:     utils.RoundTo(price, 8),
			Profit:    0,
			Type:      models.TxBuy,
			Timestamp: "just now",
			Asset:     models.AssetGold,
		}
		accounts[idx].PushHistory(trade)

		if err := tx.SaveAccounts(accounts); err != nil {
			return err
		}

		stats, err := tx.Stats()
		if err != nil {
			return err
		}
		stats.PushTransaction(trade)
		return tx.SaveStats(stats)
	})
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// Sell liquidates the full Gold position at the given price. Profit is the
// display figure the dashboard shows, not an accounting value.
func (s *Service) Sell(ctx context.Context, price float64) (*models.Transaction, error) {
	if math.IsNaN(price) || price <= 0 {
		return nil, models.ErrInvalidAmount
	}

	var trade models.Transaction
	err := s.repo.Update(ctx, func(tx *repository.Tx) error {
		accounts, idx, err := sessionIndex(tx)
		if err != nil {
			return err
		}

		bal := &accounts[idx].Balance
		if bal.Gold <= 0 {
			return models.ErrInsufficientBalance
		}

		sold := bal.Gold
		gain := sold * price
		bal.Gold = 0
		bal.USDT += gain

		trade = models.Transaction{
			ID:        utils.NewID("TX"),
			User:      accounts[idx].Username,
			Amount:    utils.RoundTo(sold, 6),
			Price:     utils.RoundTo(price, 8),
			Profit:    utils.RoundTo(gain*15000, 0),
			Type:      models.TxSell,
			Timestamp: "just now",
			Asset:     models.AssetGold,
		}
		accounts[idx].PushHistory(trade)

		if err := tx.SaveAccounts(accounts); err != nil {
			return err
		}

		stats, err := tx.Stats()
		if err != nil {
			return err
		}
		stats.PushTransaction(trade)
		return tx.SaveStats(stats)
	})
	if err != nil {
		return nil, err
	}
	return &trade, nil
}
