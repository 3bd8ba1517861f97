package service

import (
	"context"
	"math"

	"github.com/emaskripto-boop/Emaskripto/internal/models"
	"github.com/emaskripto-boop/Emaskripto/internal/repository"
)

// Moderation resolves pending deposits and withdrawals to a terminal status.
// A record transitions PENDING → COMPLETED or PENDING → FAILED at most once;
// a second call for the same id is a no-op.

var terminalStatuses = map[string]bool{
	models.StatusCompleted: true,
	models.StatusFailed:    true,
}

// ProcessDeposit writes the terminal status back to the feed and, on
// COMPLETED, credits the owner's spendable balance by the deposit amount.
func (s *Service) ProcessDeposit(ctx context.Context, id, status string) error {
	if !terminalStatuses[status] {
		return models.ErrInvalidStatus
	}

	return s.repo.Update(ctx, func(tx *repository.Tx) error {
		stats, err := tx.Stats()
		if err != nil {
			return err
		}

		idx := findDeposit(stats.Deposits, id)
		if idx < 0 || stats.Deposits[idx].Status != models.StatusPending {
			s.logger.Warnf("Deposit %s is not pending, nothing to process", id)
			return nil
		}

		dep := &stats.Deposits[idx]
		dep.Status = status

		if status == models.StatusCompleted {
			accounts, err := tx.Accounts()
			if err != nil {
				return err
			}
			// Simulator-fabricated deposits name bot users with no
			// account; only real owners get credited.
			if i := repository.FindAccount(accounts, dep.User); i >= 0 {
				accounts[i].Balance.USDT += dep.Amount
				if err := tx.SaveAccounts(accounts); err != nil {
					return err
				}
			}
		}

		return tx.SaveStats(stats)
	})
}

// ProcessWithdrawal resolves the escrow held since the request: COMPLETED
// burns the reserve, FAILED releases it back to the spendable balance.
func (s *Service) ProcessWithdrawal(ctx context.Context, id, status string) error {
	if !terminalStatuses[status] {
		return models.ErrInvalidStatus
	}

	return s.repo.Update(ctx, func(tx *repository.Tx) error {
		stats, err := tx.Stats()
		if err != nil {
			return err
		}

		idx := findWithdrawal(stats.Withdrawals, id)
		if idx < 0 || stats.Withdrawals[idx].Status != models.StatusPending {
			s.logger.Warnf("Withdrawal %s is not pending, nothing to process", id)
			return nil
		}

		wd := &stats.Withdrawals[idx]
		wd.Status = status

		accounts, err := tx.Accounts()
		if err != nil {
			return err
		}
		if i := repository.FindAccount(accounts, wd.User); i >= 0 {
			bal := &accounts[i].Balance
			release := math.Min(bal.Reserved, wd.Amount)
			bal.Reserved -= release
			if status == models.StatusFailed {
				bal.USDT += release
			}
			if err := tx.SaveAccounts(accounts); err != nil {
				return err
			}
		}

		return tx.SaveStats(stats)
	})
}

func findDeposit(deposits []models.Deposit, id string) int {
	for i := range deposits {
		if deposits[i].ID == id {
			return i
		}
	}
	return -1
}

func findWithdrawal(withdrawals []models.Withdrawal, id string) int {
	for i := range withdrawals {
		if withdrawals[i].ID == id {
			return i
		}
	}
	return -1
}
