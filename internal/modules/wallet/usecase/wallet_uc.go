// Package usecase implements deposit and withdrawal on top of the
// ledger.
package usecase

import (
	"context"
	"fmt"

	"github.com/bscit-05-39008695/gamehub/internal/modules/wallet/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/wallet/repository"
	"github.com/bscit-05-39008695/gamehub/pkg/logger"
)

// WalletUseCase handles balance operations initiated by the user.
type WalletUseCase struct {
	ledger *repository.LedgerRepository
}

// NewWalletUseCase creates a new wallet use case.
func NewWalletUseCase(ledger *repository.LedgerRepository) *WalletUseCase {
	return &WalletUseCase{ledger: ledger}
}

// Deposit credits the user's balance.
func (uc *WalletUseCase) Deposit(ctx context.Context, userID int64, amount float64) (float64, error) {
	newBalance, err := uc.ledger.Credit(ctx, userID, amount, domain.TypeDeposit, "deposit")
	if err != nil {
		return 0, err
	}

	logger.Info(ctx).
		Int64("user_id", userID).
		Float64("amount", amount).
		Float64("new_balance", newBalance).
		Msg("deposit completed")

	return newBalance, nil
}

// Withdraw debits the user's balance, failing when funds are
// insufficient.
func (uc *WalletUseCase) Withdraw(ctx context.Context, userID int64, amount float64) (float64, error) {
	newBalance, err := uc.ledger.Debit(ctx, userID, amount, domain.TypeWithdraw, "withdraw")
	if err != nil {
		return 0, err
	}

	logger.Info(ctx).
		Int64("user_id", userID).
		Float64("amount", amount).
		Float64("new_balance", newBalance).
		Msg("withdrawal completed")

	return newBalance, nil
}

// Transactions returns the user's most recent ledger entries.
func (uc *WalletUseCase) Transactions(ctx context.Context, userID int64) ([]*domain.Transaction, error) {
	txs, err := uc.ledger.Transactions(ctx, userID, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return txs, nil
}

// Balance returns the user's current balance.
func (uc *WalletUseCase) Balance(ctx context.Context, userID int64) (float64, error) {
	balance, err := uc.ledger.Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}
