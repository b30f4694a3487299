// Package repository implements the ledger over the relational store.
// Balance changes use guarded single-statement updates so the
// non-negative balance invariant holds under any interleaving, and the
// audit row commits in the same transaction as the balance change.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	userdomain "github.com/bscit-05-39008695/gamehub/internal/modules/user/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/wallet/domain"
)

// LedgerRepository applies atomic balance mutations with their audit
// records.
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository.
func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Credit adds amount to the user's balance in its own transaction.
func (r *LedgerRepository) Credit(ctx context.Context, userID int64, amount float64, txType, reference string) (float64, error) {
	var newBalance float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		newBalance, err = r.CreditIn(ctx, tx, userID, amount, txType, reference)
		return err
	})
	return newBalance, err
}

// Debit subtracts amount from the user's balance in its own
// transaction. Fails with ErrInsufficientFunds when balance < amount.
func (r *LedgerRepository) Debit(ctx context.Context, userID int64, amount float64, txType, reference string) (float64, error) {
	var newBalance float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		newBalance, err = r.DebitIn(ctx, tx, userID, amount, txType, reference)
		return err
	})
	return newBalance, err
}

// CreditIn applies a credit inside the caller's transaction, so callers
// such as bet settlement can commit payouts atomically with their own
// rows.
func (r *LedgerRepository) CreditIn(ctx context.Context, tx *gorm.DB, userID int64, amount float64, txType, reference string) (float64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	res := tx.WithContext(ctx).Model(&userdomain.User{}).
		Where("user_id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to credit balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, userdomain.ErrUserNotFound
	}

	after, err := r.balanceIn(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	if err := r.record(ctx, tx, userID, txType, amount, after-amount, after, reference); err != nil {
		return 0, err
	}
	return after, nil
}

// DebitIn applies a debit inside the caller's transaction. The guarded
// update rejects any debit that would take the balance negative.
func (r *LedgerRepository) DebitIn(ctx context.Context, tx *gorm.DB, userID int64, amount float64, txType, reference string) (float64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	res := tx.WithContext(ctx).Model(&userdomain.User{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to debit balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing user from an underfunded one.
		if _, err := r.balanceIn(ctx, tx, userID); err != nil {
			return 0, err
		}
		return 0, domain.ErrInsufficientFunds
	}

	after, err := r.balanceIn(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	if err := r.record(ctx, tx, userID, txType, amount, after+amount, after, reference); err != nil {
		return 0, err
	}
	return after, nil
}

// Balance returns the user's current balance.
func (r *LedgerRepository) Balance(ctx context.Context, userID int64) (float64, error) {
	return r.balanceIn(ctx, r.db, userID)
}

// Transactions returns the user's most recent transactions, newest
// first.
func (r *LedgerRepository) Transactions(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *LedgerRepository) balanceIn(ctx context.Context, tx *gorm.DB, userID int64) (float64, error) {
	var user userdomain.User
	if err := tx.WithContext(ctx).Select("balance").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, userdomain.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return user.Balance, nil
}

func (r *LedgerRepository) record(ctx context.Context, tx *gorm.DB, userID int64, txType string, amount, before, after float64, reference string) error {
	audit := &domain.Transaction{
		TxID:          domain.NewTransactionID(),
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reference:     reference,
	}
	if err := tx.WithContext(ctx).Create(audit).Error; err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}
