package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	userdomain "github.com/bscit-05-39008695/gamehub/internal/modules/user/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/wallet/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&userdomain.User{}, &domain.Transaction{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, balance float64) int64 {
	t.Helper()
	user := &userdomain.User{
		Username:     "player",
		Email:        "player@example.com",
		PasswordHash: "x",
		Balance:      balance,
		Status:       userdomain.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user.UserID
}

func TestCreditIncreasesBalanceAndRecords(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()
	userID := seedUser(t, db, 100)

	newBalance, err := repo.Credit(ctx, userID, 50, domain.TypeDeposit, "deposit")
	require.NoError(t, err)
	assert.Equal(t, 150.0, newBalance)

	txs, err := repo.Transactions(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, domain.TypeDeposit, txs[0].Type)
	assert.Equal(t, 50.0, txs[0].Amount)
	assert.Equal(t, 100.0, txs[0].BalanceBefore)
	assert.Equal(t, 150.0, txs[0].BalanceAfter)
}

func TestDebitDecreasesBalance(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()
	userID := seedUser(t, db, 100)

	newBalance, err := repo.Debit(ctx, userID, 30, domain.TypeWithdraw, "withdraw")
	require.NoError(t, err)
	assert.Equal(t, 70.0, newBalance)
}

func TestDebitInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()
	userID := seedUser(t, db, 20)

	_, err := repo.Debit(ctx, userID, 50, domain.TypeWithdraw, "withdraw")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Nothing moved, nothing recorded.
	balance, err := repo.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, balance)

	txs, err := repo.Transactions(ctx, userID, 10)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestDebitUnknownUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)

	_, err := repo.Debit(context.Background(), 9999, 10, domain.TypeWithdraw, "withdraw")
	assert.ErrorIs(t, err, userdomain.ErrUserNotFound)
}

func TestInvalidAmountRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()
	userID := seedUser(t, db, 100)

	_, err := repo.Credit(ctx, userID, 0, domain.TypeDeposit, "deposit")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = repo.Debit(ctx, userID, -5, domain.TypeWithdraw, "withdraw")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestLedgerConservation(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()
	userID := seedUser(t, db, 1000)

	_, err := repo.Debit(ctx, userID, 100, domain.TypeBet, "bet:1")
	require.NoError(t, err)
	_, err = repo.Credit(ctx, userID, 200, domain.TypeWin, "win:1")
	require.NoError(t, err)
	_, err = repo.Debit(ctx, userID, 300, domain.TypeWithdraw, "withdraw")
	require.NoError(t, err)

	balance, err := repo.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 800.0, balance)

	// Each audit row's before/after must chain.
	txs, err := repo.Transactions(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	for _, tx := range txs {
		switch tx.Type {
		case domain.TypeWithdraw, domain.TypeBet:
			assert.Equal(t, tx.BalanceBefore-tx.Amount, tx.BalanceAfter)
		default:
			assert.Equal(t, tx.BalanceBefore+tx.Amount, tx.BalanceAfter)
		}
	}
}
