package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	bettingdomain "github.com/bscit-05-39008695/gamehub/internal/modules/betting/domain"
	bettingrepo "github.com/bscit-05-39008695/gamehub/internal/modules/betting/repository"
	roomdomain "github.com/bscit-05-39008695/gamehub/internal/modules/room/domain"
	roomrepo "github.com/bscit-05-39008695/gamehub/internal/modules/room/repository"
	"github.com/bscit-05-39008695/gamehub/internal/modules/spin/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/spin/repository"
	userdomain "github.com/bscit-05-39008695/gamehub/internal/modules/user/domain"
	walletdomain "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/domain"
	walletrepo "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/repository"
)

func newSpinFixture(t *testing.T) (*SpinUseCase, *gorm.DB, int64) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userdomain.User{},
		&walletdomain.Transaction{},
		&roomdomain.Game{},
		&roomdomain.GameSession{},
		&bettingdomain.Bet{},
		&domain.SpinResult{},
	))

	require.NoError(t, db.Create(&roomdomain.Game{
		Code:       roomdomain.GameCodeSpin,
		GameName:   "Spin and Win",
		GameType:   roomdomain.GameTypeSingle,
		MaxPlayers: 1,
		Status:     "active",
	}).Error)

	user := &userdomain.User{
		Username:     "spinner",
		Email:        "spinner@example.com",
		PasswordHash: "x",
		Balance:      1000,
		Status:       userdomain.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)

	uc := NewSpinUseCase(
		db,
		repository.NewSpinRepository(db),
		bettingrepo.NewBetRepository(db),
		walletrepo.NewLedgerRepository(db),
		roomrepo.NewGameRepository(db),
		roomrepo.NewGameSessionRepository(db),
	)
	return uc, db, user.UserID
}

func TestPlayMovesMoneyConsistently(t *testing.T) {
	uc, db, userID := newSpinFixture(t)
	ctx := context.Background()

	result, err := uc.Play(ctx, userID, 100)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("%gx", result.Multiplier), result.Result)
	assert.Equal(t, result.Multiplier*100, result.WinAmount)
	assert.Equal(t, result.WinAmount-100, result.NetResult)
	assert.Equal(t, 1000+result.NetResult, result.NewBalance)

	var user userdomain.User
	require.NoError(t, db.First(&user, userID).Error)
	assert.Equal(t, result.NewBalance, user.Balance)
}

func TestPlayRecordsBetAndSpin(t *testing.T) {
	uc, db, userID := newSpinFixture(t)
	ctx := context.Background()

	result, err := uc.Play(ctx, userID, 50)
	require.NoError(t, err)

	var bet bettingdomain.Bet
	require.NoError(t, db.Where("user_id = ?", userID).First(&bet).Error)
	assert.Equal(t, bettingdomain.TypeSpin, bet.BetType)
	assert.Equal(t, bettingdomain.StatusCompleted, bet.Status)
	assert.Equal(t, 50.0, bet.BetAmount)
	assert.Equal(t, result.WinAmount, bet.WinAmount)
	assert.Nil(t, bet.RoundID)
	require.NotNil(t, bet.SettledAt)

	spins, err := uc.Recent(ctx, userID)
	require.NoError(t, err)
	require.Len(t, spins, 1)
	assert.Equal(t, 50.0, spins[0].BetAmount)
	assert.Equal(t, result.Multiplier, spins[0].Multiplier)
}

func TestPlayInsufficientFunds(t *testing.T) {
	uc, db, userID := newSpinFixture(t)
	ctx := context.Background()

	_, err := uc.Play(ctx, userID, 5000)
	assert.ErrorIs(t, err, walletdomain.ErrInsufficientFunds)

	// Rejected plays leave no trace.
	var bets int64
	require.NoError(t, db.Model(&bettingdomain.Bet{}).Count(&bets).Error)
	assert.Zero(t, bets)

	var user userdomain.User
	require.NoError(t, db.First(&user, userID).Error)
	assert.Equal(t, 1000.0, user.Balance)
}

func TestPlayRejectsNonPositiveStake(t *testing.T) {
	uc, _, userID := newSpinFixture(t)

	_, err := uc.Play(context.Background(), userID, 0)
	assert.ErrorIs(t, err, walletdomain.ErrInvalidAmount)
}

func TestDrawDistribution(t *testing.T) {
	uc, _, userID := newSpinFixture(t)
	ctx := context.Background()

	// Every draw must land on a configured segment.
	valid := map[float64]bool{0: true, 1: true, 2: true, 5: true}
	for i := 0; i < 20; i++ {
		result, err := uc.Play(ctx, userID, 1)
		require.NoError(t, err)
		assert.True(t, valid[result.Multiplier])
	}
}
