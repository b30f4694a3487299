// Package usecase implements the single player spin and win game.
package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gorm.io/gorm"

	bettingdomain "github.com/bscit-05-39008695/gamehub/internal/modules/betting/domain"
	bettingrepo "github.com/bscit-05-39008695/gamehub/internal/modules/betting/repository"
	roomdomain "github.com/bscit-05-39008695/gamehub/internal/modules/room/domain"
	roomrepo "github.com/bscit-05-39008695/gamehub/internal/modules/room/repository"
	"github.com/bscit-05-39008695/gamehub/internal/modules/spin/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/spin/repository"
	walletdomain "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/domain"
	walletrepo "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/repository"
	"github.com/bscit-05-39008695/gamehub/pkg/logger"
)

// SpinUseCase handles spin and win plays. Each play debits the stake,
// draws a wheel segment and credits any winnings in one transaction.
type SpinUseCase struct {
	db     *gorm.DB
	spins  *repository.SpinRepository
	bets   *bettingrepo.BetRepository
	ledger *walletrepo.LedgerRepository
	games  *roomrepo.GameRepository
	record *roomrepo.GameSessionRepository

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewSpinUseCase creates a new spin use case.
func NewSpinUseCase(
	db *gorm.DB,
	spins *repository.SpinRepository,
	bets *bettingrepo.BetRepository,
	ledger *walletrepo.LedgerRepository,
	games *roomrepo.GameRepository,
	record *roomrepo.GameSessionRepository,
) *SpinUseCase {
	return &SpinUseCase{
		db:     db,
		spins:  spins,
		bets:   bets,
		ledger: ledger,
		games:  games,
		record: record,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// PlayResult is the outcome of one spin. Result is the wheel label,
// "2x" and so on.
type PlayResult struct {
	Result     string  `json:"result"`
	Multiplier float64 `json:"multiplier"`
	WinAmount  float64 `json:"win_amount"`
	NetResult  float64 `json:"net_result"`
	NewBalance float64 `json:"new_balance"`
}

// Play spins the wheel for the given stake.
func (uc *SpinUseCase) Play(ctx context.Context, userID int64, amount float64) (*PlayResult, error) {
	if amount <= 0 {
		return nil, walletdomain.ErrInvalidAmount
	}

	game, err := uc.games.GetByCode(ctx, roomdomain.GameCodeSpin)
	if err != nil {
		return nil, err
	}

	segment := uc.draw()
	winAmount := amount * segment.Multiplier
	now := time.Now()

	bet := &bettingdomain.Bet{
		BetID:     bettingdomain.NewBetID(),
		UserID:    userID,
		GameID:    game.GameID,
		BetAmount: amount,
		WinAmount: winAmount,
		NetResult: winAmount - amount,
		BetType:   bettingdomain.TypeSpin,
		Status:    bettingdomain.StatusCompleted,
		SettledAt: &now,
	}

	var newBalance float64
	err = uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := uc.ledger.DebitIn(ctx, tx, userID, amount, walletdomain.TypeBet, fmt.Sprintf("spin:%s", bet.BetID))
		if err != nil {
			return err
		}
		newBalance = balance
		if winAmount > 0 {
			balance, err = uc.ledger.CreditIn(ctx, tx, userID, winAmount, walletdomain.TypeWin, fmt.Sprintf("spin:%s", bet.BetID))
			if err != nil {
				return err
			}
			newBalance = balance
		}
		if err := uc.bets.CreateIn(ctx, tx, bet); err != nil {
			return err
		}
		return uc.spins.CreateIn(ctx, tx, &domain.SpinResult{
			UserID:     userID,
			BetAmount:  amount,
			Multiplier: segment.Multiplier,
			WinAmount:  winAmount,
		})
	})
	if err != nil {
		return nil, err
	}

	// Participation record, best effort after the money moved.
	if err := uc.record.Create(ctx, &roomdomain.GameSession{
		UserID: userID,
		GameID: game.GameID,
		Status: roomdomain.SessionStatusCompleted,
	}); err != nil {
		logger.Warn(ctx).Err(err).Int64("user_id", userID).Msg("failed to record spin session")
	}

	logger.Info(ctx).
		Int64("user_id", userID).
		Float64("amount", amount).
		Float64("multiplier", segment.Multiplier).
		Float64("win_amount", winAmount).
		Msg("spin played")

	return &PlayResult{
		Result:     fmt.Sprintf("%gx", segment.Multiplier),
		Multiplier: segment.Multiplier,
		WinAmount:  winAmount,
		NetResult:  winAmount - amount,
		NewBalance: newBalance,
	}, nil
}

// Recent returns the user's latest spins.
func (uc *SpinUseCase) Recent(ctx context.Context, userID int64) ([]domain.SpinResult, error) {
	return uc.spins.Recent(ctx, userID, 20)
}

func (uc *SpinUseCase) draw() domain.Segment {
	uc.rngMu.Lock()
	defer uc.rngMu.Unlock()
	return domain.Draw(uc.rng.Float64())
}
