// Package usecase implements bet placement, settlement and reporting.
package usecase

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bscit-05-39008695/gamehub/internal/modules/betting/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/betting/repository"
	eventsdomain "github.com/bscit-05-39008695/gamehub/internal/modules/events/domain"
	walletdomain "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/domain"
	walletrepo "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/repository"
	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
	"github.com/bscit-05-39008695/gamehub/pkg/keylock"
	"github.com/bscit-05-39008695/gamehub/pkg/logger"
	"github.com/bscit-05-39008695/gamehub/pkg/service"
)

// BettingUseCase handles wagers on roulette rounds and their
// settlement.
type BettingUseCase struct {
	db     *gorm.DB
	bets   *repository.BetRepository
	ledger *walletrepo.LedgerRepository
	rounds domain.RoundResolver
	locks  *keylock.KeyLock
	events service.EventService
}

// NewBettingUseCase creates a new betting use case.
func NewBettingUseCase(
	db *gorm.DB,
	bets *repository.BetRepository,
	ledger *walletrepo.LedgerRepository,
	rounds domain.RoundResolver,
	locks *keylock.KeyLock,
	events service.EventService,
) *BettingUseCase {
	return &BettingUseCase{
		db:     db,
		bets:   bets,
		ledger: ledger,
		rounds: rounds,
		locks:  locks,
		events: events,
	}
}

// PlaceBetResult is the outcome of placing a bet.
type PlaceBetResult struct {
	Status     string  `json:"status"`
	BetID      string  `json:"bet_id"`
	RoundID    int64   `json:"round_id"`
	NewBalance float64 `json:"new_balance"`
}

// PlaceBet stakes the amount on a roulette round. The debit and the
// bet row commit in one transaction.
func (uc *BettingUseCase) PlaceBet(ctx context.Context, userID, roundID int64, amount float64, betType string) (*PlaceBetResult, error) {
	if betType != domain.TypeSurvival && betType != domain.TypeElimination {
		return nil, domain.ErrInvalidBetType
	}
	if amount <= 0 {
		return nil, walletdomain.ErrInvalidAmount
	}

	// The round lock keeps the active check and the stake commit in
	// one step relative to a terminal trigger pull, so a bet cannot
	// slip in after the settlement sweep.
	roundKey := fmt.Sprintf("round:%d", roundID)
	uc.locks.Lock(roundKey)
	defer uc.locks.Unlock(roundKey)

	round, err := uc.rounds.RoundByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if !round.Active {
		return nil, apperr.New(apperr.CodeInvalidState, "round no longer accepts bets")
	}
	gameID := round.GameID

	bet := &domain.Bet{
		BetID:     domain.NewBetID(),
		UserID:    userID,
		GameID:    gameID,
		RoundID:   &roundID,
		BetAmount: amount,
		BetType:   betType,
		Status:    domain.StatusActive,
	}

	var newBalance float64
	err = uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := uc.ledger.DebitIn(ctx, tx, userID, amount, walletdomain.TypeBet, fmt.Sprintf("bet:%s", bet.BetID))
		if err != nil {
			return err
		}
		newBalance = balance
		return uc.bets.CreateIn(ctx, tx, bet)
	})
	if err != nil {
		return nil, err
	}

	uc.events.BroadcastToGame(ctx, gameID, eventsdomain.Event{
		Type: eventsdomain.TypeBetPlaced,
		Fields: map[string]interface{}{
			"game_id":    gameID,
			"round_id":   roundID,
			"user_id":    userID,
			"bet_type":   betType,
			"bet_amount": amount,
		},
	})

	logger.Info(ctx).
		Int64("user_id", userID).
		Int64("game_id", gameID).
		Str("bet_id", bet.BetID).
		Str("bet_type", betType).
		Float64("amount", amount).
		Msg("bet placed")

	return &PlaceBetResult{
		Status:     "success",
		BetID:      bet.BetID,
		RoundID:    roundID,
		NewBalance: newBalance,
	}, nil
}

// SettleRound resolves every active bet on the round against the
// outcome. Bet updates and winner payouts commit in one transaction.
func (uc *BettingUseCase) SettleRound(ctx context.Context, roundID int64, isHit bool) error {
	now := time.Now()
	var settled, winners int

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bets, err := uc.bets.ActiveByRoundIn(ctx, tx, roundID)
		if err != nil {
			return err
		}
		for i := range bets {
			bet := &bets[i]
			won := bet.Settle(isHit, now)
			if won {
				ref := fmt.Sprintf("win:%s", bet.BetID)
				if _, err := uc.ledger.CreditIn(ctx, tx, bet.UserID, bet.WinAmount, walletdomain.TypeWin, ref); err != nil {
					return err
				}
				winners++
			}
			if err := uc.bets.SaveIn(ctx, tx, bet); err != nil {
				return err
			}
			settled++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to settle round %d: %w", roundID, err)
	}

	logger.Info(ctx).
		Int64("round_id", roundID).
		Bool("is_hit", isHit).
		Int("settled", settled).
		Int("winners", winners).
		Msg("round settled")

	return nil
}

// HistoryRow is one bet annotated with its game name.
type HistoryRow struct {
	domain.Bet
	GameName string `json:"game_name"`
}

// History returns the user's most recent bets with game names. The
// bet type identifies the game: spin bets belong to the wheel, the
// rest to roulette.
func (uc *BettingUseCase) History(ctx context.Context, userID int64) ([]HistoryRow, error) {
	bets, err := uc.bets.History(ctx, userID, 50)
	if err != nil {
		return nil, err
	}

	names := map[string]string{
		domain.TypeSurvival:    "Russian Roulette",
		domain.TypeElimination: "Russian Roulette",
		domain.TypeSpin:        "Spin and Win",
	}
	rows := make([]HistoryRow, 0, len(bets))
	for _, bet := range bets {
		rows = append(rows, HistoryRow{Bet: bet, GameName: names[bet.BetType]})
	}
	return rows, nil
}

// StatsResult bundles overall and per-type bet statistics.
type StatsResult struct {
	Overall *repository.Stats      `json:"overall"`
	ByType  []repository.GameStats `json:"by_type"`
}

// Stats returns the user's aggregated bet results.
func (uc *BettingUseCase) Stats(ctx context.Context, userID int64) (*StatsResult, error) {
	overall, err := uc.bets.StatsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byType, err := uc.bets.StatsByType(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StatsResult{Overall: overall, ByType: byType}, nil
}
