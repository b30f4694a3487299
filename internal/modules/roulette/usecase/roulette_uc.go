// Package usecase implements round lifecycle and trigger pulls for
// russian roulette.
package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gorm.io/gorm"

	eventsdomain "github.com/bscit-05-39008695/gamehub/internal/modules/events/domain"
	roomdomain "github.com/bscit-05-39008695/gamehub/internal/modules/room/domain"
	roomrepo "github.com/bscit-05-39008695/gamehub/internal/modules/room/repository"
	"github.com/bscit-05-39008695/gamehub/internal/modules/roulette/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/roulette/repository"
	"github.com/bscit-05-39008695/gamehub/pkg/keylock"
	"github.com/bscit-05-39008695/gamehub/pkg/logger"
	"github.com/bscit-05-39008695/gamehub/pkg/service"
)

// RouletteUseCase runs roulette rounds over multiplayer sessions.
type RouletteUseCase struct {
	db           *gorm.DB
	rounds       *repository.RoundRepository
	multiplayers *roomrepo.MultiplayerRepository
	rooms        *roomrepo.RoomRepository
	sessions     *roomrepo.GameSessionRepository
	locks        *keylock.KeyLock
	events       service.EventService
	settler      service.BetSettler

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRouletteUseCase creates a new roulette use case. The bet settler
// is wired after construction to break the module cycle.
func NewRouletteUseCase(
	db *gorm.DB,
	rounds *repository.RoundRepository,
	multiplayers *roomrepo.MultiplayerRepository,
	rooms *roomrepo.RoomRepository,
	sessions *roomrepo.GameSessionRepository,
	locks *keylock.KeyLock,
	events service.EventService,
) *RouletteUseCase {
	return &RouletteUseCase{
		db:           db,
		rounds:       rounds,
		multiplayers: multiplayers,
		rooms:        rooms,
		sessions:     sessions,
		locks:        locks,
		events:       events,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetBetSettler wires the settler invoked when a round finishes.
func (uc *RouletteUseCase) SetBetSettler(settler service.BetSettler) {
	uc.settler = settler
}

// StartRound creates the active round for a ready multiplayer session
// and marks the session active. The caller holds the game lock.
func (uc *RouletteUseCase) StartRound(ctx context.Context, multiplayerID int64) (int64, error) {
	mp, err := uc.multiplayers.GetByID(ctx, multiplayerID)
	if err != nil {
		return 0, err
	}
	if mp.Status != roomdomain.MultiplayerStatusReady {
		return 0, domain.ErrSessionNotReady
	}

	round := &domain.Round{
		MultiplayerID:   multiplayerID,
		BulletPosition:  uc.rollBullet(),
		CurrentPosition: 1,
		Status:          domain.RoundStatusActive,
	}
	if err := uc.rounds.Create(ctx, round); err != nil {
		return 0, err
	}
	if err := uc.multiplayers.UpdateStatus(ctx, multiplayerID, roomdomain.MultiplayerStatusActive); err != nil {
		return 0, err
	}

	logger.Info(ctx).
		Int64("multiplayer_id", multiplayerID).
		Int64("round_id", round.RoundID).
		Msg("roulette round started")

	return round.RoundID, nil
}

// TriggerResult is the outcome of one trigger pull.
type TriggerResult struct {
	Type           string `json:"type"`
	RoundID        int64  `json:"round_id"`
	IsHit          bool   `json:"is_hit"`
	Position       int    `json:"position"`
	GameOver       bool   `json:"game_over"`
	BulletPosition *int   `json:"bullet_position,omitempty"`
}

// PullTrigger fires the current chamber of the round for the user. A
// hit or an exhausted cylinder ends the round, completes the game and
// settles all active bets on the round.
func (uc *RouletteUseCase) PullTrigger(ctx context.Context, userID, roundID int64) (*TriggerResult, error) {
	round, err := uc.rounds.GetByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	multiplayerID := round.MultiplayerID

	// Lock order is round before game.
	roundKey := fmt.Sprintf("round:%d", roundID)
	gameKey := fmt.Sprintf("game:%d", multiplayerID)
	uc.locks.Lock(roundKey)
	defer uc.locks.Unlock(roundKey)
	uc.locks.Lock(gameKey)
	defer uc.locks.Unlock(gameKey)

	round, err = uc.rounds.GetByID(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status != domain.RoundStatusActive {
		return nil, domain.ErrRoundNotActive
	}

	session, err := uc.sessions.FindActive(ctx, userID, multiplayerID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotInGame
	}

	hit, over, position := round.Fire()

	if !over {
		if err := uc.rounds.SavePosition(ctx, round); err != nil {
			return nil, err
		}
		uc.broadcastTrigger(ctx, multiplayerID, userID, round.RoundID, hit, position)
		return &TriggerResult{
			Type:     eventsdomain.TypeTriggerResult,
			RoundID:  round.RoundID,
			IsHit:    hit,
			Position: position,
			GameOver: false,
		}, nil
	}

	mp, err := uc.multiplayers.GetByID(ctx, multiplayerID)
	if err != nil {
		return nil, err
	}

	// Snapshot the recipients now. Closing the game completes every
	// membership, after which a broadcast resolves to nobody.
	recipients, err := uc.sessions.ActiveUserIDs(ctx, multiplayerID)
	if err != nil {
		return nil, err
	}

	err = uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := uc.rounds.CompleteIn(ctx, tx, round); err != nil {
			return err
		}
		if err := uc.multiplayers.UpdateStatusIn(ctx, tx, multiplayerID, roomdomain.MultiplayerStatusCompleted); err != nil {
			return err
		}
		if err := uc.rooms.UpdateStatusIn(ctx, tx, mp.RoomID, roomdomain.RoomStatusCompleted); err != nil {
			return err
		}
		return uc.sessions.CompleteAllForMultiplayer(ctx, tx, multiplayerID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to finish round: %w", err)
	}

	if err := uc.settler.SettleRound(ctx, round.RoundID, hit); err != nil {
		return nil, err
	}

	trigger := eventsdomain.Event{
		Type: eventsdomain.TypeTriggerResult,
		Fields: map[string]interface{}{
			"game_id":   multiplayerID,
			"round_id":  round.RoundID,
			"user_id":   userID,
			"is_hit":    hit,
			"position":  position,
			"game_over": true,
		},
	}
	result := eventsdomain.Event{
		Type: eventsdomain.TypeGameResult,
		Fields: map[string]interface{}{
			"game_id":         multiplayerID,
			"round_id":        round.RoundID,
			"is_hit":          hit,
			"position":        position,
			"bullet_position": round.BulletPosition,
		},
	}
	for _, id := range recipients {
		uc.events.SendToUser(ctx, id, trigger)
		uc.events.SendToUser(ctx, id, result)
	}

	logger.Info(ctx).
		Int64("multiplayer_id", multiplayerID).
		Int64("round_id", round.RoundID).
		Bool("is_hit", hit).
		Int("position", position).
		Msg("roulette round finished")

	bullet := round.BulletPosition
	return &TriggerResult{
		Type:           eventsdomain.TypeGameResult,
		RoundID:        round.RoundID,
		IsHit:          hit,
		Position:       position,
		GameOver:       true,
		BulletPosition: &bullet,
	}, nil
}

// ActiveRound exposes the current round of a multiplayer session for
// other modules.
func (uc *RouletteUseCase) ActiveRound(ctx context.Context, multiplayerID int64) (*domain.Round, error) {
	return uc.rounds.FindActiveByMultiplayer(ctx, multiplayerID)
}

// Round loads one round by id.
func (uc *RouletteUseCase) Round(ctx context.Context, roundID int64) (*domain.Round, error) {
	return uc.rounds.GetByID(ctx, roundID)
}

// broadcastTrigger announces a non-terminal pull. Terminal pulls are
// delivered to a membership snapshot instead, see PullTrigger.
func (uc *RouletteUseCase) broadcastTrigger(ctx context.Context, multiplayerID, userID, roundID int64, hit bool, position int) {
	uc.events.BroadcastToGame(ctx, multiplayerID, eventsdomain.Event{
		Type: eventsdomain.TypeTriggerResult,
		Fields: map[string]interface{}{
			"game_id":   multiplayerID,
			"round_id":  roundID,
			"user_id":   userID,
			"is_hit":    hit,
			"position":  position,
			"game_over": false,
		},
	})
}

// rollBullet picks the loaded chamber uniformly in [1, Chambers].
func (uc *RouletteUseCase) rollBullet() int {
	uc.rngMu.Lock()
	defer uc.rngMu.Unlock()
	return uc.rng.Intn(domain.Chambers) + 1
}
