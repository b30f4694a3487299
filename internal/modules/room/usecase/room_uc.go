// Package usecase implements room creation, matchmaking and
// membership for multiplayer games.
package usecase

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/bscit-05-39008695/gamehub/internal/modules/events/domain"
	roomdomain "github.com/bscit-05-39008695/gamehub/internal/modules/room/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/room/repository"
	"github.com/bscit-05-39008695/gamehub/pkg/keylock"
	"github.com/bscit-05-39008695/gamehub/pkg/logger"
	"github.com/bscit-05-39008695/gamehub/pkg/service"
)

// RoomUseCase coordinates rooms, multiplayer sessions and player
// membership.
type RoomUseCase struct {
	games        *repository.GameRepository
	rooms        *repository.RoomRepository
	multiplayers *repository.MultiplayerRepository
	sessions     *repository.GameSessionRepository
	locks        *keylock.KeyLock
	events       service.EventService
	roulette     service.RouletteService
	catalog      singleflight.Group
}

// NewRoomUseCase creates a new room use case. The roulette service is
// wired after construction to break the module cycle.
func NewRoomUseCase(
	games *repository.GameRepository,
	rooms *repository.RoomRepository,
	multiplayers *repository.MultiplayerRepository,
	sessions *repository.GameSessionRepository,
	locks *keylock.KeyLock,
	events service.EventService,
) *RoomUseCase {
	return &RoomUseCase{
		games:        games,
		rooms:        rooms,
		multiplayers: multiplayers,
		sessions:     sessions,
		locks:        locks,
		events:       events,
	}
}

// SetRouletteService wires the round starter used when a game fills.
func (uc *RoomUseCase) SetRouletteService(svc service.RouletteService) {
	uc.roulette = svc
}

// JoinResult describes the outcome of joining a multiplayer game.
// RoundID is set once the game filled and its round started.
type JoinResult struct {
	RoomID        int64  `json:"room_id"`
	MultiplayerID int64  `json:"game_id"`
	Players       int64  `json:"players"`
	MaxPlayers    int    `json:"max_players"`
	Status        string `json:"status"`
	RoundID       *int64 `json:"round_id,omitempty"`
}

// gameByID resolves a catalog game, collapsing concurrent lookups for
// the same id.
func (uc *RoomUseCase) gameByID(ctx context.Context, gameID int64) (*roomdomain.Game, error) {
	v, err, _ := uc.catalog.Do(strconv.FormatInt(gameID, 10), func() (interface{}, error) {
		return uc.games.GetByID(ctx, gameID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*roomdomain.Game), nil
}

// DefaultGameID resolves the roulette catalog entry, the game used
// when a request names none.
func (uc *RoomUseCase) DefaultGameID(ctx context.Context) (int64, error) {
	game, err := uc.games.GetByCode(ctx, roomdomain.GameCodeRoulette)
	if err != nil {
		return 0, err
	}
	return game.GameID, nil
}

// CreateRoom creates a new room with a fresh waiting multiplayer
// session and joins the creator into it.
func (uc *RoomUseCase) CreateRoom(ctx context.Context, userID, gameID int64, roomName string) (*JoinResult, error) {
	game, err := uc.gameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err := uc.ensureNotInGame(ctx, userID); err != nil {
		return nil, err
	}

	if roomName == "" {
		roomName = fmt.Sprintf("%s room", game.GameName)
	}
	room := &roomdomain.Room{
		GameID:   game.GameID,
		RoomName: roomName,
		Status:   roomdomain.RoomStatusOpen,
	}
	if err := uc.rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	mp := &roomdomain.Multiplayer{
		RoomID: room.RoomID,
		GameID: game.GameID,
		Status: roomdomain.MultiplayerStatusWaiting,
	}
	if err := uc.multiplayers.Create(ctx, mp); err != nil {
		return nil, err
	}

	result, err := uc.enter(ctx, userID, game, mp)
	if err != nil {
		return nil, err
	}

	uc.events.SendToUser(ctx, userID, domain.Event{
		Type: domain.TypeRoomCreated,
		Fields: map[string]interface{}{
			"room_id": room.RoomID,
			"game_id": mp.MultiplayerID,
		},
	})

	logger.Info(ctx).
		Int64("user_id", userID).
		Int64("room_id", room.RoomID).
		Int64("multiplayer_id", mp.MultiplayerID).
		Msg("room created")

	return result, nil
}

// Join puts the user into the oldest waiting multiplayer session for
// the game, creating a room when none is waiting.
func (uc *RoomUseCase) Join(ctx context.Context, userID, gameID int64) (*JoinResult, error) {
	game, err := uc.gameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err := uc.ensureNotInGame(ctx, userID); err != nil {
		return nil, err
	}

	// Matchmaking for one catalog game is serialized so two joins
	// cannot both create a room or overfill a waiting session.
	matchKey := fmt.Sprintf("matchmaking:%d", game.GameID)
	uc.locks.Lock(matchKey)
	defer uc.locks.Unlock(matchKey)

	mp, err := uc.multiplayers.FindWaitingByGame(ctx, game.GameID)
	if err != nil {
		return nil, err
	}
	if mp == nil {
		room := &roomdomain.Room{
			GameID:   game.GameID,
			RoomName: fmt.Sprintf("%s room", game.GameName),
			Status:   roomdomain.RoomStatusOpen,
		}
		if err := uc.rooms.Create(ctx, room); err != nil {
			return nil, err
		}
		mp = &roomdomain.Multiplayer{
			RoomID: room.RoomID,
			GameID: game.GameID,
			Status: roomdomain.MultiplayerStatusWaiting,
		}
		if err := uc.multiplayers.Create(ctx, mp); err != nil {
			return nil, err
		}
	}

	return uc.enter(ctx, userID, game, mp)
}

// enter adds the user to the multiplayer session and starts the game
// when it reaches capacity. Callers must not hold the game lock.
func (uc *RoomUseCase) enter(ctx context.Context, userID int64, game *roomdomain.Game, mp *roomdomain.Multiplayer) (*JoinResult, error) {
	gameKey := fmt.Sprintf("game:%d", mp.MultiplayerID)
	uc.locks.Lock(gameKey)
	defer uc.locks.Unlock(gameKey)

	current, err := uc.multiplayers.GetByID(ctx, mp.MultiplayerID)
	if err != nil {
		return nil, err
	}
	if current.Status != roomdomain.MultiplayerStatusWaiting {
		return nil, roomdomain.ErrGameFull
	}

	count, err := uc.sessions.CountActive(ctx, mp.MultiplayerID)
	if err != nil {
		return nil, err
	}
	if count >= int64(game.MaxPlayers) {
		return nil, roomdomain.ErrGameFull
	}

	mpID := mp.MultiplayerID
	session := &roomdomain.GameSession{
		UserID:        userID,
		GameID:        game.GameID,
		MultiplayerID: &mpID,
		Status:        roomdomain.SessionStatusActive,
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	count++

	status := roomdomain.MultiplayerStatusWaiting
	if count >= int64(game.MaxPlayers) {
		status = roomdomain.MultiplayerStatusReady
		if err := uc.multiplayers.UpdateStatus(ctx, mp.MultiplayerID, status); err != nil {
			return nil, err
		}
		if err := uc.rooms.UpdateStatus(ctx, mp.RoomID, roomdomain.RoomStatusPlaying); err != nil {
			return nil, err
		}
	}

	uc.events.BroadcastToGame(ctx, mp.MultiplayerID, domain.Event{
		Type: domain.TypeGameStatus,
		Fields: map[string]interface{}{
			"game_id":     mp.MultiplayerID,
			"status":      status,
			"players":     count,
			"max_players": game.MaxPlayers,
		},
	})

	logger.Info(ctx).
		Int64("user_id", userID).
		Int64("multiplayer_id", mp.MultiplayerID).
		Int64("players", count).
		Msg("player joined game")

	var roundID *int64
	if status == roomdomain.MultiplayerStatusReady {
		id, err := uc.roulette.StartRound(ctx, mp.MultiplayerID)
		if err != nil {
			return nil, err
		}
		roundID = &id
		status = roomdomain.MultiplayerStatusActive
		uc.events.BroadcastToGame(ctx, mp.MultiplayerID, domain.Event{
			Type: domain.TypeGameStarted,
			Fields: map[string]interface{}{
				"game_id":  mp.MultiplayerID,
				"round_id": id,
				"players":  count,
			},
		})
	}

	return &JoinResult{
		RoomID:        mp.RoomID,
		MultiplayerID: mp.MultiplayerID,
		Players:       count,
		MaxPlayers:    game.MaxPlayers,
		Status:        status,
		RoundID:       roundID,
	}, nil
}

// Leave removes the user from their active multiplayer session. When
// the last player leaves a game that has not finished, the session and
// its room are closed.
func (uc *RoomUseCase) Leave(ctx context.Context, userID int64) error {
	session, err := uc.sessions.FindAnyActiveMultiplayer(ctx, userID)
	if err != nil {
		return err
	}
	if session == nil || session.MultiplayerID == nil {
		return roomdomain.ErrNoActiveSession
	}
	mpID := *session.MultiplayerID

	gameKey := fmt.Sprintf("game:%d", mpID)
	uc.locks.Lock(gameKey)
	defer uc.locks.Unlock(gameKey)

	// Re-check under the lock, settlement may have completed the
	// session in the meantime.
	session, err = uc.sessions.FindActive(ctx, userID, mpID)
	if err != nil {
		return err
	}
	if session == nil {
		return roomdomain.ErrNoActiveSession
	}

	if err := uc.sessions.MarkLeft(ctx, session.SessionID); err != nil {
		return err
	}

	uc.events.BroadcastToGame(ctx, mpID, domain.Event{
		Type: domain.TypePlayerLeft,
		Fields: map[string]interface{}{
			"game_id": mpID,
			"user_id": userID,
		},
	})

	remaining, err := uc.sessions.CountActive(ctx, mpID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		mp, err := uc.multiplayers.GetByID(ctx, mpID)
		if err != nil {
			return err
		}
		if mp.Status != roomdomain.MultiplayerStatusCompleted {
			if err := uc.multiplayers.UpdateStatus(ctx, mpID, roomdomain.MultiplayerStatusAbandoned); err != nil {
				return err
			}
			if err := uc.rooms.UpdateStatus(ctx, mp.RoomID, roomdomain.RoomStatusCompleted); err != nil {
				return err
			}
			logger.Info(ctx).
				Int64("multiplayer_id", mpID).
				Msg("game abandoned, closing room")
		}
	}

	logger.Info(ctx).
		Int64("user_id", userID).
		Int64("multiplayer_id", mpID).
		Msg("player left game")

	return nil
}

// Status reports the current state of a multiplayer session.
func (uc *RoomUseCase) Status(ctx context.Context, multiplayerID int64) (*JoinResult, error) {
	mp, err := uc.multiplayers.GetByID(ctx, multiplayerID)
	if err != nil {
		return nil, err
	}
	game, err := uc.games.GetByID(ctx, mp.GameID)
	if err != nil {
		return nil, err
	}
	count, err := uc.sessions.CountActive(ctx, multiplayerID)
	if err != nil {
		return nil, err
	}
	return &JoinResult{
		RoomID:        mp.RoomID,
		MultiplayerID: mp.MultiplayerID,
		Players:       count,
		MaxPlayers:    game.MaxPlayers,
		Status:        mp.Status,
	}, nil
}

// ensureNotInGame rejects users that already sit in an active
// multiplayer session.
func (uc *RoomUseCase) ensureNotInGame(ctx context.Context, userID int64) error {
	existing, err := uc.sessions.FindAnyActiveMultiplayer(ctx, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return roomdomain.ErrAlreadyJoined
	}
	return nil
}
