package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	bettingdomain "github.com/bscit-05-39008695/gamehub/internal/modules/betting/domain"
	bettingrepo "github.com/bscit-05-39008695/gamehub/internal/modules/betting/repository"
	bettingusecase "github.com/bscit-05-39008695/gamehub/internal/modules/betting/usecase"
	eventsdomain "github.com/bscit-05-39008695/gamehub/internal/modules/events/domain"
	eventsusecase "github.com/bscit-05-39008695/gamehub/internal/modules/events/usecase"
	roomdomain "github.com/bscit-05-39008695/gamehub/internal/modules/room/domain"
	roomrepo "github.com/bscit-05-39008695/gamehub/internal/modules/room/repository"
	roomusecase "github.com/bscit-05-39008695/gamehub/internal/modules/room/usecase"
	"github.com/bscit-05-39008695/gamehub/internal/modules/roulette/adapter/resolver"
	roulettedomain "github.com/bscit-05-39008695/gamehub/internal/modules/roulette/domain"
	rouletterepo "github.com/bscit-05-39008695/gamehub/internal/modules/roulette/repository"
	"github.com/bscit-05-39008695/gamehub/internal/modules/roulette/usecase"
	userdomain "github.com/bscit-05-39008695/gamehub/internal/modules/user/domain"
	walletdomain "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/domain"
	walletrepo "github.com/bscit-05-39008695/gamehub/internal/modules/wallet/repository"
	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
	"github.com/bscit-05-39008695/gamehub/pkg/keylock"
)

// recordingEvents captures everything broadcast during a test.
type recordingEvents struct {
	broadcast []eventsdomain.Event
	direct    []eventsdomain.Event
}

func (r *recordingEvents) BroadcastToGame(_ context.Context, _ int64, event eventsdomain.Event) {
	r.broadcast = append(r.broadcast, event)
}

func (r *recordingEvents) SendToUser(_ context.Context, _ int64, event eventsdomain.Event) {
	r.direct = append(r.direct, event)
}

func (r *recordingEvents) types() []string {
	var out []string
	for _, ev := range r.broadcast {
		out = append(out, ev.Type)
	}
	return out
}

func (r *recordingEvents) directTypes() []string {
	var out []string
	for _, ev := range r.direct {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	events   *recordingEvents
	locks    *keylock.KeyLock
	ledger   *walletrepo.LedgerRepository
	rooms    *roomusecase.RoomUseCase
	roulette *usecase.RouletteUseCase
	betting  *bettingusecase.BettingUseCase
	rounds   *rouletterepo.RoundRepository
	gameID   int64
}

func newFixture(t *testing.T, maxPlayers int) *fixture {
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
		&roomdomain.Room{},
		&roomdomain.Multiplayer{},
		&roomdomain.GameSession{},
		&roulettedomain.Round{},
		&bettingdomain.Bet{},
	))

	game := &roomdomain.Game{
		Code:       roomdomain.GameCodeRoulette,
		GameName:   "Russian Roulette",
		GameType:   roomdomain.GameTypeMultiplayer,
		MaxPlayers: maxPlayers,
		Status:     "active",
	}
	require.NoError(t, db.Create(game).Error)

	events := &recordingEvents{}
	locks := keylock.New()
	ledger := walletrepo.NewLedgerRepository(db)
	games := roomrepo.NewGameRepository(db)
	roomsRepo := roomrepo.NewRoomRepository(db)
	multiplayers := roomrepo.NewMultiplayerRepository(db)
	sessions := roomrepo.NewGameSessionRepository(db)
	rounds := rouletterepo.NewRoundRepository(db)
	bets := bettingrepo.NewBetRepository(db)

	roomUC := roomusecase.NewRoomUseCase(games, roomsRepo, multiplayers, sessions, locks, events)
	rouletteUC := usecase.NewRouletteUseCase(db, rounds, multiplayers, roomsRepo, sessions, locks, events)
	bettingUC := bettingusecase.NewBettingUseCase(db, bets, ledger, resolver.NewRoundResolver(rouletteUC), locks, events)

	roomUC.SetRouletteService(rouletteUC)
	rouletteUC.SetBetSettler(bettingUC)

	return &fixture{
		db:       db,
		events:   events,
		locks:    locks,
		ledger:   ledger,
		rooms:    roomUC,
		roulette: rouletteUC,
		betting:  bettingUC,
		rounds:   rounds,
		gameID:   game.GameID,
	}
}

func (f *fixture) addUser(t *testing.T, balance float64) int64 {
	t.Helper()
	n := countUsers(t, f.db)
	user := &userdomain.User{
		Username:     fmt.Sprintf("player%d", n),
		Email:        fmt.Sprintf("p%d@example.com", n),
		PasswordHash: "x",
		Balance:      balance,
		Status:       userdomain.UserStatusActive,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user.UserID
}

func countUsers(t *testing.T, db *gorm.DB) int {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&userdomain.User{}).Count(&n).Error)
	return int(n)
}

// loadBullet pins the bullet so the outcome is deterministic.
func (f *fixture) loadBullet(t *testing.T, roundID int64, position int) {
	t.Helper()
	require.NoError(t, f.db.Model(&roulettedomain.Round{}).
		Where("round_id = ?", roundID).
		Update("bullet_position", position).Error)
}

// fillGame joins both players into a fresh two-seat game and returns
// the started round's id.
func (f *fixture) fillGame(t *testing.T, ctx context.Context, p1, p2 int64) (gameID, roundID int64) {
	t.Helper()
	_, err := f.rooms.Join(ctx, p1, f.gameID)
	require.NoError(t, err)
	res, err := f.rooms.Join(ctx, p2, f.gameID)
	require.NoError(t, err)
	require.NotNil(t, res.RoundID)
	return res.MultiplayerID, *res.RoundID
}

func assertCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestGameStartsWhenFull(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)
	p2 := f.addUser(t, 1000)

	res, err := f.rooms.Join(ctx, p1, f.gameID)
	require.NoError(t, err)
	assert.Equal(t, roomdomain.MultiplayerStatusWaiting, res.Status)
	assert.Equal(t, int64(1), res.Players)
	assert.Nil(t, res.RoundID)

	res, err = f.rooms.Join(ctx, p2, f.gameID)
	require.NoError(t, err)
	assert.Equal(t, roomdomain.MultiplayerStatusActive, res.Status)
	assert.Equal(t, int64(2), res.Players)
	require.NotNil(t, res.RoundID)

	round, err := f.roulette.ActiveRound(ctx, res.MultiplayerID)
	require.NoError(t, err)
	require.NotNil(t, round)
	assert.Equal(t, *res.RoundID, round.RoundID)
	assert.Equal(t, 1, round.CurrentPosition)
	assert.GreaterOrEqual(t, round.BulletPosition, 1)
	assert.LessOrEqual(t, round.BulletPosition, roulettedomain.Chambers)

	assert.Contains(t, f.events.types(), eventsdomain.TypeGameStarted)
}

func TestJoinRejectsSecondGame(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)

	_, err := f.rooms.Join(ctx, p1, f.gameID)
	require.NoError(t, err)

	_, err = f.rooms.Join(ctx, p1, f.gameID)
	assert.ErrorIs(t, err, roomdomain.ErrAlreadyJoined)
}

func TestFullGameWithSettlement(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)
	p2 := f.addUser(t, 1000)

	gameID, roundID := f.fillGame(t, ctx, p1, p2)
	f.loadBullet(t, roundID, 2)

	// p1 bets the bullet fires, p2 bets everyone survives.
	betRes, err := f.betting.PlaceBet(ctx, p1, roundID, 100, bettingdomain.TypeElimination)
	require.NoError(t, err)
	assert.Equal(t, "success", betRes.Status)
	assert.Equal(t, 900.0, betRes.NewBalance)

	_, err = f.betting.PlaceBet(ctx, p2, roundID, 200, bettingdomain.TypeSurvival)
	require.NoError(t, err)

	// First pull misses chamber 1.
	result, err := f.roulette.PullTrigger(ctx, p1, roundID)
	require.NoError(t, err)
	assert.Equal(t, eventsdomain.TypeTriggerResult, result.Type)
	assert.False(t, result.IsHit)
	assert.False(t, result.GameOver)
	assert.Equal(t, 1, result.Position)

	// Second pull hits chamber 2 and ends the game.
	result, err = f.roulette.PullTrigger(ctx, p2, roundID)
	require.NoError(t, err)
	assert.Equal(t, eventsdomain.TypeGameResult, result.Type)
	assert.True(t, result.IsHit)
	assert.True(t, result.GameOver)
	assert.Equal(t, 2, result.Position)
	require.NotNil(t, result.BulletPosition)
	assert.Equal(t, 2, *result.BulletPosition)

	// Elimination bet won double, survival bet lost its stake.
	balance, err := f.ledger.Balance(ctx, p1)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, balance)

	balance, err = f.ledger.Balance(ctx, p2)
	require.NoError(t, err)
	assert.Equal(t, 800.0, balance)

	var bets []bettingdomain.Bet
	require.NoError(t, f.db.Order("bet_amount").Find(&bets).Error)
	require.Len(t, bets, 2)
	for _, bet := range bets {
		assert.Equal(t, bettingdomain.StatusCompleted, bet.Status)
		require.NotNil(t, bet.SettledAt)
	}
	assert.Equal(t, 200.0, bets[0].WinAmount)
	assert.Equal(t, 0.0, bets[1].WinAmount)

	// Everything about the game is closed out.
	updated, err := f.rounds.GetByID(ctx, roundID)
	require.NoError(t, err)
	assert.Equal(t, roulettedomain.RoundStatusCompleted, updated.Status)

	var mp roomdomain.Multiplayer
	require.NoError(t, f.db.First(&mp, gameID).Error)
	assert.Equal(t, roomdomain.MultiplayerStatusCompleted, mp.Status)

	var room roomdomain.Room
	require.NoError(t, f.db.First(&room, mp.RoomID).Error)
	assert.Equal(t, roomdomain.RoomStatusCompleted, room.Status)

	var openSessions int64
	require.NoError(t, f.db.Model(&roomdomain.GameSession{}).
		Where("multiplayer_id = ? AND status = ?", gameID, roomdomain.SessionStatusActive).
		Count(&openSessions).Error)
	assert.Zero(t, openSessions)

	// Terminal events are delivered per player from the membership
	// snapshot, two players, two event kinds each.
	assert.Contains(t, f.events.directTypes(), eventsdomain.TypeGameResult)
	assert.Len(t, f.events.direct, 4)
}

func TestSurvivalRoundExhaustsCylinder(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)
	p2 := f.addUser(t, 1000)

	_, roundID := f.fillGame(t, ctx, p1, p2)
	// An unreachable chamber means every pull misses.
	f.loadBullet(t, roundID, roulettedomain.Chambers+1)

	_, err := f.betting.PlaceBet(ctx, p1, roundID, 100, bettingdomain.TypeSurvival)
	require.NoError(t, err)

	players := []int64{p1, p2}
	var result *usecase.TriggerResult
	for i := 0; i < roulettedomain.Chambers; i++ {
		result, err = f.roulette.PullTrigger(ctx, players[i%2], roundID)
		require.NoError(t, err)
		assert.False(t, result.IsHit)
	}
	assert.True(t, result.GameOver)

	balance, err := f.ledger.Balance(ctx, p1)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, balance)
}

func TestPullTriggerRejectsOutsiders(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)
	p2 := f.addUser(t, 1000)
	outsider := f.addUser(t, 1000)

	_, roundID := f.fillGame(t, ctx, p1, p2)

	_, err := f.roulette.PullTrigger(ctx, outsider, roundID)
	assert.ErrorIs(t, err, roulettedomain.ErrNotInGame)
}

func TestPullTriggerUnknownRound(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)

	_, err := f.roulette.PullTrigger(ctx, p1, 999)
	assert.ErrorIs(t, err, roulettedomain.ErrRoundNotFound)
}

func TestPullTriggerOnCompletedRound(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)
	p2 := f.addUser(t, 1000)

	_, roundID := f.fillGame(t, ctx, p1, p2)
	f.loadBullet(t, roundID, 1)

	result, err := f.roulette.PullTrigger(ctx, p1, roundID)
	require.NoError(t, err)
	assert.True(t, result.GameOver)

	_, err = f.roulette.PullTrigger(ctx, p2, roundID)
	assert.ErrorIs(t, err, roulettedomain.ErrRoundNotActive)
}

func TestPlaceBetRequiresActiveRound(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)
	p2 := f.addUser(t, 1000)

	_, roundID := f.fillGame(t, ctx, p1, p2)
	f.loadBullet(t, roundID, 1)

	// One pull into chamber 1 ends the game immediately.
	result, err := f.roulette.PullTrigger(ctx, p1, roundID)
	require.NoError(t, err)
	require.True(t, result.GameOver)

	_, err = f.betting.PlaceBet(ctx, p1, roundID, 100, bettingdomain.TypeSurvival)
	assertCode(t, err, apperr.CodeInvalidState)
}

func TestPlaceBetUnknownRound(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)

	_, err := f.betting.PlaceBet(ctx, p1, 999, 100, bettingdomain.TypeSurvival)
	assert.ErrorIs(t, err, roulettedomain.ErrRoundNotFound)
}

func TestPlaceBetInsufficientFunds(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	p1 := f.addUser(t, 50)
	p2 := f.addUser(t, 1000)

	_, roundID := f.fillGame(t, ctx, p1, p2)

	_, err := f.betting.PlaceBet(ctx, p1, roundID, 100, bettingdomain.TypeSurvival)
	assert.True(t, errors.Is(err, walletdomain.ErrInsufficientFunds))

	// The rejected bet left no row behind.
	var count int64
	require.NoError(t, f.db.Model(&bettingdomain.Bet{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceBetRejectsUnknownType(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)

	_, err := f.betting.PlaceBet(ctx, p1, 1, 100, "lucky")
	assert.ErrorIs(t, err, bettingdomain.ErrInvalidBetType)
}

func TestLeaveAbandonedGameClosesRoom(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)

	res, err := f.rooms.Join(ctx, p1, f.gameID)
	require.NoError(t, err)

	require.NoError(t, f.rooms.Leave(ctx, p1))

	var mp roomdomain.Multiplayer
	require.NoError(t, f.db.First(&mp, res.MultiplayerID).Error)
	assert.Equal(t, roomdomain.MultiplayerStatusAbandoned, mp.Status)
	require.NotNil(t, mp.CompletedAt)

	var room roomdomain.Room
	require.NoError(t, f.db.First(&room, res.RoomID).Error)
	assert.Equal(t, roomdomain.RoomStatusCompleted, room.Status)

	// Leaving twice is rejected as not found.
	err = f.rooms.Leave(ctx, p1)
	assert.ErrorIs(t, err, roomdomain.ErrNoActiveSession)
	assertCode(t, err, apperr.CodeNotFound)
}

func TestCreateRoomAlwaysOpensFreshRoom(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)
	p2 := f.addUser(t, 1000)

	first, err := f.rooms.CreateRoom(ctx, p1, f.gameID, "high stakes")
	require.NoError(t, err)

	second, err := f.rooms.CreateRoom(ctx, p2, f.gameID, "")
	require.NoError(t, err)

	assert.NotEqual(t, first.RoomID, second.RoomID)
	assert.NotEqual(t, first.MultiplayerID, second.MultiplayerID)
	require.Len(t, f.events.direct, 2)
	assert.Equal(t, eventsdomain.TypeRoomCreated, f.events.direct[0].Type)
}

func drainTypes(sub *eventsusecase.Subscription) []string {
	var out []string
	for {
		select {
		case ev := <-sub.C:
			out = append(out, ev.Type)
		default:
			return out
		}
	}
}

// The terminal pull completes every membership, so the outcome must
// go to a snapshot of the players, not to whoever is still active.
func TestTerminalOutcomeReachesAllPlayers(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	// Rewire the stack on the same database with the real event bus
	// resolving recipients through memberships.
	sessions := roomrepo.NewGameSessionRepository(f.db)
	bus := eventsusecase.NewBus(sessions)
	games := roomrepo.NewGameRepository(f.db)
	roomsRepo := roomrepo.NewRoomRepository(f.db)
	multiplayers := roomrepo.NewMultiplayerRepository(f.db)
	rounds := rouletterepo.NewRoundRepository(f.db)
	bets := bettingrepo.NewBetRepository(f.db)
	ledger := walletrepo.NewLedgerRepository(f.db)
	locks := keylock.New()

	roomUC := roomusecase.NewRoomUseCase(games, roomsRepo, multiplayers, sessions, locks, bus)
	rouletteUC := usecase.NewRouletteUseCase(f.db, rounds, multiplayers, roomsRepo, sessions, locks, bus)
	bettingUC := bettingusecase.NewBettingUseCase(f.db, bets, ledger, resolver.NewRoundResolver(rouletteUC), locks, bus)
	roomUC.SetRouletteService(rouletteUC)
	rouletteUC.SetBetSettler(bettingUC)

	p1 := f.addUser(t, 1000)
	p2 := f.addUser(t, 1000)
	sub1 := bus.Subscribe(p1)
	sub2 := bus.Subscribe(p2)
	defer bus.Unsubscribe(sub1)
	defer bus.Unsubscribe(sub2)

	_, err := roomUC.Join(ctx, p1, f.gameID)
	require.NoError(t, err)
	res, err := roomUC.Join(ctx, p2, f.gameID)
	require.NoError(t, err)
	require.NotNil(t, res.RoundID)
	f.loadBullet(t, *res.RoundID, 1)

	result, err := rouletteUC.PullTrigger(ctx, p1, *res.RoundID)
	require.NoError(t, err)
	require.True(t, result.GameOver)

	for name, sub := range map[string]*eventsusecase.Subscription{"p1": sub1, "p2": sub2} {
		types := drainTypes(sub)
		assert.Contains(t, types, eventsdomain.TypeGameStarted, name)
		assert.Contains(t, types, eventsdomain.TypeTriggerResult, name)
		assert.Contains(t, types, eventsdomain.TypeGameResult, name)
	}
}

func TestPlaceBetSerializesWithTriggerPulls(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	p1 := f.addUser(t, 1000)
	p2 := f.addUser(t, 1000)

	_, roundID := f.fillGame(t, ctx, p1, p2)
	roundKey := fmt.Sprintf("round:%d", roundID)

	// While the round lock is held, a bet must not commit.
	f.locks.Lock(roundKey)
	done := make(chan error, 1)
	go func() {
		_, err := f.betting.PlaceBet(ctx, p1, roundID, 100, bettingdomain.TypeSurvival)
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("bet committed while the round lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	f.locks.Unlock(roundKey)
	require.NoError(t, <-done)

	balance, err := f.ledger.Balance(ctx, p1)
	require.NoError(t, err)
	assert.Equal(t, 900.0, balance)
}
