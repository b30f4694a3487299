package service

import "context"

// RouletteService starts a roulette round for a multiplayer session
// that reached capacity. Called synchronously from the join path and
// returns the new round's id.
type RouletteService interface {
	StartRound(ctx context.Context, multiplayerID int64) (int64, error)
}

// BetSettler resolves every active bet of a terminated round into a
// win/loss outcome and applies payouts. The full set of bets settles as
// one atomic unit.
type BetSettler interface {
	SettleRound(ctx context.Context, roundID int64, isHit bool) error
}
