// Package resolver adapts roulette round state for the betting
// module.
package resolver

import (
	"context"

	bettingdomain "github.com/bscit-05-39008695/gamehub/internal/modules/betting/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/roulette/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/roulette/usecase"
)

// RoundResolver exposes roulette round state to bet placement.
type RoundResolver struct {
	roulette *usecase.RouletteUseCase
}

// NewRoundResolver creates a new round resolver.
func NewRoundResolver(roulette *usecase.RouletteUseCase) *RoundResolver {
	return &RoundResolver{roulette: roulette}
}

// RoundByID returns the round's identity and whether it still takes
// bets.
func (r *RoundResolver) RoundByID(ctx context.Context, roundID int64) (*bettingdomain.RoundInfo, error) {
	round, err := r.roulette.Round(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return &bettingdomain.RoundInfo{
		RoundID: round.RoundID,
		GameID:  round.MultiplayerID,
		Active:  round.Status == domain.RoundStatusActive,
	}, nil
}
