// Package service defines the contracts modules expose to each other.
// Wiring happens in cmd/gamehub; modules depend on these interfaces,
// never on each other's use cases.
package service

import (
	"context"
	"time"
)

// UserService verifies bearer credentials for request middleware and
// the event stream.
type UserService interface {
	ValidateToken(ctx context.Context, token string) (userID int64, username string, expiresAt time.Time, err error)
}
