package domain

import (
	"time"

	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

// User represents a player account. Balance is mutated by the wallet
// ledger only.
type User struct {
	UserID       int64      `json:"user_id" gorm:"primaryKey;column:user_id;autoIncrement"`
	Username     string     `json:"username" gorm:"column:username;unique;not null"`
	Email        string     `json:"email" gorm:"column:email;unique;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null"`
	Balance      float64    `json:"balance" gorm:"column:balance;type:decimal(18,2);not null;default:0"`
	Status       int        `json:"status" gorm:"column:status;default:1"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" gorm:"column:last_login_at"`
}

// TableName overrides the table name.
func (User) TableName() string { return "users" }

// Session represents a login session backing a refresh token.
type Session struct {
	SessionID string    `json:"session_id" gorm:"primaryKey;column:session_id"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;index"`
	Token     string    `json:"token" gorm:"column:token;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"column:expires_at;index"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the table name.
func (Session) TableName() string { return "sessions" }

// User status constants.
const (
	UserStatusActive    = 1
	UserStatusSuspended = 2
	UserStatusBanned    = 3
)

// IsActive checks if the user is active.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// ErrUserNotFound is returned when a user id does not exist.
var ErrUserNotFound = apperr.New(apperr.CodeNotFound, "user not found")
