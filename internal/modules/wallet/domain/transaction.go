// Package domain defines the ledger entities: balance-affecting
// transactions recorded atomically with every balance change.
package domain

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

// Transaction types.
const (
	TypeDeposit  = "deposit"
	TypeWithdraw = "withdraw"
	TypeBet      = "bet"
	TypeWin      = "win"
)

// Transaction is an append-only audit record of a balance change. Rows
// are never mutated after creation.
type Transaction struct {
	TxID          string    `json:"tx_id" gorm:"primaryKey;column:tx_id;type:varchar(64)"`
	UserID        int64     `json:"user_id" gorm:"column:user_id;not null;index:idx_transactions_user_id"`
	Type          string    `json:"type" gorm:"column:type;type:varchar(20);not null"`
	Amount        float64   `json:"amount" gorm:"column:amount;type:decimal(18,2);not null"`
	BalanceBefore float64   `json:"balance_before" gorm:"column:balance_before;type:decimal(18,2);not null"`
	BalanceAfter  float64   `json:"balance_after" gorm:"column:balance_after;type:decimal(18,2);not null"`
	Reference     string    `json:"reference" gorm:"column:reference;type:varchar(128)"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the table name.
func (Transaction) TableName() string { return "transactions" }

// Ledger errors.
var (
	ErrInvalidAmount     = apperr.New(apperr.CodeValidation, "amount must be positive")
	ErrInsufficientFunds = apperr.New(apperr.CodeInsufficientFunds, "insufficient balance")
)

var (
	node *snowflake.Node
	once sync.Once
)

func initSnowflake() {
	var err error
	node, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// NewTransactionID generates a unique transaction id.
func NewTransactionID() string {
	once.Do(initSnowflake)
	return node.Generate().String()
}
