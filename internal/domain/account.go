/**
 * @description
 * This file defines the core domain models for the ledger-service. These structs
 * represent the entities used throughout the service's business logic, database
 * interactions, and API layers.
 *
 * @notes
 * - Amounts are stored as `int64` to represent the value in the smallest currency
 *   unit (e.g. cents), which avoids floating-point inaccuracies with financial data.
 * - A Transaction never carries direction in the sign of its amount; the amount is
 *   always positive and the direction lives in `Kind`.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind distinguishes money entering an account from money leaving it.
type TransactionKind string

const (
	TransactionDeposit  TransactionKind = "deposit"
	TransactionWithdraw TransactionKind = "withdraw"
)

// Account is a bank account with its current balance. The balance is mutated only
// by the ledger engine, inside a deposit or withdraw operation, and is never
// negative.
type Account struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"account_number"`
	Balance       int64     `json:"balance"` // in minor units
}

// Transaction is one immutable ledger record. It is created exactly once per
// successful deposit or withdrawal, atomically with the balance update it records,
// and is never updated or deleted afterwards.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Kind      TransactionKind `json:"transaction_type"`
	Amount    int64           `json:"amount"` // in minor units, always positive
	CreatedAt time.Time       `json:"timestamp"`

	// Seq is assigned by the store on insert and strictly increases per store.
	// It breaks ties between transactions that share a timestamp so every query
	// order is total and stable.
	Seq int64 `json:"-"`
}

// TransactionOrder selects the direction of a history query.
type TransactionOrder int

const (
	// OldestFirst is chronological ascending, the order used for exports.
	OldestFirst TransactionOrder = iota
	// NewestFirst is the order used for interactive views like the mini statement.
	NewestFirst
)

// TransactionQuery describes one history query: an ordering, an optional cap on
// the number of rows, and optional inclusive timestamp bounds. A nil bound means
// unbounded on that side.
type TransactionQuery struct {
	Order TransactionOrder
	Limit int // 0 means no limit
	From  *time.Time
	To    *time.Time
}

// Matches reports whether a transaction's timestamp falls inside the query's
// inclusive bounds.
func (q TransactionQuery) Matches(tx *Transaction) bool {
	if q.From != nil && tx.CreatedAt.Before(*q.From) {
		return false
	}
	if q.To != nil && tx.CreatedAt.After(*q.To) {
		return false
	}
	return true
}
