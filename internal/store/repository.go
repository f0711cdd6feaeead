/**
 * @description
 * This file defines the `Repository` interface, the contract for all data access
 * the ledger engine needs. Defining an interface decouples the business logic from
 * the specific database implementation (PostgreSQL in production, an in-memory
 * store for tests and database-less local runs).
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/google/uuid: For account and transaction identifiers.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"

	"github.com/corebank/ledger-service/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrStorage wraps any underlying persistence failure. A caller seeing it must
	// treat the operation as not applied.
	ErrStorage = errors.New("storage failure")
)

// Repository defines the set of methods for interacting with the account store.
type Repository interface {
	// CreateAccount inserts a new account. An existing account with the same
	// account number is left untouched, so seeding is idempotent.
	CreateAccount(ctx context.Context, account *domain.Account) error

	// FindAccountByNumber resolves an account by its unique external identifier.
	// Exact match only; returns ErrAccountNotFound when absent.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// RecordTransaction applies tx to the account's balance and appends the
	// transaction row as one atomic unit: either both become durably visible or
	// neither does. A withdrawal's sufficiency is revalidated against the balance
	// actually being committed, not the caller's read; an unfunded withdrawal
	// fails with ErrInsufficientFunds and changes nothing. On success the
	// account's Balance and the transaction's Seq are updated in place.
	RecordTransaction(ctx context.Context, account *domain.Account, tx *domain.Transaction) error

	// ListTransactions returns the account's history in the requested order,
	// optionally capped and filtered by inclusive timestamp bounds. Ordering is
	// by (created_at, seq) so it is total and stable.
	ListTransactions(ctx context.Context, accountID uuid.UUID, q domain.TransactionQuery) ([]domain.Transaction, error)
}
