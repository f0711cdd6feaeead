/**
 * @description
 * In-memory implementation of the `Repository` interface. It backs the unit tests
 * and lets the service boot without a DATABASE_URL for local experimentation.
 * Balance mutation and history append happen inside one critical section, which
 * gives this store the same atomic-unit guarantee as the Postgres transaction.
 */

package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/corebank/ledger-service/internal/domain"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts and transaction history in process memory.
// Safe for concurrent use.
type MemoryRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account        // keyed by account number
	history  map[uuid.UUID][]domain.Transaction // keyed by account id
	nextSeq  int64
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]*domain.Account),
		history:  make(map[uuid.UUID][]domain.Transaction),
	}
}

// CreateAccount registers an account; an existing account number is left untouched.
func (m *MemoryRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[account.AccountNumber]; exists {
		return nil
	}
	cp := *account
	m.accounts[account.AccountNumber] = &cp
	return nil
}

// FindAccountByNumber returns a copy of the account so callers cannot mutate
// internal state outside RecordTransaction.
func (m *MemoryRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[accountNumber]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

// RecordTransaction applies the balance delta and appends the history row under
// one lock, revalidating a withdrawal against the stored balance rather than the
// caller's copy.
func (m *MemoryRepository) RecordTransaction(ctx context.Context, account *domain.Account, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.accounts[account.AccountNumber]
	if !ok {
		return ErrAccountNotFound
	}

	switch tx.Kind {
	case domain.TransactionWithdraw:
		if tx.Amount > stored.Balance {
			return ErrInsufficientFunds
		}
		stored.Balance -= tx.Amount
	default:
		if stored.Balance > math.MaxInt64-tx.Amount {
			return fmt.Errorf("%w: balance overflows minor-unit representation", ErrStorage)
		}
		stored.Balance += tx.Amount
	}

	m.nextSeq++
	tx.Seq = m.nextSeq
	m.history[stored.ID] = append(m.history[stored.ID], *tx)
	account.Balance = stored.Balance
	return nil
}

// ListTransactions filters, orders and caps the account's history. Results are
// copies; the stored rows are never handed out.
func (m *MemoryRepository) ListTransactions(ctx context.Context, accountID uuid.UUID, q domain.TransactionQuery) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var txs []domain.Transaction
	for i := range m.history[accountID] {
		tx := m.history[accountID][i]
		if q.Matches(&tx) {
			txs = append(txs, tx)
		}
	}

	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			if q.Order == domain.NewestFirst {
				return txs[i].CreatedAt.After(txs[j].CreatedAt)
			}
			return txs[i].CreatedAt.Before(txs[j].CreatedAt)
		}
		if q.Order == domain.NewestFirst {
			return txs[i].Seq > txs[j].Seq
		}
		return txs[i].Seq < txs[j].Seq
	})

	if q.Limit > 0 && len(txs) > q.Limit {
		txs = txs[:q.Limit]
	}
	return txs, nil
}

var _ Repository = (*MemoryRepository)(nil)
