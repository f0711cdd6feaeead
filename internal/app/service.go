/**
 * @description
 * This file contains the core business logic of the ledger-service. The `Service`
 * struct is the only component allowed to mutate an account's balance or append to
 * its transaction history, and it enforces the ledger's invariants: amounts are
 * strictly positive, a withdrawal never succeeds against insufficient funds, and a
 * balance update is only ever visible together with the transaction that caused it.
 *
 * Concurrency: conflicting operations on the same account are serialized with a
 * per-account mutex held across the read-modify-write sequence. The Postgres
 * repository additionally revalidates a withdrawal inside its conditional UPDATE,
 * so sufficiency holds at commit time even across multiple service instances.
 *
 * @dependencies
 * - context, log, sync, time: Standard Go libraries.
 * - github.com/google/uuid: For transaction identifiers.
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/rabbitmq: For publishing transaction-recorded events.
 */

package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/corebank/ledger-service/internal/domain"
	"github.com/corebank/ledger-service/internal/store"
	"github.com/corebank/ledger-service/pkg/rabbitmq"
	"github.com/google/uuid"
)

// DefaultMiniStatementLimit caps the mini statement when no limit is configured.
const DefaultMiniStatementLimit = 10

// Service provides the deposit, withdraw and statement operations of the ledger.
type Service struct {
	repo               store.Repository
	eventProducer      rabbitmq.Publisher
	eventExchange      string
	miniStatementLimit int

	muMap map[string]*sync.Mutex // per-account locks, keyed by account number
	mapMu sync.Mutex             // protects muMap itself
}

// NewService creates a new ledger service instance. producer may be nil when no
// broker is available; events are then skipped.
func NewService(repo store.Repository, producer rabbitmq.Publisher, eventExchange string, miniStatementLimit int) *Service {
	if miniStatementLimit <= 0 {
		miniStatementLimit = DefaultMiniStatementLimit
	}
	return &Service{
		repo:               repo,
		eventProducer:      producer,
		eventExchange:      eventExchange,
		miniStatementLimit: miniStatementLimit,
		muMap:              make(map[string]*sync.Mutex),
	}
}

// accountLock returns the mutex serializing operations on one account, creating
// it on first use.
func (s *Service) accountLock(accountNumber string) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()
	if _, exists := s.muMap[accountNumber]; !exists {
		s.muMap[accountNumber] = &sync.Mutex{}
	}
	return s.muMap[accountNumber]
}

// Deposit credits the account and returns the transaction that records it.
func (s *Service) Deposit(ctx context.Context, accountNumber string, amount int64) (*domain.Transaction, error) {
	return s.record(ctx, accountNumber, amount, domain.TransactionDeposit)
}

// Withdraw debits the account and returns the transaction that records it. It
// fails with store.ErrInsufficientFunds when the amount exceeds the balance at
// the moment of commit.
func (s *Service) Withdraw(ctx context.Context, accountNumber string, amount int64) (*domain.Transaction, error) {
	return s.record(ctx, accountNumber, amount, domain.TransactionWithdraw)
}

// record runs the shared deposit/withdraw sequence: validate, lock the account,
// resolve it, build the transaction and persist both sides as one unit.
func (s *Service) record(ctx context.Context, accountNumber string, amount int64, kind domain.TransactionKind) (*domain.Transaction, error) {
	// Amount validation is cheap and happens before any lookup.
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	lock := s.accountLock(accountNumber)
	lock.Lock()
	defer lock.Unlock()

	account, err := s.repo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if kind == domain.TransactionWithdraw && amount > account.Balance {
		return nil, store.ErrInsufficientFunds
	}

	tx := &domain.Transaction{
		ID:        uuid.New(),
		AccountID: account.ID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.RecordTransaction(ctx, account, tx); err != nil {
		return nil, err
	}

	s.publishRecorded(ctx, account, tx)
	return tx, nil
}

// publishRecorded emits a transaction-recorded event. Publishing is best-effort;
// the ledger write has already committed and is never rolled back for a broker
// failure.
func (s *Service) publishRecorded(ctx context.Context, account *domain.Account, tx *domain.Transaction) {
	if s.eventProducer == nil {
		return
	}
	event := rabbitmq.TransactionRecordedEvent{
		TransactionID: tx.ID,
		AccountNumber: account.AccountNumber,
		Kind:          string(tx.Kind),
		Amount:        tx.Amount,
		Balance:       account.Balance,
		RecordedAt:    tx.CreatedAt,
	}
	routingKey := "ledger.transaction." + string(tx.Kind)
	if err := s.eventProducer.Publish(ctx, s.eventExchange, routingKey, event); err != nil {
		log.Printf("level=warn component=ledger msg=\"event publish failed\" transaction_id=%s err=%v", tx.ID, err)
	}
}
