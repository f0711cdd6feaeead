package store

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/corebank/ledger-service/internal/domain"
	"github.com/google/uuid"
)

func seedAccount(t *testing.T, repo *MemoryRepository, accountNumber string, balance int64) *domain.Account {
	t.Helper()
	account := &domain.Account{
		ID:            uuid.New(),
		Name:          "Test Account",
		AccountNumber: accountNumber,
		Balance:       balance,
	}
	if err := repo.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	return account
}

func recordAt(t *testing.T, repo *MemoryRepository, account *domain.Account, kind domain.TransactionKind, amount int64, at time.Time) *domain.Transaction {
	t.Helper()
	tx := &domain.Transaction{
		ID:        uuid.New(),
		AccountID: account.ID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: at,
	}
	if err := repo.RecordTransaction(context.Background(), account, tx); err != nil {
		t.Fatalf("failed to record transaction: %v", err)
	}
	return tx
}

func TestRecordTransaction_DepositUpdatesBalanceAndHistory(t *testing.T) {
	repo := NewMemoryRepository()
	account := seedAccount(t, repo, "ACC001", 10000)

	tx := recordAt(t, repo, account, domain.TransactionDeposit, 5000, time.Now().UTC())

	if account.Balance != 15000 {
		t.Fatalf("expected balance 15000, got %d", account.Balance)
	}
	if tx.Seq == 0 {
		t.Fatalf("expected a store-assigned seq, got 0")
	}

	txs, err := repo.ListTransactions(context.Background(), account.ID, domain.TransactionQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].Amount != 5000 || txs[0].Kind != domain.TransactionDeposit {
		t.Fatalf("unexpected transaction: %+v", txs[0])
	}
}

func TestRecordTransaction_WithdrawRevalidatesStoredBalance(t *testing.T) {
	repo := NewMemoryRepository()
	account := seedAccount(t, repo, "ACC001", 10000)

	// The caller's copy claims more funds than the store holds; the store's
	// balance is authoritative.
	stale := *account
	stale.Balance = 50000

	tx := &domain.Transaction{
		ID:        uuid.New(),
		AccountID: account.ID,
		Kind:      domain.TransactionWithdraw,
		Amount:    20000,
		CreatedAt: time.Now().UTC(),
	}
	err := repo.RecordTransaction(context.Background(), &stale, tx)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	fresh, err := repo.FindAccountByNumber(context.Background(), "ACC001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.Balance != 10000 {
		t.Fatalf("expected balance unchanged at 10000, got %d", fresh.Balance)
	}
	txs, err := repo.ListTransactions(context.Background(), account.ID, domain.TransactionQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected no transactions after failed withdrawal, got %d", len(txs))
	}
}

func TestRecordTransaction_UnknownAccount(t *testing.T) {
	repo := NewMemoryRepository()
	ghost := &domain.Account{ID: uuid.New(), AccountNumber: "ACC999"}
	tx := &domain.Transaction{ID: uuid.New(), AccountID: ghost.ID, Kind: domain.TransactionDeposit, Amount: 100, CreatedAt: time.Now().UTC()}

	if err := repo.RecordTransaction(context.Background(), ghost, tx); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestRecordTransaction_DepositOverflowIsStorageError(t *testing.T) {
	repo := NewMemoryRepository()
	account := seedAccount(t, repo, "ACC001", math.MaxInt64-5)

	tx := &domain.Transaction{
		ID:        uuid.New(),
		AccountID: account.ID,
		Kind:      domain.TransactionDeposit,
		Amount:    10,
		CreatedAt: time.Now().UTC(),
	}
	err := repo.RecordTransaction(context.Background(), account, tx)
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage on overflow, got %v", err)
	}

	fresh, err := repo.FindAccountByNumber(context.Background(), "ACC001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.Balance != math.MaxInt64-5 {
		t.Fatalf("expected balance unchanged, got %d", fresh.Balance)
	}
}

func TestListTransactions_OrderLimitAndBounds(t *testing.T) {
	repo := NewMemoryRepository()
	account := seedAccount(t, repo, "ACC001", 1_000_000)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		recordAt(t, repo, account, domain.TransactionDeposit, int64(100*(i+1)), base.AddDate(0, 0, i))
	}

	t.Run("newest first with limit", func(t *testing.T) {
		txs, err := repo.ListTransactions(context.Background(), account.ID, domain.TransactionQuery{
			Order: domain.NewestFirst,
			Limit: 2,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(txs) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(txs))
		}
		if txs[0].Amount != 500 || txs[1].Amount != 400 {
			t.Fatalf("expected newest-first amounts 500, 400; got %d, %d", txs[0].Amount, txs[1].Amount)
		}
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		from := base.AddDate(0, 0, 1)
		to := base.AddDate(0, 0, 3)
		txs, err := repo.ListTransactions(context.Background(), account.ID, domain.TransactionQuery{
			Order: domain.OldestFirst,
			From:  &from,
			To:    &to,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(txs) != 3 {
			t.Fatalf("expected 3 transactions inside bounds, got %d", len(txs))
		}
		if txs[0].Amount != 200 || txs[2].Amount != 400 {
			t.Fatalf("expected ascending amounts 200..400, got %d..%d", txs[0].Amount, txs[2].Amount)
		}
	})

	t.Run("no bounds returns full history ascending", func(t *testing.T) {
		txs, err := repo.ListTransactions(context.Background(), account.ID, domain.TransactionQuery{Order: domain.OldestFirst})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(txs) != 5 {
			t.Fatalf("expected 5 transactions, got %d", len(txs))
		}
		for i := 1; i < len(txs); i++ {
			if txs[i].CreatedAt.Before(txs[i-1].CreatedAt) {
				t.Fatalf("expected ascending order, got %v before %v", txs[i].CreatedAt, txs[i-1].CreatedAt)
			}
		}
	})
}

func TestListTransactions_EqualTimestampsOrderedBySeq(t *testing.T) {
	repo := NewMemoryRepository()
	account := seedAccount(t, repo, "ACC001", 1_000_000)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first := recordAt(t, repo, account, domain.TransactionDeposit, 100, at)
	second := recordAt(t, repo, account, domain.TransactionDeposit, 200, at)

	txs, err := repo.ListTransactions(context.Background(), account.ID, domain.TransactionQuery{Order: domain.NewestFirst})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].ID != second.ID || txs[1].ID != first.ID {
		t.Fatalf("expected seq to break the timestamp tie, got %v then %v", txs[0].ID, txs[1].ID)
	}
}
