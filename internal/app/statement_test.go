package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/corebank/ledger-service/internal/domain"
	"github.com/corebank/ledger-service/internal/store"
	"github.com/google/uuid"
)

// recordHistoryAt seeds a transaction directly through the repository so tests
// can control timestamps.
func recordHistoryAt(t *testing.T, repo *store.MemoryRepository, accountNumber string, kind domain.TransactionKind, amount int64, at time.Time) {
	t.Helper()
	account, err := repo.FindAccountByNumber(context.Background(), accountNumber)
	if err != nil {
		t.Fatalf("failed to read account: %v", err)
	}
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
}

func TestMiniStatement_CapsAtLimitNewestFirst(t *testing.T) {
	service, repo, _ := newTestService(t, "ACC001", 0)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		recordHistoryAt(t, repo, "ACC001", domain.TransactionDeposit, int64(100*(i+1)), base.Add(time.Duration(i)*time.Minute))
	}

	txs, err := service.MiniStatement(context.Background(), "ACC001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != DefaultMiniStatementLimit {
		t.Fatalf("expected %d transactions, got %d", DefaultMiniStatementLimit, len(txs))
	}
	// Newest entry is the 15th deposit of 1500.
	if txs[0].Amount != 1500 {
		t.Fatalf("expected newest amount 1500 first, got %d", txs[0].Amount)
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].CreatedAt.After(txs[i-1].CreatedAt) {
			t.Fatalf("expected newest-first order, got %v after %v", txs[i].CreatedAt, txs[i-1].CreatedAt)
		}
	}
}

func TestMiniStatement_UnknownAccount(t *testing.T) {
	service, _, _ := newTestService(t, "ACC001", 0)

	if _, err := service.MiniStatement(context.Background(), "ACC999"); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestStatement_InclusiveDateRange(t *testing.T) {
	service, repo, _ := newTestService(t, "ACC001", 1_000_000)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		recordHistoryAt(t, repo, "ACC001", domain.TransactionDeposit, int64(100*(i+1)), base.AddDate(0, 0, i))
	}

	t.Run("bounds are inclusive on both sides", func(t *testing.T) {
		from := base.AddDate(0, 0, 1)
		to := base.AddDate(0, 0, 3)
		txs, err := service.Statement(context.Background(), "ACC001", &from, &to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(txs) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(txs))
		}
		if txs[0].Amount != 200 || txs[2].Amount != 400 {
			t.Fatalf("expected ascending amounts 200..400, got %d..%d", txs[0].Amount, txs[2].Amount)
		}
	})

	t.Run("omitted bounds return the full history ascending", func(t *testing.T) {
		txs, err := service.Statement(context.Background(), "ACC001", nil, nil)
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

	t.Run("empty range yields no transactions", func(t *testing.T) {
		from := base.AddDate(0, 1, 0)
		txs, err := service.Statement(context.Background(), "ACC001", &from, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(txs) != 0 {
			t.Fatalf("expected no transactions, got %d", len(txs))
		}
	})
}

func TestExportStatement_CSV(t *testing.T) {
	service, repo, _ := newTestService(t, "ACC001", 1_000_000)

	base := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	recordHistoryAt(t, repo, "ACC001", domain.TransactionDeposit, 5000, base)
	recordHistoryAt(t, repo, "ACC001", domain.TransactionWithdraw, 2550, base.Add(time.Hour))

	data, err := service.ExportStatement(context.Background(), "ACC001", nil, nil, "csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse exported csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}

	want := [][]string{
		{"amount", "transaction_type", "timestamp"},
		{"50.00", "deposit", "2024-03-01T12:30:00Z"},
		{"25.50", "withdraw", "2024-03-01T13:30:00Z"},
	}
	for i := range want {
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				t.Fatalf("record %d field %d: expected %q, got %q", i, j, want[i][j], records[i][j])
			}
		}
	}
}

func TestExportStatement_FormatHandling(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr error
	}{
		{name: "pdf is not supported", format: "pdf", wantErr: domain.ErrUnsupportedFormat},
		{name: "empty format is rejected", format: "", wantErr: domain.ErrUnsupportedFormat},
		{name: "csv is case-insensitive", format: "CSV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newTestService(t, "ACC001", 0)

			_, err := service.ExportStatement(context.Background(), "ACC001", nil, nil, tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestExportStatement_UnknownAccountBeatsFormatCheck(t *testing.T) {
	service, _, _ := newTestService(t, "ACC001", 0)

	// The account is resolved before the format is inspected, so a missing
	// account reports not-found even for an unsupported format.
	if _, err := service.ExportStatement(context.Background(), "ACC999", nil, nil, "pdf"); !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
