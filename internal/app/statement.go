/**
 * @description
 * Read-only statement queries and the CSV export transform. Both query shapes sit
 * on top of Repository.ListTransactions; the export adds formatting only, never
 * business logic.
 *
 * Ordering is fixed per operation: the mini statement is newest-first because it
 * is an interactive recent-activity view, while the range statement and its
 * export are chronological ascending, the natural order for a bank statement
 * file.
 */

package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/corebank/ledger-service/internal/domain"
	"github.com/corebank/ledger-service/internal/store"
)

// csvHeader matches the exported column set: amount, transaction_type, timestamp.
var csvHeader = []string{"amount", "transaction_type", "timestamp"}

// MiniStatement returns the account's most recent transactions, newest-first,
// capped at the configured limit (10 by default).
func (s *Service) MiniStatement(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	account, err := s.repo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, account.ID, domain.TransactionQuery{
		Order: domain.NewestFirst,
		Limit: s.miniStatementLimit,
	})
}

// Statement returns the account's history, chronological ascending, filtered by
// the inclusive [from, to] bounds. A nil bound is unbounded on that side;
// omitting both returns the full history.
func (s *Service) Statement(ctx context.Context, accountNumber string, from, to *time.Time) ([]domain.Transaction, error) {
	account, err := s.repo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, account.ID, domain.TransactionQuery{
		Order: domain.OldestFirst,
		From:  from,
		To:    to,
	})
}

// ExportStatement renders a range statement in the requested format. Only "csv"
// is supported; any other requested format fails with ErrUnsupportedFormat
// instead of silently producing nothing.
func (s *Service) ExportStatement(ctx context.Context, accountNumber string, from, to *time.Time, format string) ([]byte, error) {
	account, err := s.repo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(format), "csv") {
		return nil, domain.ErrUnsupportedFormat
	}

	txs, err := s.repo.ListTransactions(ctx, account.ID, domain.TransactionQuery{
		Order: domain.OldestFirst,
		From:  from,
		To:    to,
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("%w: csv write: %v", store.ErrStorage, err)
	}
	for i := range txs {
		row := []string{
			domain.FormatAmount(txs[i].Amount),
			string(txs[i].Kind),
			txs[i].CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("%w: csv write: %v", store.ErrStorage, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: csv flush: %v", store.ErrStorage, err)
	}
	return buf.Bytes(), nil
}
