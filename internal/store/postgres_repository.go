/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository` interface.
 * It contains the SQL needed to read accounts and to apply a balance update and
 * its transaction row as a single database transaction.
 *
 * @notes
 * - RecordTransaction revalidates a withdrawal's sufficiency inside the UPDATE
 *   itself (`balance >= $1`), so the check holds at commit time even when the
 *   caller's read of the balance is stale.
 * - Every underlying database failure is wrapped in ErrStorage so callers can
 *   distinguish faults from caller errors with errors.Is.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/corebank/ledger-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateAccount inserts a new account row. Re-running the seeder is harmless
// because an existing account number is left as-is.
func (r *PostgresRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, name, account_number, balance)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_number) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, account.ID, account.Name, account.AccountNumber, account.Balance); err != nil {
		return fmt.Errorf("%w: create account: %v", ErrStorage, err)
	}
	return nil
}

// FindAccountByNumber retrieves an account by its unique account number.
func (r *PostgresRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	var account domain.Account
	query := `SELECT id, name, account_number, balance FROM accounts WHERE account_number = $1`
	err := r.db.QueryRow(ctx, query, accountNumber).Scan(&account.ID, &account.Name, &account.AccountNumber, &account.Balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: find account: %v", ErrStorage, err)
	}
	return &account, nil
}

// RecordTransaction applies the balance delta and inserts the transaction row in
// one database transaction. The conditional UPDATE carries the commit-time
// sufficiency check for withdrawals; the accounts table's `balance >= 0` CHECK
// backs it up.
func (r *PostgresRepository) RecordTransaction(ctx context.Context, account *domain.Account, tx *domain.Transaction) error {
	dbTx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStorage, err)
	}
	defer dbTx.Rollback(ctx)

	var update string
	switch tx.Kind {
	case domain.TransactionWithdraw:
		update = `
			UPDATE accounts SET balance = balance - $1
			WHERE account_number = $2 AND balance >= $1
			RETURNING balance
		`
	default:
		update = `
			UPDATE accounts SET balance = balance + $1
			WHERE account_number = $2
			RETURNING balance
		`
	}

	var newBalance int64
	err = dbTx.QueryRow(ctx, update, tx.Amount, account.AccountNumber).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		// Zero rows means either the account vanished or the withdrawal was not
		// funded at commit time; look the account up to tell the two apart.
		var one int
		lookupErr := dbTx.QueryRow(ctx, `SELECT 1 FROM accounts WHERE account_number = $1`, account.AccountNumber).Scan(&one)
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return ErrAccountNotFound
		}
		if lookupErr != nil {
			return fmt.Errorf("%w: account lookup: %v", ErrStorage, lookupErr)
		}
		return ErrInsufficientFunds
	}
	if err != nil {
		return fmt.Errorf("%w: update balance: %v", ErrStorage, err)
	}

	insert := `
		INSERT INTO transactions (id, account_id, kind, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq
	`
	if err := dbTx.QueryRow(ctx, insert, tx.ID, tx.AccountID, string(tx.Kind), tx.Amount, tx.CreatedAt).Scan(&tx.Seq); err != nil {
		return fmt.Errorf("%w: insert transaction: %v", ErrStorage, err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStorage, err)
	}

	account.Balance = newBalance
	return nil
}

// ListTransactions returns an account's history ordered by (created_at, seq).
func (r *PostgresRepository) ListTransactions(ctx context.Context, accountID uuid.UUID, q domain.TransactionQuery) ([]domain.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, account_id, kind, amount, created_at, seq FROM transactions WHERE account_id = $1`)
	args := []any{accountID}

	if q.From != nil {
		args = append(args, *q.From)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
	}
	if q.To != nil {
		args = append(args, *q.To)
		fmt.Fprintf(&sb, " AND created_at <= $%d", len(args))
	}
	if q.Order == domain.NewestFirst {
		sb.WriteString(" ORDER BY created_at DESC, seq DESC")
	} else {
		sb.WriteString(" ORDER BY created_at ASC, seq ASC")
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list transactions: %v", ErrStorage, err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var kind string
		if err := rows.Scan(&tx.ID, &tx.AccountID, &kind, &tx.Amount, &tx.CreatedAt, &tx.Seq); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %v", ErrStorage, err)
		}
		tx.Kind = domain.TransactionKind(kind)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list transactions: %v", ErrStorage, err)
	}
	return txs, nil
}

var _ Repository = (*PostgresRepository)(nil)
