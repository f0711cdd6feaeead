/**
 * @description
 * Schema creation and demo-account seeding for the ledger-service. Account
 * creation is an admin concern, not a ledger operation, so it lives in this
 * separate command rather than in the service API.
 *
 * Usage:
 *   DATABASE_URL=postgres://... go run ./cmd/seed
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - internal/config, internal/domain, internal/store: Internal packages.
 */

package main

import (
	"context"
	"log"

	"github.com/corebank/ledger-service/internal/config"
	"github.com/corebank/ledger-service/internal/domain"
	"github.com/corebank/ledger-service/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema matches the persisted state layout: accounts keyed by a unique account
// number, transactions keyed by id with an (account_id, created_at) index for
// range queries. The CHECK constraints back up the ledger's invariants at the
// storage layer.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	account_number TEXT NOT NULL UNIQUE,
	balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0)
);

CREATE TABLE IF NOT EXISTS transactions (
	seq BIGSERIAL PRIMARY KEY,
	id UUID NOT NULL UNIQUE,
	account_id UUID NOT NULL REFERENCES accounts(id),
	kind TEXT NOT NULL CHECK (kind IN ('deposit', 'withdraw')),
	amount BIGINT NOT NULL CHECK (amount > 0),
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_account_created
	ON transactions (account_id, created_at);
`

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=seed msg=\"config load failed\" err=%v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("level=fatal component=seed msg=\"database url must be configured\" env=DATABASE_URL")
	}

	ctx := context.Background()
	dbpool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=seed msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()

	if _, err := dbpool.Exec(ctx, schema); err != nil {
		log.Fatalf("level=fatal component=seed msg=\"schema creation failed\" err=%v", err)
	}
	log.Println("level=info component=seed msg=\"schema ready\"")

	repository := store.NewPostgresRepository(dbpool)

	// Demo accounts; balances are minor units. Existing account numbers are left
	// untouched, so reseeding is safe.
	accounts := []domain.Account{
		{ID: uuid.New(), Name: "Alice Example", AccountNumber: "ACC001", Balance: 10000},
		{ID: uuid.New(), Name: "Bob Example", AccountNumber: "ACC002", Balance: 0},
		{ID: uuid.New(), Name: "Carol Example", AccountNumber: "ACC003", Balance: 250050},
	}
	for i := range accounts {
		if err := repository.CreateAccount(ctx, &accounts[i]); err != nil {
			log.Fatalf("level=fatal component=seed msg=\"account seed failed\" account_number=%s err=%v", accounts[i].AccountNumber, err)
		}
		log.Printf("level=info component=seed msg=\"account ready\" account_number=%s", accounts[i].AccountNumber)
	}
}
