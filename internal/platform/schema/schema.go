// Package schema holds the Postgres DDL for all shopstream tables. Applied
// by integration tests and by operators on a fresh database.
package schema

// Statements creates every table, in dependency order. All statements are
// idempotent.
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		email      TEXT NOT NULL,
		password   TEXT NOT NULL,
		wallet     BIGINT NOT NULL,
		inventory  JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stocks (
		product_name TEXT PRIMARY KEY,
		quantity     BIGINT NOT NULL CHECK (quantity >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS stock_state (
		id         INT PRIMARY KEY CHECK (id = 1),
		last_reset TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id           UUID PRIMARY KEY,
		account_id   UUID NOT NULL REFERENCES users (id),
		account_name TEXT NOT NULL,
		item         TEXT NOT NULL,
		quantity     BIGINT NOT NULL,
		unit_price   BIGINT NOT NULL,
		total        BIGINT NOT NULL,
		at           TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS purchases_account_id_idx ON purchases (account_id, at)`,
	`CREATE TABLE IF NOT EXISTS giftcards (
		id        UUID PRIMARY KEY,
		code      TEXT NOT NULL,
		amount    BIGINT NOT NULL,
		used      BOOLEAN NOT NULL DEFAULT FALSE,
		issued_at TIMESTAMPTZ NOT NULL
	)`,
}
