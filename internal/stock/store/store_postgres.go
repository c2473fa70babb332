package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"shopstream/pkg/platform/sentinel"
	"shopstream/pkg/platform/tx"
)

// Postgres persists the stock ledger in two tables: one row per product in
// `stocks` and a singleton `stock_state` row carrying the last reset time.
// All statements go through tx.QuerierFrom so they join an in-flight
// transaction when the purchase service runs one.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Snapshot(ctx context.Context) (State, error) {
	q := tx.QuerierFrom(ctx, s.db)

	var lastReset time.Time
	err := q.QueryRowContext(ctx, `SELECT last_reset FROM stock_state WHERE id = 1`).Scan(&lastReset)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return State{}, sentinel.ErrNotFound
		}
		return State{}, fmt.Errorf("read stock state: %w", err)
	}

	rows, err := q.QueryContext(ctx, `SELECT product_name, quantity FROM stocks`)
	if err != nil {
		return State{}, fmt.Errorf("read stocks: %w", err)
	}
	defer rows.Close()

	state := State{LastReset: lastReset, Quantities: make(map[string]int64)}
	for rows.Next() {
		var name string
		var qty int64
		if err := rows.Scan(&name, &qty); err != nil {
			return State{}, fmt.Errorf("scan stock row: %w", err)
		}
		state.Quantities[name] = qty
	}
	if err := rows.Err(); err != nil {
		return State{}, fmt.Errorf("iterate stocks: %w", err)
	}
	return state, nil
}

func (s *Postgres) Get(ctx context.Context, productName string) (int64, error) {
	q := tx.QuerierFrom(ctx, s.db)

	var qty int64
	err := q.QueryRowContext(ctx,
		`SELECT quantity FROM stocks WHERE product_name = $1`, productName).Scan(&qty)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read stock for %q: %w", productName, err)
	}
	return qty, nil
}

// ReplaceAll resets every product's quantity in one round trip using unnest
// over parallel arrays, then records the reset time.
func (s *Postgres) ReplaceAll(ctx context.Context, quantities map[string]int64, resetAt time.Time) error {
	q := tx.QuerierFrom(ctx, s.db)

	names := make([]string, 0, len(quantities))
	counts := make([]int64, 0, len(quantities))
	for name, qty := range quantities {
		names = append(names, name)
		counts = append(counts, qty)
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO stocks (product_name, quantity)
		SELECT unnest($1::text[]), unnest($2::bigint[])
		ON CONFLICT (product_name) DO UPDATE SET
			quantity = EXCLUDED.quantity
	`, pq.Array(names), pq.Array(counts))
	if err != nil {
		return fmt.Errorf("replace stocks: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO stock_state (id, last_reset)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET
			last_reset = EXCLUDED.last_reset
	`, resetAt)
	if err != nil {
		return fmt.Errorf("record stock reset: %w", err)
	}
	return nil
}

func (s *Postgres) Decrement(ctx context.Context, productName string, qty int64) error {
	q := tx.QuerierFrom(ctx, s.db)

	_, err := q.ExecContext(ctx, `
		UPDATE stocks
		SET quantity = GREATEST(0, quantity - $2)
		WHERE product_name = $1
	`, productName, qty)
	if err != nil {
		return fmt.Errorf("decrement stock for %q: %w", productName, err)
	}
	return nil
}
