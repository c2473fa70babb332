package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"shopstream/internal/account/models"
	id "shopstream/pkg/domain"
	"shopstream/pkg/platform/sentinel"
	"shopstream/pkg/platform/tx"
)

// Postgres persists accounts in the `users` table. Inventory is a JSONB
// column: it is only ever read and written whole, per account, so a child
// table would buy nothing.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const accountColumns = `id, name, email, password, wallet, inventory, created_at`

func (s *Postgres) Create(ctx context.Context, account *models.Account) error {
	q := tx.QuerierFrom(ctx, s.db)

	inventory, err := json.Marshal(account.Inventory)
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password, wallet, inventory, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO NOTHING
	`, account.ID.String(), account.Name, account.Email, account.Password,
		account.Wallet, inventory, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	// ON CONFLICT DO NOTHING swallows the duplicate; detect it by re-reading.
	existing, err := s.FindByName(ctx, account.Name)
	if err != nil {
		return fmt.Errorf("verify account insert: %w", err)
	}
	if existing.ID != account.ID {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM users WHERE id = $1`, accountID.String())
	return scanAccount(row)
}

func (s *Postgres) FindByName(ctx context.Context, name string) (*models.Account, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM users WHERE name = $1`, name)
	return scanAccount(row)
}

func (s *Postgres) AdjustWallet(ctx context.Context, accountID id.AccountID, delta int64) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`UPDATE users SET wallet = wallet + $2 WHERE id = $1`, accountID.String(), delta)
	if err != nil {
		return fmt.Errorf("adjust wallet: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) CreditInventory(ctx context.Context, accountID id.AccountID, itemLabel string, qty int64) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE users
		SET inventory = jsonb_set(
			inventory,
			ARRAY[$2::text],
			to_jsonb(COALESCE((inventory ->> $2)::bigint, 0) + $3::bigint)
		)
		WHERE id = $1
	`, accountID.String(), itemLabel, qty)
	if err != nil {
		return fmt.Errorf("credit inventory: %w", err)
	}
	return requireRow(res)
}

// Execute locks the account row with FOR UPDATE for the duration of
// validate-then-mutate. When no transaction is in flight it opens its own so
// the lock actually holds.
func (s *Postgres) Execute(ctx context.Context, accountID id.AccountID,
	validate func(*models.Account) error,
	mutate func(*models.Account)) (*models.Account, error) {

	if _, inTx := tx.From(ctx); !inTx {
		sqlTx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("begin account tx: %w", err)
		}
		account, execErr := s.Execute(tx.WithTx(ctx, sqlTx), accountID, validate, mutate)
		if execErr != nil {
			_ = sqlTx.Rollback()
			return nil, execErr
		}
		if err := sqlTx.Commit(); err != nil {
			return nil, fmt.Errorf("commit account tx: %w", err)
		}
		return account, nil
	}

	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM users WHERE id = $1 FOR UPDATE`, accountID.String())
	account, err := scanAccount(row)
	if err != nil {
		return nil, err
	}

	if validate != nil {
		if err := validate(account.Clone()); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		mutate(account)
	}

	inventory, err := json.Marshal(account.Inventory)
	if err != nil {
		return nil, fmt.Errorf("marshal inventory: %w", err)
	}
	_, err = q.ExecContext(ctx, `
		UPDATE users
		SET email = $2, password = $3, wallet = $4, inventory = $5
		WHERE id = $1
	`, account.ID.String(), account.Email, account.Password, account.Wallet, inventory)
	if err != nil {
		return nil, fmt.Errorf("write account: %w", err)
	}
	return account, nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		account   models.Account
		rawID     string
		inventory []byte
	)
	err := row.Scan(&rawID, &account.Name, &account.Email, &account.Password,
		&account.Wallet, &inventory, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	accountID, err := id.ParseAccountID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse stored account id: %w", err)
	}
	account.ID = accountID
	if err := json.Unmarshal(inventory, &account.Inventory); err != nil {
		return nil, fmt.Errorf("unmarshal inventory: %w", err)
	}
	if account.Inventory == nil {
		account.Inventory = make(map[string]int64)
	}
	return &account, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
