package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"shopstream/internal/purchase/models"
	id "shopstream/pkg/domain"
	"shopstream/pkg/platform/tx"
)

// Postgres persists the purchase ledger in the `purchases` table. Statements
// go through tx.QuerierFrom so appends land inside the purchase transaction.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const insertPurchase = `
	INSERT INTO purchases (id, account_id, account_name, item, quantity, unit_price, total, at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (s *Postgres) Append(ctx context.Context, record models.Record) error {
	q := tx.QuerierFrom(ctx, s.db)

	_, err := q.ExecContext(ctx, insertPurchase,
		record.ID.String(), record.AccountID.String(), record.AccountName,
		record.Item, record.Quantity, record.UnitPrice, record.Total, record.At)
	if err != nil {
		return fmt.Errorf("append purchase: %w", err)
	}
	return nil
}

// AppendBatch inserts all records in one statement using unnest over
// parallel arrays.
func (s *Postgres) AppendBatch(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}
	q := tx.QuerierFrom(ctx, s.db)

	ids := make([]string, len(records))
	accountIDs := make([]string, len(records))
	accountNames := make([]string, len(records))
	items := make([]string, len(records))
	quantities := make([]int64, len(records))
	unitPrices := make([]int64, len(records))
	totals := make([]int64, len(records))
	times := make([]time.Time, len(records))
	for i, r := range records {
		ids[i] = r.ID.String()
		accountIDs[i] = r.AccountID.String()
		accountNames[i] = r.AccountName
		items[i] = r.Item
		quantities[i] = r.Quantity
		unitPrices[i] = r.UnitPrice
		totals[i] = r.Total
		times[i] = r.At
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO purchases (id, account_id, account_name, item, quantity, unit_price, total, at)
		SELECT unnest($1::uuid[]), unnest($2::uuid[]), unnest($3::text[]), unnest($4::text[]),
		       unnest($5::bigint[]), unnest($6::bigint[]), unnest($7::bigint[]), unnest($8::timestamptz[])
	`, pq.Array(ids), pq.Array(accountIDs), pq.Array(accountNames), pq.Array(items),
		pq.Array(quantities), pq.Array(unitPrices), pq.Array(totals), pq.Array(times))
	if err != nil {
		return fmt.Errorf("append purchase batch: %w", err)
	}
	return nil
}

func (s *Postgres) ListByBuyer(ctx context.Context, accountID id.AccountID) ([]models.Record, error) {
	q := tx.QuerierFrom(ctx, s.db)

	rows, err := q.QueryContext(ctx, `
		SELECT id, account_id, account_name, item, quantity, unit_price, total, at
		FROM purchases
		WHERE account_id = $1
		ORDER BY at, id
	`, accountID.String())
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var r models.Record
		var rawID, rawAccountID string
		if err := rows.Scan(&rawID, &rawAccountID, &r.AccountName,
			&r.Item, &r.Quantity, &r.UnitPrice, &r.Total, &r.At); err != nil {
			return nil, fmt.Errorf("scan purchase row: %w", err)
		}
		if r.ID, err = id.ParsePurchaseID(rawID); err != nil {
			return nil, fmt.Errorf("parse purchase id: %w", err)
		}
		if r.AccountID, err = id.ParseAccountID(rawAccountID); err != nil {
			return nil, fmt.Errorf("parse account id: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return records, nil
}
