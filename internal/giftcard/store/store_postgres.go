package store

import (
	"context"
	"database/sql"
	"fmt"

	"shopstream/internal/giftcard/models"
	id "shopstream/pkg/domain"
	"shopstream/pkg/platform/tx"
)

// Postgres persists gift cards in the `giftcards` table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Append(ctx context.Context, card models.GiftCard) error {
	q := tx.QuerierFrom(ctx, s.db)

	_, err := q.ExecContext(ctx, `
		INSERT INTO giftcards (id, code, amount, used, issued_at)
		VALUES ($1, $2, $3, $4, $5)
	`, card.ID.String(), card.Code, card.Amount, card.Used, card.IssuedAt)
	if err != nil {
		return fmt.Errorf("append gift card: %w", err)
	}
	return nil
}

func (s *Postgres) List(ctx context.Context) ([]models.GiftCard, error) {
	q := tx.QuerierFrom(ctx, s.db)

	rows, err := q.QueryContext(ctx, `
		SELECT id, code, amount, used, issued_at
		FROM giftcards
		ORDER BY issued_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list gift cards: %w", err)
	}
	defer rows.Close()

	var cards []models.GiftCard
	for rows.Next() {
		var card models.GiftCard
		var rawID string
		if err := rows.Scan(&rawID, &card.Code, &card.Amount, &card.Used, &card.IssuedAt); err != nil {
			return nil, fmt.Errorf("scan gift card row: %w", err)
		}
		if card.ID, err = id.ParseGiftCardID(rawID); err != nil {
			return nil, fmt.Errorf("parse gift card id: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gift cards: %w", err)
	}
	return cards, nil
}
