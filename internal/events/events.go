// Package events emits purchase events to downstream consumers. Publishing
// is fail-open: a broker outage must never fail a purchase, so callers log
// publish errors and move on.
package events

import (
	"context"
	"log/slog"
	"time"

	id "shopstream/pkg/domain"
)

// Flow identifies which purchase path produced an event.
const (
	FlowDirect   = "direct"
	FlowCheckout = "checkout"
)

// PurchaseEvent is the wire payload for one completed purchase line.
type PurchaseEvent struct {
	PurchaseID  id.PurchaseID `json:"purchase_id"`
	AccountID   id.AccountID  `json:"account_id"`
	AccountName string        `json:"account_name"`
	Item        string        `json:"item"`
	Quantity    int64         `json:"quantity"`
	UnitPrice   int64         `json:"unit_price"`
	Total       int64         `json:"total"`
	Flow        string        `json:"flow"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

// Publisher delivers purchase events.
type Publisher interface {
	PublishPurchase(ctx context.Context, event PurchaseEvent) error
	Close()
}

// LogPublisher writes events to the structured log. It is the development
// fallback when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishPurchase(ctx context.Context, event PurchaseEvent) error {
	p.logger.InfoContext(ctx, "purchase event",
		"purchase_id", event.PurchaseID.String(),
		"account", event.AccountName,
		"item", event.Item,
		"quantity", event.Quantity,
		"total", event.Total,
		"flow", event.Flow,
	)
	return nil
}

func (p *LogPublisher) Close() {}
