package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// PurchaseTopic is the Kafka topic purchase events land on.
const PurchaseTopic = "shopstream.purchases"

// KafkaPublisher delivers purchase events to Kafka, keyed by account ID so
// each shopper's purchases stay ordered within a partition.
type KafkaPublisher struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewKafkaPublisher connects to the given brokers and ensures the purchase
// topic exists. Topic creation is best effort; it already existing is fine.
func NewKafkaPublisher(ctx context.Context, brokers []string, logger *slog.Logger) (*KafkaPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(PurchaseTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopic(ctx, 1, 1, nil, PurchaseTopic); err != nil {
		logger.WarnContext(ctx, "purchase topic creation skipped", "topic", PurchaseTopic, "error", err)
	}

	return &KafkaPublisher{client: client, logger: logger}, nil
}

func (p *KafkaPublisher) PublishPurchase(ctx context.Context, event PurchaseEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal purchase event: %w", err)
	}
	record := &kgo.Record{
		Topic: PurchaseTopic,
		Key:   []byte(event.AccountID.String()),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce purchase event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
