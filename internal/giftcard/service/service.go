// Package service issues gift cards. Issuance is free-standing: cards are
// not bought from a wallet and are not tied to the issuing account.
package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"

	"shopstream/internal/giftcard/models"
	"shopstream/internal/giftcard/store"
	"shopstream/internal/platform/metrics"
	id "shopstream/pkg/domain"
	dErrors "shopstream/pkg/domain-errors"
	"shopstream/pkg/requestcontext"
)

// MinAmount is the smallest issuable gift card value.
const MinAmount int64 = 1000

const (
	codeAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeBlockLen   = 4
	codeBlockCount = 3
)

type Service struct {
	cards   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(cards store.Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cards: cards, logger: logger, metrics: m}
}

// Issue creates a gift card for the given amount.
func (s *Service) Issue(ctx context.Context, amount int64) (models.GiftCard, error) {
	if amount < MinAmount {
		return models.GiftCard{}, dErrors.Newf(dErrors.CodeInvalidInput,
			"gift card amount must be at least %d", MinAmount)
	}

	code, err := generateCode()
	if err != nil {
		return models.GiftCard{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate gift card code")
	}
	card := models.GiftCard{
		ID:       id.NewGiftCardID(),
		Code:     code,
		Amount:   amount,
		Used:     false,
		IssuedAt: requestcontext.Now(ctx),
	}
	if err := s.cards.Append(ctx, card); err != nil {
		return models.GiftCard{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save gift card")
	}

	if s.metrics != nil {
		s.metrics.GiftCardsIssued.Inc()
	}
	s.logger.InfoContext(ctx, "gift card issued", "gift_card_id", card.ID.String(), "amount", amount)
	return card, nil
}

// List returns every issued card, oldest first.
func (s *Service) List(ctx context.Context) ([]models.GiftCard, error) {
	cards, err := s.cards.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list gift cards")
	}
	return cards, nil
}

// generateCode builds three 4-character blocks of uppercase letters and
// digits joined by hyphens. Codes are random, not checked for collisions.
func generateCode() (string, error) {
	raw := make([]byte, codeBlockCount*codeBlockLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	blocks := make([]string, codeBlockCount)
	for b := 0; b < codeBlockCount; b++ {
		chars := make([]byte, codeBlockLen)
		for i := 0; i < codeBlockLen; i++ {
			chars[i] = codeAlphabet[int(raw[b*codeBlockLen+i])%len(codeAlphabet)]
		}
		blocks[b] = string(chars)
	}
	return strings.Join(blocks, "-"), nil
}
