package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "shopstream/pkg/domain"
)

// The event payload is consumed by external systems, so its ID fields must
// serialize as canonical UUID strings.
func TestPurchaseEventWireFormat(t *testing.T) {
	event := PurchaseEvent{
		PurchaseID:  id.NewPurchaseID(),
		AccountID:   id.NewAccountID(),
		AccountName: "mina",
		Item:        "Monitor (27 inch)",
		Quantity:    1,
		UnitPrice:   640_000,
		Total:       640_000,
		Flow:        FlowDirect,
		OccurredAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, event.PurchaseID.String(), decoded["purchase_id"])
	assert.Equal(t, event.AccountID.String(), decoded["account_id"])
	assert.Equal(t, FlowDirect, decoded["flow"])
}
