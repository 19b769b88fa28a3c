package models

import (
	"encoding/json"
	"fmt"
)

// OrderCreatedEvent is published to the order-created queue when a new
// order is committed. ItemName is denormalized so consumers never call
// back into the order store.
type OrderCreatedEvent struct {
	OrderID  int64  `json:"orderId"`
	ItemName string `json:"itemName"`
}

// DecodeOrderCreatedEvent parses an event payload. Unknown fields are
// tolerated; a missing orderId or empty itemName makes the payload
// malformed, since neither can be recovered by redelivery.
func DecodeOrderCreatedEvent(data []byte) (*OrderCreatedEvent, error) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}
	if event.OrderID <= 0 {
		return nil, fmt.Errorf("event has no orderId")
	}
	if event.ItemName == "" {
		return nil, fmt.Errorf("event has no itemName")
	}
	return &event, nil
}
