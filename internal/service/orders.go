// Package service holds the order submission use case: validate the
// item, commit the order with its outbox row, then publish the
// order-created event.
package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/minishop/ordersys/internal/errs"
	"github.com/minishop/ordersys/internal/models"
)

// storeTimeout bounds the order insert so a wedged database fails the
// request instead of holding it open.
const storeTimeout = 5 * time.Second

// OrderStore persists an order and its outbox event atomically,
// returning the committed order and the outbox event id.
type OrderStore interface {
	Create(ctx context.Context, itemName string) (*models.Order, string, error)
}

// EventPublisher delivers an order-created event to the event log.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, messageID string, event models.OrderCreatedEvent) error
}

// OutboxMarker records that an event reached the broker so the relay
// won't republish it.
type OutboxMarker interface {
	MarkSent(ctx context.Context, eventID string) error
}

type OrderService struct {
	store     OrderStore
	publisher EventPublisher
	outbox    OutboxMarker
}

func NewOrderService(store OrderStore, publisher EventPublisher, outbox OutboxMarker) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		outbox:    outbox,
	}
}

// SubmitOrder validates itemName, commits the order, and publishes its
// order-created event.
//
// A returned Order always reflects a durably committed row. Publishing
// happens after the commit; when it fails the order stands, the error
// is *errs.PublishError, and the still-pending outbox row lets the
// relay backfill the event.
func (s *OrderService) SubmitOrder(ctx context.Context, itemName string) (*models.Order, error) {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil, &errs.ValidationError{Field: "itemName", Reason: "must not be empty"}
	}

	storeCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	order, eventID, err := s.store.Create(storeCtx, itemName)
	if err != nil {
		return nil, &errs.PersistenceError{Err: err}
	}

	event := models.OrderCreatedEvent{OrderID: order.ID, ItemName: order.ItemName}
	if err := s.publisher.PublishOrderCreated(ctx, eventID, event); err != nil {
		log.Printf("⚠️ Order #%d committed but publish failed: %v", order.ID, err)
		return order, &errs.PublishError{OrderID: order.ID, Err: err}
	}

	if err := s.outbox.MarkSent(ctx, eventID); err != nil {
		// The event is on the broker; worst case the relay republishes
		// it and the consumer's idempotency key drops the duplicate.
		log.Printf("⚠️ Failed to mark event %s sent: %v", eventID, err)
	}

	log.Printf("✅ Order #%d created for item %q", order.ID, order.ItemName)
	return order, nil
}
