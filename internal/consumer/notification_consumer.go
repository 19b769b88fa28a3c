package consumer

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/minishop/ordersys/internal/errs"
	"github.com/minishop/ordersys/internal/models"
)

const (
	// maxAttempts bounds redeliveries of a failing message before it is
	// skipped, so one bad database moment can't block the queue forever.
	maxAttempts = 5

	insertTimeout = 5 * time.Second
)

// NotificationStore persists a derived notification, reporting whether
// a row was created (false means the order id was already processed).
type NotificationStore interface {
	Create(ctx context.Context, orderID int64, message string) (bool, error)
}

type NotificationConsumer struct {
	store NotificationStore

	// Redelivery attempts per message id. The consumer loop handles one
	// delivery at a time, so no locking is needed.
	attempts map[string]int
}

func NewNotificationConsumer(store NotificationStore) *NotificationConsumer {
	return &NotificationConsumer{
		store:    store,
		attempts: make(map[string]int),
	}
}

// Run processes deliveries sequentially until the channel closes or ctx
// is cancelled. Sequential handling is what preserves queue order in
// the notification table.
func (c *NotificationConsumer) Run(ctx context.Context, messages <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			log.Println("Notification consumer stopped")
			return
		case msg, ok := <-messages:
			if !ok {
				log.Println("Delivery channel closed")
				return
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *NotificationConsumer) handle(ctx context.Context, msg amqp.Delivery) {
	event, err := models.DecodeOrderCreatedEvent(msg.Body)
	if err != nil {
		// Poison message: retrying can't fix a malformed payload
		derr := &errs.DeserializationError{Err: err}
		log.Printf("❌ Skipping malformed event %s: %v", msg.MessageId, derr)
		msg.Nack(false, false)
		return
	}

	log.Printf("📥 Received order-created event for Order #%d", event.OrderID)

	insertCtx, cancel := context.WithTimeout(ctx, insertTimeout)
	created, err := c.store.Create(insertCtx, event.OrderID, NotificationMessage(event))
	cancel()
	if err != nil {
		c.retryOrSkip(msg, &errs.DownstreamPersistenceError{OrderID: event.OrderID, Err: err})
		return
	}

	delete(c.attempts, msg.MessageId)

	if !created {
		log.Printf("🔁 Duplicate delivery for Order #%d, notification already exists", event.OrderID)
		msg.Ack(false)
		return
	}

	log.Printf("✅ Notification saved for Order #%d", event.OrderID)
	msg.Ack(false)
}

// retryOrSkip requeues a transiently failing delivery until its attempt
// budget runs out, then acknowledges it so the queue keeps moving. The
// skip is logged as the operator signal for manual backfill.
func (c *NotificationConsumer) retryOrSkip(msg amqp.Delivery, cause error) {
	c.attempts[msg.MessageId]++
	attempt := c.attempts[msg.MessageId]

	if attempt < maxAttempts {
		log.Printf("⚠️ %v (attempt %d/%d), requeueing", cause, attempt, maxAttempts)
		msg.Nack(false, true)
		return
	}

	delete(c.attempts, msg.MessageId)
	log.Printf("❌ Giving up on event %s after %d attempts: %v", msg.MessageId, attempt, cause)
	msg.Ack(false)
}

// NotificationMessage builds the customer-facing text for an
// order-created event.
func NotificationMessage(event *models.OrderCreatedEvent) string {
	return fmt.Sprintf("Notification: A new order for '%s' (ID: %d) has been created.", event.ItemName, event.OrderID)
}
