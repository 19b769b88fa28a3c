// Package outbox republishes order-created events that missed the
// broker on the synchronous path. The submit path commits the order and
// its outbox row atomically, then publishes; when that publish fails
// the row stays pending and this relay picks it up on a later tick.
package outbox

import (
	"context"
	"log"
	"time"

	"github.com/minishop/ordersys/internal/db"
)

type Store interface {
	Pending(ctx context.Context, limit int) ([]db.PendingEvent, error)
	MarkSent(ctx context.Context, eventID string) error
}

type Publisher interface {
	PublishRaw(ctx context.Context, messageID string, payload []byte) error
}

type Relay struct {
	store     Store
	publisher Publisher
	interval  time.Duration
	batchSize int
}

func NewRelay(store Store, publisher Publisher, interval time.Duration, batchSize int) *Relay {
	return &Relay{
		store:     store,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run processes pending events every tick until ctx is cancelled
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Outbox relay stopped")
			return
		case <-ticker.C:
			r.processBatch(ctx)
		}
	}
}

func (r *Relay) processBatch(ctx context.Context) {
	events, err := r.store.Pending(ctx, r.batchSize)
	if err != nil {
		log.Printf("⚠️ Outbox: failed to fetch pending events: %v", err)
		return
	}
	if len(events) == 0 {
		return
	}

	log.Printf("📤 Outbox: republishing %d pending event(s)", len(events))

	for _, event := range events {
		if err := r.publisher.PublishRaw(ctx, event.ID, event.Payload); err != nil {
			// Row stays pending, retried next tick
			log.Printf("⚠️ Outbox: failed to publish event %s (order %d): %v", event.ID, event.OrderID, err)
			continue
		}

		if err := r.store.MarkSent(ctx, event.ID); err != nil {
			// At-least-once: the event was published but stays pending,
			// so it may be republished. The consumer's idempotency key
			// absorbs the duplicate.
			log.Printf("⚠️ Outbox: failed to mark event %s sent: %v", event.ID, err)
			continue
		}

		log.Printf("✅ Outbox: event %s for order %d republished", event.ID, event.OrderID)
	}
}
