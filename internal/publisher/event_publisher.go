package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minishop/ordersys/internal/messaging"
	"github.com/minishop/ordersys/internal/models"
)

// publishTimeout bounds a single publish attempt so a broker outage
// fails fast instead of holding the HTTP caller open.
const publishTimeout = 5 * time.Second

type OrderEventPublisher struct {
	mq    *messaging.RabbitMQ
	queue string
}

func NewOrderEventPublisher(mq *messaging.RabbitMQ, queue string) (*OrderEventPublisher, error) {
	// Declare the queue up front so publishes never race the consumer
	if err := mq.DeclareQueue(queue); err != nil {
		return nil, err
	}

	return &OrderEventPublisher{mq: mq, queue: queue}, nil
}

// PublishOrderCreated publishes an order-created event under the given
// message id.
func (p *OrderEventPublisher) PublishOrderCreated(ctx context.Context, messageID string, event models.OrderCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.PublishRaw(ctx, messageID, data)
}

// PublishRaw publishes an already-serialized payload. The outbox relay
// uses this path since outbox rows carry the payload as stored bytes.
func (p *OrderEventPublisher) PublishRaw(ctx context.Context, messageID string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.mq.Publish(ctx, p.queue, messageID, payload)
}
