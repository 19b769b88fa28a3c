package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minishop/ordersys/internal/models"
)

type ackCall struct {
	kind    string // "ack", "nack"
	requeue bool
}

type fakeAcknowledger struct {
	calls []ackCall
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.calls = append(a.calls, ackCall{kind: "ack"})
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.calls = append(a.calls, ackCall{kind: "nack", requeue: requeue})
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.calls = append(a.calls, ackCall{kind: "reject", requeue: requeue})
	return nil
}

type storedNotification struct {
	orderID int64
	message string
}

type fakeNotificationStore struct {
	rows      []storedNotification
	seen      map[int64]bool
	createErr error
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{seen: make(map[int64]bool)}
}

func (s *fakeNotificationStore) Create(ctx context.Context, orderID int64, message string) (bool, error) {
	if s.createErr != nil {
		return false, s.createErr
	}
	if s.seen[orderID] {
		return false, nil
	}
	s.seen[orderID] = true
	s.rows = append(s.rows, storedNotification{orderID: orderID, message: message})
	return true, nil
}

func delivery(ack *fakeAcknowledger, messageID string, body []byte) amqp.Delivery {
	return amqp.Delivery{
		Acknowledger: ack,
		MessageId:    messageID,
		Body:         body,
	}
}

func eventBody(t *testing.T, orderID int64, itemName string) []byte {
	t.Helper()
	body, err := json.Marshal(models.OrderCreatedEvent{OrderID: orderID, ItemName: itemName})
	require.NoError(t, err)
	return body
}

func TestHandle_ValidEvent(t *testing.T) {
	store := newFakeNotificationStore()
	c := NewNotificationConsumer(store)
	ack := &fakeAcknowledger{}

	c.handle(context.Background(), delivery(ack, "msg-1", eventBody(t, 42, "Widget")))

	require.Len(t, store.rows, 1)
	assert.Equal(t, int64(42), store.rows[0].orderID)
	assert.Contains(t, store.rows[0].message, "Widget")
	assert.Contains(t, store.rows[0].message, "42")

	require.Len(t, ack.calls, 1)
	assert.Equal(t, "ack", ack.calls[0].kind)
}

func TestHandle_MalformedPayloadIsSkipped(t *testing.T) {
	cases := map[string][]byte{
		"not json":       []byte("not-json{"),
		"missing fields": []byte(`{"something":"else"}`),
		"empty itemName": []byte(`{"orderId":7,"itemName":""}`),
		"zero orderId":   []byte(`{"orderId":0,"itemName":"Widget"}`),
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			store := newFakeNotificationStore()
			c := NewNotificationConsumer(store)
			ack := &fakeAcknowledger{}

			c.handle(context.Background(), delivery(ack, "msg-bad", body))

			assert.Empty(t, store.rows, "poison messages must not create notifications")
			require.Len(t, ack.calls, 1)
			assert.Equal(t, "nack", ack.calls[0].kind)
			assert.False(t, ack.calls[0].requeue, "poison messages must not be requeued")
		})
	}
}

func TestHandle_ContinuesAfterPoisonMessage(t *testing.T) {
	store := newFakeNotificationStore()
	c := NewNotificationConsumer(store)
	ack := &fakeAcknowledger{}

	c.handle(context.Background(), delivery(ack, "msg-bad", []byte("garbage")))
	c.handle(context.Background(), delivery(ack, "msg-ok", eventBody(t, 8, "Gadget")))

	require.Len(t, store.rows, 1)
	assert.Equal(t, int64(8), store.rows[0].orderID)
}

func TestHandle_DuplicateDeliveryIsIdempotent(t *testing.T) {
	store := newFakeNotificationStore()
	c := NewNotificationConsumer(store)
	ack := &fakeAcknowledger{}

	msg := delivery(ack, "msg-1", eventBody(t, 42, "Widget"))
	c.handle(context.Background(), msg)
	c.handle(context.Background(), msg)

	assert.Len(t, store.rows, 1, "a redelivered event must not create a second notification")

	require.Len(t, ack.calls, 2)
	assert.Equal(t, "ack", ack.calls[0].kind)
	assert.Equal(t, "ack", ack.calls[1].kind, "duplicates are acked, not requeued")
}

func TestHandle_TransientFailureIsRequeuedThenSkipped(t *testing.T) {
	store := newFakeNotificationStore()
	store.createErr = errors.New("connection reset")
	c := NewNotificationConsumer(store)
	ack := &fakeAcknowledger{}

	msg := delivery(ack, "msg-1", eventBody(t, 42, "Widget"))
	for i := 0; i < maxAttempts; i++ {
		c.handle(context.Background(), msg)
	}

	require.Len(t, ack.calls, maxAttempts)
	for i := 0; i < maxAttempts-1; i++ {
		assert.Equal(t, "nack", ack.calls[i].kind)
		assert.True(t, ack.calls[i].requeue, "transient failures requeue for redelivery")
	}
	last := ack.calls[maxAttempts-1]
	assert.Equal(t, "ack", last.kind, "an exhausted retry budget acks to unblock the queue")

	assert.Empty(t, store.rows)
	assert.Empty(t, c.attempts, "attempt tracking is released after the skip")
}

func TestHandle_RetryBudgetResetsAfterSuccess(t *testing.T) {
	store := newFakeNotificationStore()
	store.createErr = errors.New("connection reset")
	c := NewNotificationConsumer(store)
	ack := &fakeAcknowledger{}

	msg := delivery(ack, "msg-1", eventBody(t, 42, "Widget"))
	c.handle(context.Background(), msg)

	store.createErr = nil
	c.handle(context.Background(), msg)

	require.Len(t, store.rows, 1)
	assert.Empty(t, c.attempts)
}

func TestRun_ProcessesInDeliveryOrder(t *testing.T) {
	store := newFakeNotificationStore()
	c := NewNotificationConsumer(store)
	ack := &fakeAcknowledger{}

	messages := make(chan amqp.Delivery, 2)
	messages <- delivery(ack, "msg-a", eventBody(t, 1, "A"))
	messages <- delivery(ack, "msg-b", eventBody(t, 2, "B"))
	close(messages)

	c.Run(context.Background(), messages)

	require.Len(t, store.rows, 2)
	assert.Equal(t, int64(1), store.rows[0].orderID, "A must be persisted before B")
	assert.Equal(t, int64(2), store.rows[1].orderID)
}

func TestNotificationMessage_Format(t *testing.T) {
	event := &models.OrderCreatedEvent{OrderID: 13, ItemName: "Widget"}
	msg := NotificationMessage(event)
	assert.Equal(t, fmt.Sprintf("Notification: A new order for 'Widget' (ID: %d) has been created.", 13), msg)
}
