// Package errs defines the error kinds shared by the order write path
// and the notification consumer, so callers can branch on what actually
// went wrong rather than string-matching wrapped messages.
package errs

import "fmt"

// ValidationError means the caller's input was rejected before any
// state change happened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError means the order store write failed; no order row
// exists and no event was published.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order store write failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PublishError is the partial-success case: the order row is durably
// committed but the order-created event could not be published. It
// carries the committed order id so operators can backfill.
type PublishError struct {
	OrderID int64
	Err     error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("order %d committed but event publish failed: %v", e.OrderID, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// DeserializationError marks a poison message: a payload that can never
// become well-formed by retrying. The consumer logs and skips these.
type DeserializationError struct {
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("malformed event payload: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// DownstreamPersistenceError means the notification write failed and
// the delivery should be retried via the broker (not acknowledged).
type DownstreamPersistenceError struct {
	OrderID int64
	Err     error
}

func (e *DownstreamPersistenceError) Error() string {
	return fmt.Sprintf("notification write for order %d failed: %v", e.OrderID, e.Err)
}

func (e *DownstreamPersistenceError) Unwrap() error { return e.Err }
