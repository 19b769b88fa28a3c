package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindsAreDistinguishable(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("submit failed: %w", &PublishError{OrderID: 3, Err: cause})

	var perr *PublishError
	require.ErrorAs(t, wrapped, &perr)
	assert.Equal(t, int64(3), perr.OrderID)
	assert.ErrorIs(t, wrapped, cause)

	var verr *ValidationError
	assert.False(t, errors.As(wrapped, &verr), "a publish error is not a validation error")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")

	for _, err := range []error{
		&PersistenceError{Err: cause},
		&PublishError{OrderID: 1, Err: cause},
		&DeserializationError{Err: cause},
		&DownstreamPersistenceError{OrderID: 1, Err: cause},
	} {
		assert.ErrorIs(t, err, cause, "%T must unwrap to its cause", err)
	}
}

func TestMessages(t *testing.T) {
	verr := &ValidationError{Field: "itemName", Reason: "must not be empty"}
	assert.Equal(t, "invalid itemName: must not be empty", verr.Error())

	perr := &PublishError{OrderID: 7, Err: errors.New("broker down")}
	assert.Contains(t, perr.Error(), "order 7 committed")
}
