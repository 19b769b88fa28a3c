package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOrderCreatedEvent(t *testing.T) {
	event, err := DecodeOrderCreatedEvent([]byte(`{"orderId":42,"itemName":"Widget"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(42), event.OrderID)
	assert.Equal(t, "Widget", event.ItemName)
}

func TestDecodeOrderCreatedEvent_ToleratesUnknownFields(t *testing.T) {
	// There is no schema version field; forward compatibility means
	// ignoring what we don't know.
	event, err := DecodeOrderCreatedEvent([]byte(`{"orderId":1,"itemName":"A","schemaVersion":2,"extra":{"x":1}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), event.OrderID)
}

func TestDecodeOrderCreatedEvent_Malformed(t *testing.T) {
	cases := map[string]string{
		"invalid json":     `{"orderId":`,
		"missing orderId":  `{"itemName":"Widget"}`,
		"negative orderId": `{"orderId":-3,"itemName":"Widget"}`,
		"missing itemName": `{"orderId":42}`,
		"wrong types":      `{"orderId":"42","itemName":"Widget"}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			event, err := DecodeOrderCreatedEvent([]byte(payload))
			require.Error(t, err)
			assert.Nil(t, event)
		})
	}
}
