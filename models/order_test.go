package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Hemachandram324/ecommerce-project/apperrors"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPaid, OrderStatusDelivered, false},
		{OrderStatusDelivered, OrderStatusDelivered, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("shipped")
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	status, err = ParseOrderStatus("PAID")
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusPaid, status)

	_, err = ParseOrderStatus("returned")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}
