package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	t.Run("ForwardChain", func(t *testing.T) {
		assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusConfirmed))
		assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusPreparing))
		assert.True(t, OrderStatusPreparing.CanTransitionTo(OrderStatusShipped))
		assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
	})

	t.Run("NoSkipping", func(t *testing.T) {
		assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusPreparing))
		assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusDelivered))
		assert.False(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusShipped))
	})

	t.Run("NoGoingBack", func(t *testing.T) {
		assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusPreparing))
		assert.False(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusPending))
	})

	t.Run("CancelFromAnyNonTerminalState", func(t *testing.T) {
		for _, s := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusShipped} {
			assert.True(t, s.CanTransitionTo(OrderStatusCancelled), "from %s", s)
		}
	})

	t.Run("TerminalStatesAcceptNothing", func(t *testing.T) {
		for _, next := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled, OrderStatusDelivered} {
			assert.False(t, OrderStatusDelivered.CanTransitionTo(next), "delivered -> %s", next)
			assert.False(t, OrderStatusCancelled.CanTransitionTo(next), "cancelled -> %s", next)
		}
	})

	t.Run("UnknownStatusIsRejected", func(t *testing.T) {
		assert.False(t, OrderStatus("draft").CanTransitionTo(OrderStatusConfirmed))
		assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatus("archived")))
	})
}

func TestOrderSetAmounts(t *testing.T) {
	o := &Order{}
	o.SetAmounts(17200, 700)

	assert.Equal(t, int64(17200), o.TotalAmountCents)
	assert.Equal(t, int64(700), o.ShippingFeeCents)
	assert.Equal(t, int64(17900), o.FinalAmountCents)
}
