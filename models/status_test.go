package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionAllowedEdges(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusProcessing},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
	}
	for _, e := range allowed {
		assert.True(t, CanTransition(e.from, e.to), "%s -> %s should be allowed", e.from, e.to)
	}
}

func TestCanTransitionRejectsAllOtherEdges(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	}
	allowed := map[[2]OrderStatus]bool{
		{OrderStatusPending, OrderStatusConfirmed}:    true,
		{OrderStatusPending, OrderStatusCancelled}:    true,
		{OrderStatusConfirmed, OrderStatusProcessing}: true,
		{OrderStatusConfirmed, OrderStatusCancelled}:  true,
		{OrderStatusProcessing, OrderStatusShipped}:   true,
		{OrderStatusProcessing, OrderStatusCancelled}: true,
		{OrderStatusShipped, OrderStatusDelivered}:    true,
	}

	for _, from := range all {
		for _, to := range all {
			if allowed[[2]OrderStatus{from, to}] {
				continue
			}
			assert.False(t, CanTransition(from, to), "%s -> %s should be rejected", from, to)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		for _, to := range []OrderStatus{
			OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
			OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
		} {
			assert.False(t, CanTransition(terminal, to))
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusPending))
	assert.True(t, ValidOrderStatus(OrderStatusCancelled))
	assert.False(t, ValidOrderStatus("paid"))
	assert.False(t, ValidOrderStatus(""))
}
