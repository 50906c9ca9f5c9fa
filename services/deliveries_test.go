package services

import (
	"context"
	"testing"
	"time"

	"github.com/Safaet-Rabbi/Amazon/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func delivery(status models.DeliveryStatus) models.Delivery {
	return models.Delivery{
		OrderID:        "ORD123456001",
		TrackingNumber: "TRK123456780001",
		DeliveryStatus: status,
		Date:           time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2026, 1, 4, 15, 0, 0, 0, time.UTC),
	}
}

func statuses(entries []TimelineEntry) []models.DeliveryStatus {
	out := make([]models.DeliveryStatus, len(entries))
	for i, e := range entries {
		out[i] = e.Status
	}
	return out
}

func TestTimelineOutForDelivery(t *testing.T) {
	entries := buildTimeline(delivery(models.DeliveryOutForDelivery))

	assert.Equal(t, []models.DeliveryStatus{
		models.DeliveryPending,
		models.DeliveryPickedUp,
		models.DeliveryInTransit,
		models.DeliveryOutForDelivery,
	}, statuses(entries))

	for _, e := range entries {
		assert.True(t, e.Completed)
		assert.NotEqual(t, models.DeliveryDelivered, e.Status)
	}
}

func TestTimelineDelivered(t *testing.T) {
	d := delivery(models.DeliveryDelivered)
	actual := time.Date(2026, 1, 5, 11, 30, 0, 0, time.UTC)
	d.ActualDelivery = &actual

	entries := buildTimeline(d)
	require.Len(t, entries, 5)
	last := entries[len(entries)-1]
	assert.Equal(t, models.DeliveryDelivered, last.Status)
	assert.Equal(t, actual, last.Timestamp)
}

func TestTimelinePendingOnly(t *testing.T) {
	for _, status := range []models.DeliveryStatus{
		models.DeliveryPending,
		models.DeliveryFailed,
		models.DeliveryReturned,
	} {
		entries := buildTimeline(delivery(status))
		require.Len(t, entries, 1, "status %s", status)
		assert.Equal(t, models.DeliveryPending, entries[0].Status)
		assert.True(t, entries[0].Completed)
	}
}

func TestTimelinePendingUsesShipmentDate(t *testing.T) {
	d := delivery(models.DeliveryInTransit)
	entries := buildTimeline(d)
	require.NotEmpty(t, entries)
	assert.Equal(t, d.Date, entries[0].Timestamp)
	assert.Equal(t, d.UpdatedAt, entries[1].Timestamp)
}

func TestEventsDispatchInOrder(t *testing.T) {
	ev := NewEvents()

	var calls []string
	ev.OnOrderShipped(func(_ context.Context, o models.Order) error {
		calls = append(calls, "first:"+o.OrderID)
		return nil
	})
	ev.OnOrderShipped(func(_ context.Context, o models.Order) error {
		calls = append(calls, "second:"+o.OrderID)
		return nil
	})

	err := ev.PublishOrderShipped(context.Background(), models.Order{OrderID: "ORD1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:ORD1", "second:ORD1"}, calls)
}

func TestEventsHandlerErrorStopsDispatch(t *testing.T) {
	ev := NewEvents()

	called := false
	ev.OnDeliveryCompleted(func(_ context.Context, _ models.Delivery) error {
		return assert.AnError
	})
	ev.OnDeliveryCompleted(func(_ context.Context, _ models.Delivery) error {
		called = true
		return nil
	})

	err := ev.PublishDeliveryCompleted(context.Background(), models.Delivery{})
	assert.Error(t, err)
	assert.False(t, called)
}
