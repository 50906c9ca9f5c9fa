package services

import (
	"context"

	"github.com/Safaet-Rabbi/Amazon/models"
)

// Events dispatches domain events to registered handlers, synchronously
// and in registration order. Handlers receive the caller's context, so
// side effects raised inside a transaction join that transaction.
type Events struct {
	orderShipped      []func(ctx context.Context, order models.Order) error
	deliveryCompleted []func(ctx context.Context, delivery models.Delivery) error
}

func NewEvents() *Events {
	return &Events{}
}

// OnOrderShipped registers a handler for orders entering the shipped status.
func (e *Events) OnOrderShipped(fn func(ctx context.Context, order models.Order) error) {
	e.orderShipped = append(e.orderShipped, fn)
}

// OnDeliveryCompleted registers a handler for deliveries reaching delivered.
func (e *Events) OnDeliveryCompleted(fn func(ctx context.Context, delivery models.Delivery) error) {
	e.deliveryCompleted = append(e.deliveryCompleted, fn)
}

func (e *Events) PublishOrderShipped(ctx context.Context, order models.Order) error {
	for _, fn := range e.orderShipped {
		if err := fn(ctx, order); err != nil {
			return err
		}
	}
	return nil
}

func (e *Events) PublishDeliveryCompleted(ctx context.Context, delivery models.Delivery) error {
	for _, fn := range e.deliveryCompleted {
		if err := fn(ctx, delivery); err != nil {
			return err
		}
	}
	return nil
}
