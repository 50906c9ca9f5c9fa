// Package services implements the order lifecycle: order creation,
// modification and cancellation together with their stock, customer
// aggregate and delivery side effects. Every multi-document mutation runs
// inside a single MongoDB transaction.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Manager coordinates orders, products, customers and deliveries.
type Manager struct {
	db     *mongo.Database
	events *Events
}

func NewManager(db *mongo.Database) *Manager {
	m := &Manager{db: db, events: NewEvents()}
	m.events.OnOrderShipped(m.ensureDeliveryForOrder)
	m.events.OnDeliveryCompleted(m.markOrderDelivered)
	return m
}

func (m *Manager) customers() *mongo.Collection  { return m.db.Collection("customers") }
func (m *Manager) products() *mongo.Collection   { return m.db.Collection("products") }
func (m *Manager) orders() *mongo.Collection     { return m.db.Collection("orders") }
func (m *Manager) deliveries() *mongo.Collection { return m.db.Collection("deliveries") }

// withTransaction runs fn inside a session transaction; fn's reads and
// writes all observe the same snapshot.
func (m *Manager) withTransaction(ctx context.Context, fn func(ctx mongo.SessionContext) error) error {
	session, err := m.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
