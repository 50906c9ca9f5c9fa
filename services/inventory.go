package services

import (
	"context"
	"time"

	"github.com/Safaet-Rabbi/Amazon/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ClampStock applies a signed delta to a stock level, never going below
// zero. Callers decrementing for a purchase are responsible for checking
// sufficiency first; the clamp is the floor, not the check.
func ClampStock(current, delta int) int {
	next := current + delta
	if next < 0 {
		return 0
	}
	return next
}

// AdjustStock applies a signed quantity delta to a product's stock and
// persists the clamped result.
func (m *Manager) AdjustStock(ctx context.Context, productID string, delta int) (*models.Product, error) {
	var product models.Product
	err := m.products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &NotFoundError{Resource: "Product", ID: productID}
		}
		return nil, err
	}

	product.Stock = ClampStock(product.Stock, delta)
	product.UpdatedAt = time.Now()

	_, err = m.products().UpdateOne(ctx, bson.M{"_id": productID},
		bson.M{"$set": bson.M{"stock": product.Stock, "updatedAt": product.UpdatedAt}})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SetStock overwrites a product's stock level.
func (m *Manager) SetStock(ctx context.Context, productID string, stock int) (*models.Product, error) {
	if stock < 0 {
		stock = 0
	}
	var product models.Product
	err := m.products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &NotFoundError{Resource: "Product", ID: productID}
		}
		return nil, err
	}

	product.Stock = stock
	product.UpdatedAt = time.Now()

	_, err = m.products().UpdateOne(ctx, bson.M{"_id": productID},
		bson.M{"$set": bson.M{"stock": stock, "updatedAt": product.UpdatedAt}})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
