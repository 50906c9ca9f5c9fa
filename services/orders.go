package services

import (
	"context"
	"time"

	"github.com/Safaet-Rabbi/Amazon/models"
	"github.com/Safaet-Rabbi/Amazon/pricing"
	"github.com/Safaet-Rabbi/Amazon/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderLineInput is a requested (product, quantity) pair.
type OrderLineInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	CustomerID      string               `json:"customer_id"`
	Items           []OrderLineInput     `json:"items"`
	ShippingAddress models.Address       `json:"shippingAddress"`
	PaymentMethod   models.PaymentMethod `json:"paymentMethod"`
	Notes           string               `json:"notes"`
}

// buildOrderItems validates every requested line against the fetched
// products and assembles the order items with name/price snapshots. Lines
// repeating a product are checked against the stock cumulatively. It is
// pure: nothing is decremented here, so a failing line leaves no partial
// state behind.
func buildOrderItems(products map[string]models.Product, lines []OrderLineInput) ([]models.OrderItem, []pricing.Line, error) {
	if len(lines) == 0 {
		return nil, nil, &ValidationError{Message: "Order must contain at least one item"}
	}

	items := make([]models.OrderItem, 0, len(lines))
	priceLines := make([]pricing.Line, 0, len(lines))
	requested := make(map[string]int, len(lines))

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, nil, &ValidationError{Message: "Item quantity must be at least 1"}
		}
		product, ok := products[line.ProductID]
		if !ok {
			return nil, nil, &NotFoundError{Resource: "Product", ID: line.ProductID}
		}
		requested[line.ProductID] += line.Quantity
		if product.Stock < requested[line.ProductID] {
			return nil, nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}

		pl := pricing.Line{UnitPrice: product.Price, Quantity: line.Quantity}
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
			Total:       pricing.LineTotal(pl),
		})
		priceLines = append(priceLines, pl)
	}
	return items, priceLines, nil
}

// fetchProducts loads the products referenced by the given lines into a
// map keyed by product id. Missing products are simply absent from the
// map; buildOrderItems reports them.
func (m *Manager) fetchProducts(ctx context.Context, lines []OrderLineInput) (map[string]models.Product, error) {
	products := make(map[string]models.Product, len(lines))
	for _, line := range lines {
		if _, ok := products[line.ProductID]; ok {
			continue
		}
		var product models.Product
		err := m.products().FindOne(ctx, bson.M{"_id": line.ProductID}).Decode(&product)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				continue
			}
			return nil, err
		}
		products[product.ID] = product
	}
	return products, nil
}

// applyStockDeltas increments every item's product stock by sign*quantity.
// Decrements only match while the product still holds enough stock, so a
// stale validation read can never push stock below zero; the transaction
// aborts instead.
func (m *Manager) applyStockDeltas(ctx context.Context, items []models.OrderItem, sign int) error {
	now := time.Now()
	for _, item := range items {
		filter := bson.M{"_id": item.ProductID}
		if sign < 0 {
			filter["stock"] = bson.M{"$gte": item.Quantity}
		}
		res, err := m.products().UpdateOne(ctx, filter, bson.M{
			"$inc": bson.M{"stock": sign * item.Quantity},
			"$set": bson.M{"updatedAt": now},
		})
		if err != nil {
			return err
		}
		if sign < 0 && res.MatchedCount == 0 {
			var product models.Product
			if err := m.products().FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product); err != nil {
				return &InsufficientStockError{ProductName: item.ProductName}
			}
			return &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}
	}
	return nil
}

// CreateOrder validates the customer and every line, then atomically
// decrements stock, inserts the order and bumps the customer aggregates.
// Validation happens before any write: a failing line never leaves
// earlier decrements applied.
func (m *Manager) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	var order models.Order

	err := m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		var customer models.Customer
		err := m.customers().FindOne(sc, bson.M{"_id": in.CustomerID}).Decode(&customer)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return &NotFoundError{Resource: "Customer"}
			}
			return err
		}

		products, err := m.fetchProducts(sc, in.Items)
		if err != nil {
			return err
		}
		items, lines, err := buildOrderItems(products, in.Items)
		if err != nil {
			return err
		}
		quote := pricing.Price(lines)

		if err := m.applyStockDeltas(sc, items, -1); err != nil {
			return err
		}

		paymentMethod := in.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = models.PaymentCreditCard
		}

		now := time.Now()
		order = models.Order{
			OrderID:         utils.OrderID(),
			CustomerID:      customer.ID,
			CustomerName:    customer.Name,
			Items:           items,
			Status:          models.OrderStatusPending,
			Subtotal:        quote.Subtotal,
			Tax:             quote.Tax,
			Shipping:        quote.Shipping,
			Total:           quote.Total,
			ShippingAddress: in.ShippingAddress,
			PaymentMethod:   paymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			Notes:           in.Notes,
			OrderedAt:       now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		res, err := m.orders().InsertOne(sc, order)
		if err != nil {
			return err
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = oid
		}

		_, err = m.customers().UpdateOne(sc, bson.M{"_id": customer.ID}, bson.M{
			"$inc": bson.M{"totalOrders": 1, "totalSpent": order.Total},
			"$set": bson.M{"updatedAt": now},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus moves an order along the status transition table.
// Entering shipped raises OrderShipped, which creates the delivery record
// inside the same transaction if one does not exist yet. Entering
// cancelled restores stock and rolls the customer aggregates back, so
// the totals keep matching the customer's non-cancelled orders.
func (m *Manager) UpdateOrderStatus(ctx context.Context, orderID string, newStatus models.OrderStatus) (*models.Order, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, &ValidationError{Message: "Invalid order status"}
	}

	var order models.Order
	err := m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		err := m.orders().FindOne(sc, bson.M{"order_id": orderID}).Decode(&order)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return &NotFoundError{Resource: "Order"}
			}
			return err
		}

		if !models.CanTransition(order.Status, newStatus) {
			return &InvalidStateError{
				Message: "Cannot change order status from " + string(order.Status) + " to " + string(newStatus),
			}
		}

		now := time.Now()
		_, err = m.orders().UpdateOne(sc, bson.M{"order_id": orderID},
			bson.M{"$set": bson.M{"status": newStatus, "updatedAt": now}})
		if err != nil {
			return err
		}
		order.Status = newStatus
		order.UpdatedAt = now

		switch newStatus {
		case models.OrderStatusShipped:
			return m.events.PublishOrderShipped(sc, order)
		case models.OrderStatusCancelled:
			// Cancelling in place keeps the order document but undoes
			// its side effects, the same reversal the delete path runs.
			return m.reverseOrderEffects(sc, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ensureDeliveryForOrder creates the shipment record for a freshly
// shipped order when none exists, snapshotting the address and recipient
// from the order.
func (m *Manager) ensureDeliveryForOrder(ctx context.Context, order models.Order) error {
	count, err := m.deliveries().CountDocuments(ctx, bson.M{"order_id": order.OrderID})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	_, err = m.deliveries().InsertOne(ctx, models.Delivery{
		OrderID:           order.OrderID,
		TrackingNumber:    utils.TrackingNumber(),
		Carrier:           models.CarrierLocalDelivery,
		ShippingMethod:    models.ShippingStandard,
		EstimatedDelivery: now.Add(3 * 24 * time.Hour),
		DeliveryStatus:    models.DeliveryInTransit,
		DeliveryAddress:   order.ShippingAddress,
		RecipientName:     order.CustomerName,
		Date:              now,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	return err
}

// UpdateOrderItems replaces a pending order's line items: old stock is
// restored, the new lines are validated against the restored levels, and
// the order totals and the customer's totalSpent are adjusted, all in one
// transaction.
func (m *Manager) UpdateOrderItems(ctx context.Context, orderID string, lines []OrderLineInput) (*models.Order, error) {
	var order models.Order

	err := m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		err := m.orders().FindOne(sc, bson.M{"order_id": orderID}).Decode(&order)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return &NotFoundError{Resource: "Order"}
			}
			return err
		}

		if order.Status != models.OrderStatusPending {
			return &InvalidStateError{Message: "Cannot modify items for non-pending orders"}
		}

		if err := m.applyStockDeltas(sc, order.Items, 1); err != nil {
			return err
		}

		products, err := m.fetchProducts(sc, lines)
		if err != nil {
			return err
		}
		items, priceLines, err := buildOrderItems(products, lines)
		if err != nil {
			return err
		}
		quote := pricing.Price(priceLines)

		if err := m.applyStockDeltas(sc, items, -1); err != nil {
			return err
		}

		now := time.Now()
		_, err = m.orders().UpdateOne(sc, bson.M{"order_id": orderID}, bson.M{"$set": bson.M{
			"items":     items,
			"subtotal":  quote.Subtotal,
			"tax":       quote.Tax,
			"shipping":  quote.Shipping,
			"total":     quote.Total,
			"updatedAt": now,
		}})
		if err != nil {
			return err
		}

		// Keep the customer's running spend equal to the sum of their
		// non-cancelled order totals.
		spentDelta := quote.Total - order.Total
		_, err = m.customers().UpdateOne(sc, bson.M{"_id": order.CustomerID}, bson.M{
			"$inc": bson.M{"totalSpent": spentDelta},
			"$set": bson.M{"updatedAt": now},
		})
		if err != nil {
			return err
		}

		order.Items = items
		order.Subtotal = quote.Subtotal
		order.Tax = quote.Tax
		order.Shipping = quote.Shipping
		order.Total = quote.Total
		order.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// customerRollback is the aggregate decrement that undoes an order's
// contribution to its customer's totals.
func customerRollback(order models.Order) bson.M {
	return bson.M{"totalOrders": -1, "totalSpent": -order.Total}
}

// reverseOrderEffects restores the stock an order consumed, rolls the
// customer aggregates back and removes any delivery record. Shared by
// order deletion and by cancelling an order in place.
func (m *Manager) reverseOrderEffects(ctx context.Context, order models.Order) error {
	if err := m.applyStockDeltas(ctx, order.Items, 1); err != nil {
		return err
	}

	_, err := m.customers().UpdateOne(ctx, bson.M{"_id": order.CustomerID}, bson.M{
		"$inc": customerRollback(order),
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}

	_, err = m.deliveries().DeleteOne(ctx, bson.M{"order_id": order.OrderID})
	return err
}

// CancelOrder reverses a non-shipped order: stock is restored, the
// customer aggregates are rolled back, and the order plus any delivery
// record are removed atomically.
func (m *Manager) CancelOrder(ctx context.Context, orderID string) error {
	return m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		var order models.Order
		err := m.orders().FindOne(sc, bson.M{"order_id": orderID}).Decode(&order)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return &NotFoundError{Resource: "Order"}
			}
			return err
		}

		if order.Status == models.OrderStatusShipped || order.Status == models.OrderStatusDelivered {
			return &InvalidStateError{Message: "Cannot delete shipped or delivered orders"}
		}

		// An already-cancelled order has no effects left to reverse.
		if order.Status != models.OrderStatusCancelled {
			if err := m.reverseOrderEffects(sc, order); err != nil {
				return err
			}
		}

		_, err = m.orders().DeleteOne(sc, bson.M{"order_id": orderID})
		return err
	})
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status        string
	CustomerID    string
	PaymentStatus string
	StartDate     *time.Time
	EndDate       *time.Time
}

func (f OrderFilter) query() bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CustomerID != "" {
		filter["customer_id"] = f.CustomerID
	}
	if f.PaymentStatus != "" {
		filter["paymentStatus"] = f.PaymentStatus
	}
	if f.StartDate != nil || f.EndDate != nil {
		dateRange := bson.M{}
		if f.StartDate != nil {
			dateRange["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			dateRange["$lte"] = *f.EndDate
		}
		filter["ordered_at"] = dateRange
	}
	return filter
}

// ListOrders returns a page of orders, newest first.
func (m *Manager) ListOrders(ctx context.Context, f OrderFilter, page, limit int) ([]models.Order, int64, error) {
	filter := f.query()

	opts := options.Find().
		SetSort(bson.D{{Key: "ordered_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := m.orders().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}

	total, err := m.orders().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetOrder returns an order and its delivery record, if any.
func (m *Manager) GetOrder(ctx context.Context, orderID string) (*models.Order, *models.Delivery, error) {
	var order models.Order
	err := m.orders().FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, &NotFoundError{Resource: "Order"}
		}
		return nil, nil, err
	}

	var delivery models.Delivery
	err = m.deliveries().FindOne(ctx, bson.M{"order_id": orderID}).Decode(&delivery)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &order, nil, nil
		}
		return nil, nil, err
	}
	return &order, &delivery, nil
}

// ProductCustomer is one row of the customers-per-product projection.
type ProductCustomer struct {
	CustomerID    string            `bson:"_id" json:"customerId"`
	CustomerName  string            `bson:"customerName" json:"customerName"`
	Email         string            `bson:"email" json:"email"`
	Membership    models.Membership `bson:"membership" json:"membership"`
	TotalOrders   int               `bson:"totalOrders" json:"totalOrders"`
	TotalQuantity int               `bson:"totalQuantity" json:"totalQuantity"`
}

// ProductCustomers aggregates the customers who ordered a product, with
// their order count and summed quantity of that product.
func (m *Manager) ProductCustomers(ctx context.Context, productID string) ([]ProductCustomer, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"items.product_id": productID}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$customer_id",
			"customerName": bson.M{"$first": "$customerName"},
			"totalOrders":  bson.M{"$sum": 1},
			"totalQuantity": bson.M{"$sum": bson.M{"$sum": bson.M{"$map": bson.M{
				"input": "$items",
				"as":    "item",
				"in": bson.M{"$cond": bson.A{
					bson.M{"$eq": bson.A{"$$item.product_id", productID}},
					"$$item.quantity",
					0,
				}},
			}}}},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "customers",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "customer",
		}}},
		{{Key: "$unwind", Value: "$customer"}},
		{{Key: "$project", Value: bson.M{
			"customerName":  1,
			"totalOrders":   1,
			"totalQuantity": 1,
			"email":         "$customer.email",
			"membership":    "$customer.membership",
		}}},
	}

	cursor, err := m.orders().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []ProductCustomer
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
