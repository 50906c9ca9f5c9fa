package services

import (
	"context"
	"time"

	"github.com/Safaet-Rabbi/Amazon/models"
	"github.com/Safaet-Rabbi/Amazon/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateDeliveryInput carries the optional overrides for a manually
// created shipment; anything left empty is defaulted from the order.
type CreateDeliveryInput struct {
	OrderID           string                `json:"order_id"`
	Carrier           models.Carrier        `json:"carrier"`
	ShippingMethod    models.ShippingMethod `json:"shipping_method"`
	EstimatedDelivery *time.Time            `json:"estimated_delivery"`
	DeliveryAddress   *models.Address       `json:"delivery_address"`
	RecipientName     string                `json:"recipient_name"`
	SignatureRequired bool                  `json:"signature_required"`
	DeliveryNotes     string                `json:"delivery_notes"`
}

// CreateDelivery records a shipment for an existing order. Each order has
// at most one delivery.
func (m *Manager) CreateDelivery(ctx context.Context, in CreateDeliveryInput) (*models.Delivery, error) {
	var order models.Order
	err := m.orders().FindOne(ctx, bson.M{"order_id": in.OrderID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &NotFoundError{Resource: "Order"}
		}
		return nil, err
	}

	count, err := m.deliveries().CountDocuments(ctx, bson.M{"order_id": in.OrderID})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ConflictError{Message: "Delivery record already exists for this order"}
	}
	// A concurrent create can still slip past the count; the unique
	// order_id index catches it at insert time below.

	now := time.Now()
	delivery := models.Delivery{
		OrderID:           in.OrderID,
		TrackingNumber:    utils.TrackingNumber(),
		Carrier:           in.Carrier,
		ShippingMethod:    in.ShippingMethod,
		EstimatedDelivery: now.Add(3 * 24 * time.Hour),
		DeliveryStatus:    models.DeliveryPending,
		DeliveryAddress:   order.ShippingAddress,
		RecipientName:     order.CustomerName,
		SignatureRequired: in.SignatureRequired,
		DeliveryNotes:     in.DeliveryNotes,
		Date:              now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if delivery.Carrier == "" {
		delivery.Carrier = models.CarrierLocalDelivery
	}
	if delivery.ShippingMethod == "" {
		delivery.ShippingMethod = models.ShippingStandard
	}
	if in.EstimatedDelivery != nil {
		delivery.EstimatedDelivery = *in.EstimatedDelivery
	}
	if in.DeliveryAddress != nil {
		delivery.DeliveryAddress = *in.DeliveryAddress
	}
	if in.RecipientName != "" {
		delivery.RecipientName = in.RecipientName
	}

	res, err := m.deliveries().InsertOne(ctx, delivery)
	if err != nil {
		return nil, MapDuplicateKey(err, "Delivery record already exists for this order")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		delivery.ID = oid
	}
	return &delivery, nil
}

// UpdateDeliveryStatusInput carries a shipment status change.
type UpdateDeliveryStatusInput struct {
	DeliveryStatus models.DeliveryStatus `json:"delivery_status"`
	DriverNotes    string                `json:"driver_notes"`
	ActualDelivery *time.Time            `json:"actual_delivery"`
}

var deliveryStatuses = map[models.DeliveryStatus]bool{
	models.DeliveryPending:        true,
	models.DeliveryPickedUp:       true,
	models.DeliveryInTransit:      true,
	models.DeliveryOutForDelivery: true,
	models.DeliveryDelivered:      true,
	models.DeliveryFailed:         true,
	models.DeliveryReturned:       true,
}

// UpdateDeliveryStatus sets a delivery's status. Reaching delivered marks
// the shipment complete, stamps the actual delivery time and raises
// DeliveryCompleted, which pushes the linked order to delivered inside
// the same transaction.
func (m *Manager) UpdateDeliveryStatus(ctx context.Context, orderID string, in UpdateDeliveryStatusInput) (*models.Delivery, error) {
	if !deliveryStatuses[in.DeliveryStatus] {
		return nil, &ValidationError{Message: "Invalid delivery status"}
	}

	var delivery models.Delivery
	err := m.withTransaction(ctx, func(sc mongo.SessionContext) error {
		err := m.deliveries().FindOne(sc, bson.M{"order_id": orderID}).Decode(&delivery)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return &NotFoundError{Resource: "Delivery record"}
			}
			return err
		}

		now := time.Now()
		set := bson.M{"delivery_status": in.DeliveryStatus, "updatedAt": now}
		if in.DriverNotes != "" {
			set["driver_notes"] = in.DriverNotes
			delivery.DriverNotes = in.DriverNotes
		}

		delivery.DeliveryStatus = in.DeliveryStatus
		delivery.UpdatedAt = now

		if in.DeliveryStatus == models.DeliveryDelivered {
			actual := now
			if in.ActualDelivery != nil {
				actual = *in.ActualDelivery
			}
			set["delivered"] = true
			set["actual_delivery"] = actual
			delivery.Delivered = true
			delivery.ActualDelivery = &actual
		}

		_, err = m.deliveries().UpdateOne(sc, bson.M{"order_id": orderID}, bson.M{"$set": set})
		if err != nil {
			return err
		}

		if in.DeliveryStatus == models.DeliveryDelivered {
			return m.events.PublishDeliveryCompleted(sc, delivery)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// markOrderDelivered cascades a completed delivery onto its order.
func (m *Manager) markOrderDelivered(ctx context.Context, delivery models.Delivery) error {
	_, err := m.orders().UpdateOne(ctx, bson.M{"order_id": delivery.OrderID},
		bson.M{"$set": bson.M{"status": models.OrderStatusDelivered, "updatedAt": time.Now()}})
	return err
}

// UpdateDeliveryInput patches shipment details; nil fields are untouched.
type UpdateDeliveryInput struct {
	Carrier           *models.Carrier        `json:"carrier"`
	ShippingMethod    *models.ShippingMethod `json:"shipping_method"`
	EstimatedDelivery *time.Time             `json:"estimated_delivery"`
	DeliveryAddress   *models.Address        `json:"delivery_address"`
	RecipientName     *string                `json:"recipient_name"`
	SignatureRequired *bool                  `json:"signature_required"`
	DeliveryNotes     *string                `json:"delivery_notes"`
}

func (m *Manager) UpdateDelivery(ctx context.Context, orderID string, in UpdateDeliveryInput) (*models.Delivery, error) {
	set := bson.M{"updatedAt": time.Now()}
	if in.Carrier != nil {
		set["carrier"] = *in.Carrier
	}
	if in.ShippingMethod != nil {
		set["shipping_method"] = *in.ShippingMethod
	}
	if in.EstimatedDelivery != nil {
		set["estimated_delivery"] = *in.EstimatedDelivery
	}
	if in.DeliveryAddress != nil {
		set["delivery_address"] = *in.DeliveryAddress
	}
	if in.RecipientName != nil {
		set["recipient_name"] = *in.RecipientName
	}
	if in.SignatureRequired != nil {
		set["signature_required"] = *in.SignatureRequired
	}
	if in.DeliveryNotes != nil {
		set["delivery_notes"] = *in.DeliveryNotes
	}

	var delivery models.Delivery
	err := m.deliveries().FindOneAndUpdate(ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&delivery)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &NotFoundError{Resource: "Delivery record"}
		}
		return nil, err
	}
	return &delivery, nil
}

// DeleteDelivery removes the shipment record for an order.
func (m *Manager) DeleteDelivery(ctx context.Context, orderID string) error {
	res, err := m.deliveries().DeleteOne(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return &NotFoundError{Resource: "Delivery record"}
	}
	return nil
}

// DeliveryFilter narrows delivery listings.
type DeliveryFilter struct {
	Status    string
	Carrier   string
	Delivered *bool
	StartDate *time.Time
	EndDate   *time.Time
}

func (f DeliveryFilter) query() bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["delivery_status"] = f.Status
	}
	if f.Carrier != "" {
		filter["carrier"] = f.Carrier
	}
	if f.Delivered != nil {
		filter["delivered"] = *f.Delivered
	}
	if f.StartDate != nil || f.EndDate != nil {
		dateRange := bson.M{}
		if f.StartDate != nil {
			dateRange["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			dateRange["$lte"] = *f.EndDate
		}
		filter["date"] = dateRange
	}
	return filter
}

// ListDeliveries returns a page of deliveries, newest first.
func (m *Manager) ListDeliveries(ctx context.Context, f DeliveryFilter, page, limit int) ([]models.Delivery, int64, error) {
	filter := f.query()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := m.deliveries().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var deliveries []models.Delivery
	if err := cursor.All(ctx, &deliveries); err != nil {
		return nil, 0, err
	}

	total, err := m.deliveries().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return deliveries, total, nil
}

// GetDeliveryByIdentifier looks a delivery up by order id first, then by
// tracking number, returning the linked order alongside it.
func (m *Manager) GetDeliveryByIdentifier(ctx context.Context, identifier string) (*models.Delivery, *models.Order, error) {
	var delivery models.Delivery
	err := m.deliveries().FindOne(ctx, bson.M{"order_id": identifier}).Decode(&delivery)
	if err == mongo.ErrNoDocuments {
		err = m.deliveries().FindOne(ctx, bson.M{"tracking_number": identifier}).Decode(&delivery)
	}
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, &NotFoundError{Resource: "Delivery record"}
		}
		return nil, nil, err
	}

	var order models.Order
	err = m.orders().FindOne(ctx, bson.M{"order_id": delivery.OrderID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &delivery, nil, nil
		}
		return nil, nil, err
	}
	return &delivery, &order, nil
}

// TimelineEntry is one milestone of a shipment's derived timeline.
type TimelineEntry struct {
	Status    models.DeliveryStatus `json:"status"`
	Message   string                `json:"message"`
	Timestamp time.Time             `json:"timestamp"`
	Completed bool                  `json:"completed"`
}

// milestones is the fixed ordering used to derive tracking timelines.
var milestones = []struct {
	status  models.DeliveryStatus
	message string
}{
	{models.DeliveryPending, "Order received and being prepared"},
	{models.DeliveryPickedUp, "Package picked up by carrier"},
	{models.DeliveryInTransit, "Package is in transit"},
	{models.DeliveryOutForDelivery, "Out for delivery"},
	{models.DeliveryDelivered, "Package delivered successfully"},
}

func milestoneRank(s models.DeliveryStatus) int {
	for i, m := range milestones {
		if m.status == s {
			return i
		}
	}
	// failed and returned shipments only ever show the initial milestone
	return 0
}

// buildTimeline derives the milestone list for a delivery: pending is
// always present, and each later milestone appears, completed, once the
// current status is at or beyond it.
func buildTimeline(d models.Delivery) []TimelineEntry {
	rank := milestoneRank(d.DeliveryStatus)

	timeline := make([]TimelineEntry, 0, rank+1)
	for i, m := range milestones {
		if i > rank {
			break
		}
		entry := TimelineEntry{
			Status:    m.status,
			Message:   m.message,
			Timestamp: d.UpdatedAt,
			Completed: true,
		}
		if m.status == models.DeliveryPending {
			entry.Timestamp = d.Date
		}
		if m.status == models.DeliveryDelivered && d.ActualDelivery != nil {
			entry.Timestamp = *d.ActualDelivery
		}
		timeline = append(timeline, entry)
	}
	return timeline
}

// OrderSummary is the slice of order fields exposed on public tracking.
type OrderSummary struct {
	CustomerName string             `json:"customerName"`
	Total        float64            `json:"total"`
	Items        []models.OrderItem `json:"items"`
	Status       models.OrderStatus `json:"status"`
}

// TrackingInfo is the public view of a shipment.
type TrackingInfo struct {
	TrackingNumber    string                `json:"tracking_number"`
	OrderID           string                `json:"order_id"`
	CurrentStatus     models.DeliveryStatus `json:"current_status"`
	Delivered         bool                  `json:"delivered"`
	EstimatedDelivery time.Time             `json:"estimated_delivery"`
	ActualDelivery    *time.Time            `json:"actual_delivery,omitempty"`
	Carrier           models.Carrier        `json:"carrier"`
	ShippingMethod    models.ShippingMethod `json:"shipping_method"`
	Timeline          []TimelineEntry       `json:"timeline"`
	OrderSummary      *OrderSummary         `json:"order_summary,omitempty"`
}

// Track resolves a tracking number into the shipment's current state and
// derived milestone timeline.
func (m *Manager) Track(ctx context.Context, trackingNumber string) (*TrackingInfo, error) {
	var delivery models.Delivery
	err := m.deliveries().FindOne(ctx, bson.M{"tracking_number": trackingNumber}).Decode(&delivery)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &NotFoundError{Resource: "Tracking number"}
		}
		return nil, err
	}

	info := &TrackingInfo{
		TrackingNumber:    delivery.TrackingNumber,
		OrderID:           delivery.OrderID,
		CurrentStatus:     delivery.DeliveryStatus,
		Delivered:         delivery.Delivered,
		EstimatedDelivery: delivery.EstimatedDelivery,
		ActualDelivery:    delivery.ActualDelivery,
		Carrier:           delivery.Carrier,
		ShippingMethod:    delivery.ShippingMethod,
		Timeline:          buildTimeline(delivery),
	}

	var order models.Order
	err = m.orders().FindOne(ctx, bson.M{"order_id": delivery.OrderID}).Decode(&order)
	if err == nil {
		info.OrderSummary = &OrderSummary{
			CustomerName: order.CustomerName,
			Total:        order.Total,
			Items:        order.Items,
			Status:       order.Status,
		}
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}
	return info, nil
}

// DeliveryStats summarizes the deliveries collection.
type DeliveryStats struct {
	Overview         bson.M   `json:"overview"`
	StatusBreakdown  []bson.M `json:"statusBreakdown"`
	CarrierBreakdown []bson.M `json:"carrierBreakdown"`
}

// GetDeliveryStats runs the delivery aggregations: overall counts plus
// per-status and per-carrier breakdowns.
func (m *Manager) GetDeliveryStats(ctx context.Context) (*DeliveryStats, error) {
	overview, err := m.aggregateOne(ctx, m.deliveries(), mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"totalDeliveries": bson.M{"$sum": 1},
			"deliveredCount":  bson.M{"$sum": bson.M{"$cond": bson.A{"$delivered", 1, 0}}},
			"pendingCount": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$ne": bson.A{"$delivery_status", "delivered"}}, 1, 0,
			}}},
		}}},
	})
	if err != nil {
		return nil, err
	}

	statusBreakdown, err := m.aggregateAll(ctx, m.deliveries(), mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$delivery_status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}

	carrierBreakdown, err := m.aggregateAll(ctx, m.deliveries(), mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":            "$carrier",
			"count":          bson.M{"$sum": 1},
			"deliveredCount": bson.M{"$sum": bson.M{"$cond": bson.A{"$delivered", 1, 0}}},
		}}},
	})
	if err != nil {
		return nil, err
	}

	return &DeliveryStats{
		Overview:         overview,
		StatusBreakdown:  statusBreakdown,
		CarrierBreakdown: carrierBreakdown,
	}, nil
}

func (m *Manager) aggregateAll(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]bson.M, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (m *Manager) aggregateOne(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) (bson.M, error) {
	results, err := m.aggregateAll(ctx, coll, pipeline)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return bson.M{}, nil
	}
	return results[0], nil
}
