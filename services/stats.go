package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CustomerStats summarizes the customers collection.
type CustomerStats struct {
	Overview            bson.M   `json:"overview"`
	MembershipBreakdown []bson.M `json:"membershipBreakdown"`
}

func (m *Manager) GetCustomerStats(ctx context.Context) (*CustomerStats, error) {
	overview, err := m.aggregateOne(ctx, m.customers(), mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":                  nil,
			"total":                bson.M{"$sum": 1},
			"totalSpent":           bson.M{"$sum": "$totalSpent"},
			"totalOrders":          bson.M{"$sum": "$totalOrders"},
			"avgOrdersPerCustomer": bson.M{"$avg": "$totalOrders"},
			"avgSpentPerCustomer":  bson.M{"$avg": "$totalSpent"},
		}}},
	})
	if err != nil {
		return nil, err
	}

	membership, err := m.aggregateAll(ctx, m.customers(), mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        "$membership",
			"count":      bson.M{"$sum": 1},
			"totalSpent": bson.M{"$sum": "$totalSpent"},
		}}},
	})
	if err != nil {
		return nil, err
	}

	return &CustomerStats{Overview: overview, MembershipBreakdown: membership}, nil
}

// ProductStats summarizes the active products.
type ProductStats struct {
	Overview          bson.M   `json:"overview"`
	CategoryBreakdown []bson.M `json:"categoryBreakdown"`
}

func (m *Manager) GetProductStats(ctx context.Context) (*ProductStats, error) {
	overview, err := m.aggregateOne(ctx, m.products(), mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalProducts": bson.M{"$sum": 1},
			"totalStock":    bson.M{"$sum": "$stock"},
			"avgPrice":      bson.M{"$avg": "$price"},
			"lowStockCount": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$lte": bson.A{"$stock", "$lowStockThreshold"}}, 1, 0,
			}}},
		}}},
	})
	if err != nil {
		return nil, err
	}

	categories, err := m.aggregateAll(ctx, m.products(), mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$category",
			"count":      bson.M{"$sum": 1},
			"totalStock": bson.M{"$sum": "$stock"},
			"avgPrice":   bson.M{"$avg": "$price"},
		}}},
	})
	if err != nil {
		return nil, err
	}

	return &ProductStats{Overview: overview, CategoryBreakdown: categories}, nil
}
