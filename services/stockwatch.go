package services

import (
	"context"
	"log"
	"time"

	"github.com/Safaet-Rabbi/Amazon/models"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StockWatcher periodically scans active products and logs a warning for
// every one at or below its low-stock threshold.
type StockWatcher struct {
	db   *mongo.Database
	cron *cron.Cron
}

func NewStockWatcher(db *mongo.Database) *StockWatcher {
	return &StockWatcher{db: db, cron: cron.New()}
}

func (w *StockWatcher) Start() error {
	if _, err := w.cron.AddFunc("@hourly", w.scan); err != nil {
		return err
	}
	w.cron.Start()
	return nil
}

func (w *StockWatcher) Stop() {
	w.cron.Stop()
}

func (w *StockWatcher) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	filter := bson.M{
		"isActive": true,
		"$expr":    bson.M{"$lte": bson.A{"$stock", "$lowStockThreshold"}},
	}

	cursor, err := w.db.Collection("products").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "stock", Value: 1}}))
	if err != nil {
		log.Printf("Low-stock scan failed: %v", err)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Printf("Low-stock scan failed: %v", err)
		return
	}

	for _, p := range products {
		log.Printf("Low stock: %s (%s) has %d left, threshold %d", p.Name, p.ID, p.Stock, p.LowStockThreshold)
	}
}
