package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var DB *mongo.Database

// ConnectDB establishes the MongoDB connection and sets the global handle.
func ConnectDB(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	// Ping the database
	err = client.Ping(ctx, nil)
	if err != nil {
		return err
	}

	DB = client.Database(dbName)
	log.Println("Connected to MongoDB")
	return nil
}

// EnsureIndexes creates the unique indexes the document invariants rely on.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"customers": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"orders": {
			{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "ordered_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		"deliveries": {
			{Keys: bson.D{{Key: "order_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "tracking_number", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "delivery_status", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := DB.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
