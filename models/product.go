package models

import "time"

// Product is a sellable item. Stock never goes below zero. Products are
// soft-deleted via IsActive so historical orders keep a valid reference.
type Product struct {
	ID                string    `bson:"_id" json:"_id"`
	Name              string    `bson:"name" json:"name"`
	Description       string    `bson:"description,omitempty" json:"description,omitempty"`
	Price             float64   `bson:"price" json:"price"`
	Category          string    `bson:"category" json:"category"`
	Brand             string    `bson:"brand,omitempty" json:"brand,omitempty"`
	Image             string    `bson:"image,omitempty" json:"image,omitempty"`
	Stock             int       `bson:"stock" json:"stock"`
	LowStockThreshold int       `bson:"lowStockThreshold" json:"lowStockThreshold"`
	IsActive          bool      `bson:"isActive" json:"isActive"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}
