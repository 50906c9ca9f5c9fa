package models

import "time"

type Membership string

const (
	MembershipBronze   Membership = "bronze"
	MembershipSilver   Membership = "silver"
	MembershipGold     Membership = "gold"
	MembershipPlatinum Membership = "platinum"
)

// Address is the embedded postal address used by customers, orders and deliveries.
type Address struct {
	Street  string `bson:"street,omitempty" json:"street,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

// Customer is a registered buyer. TotalOrders and TotalSpent are running
// aggregates maintained incrementally by the order lifecycle: they always
// equal the count and summed total of the customer's non-cancelled orders.
type Customer struct {
	ID          string     `bson:"_id" json:"_id"`
	Name        string     `bson:"name" json:"name"`
	Email       string     `bson:"email" json:"email"`
	Phone       string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     Address    `bson:"address,omitempty" json:"address"`
	Membership  Membership `bson:"membership" json:"membership"`
	TotalOrders int        `bson:"totalOrders" json:"totalOrders"`
	TotalSpent  float64    `bson:"totalSpent" json:"totalSpent"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}
