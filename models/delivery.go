package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Carrier string

const (
	CarrierUPS           Carrier = "ups"
	CarrierFedex         Carrier = "fedex"
	CarrierDHL           Carrier = "dhl"
	CarrierUSPS          Carrier = "usps"
	CarrierLocalDelivery Carrier = "local_delivery"
)

type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
	ShippingSameDay   ShippingMethod = "same_day"
)

type DeliveryStatus string

const (
	DeliveryPending        DeliveryStatus = "pending"
	DeliveryPickedUp       DeliveryStatus = "picked_up"
	DeliveryInTransit      DeliveryStatus = "in_transit"
	DeliveryOutForDelivery DeliveryStatus = "out_for_delivery"
	DeliveryDelivered      DeliveryStatus = "delivered"
	DeliveryFailed         DeliveryStatus = "failed"
	DeliveryReturned       DeliveryStatus = "returned"
)

// Delivery is the shipment record for an order, one per order, stored
// separately so its status can move independently of the order document.
type Delivery struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID           string             `bson:"order_id" json:"order_id"`
	TrackingNumber    string             `bson:"tracking_number,omitempty" json:"tracking_number,omitempty"`
	Carrier           Carrier            `bson:"carrier" json:"carrier"`
	ShippingMethod    ShippingMethod     `bson:"shipping_method" json:"shipping_method"`
	EstimatedDelivery time.Time          `bson:"estimated_delivery,omitempty" json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time         `bson:"actual_delivery,omitempty" json:"actual_delivery,omitempty"`
	Delivered         bool               `bson:"delivered" json:"delivered"`
	DeliveryStatus    DeliveryStatus     `bson:"delivery_status" json:"delivery_status"`
	DeliveryAddress   Address            `bson:"delivery_address,omitempty" json:"delivery_address"`
	RecipientName     string             `bson:"recipient_name,omitempty" json:"recipient_name,omitempty"`
	SignatureRequired bool               `bson:"signature_required" json:"signature_required"`
	DeliveryNotes     string             `bson:"delivery_notes,omitempty" json:"delivery_notes,omitempty"`
	DriverNotes       string             `bson:"driver_notes,omitempty" json:"driver_notes,omitempty"`
	Date              time.Time          `bson:"date" json:"date"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
