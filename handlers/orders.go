package handlers

import (
	"net/http"
	"time"

	"github.com/Safaet-Rabbi/Amazon/database"
	"github.com/Safaet-Rabbi/Amazon/models"
	"github.com/Safaet-Rabbi/Amazon/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateOrder places an order for a customer.
func CreateOrder(c echo.Context) error {
	var in services.CreateOrderInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}

	order, err := svc.CreateOrder(c.Request().Context(), in)
	if err != nil {
		return respondServiceError(c, err, "Server error creating order")
	}
	return respondData(c, http.StatusCreated, order)
}

// parseDate accepts the RFC 3339 and plain-date forms used by the
// start_date/end_date query params.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// GetOrders lists orders with status/customer/payment/date filters.
func GetOrders(c echo.Context) error {
	page, limit := pageLimit(c)

	filter := services.OrderFilter{
		Status:        c.QueryParam("status"),
		CustomerID:    c.QueryParam("customer_id"),
		PaymentStatus: c.QueryParam("payment_status"),
		StartDate:     parseDate(c.QueryParam("start_date")),
		EndDate:       parseDate(c.QueryParam("end_date")),
	}

	orders, total, err := svc.ListOrders(c.Request().Context(), filter, page, limit)
	if err != nil {
		return respondServiceError(c, err, "Server error fetching orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return respondList(c, orders, page, limit, total)
}

// GetOrder returns an order together with its delivery record, if any.
func GetOrder(c echo.Context) error {
	order, delivery, err := svc.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondServiceError(c, err, "Server error fetching order")
	}
	return respondData(c, http.StatusOK, map[string]interface{}{
		"order":    order,
		"delivery": delivery,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateOrderStatus moves an order along the lifecycle.
func UpdateOrderStatus(c echo.Context) error {
	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}

	order, err := svc.UpdateOrderStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return respondServiceError(c, err, "Server error updating order")
	}
	return respondData(c, http.StatusOK, order)
}

type UpdateOrderItemsRequest struct {
	Items []services.OrderLineInput `json:"items"`
}

// UpdateOrderItems replaces the line items of a pending order.
func UpdateOrderItems(c echo.Context) error {
	var req UpdateOrderItemsRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}

	order, err := svc.UpdateOrderItems(c.Request().Context(), c.Param("id"), req.Items)
	if err != nil {
		return respondServiceError(c, err, "Server error updating order items")
	}
	return respondData(c, http.StatusOK, order)
}

// DeleteOrder cancels an order, reversing its stock and customer effects.
func DeleteOrder(c echo.Context) error {
	if err := svc.CancelOrder(c.Request().Context(), c.Param("id")); err != nil {
		return respondServiceError(c, err, "Server error deleting order")
	}
	return respondMessage(c, "Order deleted successfully")
}

// GetCustomerOrders lists one customer's order history, newest first.
func GetCustomerOrders(c echo.Context) error {
	page, limit := pageLimit(c)
	customerID := c.Param("customerId")

	orders := database.DB.Collection("orders")
	filter := bson.M{"customer_id": customerID}

	opts := options.Find().
		SetSort(bson.D{{Key: "ordered_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := orders.Find(c.Request().Context(), filter, opts)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching customer orders")
	}
	defer cursor.Close(c.Request().Context())

	results := []models.Order{}
	if err := cursor.All(c.Request().Context(), &results); err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching customer orders")
	}

	total, err := orders.CountDocuments(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching customer orders")
	}
	return respondList(c, results, page, limit, total)
}

// GetProductCustomers reports which customers have ordered a product.
func GetProductCustomers(c echo.Context) error {
	results, err := svc.ProductCustomers(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return respondServiceError(c, err, "Server error fetching product customers")
	}
	if results == nil {
		results = []services.ProductCustomer{}
	}
	return respondData(c, http.StatusOK, results)
}
