package handlers

import (
	"net/http"

	"github.com/Safaet-Rabbi/Amazon/models"
	"github.com/Safaet-Rabbi/Amazon/services"
	"github.com/labstack/echo/v4"
)

// CreateDelivery records a shipment for an order.
func CreateDelivery(c echo.Context) error {
	var in services.CreateDeliveryInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}
	if in.OrderID == "" {
		return respondError(c, http.StatusBadRequest, "order_id is required")
	}

	delivery, err := svc.CreateDelivery(c.Request().Context(), in)
	if err != nil {
		return respondServiceError(c, err, "Server error creating delivery record")
	}
	return respondData(c, http.StatusCreated, delivery)
}

// GetDeliveries lists deliveries with status/carrier/delivered/date filters.
func GetDeliveries(c echo.Context) error {
	page, limit := pageLimit(c)

	filter := services.DeliveryFilter{
		Status:    c.QueryParam("status"),
		Carrier:   c.QueryParam("carrier"),
		StartDate: parseDate(c.QueryParam("start_date")),
		EndDate:   parseDate(c.QueryParam("end_date")),
	}
	if delivered := c.QueryParam("delivered"); delivered != "" {
		v := delivered == "true"
		filter.Delivered = &v
	}

	deliveries, total, err := svc.ListDeliveries(c.Request().Context(), filter, page, limit)
	if err != nil {
		return respondServiceError(c, err, "Server error fetching deliveries")
	}
	if deliveries == nil {
		deliveries = []models.Delivery{}
	}
	return respondList(c, deliveries, page, limit, total)
}

// GetDelivery resolves a delivery by order id or tracking number.
func GetDelivery(c echo.Context) error {
	delivery, order, err := svc.GetDeliveryByIdentifier(c.Request().Context(), c.Param("identifier"))
	if err != nil {
		return respondServiceError(c, err, "Server error fetching delivery")
	}
	return respondData(c, http.StatusOK, map[string]interface{}{
		"delivery": delivery,
		"order":    order,
	})
}

// UpdateDeliveryStatus sets a shipment's status; delivered cascades to
// the order.
func UpdateDeliveryStatus(c echo.Context) error {
	var in services.UpdateDeliveryStatusInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}

	delivery, err := svc.UpdateDeliveryStatus(c.Request().Context(), c.Param("orderId"), in)
	if err != nil {
		return respondServiceError(c, err, "Server error updating delivery status")
	}
	return respondData(c, http.StatusOK, delivery)
}

// UpdateDelivery patches shipment details.
func UpdateDelivery(c echo.Context) error {
	var in services.UpdateDeliveryInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}

	delivery, err := svc.UpdateDelivery(c.Request().Context(), c.Param("orderId"), in)
	if err != nil {
		return respondServiceError(c, err, "Server error updating delivery")
	}
	return respondData(c, http.StatusOK, delivery)
}

// DeleteDelivery removes a shipment record.
func DeleteDelivery(c echo.Context) error {
	if err := svc.DeleteDelivery(c.Request().Context(), c.Param("orderId")); err != nil {
		return respondServiceError(c, err, "Server error deleting delivery record")
	}
	return respondMessage(c, "Delivery record deleted successfully")
}

// TrackDelivery is the public tracking endpoint.
func TrackDelivery(c echo.Context) error {
	info, err := svc.Track(c.Request().Context(), c.Param("trackingNumber"))
	if err != nil {
		return respondServiceError(c, err, "Server error tracking delivery")
	}
	return respondData(c, http.StatusOK, info)
}

// GetDeliveryStats reports the delivery aggregations.
func GetDeliveryStats(c echo.Context) error {
	stats, err := svc.GetDeliveryStats(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err, "Server error fetching delivery statistics")
	}
	return respondData(c, http.StatusOK, stats)
}
