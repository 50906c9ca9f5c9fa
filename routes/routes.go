package routes

import (
	"net/http"

	"github.com/Safaet-Rabbi/Amazon/handlers"
	custommw "github.com/Safaet-Rabbi/Amazon/middleware"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes registers the full HTTP surface: public product and
// tracking reads, authenticated order access, and staff/admin management
// routes.
func SetupRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Order Management API is running!"})
	})

	// Auth
	api.POST("/auth/register", handlers.Register)
	api.POST("/auth/login", handlers.Login)
	api.GET("/auth/me", handlers.Me, custommw.Protect())

	// Public product reads
	api.GET("/products", handlers.GetProducts)
	api.GET("/products/categories", handlers.GetProductCategories)

	// Public delivery tracking
	api.GET("/deliveries/track/:trackingNumber", handlers.TrackDelivery)

	protect := custommw.Protect()
	staff := custommw.StaffOrAdmin()

	// Orders
	orders := api.Group("/orders", protect)
	orders.GET("", handlers.GetOrders)
	orders.POST("", handlers.CreateOrder)
	orders.GET("/customer/:customerId", handlers.GetCustomerOrders)
	orders.GET("/product/:productId/customers", handlers.GetProductCustomers, staff)
	orders.GET("/:id", handlers.GetOrder)
	orders.DELETE("/:id", handlers.DeleteOrder, staff)
	orders.PUT("/:id/status", handlers.UpdateOrderStatus, staff)
	orders.PUT("/:id/items", handlers.UpdateOrderItems)

	// Customers
	customers := api.Group("/customers", protect)
	customers.GET("", handlers.GetCustomers)
	customers.POST("", handlers.CreateCustomer, staff)
	customers.GET("/stats", handlers.GetCustomerStats, staff)
	customers.GET("/:id", handlers.GetCustomer)
	customers.PUT("/:id", handlers.UpdateCustomer, staff)
	customers.DELETE("/:id", handlers.DeleteCustomer, staff)

	// Products (management; listing and detail are public above)
	api.GET("/products/admin/low-stock", handlers.GetLowStockProducts, protect, staff)
	api.GET("/products/admin/stats", handlers.GetProductStats, protect, staff)
	api.GET("/products/:id", handlers.GetProduct)
	api.POST("/products", handlers.CreateProduct, protect, staff)
	api.PUT("/products/:id", handlers.UpdateProduct, protect, staff)
	api.DELETE("/products/:id", handlers.DeleteProduct, protect, staff)
	api.PUT("/products/:id/stock", handlers.UpdateProductStock, protect, staff)

	// Deliveries
	deliveries := api.Group("/deliveries", protect)
	deliveries.GET("", handlers.GetDeliveries, staff)
	deliveries.POST("", handlers.CreateDelivery, staff)
	deliveries.GET("/stats", handlers.GetDeliveryStats, staff)
	deliveries.PUT("/order/:orderId", handlers.UpdateDelivery, staff)
	deliveries.DELETE("/order/:orderId", handlers.DeleteDelivery, staff)
	deliveries.PUT("/order/:orderId/status", handlers.UpdateDeliveryStatus, staff)
	deliveries.GET("/:identifier", handlers.GetDelivery)
}
