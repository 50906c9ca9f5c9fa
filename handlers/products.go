package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Safaet-Rabbi/Amazon/database"
	"github.com/Safaet-Rabbi/Amazon/models"
	"github.com/Safaet-Rabbi/Amazon/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateProductRequest struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"`
	Stock             int     `json:"stock"`
	Category          string  `json:"category"`
	Brand             string  `json:"brand"`
	Image             string  `json:"image"`
	LowStockThreshold int     `json:"lowStockThreshold"`
}

func CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" || req.Category == "" {
		return respondError(c, http.StatusBadRequest, "Name and category are required")
	}
	if req.Price < 0 || req.Stock < 0 {
		return respondError(c, http.StatusBadRequest, "Price and stock must not be negative")
	}

	threshold := req.LowStockThreshold
	if threshold == 0 {
		threshold = 10
	}

	now := time.Now()
	product := models.Product{
		ID:                utils.ProductID(),
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Category:          req.Category,
		Brand:             req.Brand,
		Image:             req.Image,
		Stock:             req.Stock,
		LowStockThreshold: threshold,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("products").InsertOne(ctx, product); err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error creating product")
	}
	return respondData(c, http.StatusCreated, product)
}

// productSort maps the sort query param to a Mongo sort document.
func productSort(key string) bson.D {
	switch key {
	case "price_asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}}
	case "name_asc":
		return bson.D{{Key: "name", Value: 1}}
	case "name_desc":
		return bson.D{{Key: "name", Value: -1}}
	case "stock_asc":
		return bson.D{{Key: "stock", Value: 1}}
	case "stock_desc":
		return bson.D{{Key: "stock", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// GetProducts lists active products with category/brand/price/search
// filters and sorting. Public.
func GetProducts(c echo.Context) error {
	page, limit := pageLimit(c)

	filter := bson.M{"isActive": true}
	if category := c.QueryParam("category"); category != "" {
		filter["category"] = category
	}
	if brand := c.QueryParam("brand"); brand != "" {
		filter["brand"] = brand
	}
	if c.QueryParam("low_stock") == "true" {
		filter["$expr"] = bson.M{"$lte": bson.A{"$stock", "$lowStockThreshold"}}
	}

	minPrice, errMin := strconv.ParseFloat(c.QueryParam("min_price"), 64)
	maxPrice, errMax := strconv.ParseFloat(c.QueryParam("max_price"), 64)
	if errMin == nil || errMax == nil {
		priceRange := bson.M{}
		if errMin == nil {
			priceRange["$gte"] = minPrice
		}
		if errMax == nil {
			priceRange["$lte"] = maxPrice
		}
		filter["price"] = priceRange
	}

	if search := c.QueryParam("search"); search != "" {
		regex := primitive.Regex{Pattern: search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"description": regex},
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	products := database.DB.Collection("products")
	opts := options.Find().
		SetSort(productSort(c.QueryParam("sort"))).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := products.Find(ctx, filter, opts)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching products")
	}
	defer cursor.Close(ctx)

	results := []models.Product{}
	if err := cursor.All(ctx, &results); err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching products")
	}

	total, err := products.CountDocuments(ctx, filter)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching products")
	}
	return respondList(c, results, page, limit, total)
}

func GetProduct(c echo.Context) error {
	var product models.Product
	err := database.DB.Collection("products").
		FindOne(c.Request().Context(), bson.M{"_id": c.Param("id")}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return respondError(c, http.StatusNotFound, "Product not found")
		}
		return respondError(c, http.StatusInternalServerError, "Server error fetching product")
	}
	return respondData(c, http.StatusOK, product)
}

type UpdateProductRequest struct {
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	Price             *float64 `json:"price"`
	Stock             *int     `json:"stock"`
	Category          *string  `json:"category"`
	Brand             *string  `json:"brand"`
	Image             *string  `json:"image"`
	IsActive          *bool    `json:"isActive"`
	LowStockThreshold *int     `json:"lowStockThreshold"`
}

func UpdateProduct(c echo.Context) error {
	var req UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return respondError(c, http.StatusBadRequest, "Price must not be negative")
		}
		set["price"] = *req.Price
	}
	if req.Stock != nil {
		stock := *req.Stock
		if stock < 0 {
			stock = 0
		}
		set["stock"] = stock
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Brand != nil {
		set["brand"] = *req.Brand
	}
	if req.Image != nil {
		set["image"] = *req.Image
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if req.LowStockThreshold != nil {
		set["lowStockThreshold"] = *req.LowStockThreshold
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var updated models.Product
	err := database.DB.Collection("products").FindOneAndUpdate(ctx,
		bson.M{"_id": c.Param("id")},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return respondError(c, http.StatusNotFound, "Product not found")
		}
		return respondError(c, http.StatusInternalServerError, "Server error updating product")
	}
	return respondData(c, http.StatusOK, updated)
}

// DeleteProduct soft-deletes: the product is marked inactive so orders
// that reference it stay valid.
func DeleteProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := database.DB.Collection("products").UpdateOne(ctx,
		bson.M{"_id": c.Param("id")},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error deleting product")
	}
	if res.MatchedCount == 0 {
		return respondError(c, http.StatusNotFound, "Product not found")
	}
	return respondMessage(c, "Product deactivated successfully")
}

type UpdateStockRequest struct {
	Stock     int    `json:"stock"`
	Operation string `json:"operation"`
}

// UpdateProductStock sets or adjusts a product's stock. Subtracting can
// never drive the stock below zero.
func UpdateProductStock(c echo.Context) error {
	var req UpdateStockRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}

	ctx := c.Request().Context()
	id := c.Param("id")

	var product *models.Product
	var err error
	switch req.Operation {
	case "add":
		product, err = svc.AdjustStock(ctx, id, req.Stock)
	case "subtract":
		product, err = svc.AdjustStock(ctx, id, -req.Stock)
	default:
		product, err = svc.SetStock(ctx, id, req.Stock)
	}
	if err != nil {
		return respondServiceError(c, err, "Server error updating product stock")
	}
	return respondData(c, http.StatusOK, product)
}

// GetLowStockProducts lists active products at or under their threshold.
func GetLowStockProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"isActive": true,
		"$expr":    bson.M{"$lte": bson.A{"$stock", "$lowStockThreshold"}},
	}

	cursor, err := database.DB.Collection("products").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "stock", Value: 1}}))
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching low stock products")
	}
	defer cursor.Close(ctx)

	results := []models.Product{}
	if err := cursor.All(ctx, &results); err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching low stock products")
	}
	return respondData(c, http.StatusOK, results)
}

// GetProductCategories lists the distinct categories of active products.
func GetProductCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	categories, err := database.DB.Collection("products").
		Distinct(ctx, "category", bson.M{"isActive": true})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching categories")
	}
	return respondData(c, http.StatusOK, categories)
}

func GetProductStats(c echo.Context) error {
	stats, err := svc.GetProductStats(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err, "Server error fetching product statistics")
	}
	return respondData(c, http.StatusOK, stats)
}
