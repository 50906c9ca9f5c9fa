package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Safaet-Rabbi/Amazon/database"
	"github.com/Safaet-Rabbi/Amazon/models"
	"github.com/Safaet-Rabbi/Amazon/services"
	"github.com/Safaet-Rabbi/Amazon/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateCustomerRequest struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Address    models.Address    `json:"address"`
	Membership models.Membership `json:"membership"`
}

// CreateCustomer registers a new customer with a unique email.
func CreateCustomer(c echo.Context) error {
	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" || req.Email == "" {
		return respondError(c, http.StatusBadRequest, "Name and email are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	customers := database.DB.Collection("customers")
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := customers.FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
		return respondError(c, http.StatusConflict, "Customer with this email already exists")
	}

	membership := req.Membership
	if membership == "" {
		membership = models.MembershipBronze
	}

	now := time.Now()
	customer := models.Customer{
		ID:         utils.CustomerID(),
		Name:       strings.TrimSpace(req.Name),
		Email:      email,
		Phone:      req.Phone,
		Address:    req.Address,
		Membership: membership,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := customers.InsertOne(ctx, customer); err != nil {
		err = services.MapDuplicateKey(err, "Customer with this email already exists")
		return respondServiceError(c, err, "Server error creating customer")
	}
	return respondData(c, http.StatusCreated, customer)
}

// GetCustomers lists customers with membership filtering and name/email search.
func GetCustomers(c echo.Context) error {
	page, limit := pageLimit(c)

	filter := bson.M{}
	if membership := c.QueryParam("membership"); membership != "" {
		filter["membership"] = membership
	}
	if search := c.QueryParam("search"); search != "" {
		regex := primitive.Regex{Pattern: search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"email": regex},
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	customers := database.DB.Collection("customers")
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := customers.Find(ctx, filter, opts)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching customers")
	}
	defer cursor.Close(ctx)

	results := []models.Customer{}
	if err := cursor.All(ctx, &results); err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching customers")
	}

	total, err := customers.CountDocuments(ctx, filter)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error fetching customers")
	}
	return respondList(c, results, page, limit, total)
}

func GetCustomer(c echo.Context) error {
	var customer models.Customer
	err := database.DB.Collection("customers").
		FindOne(c.Request().Context(), bson.M{"_id": c.Param("id")}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return respondError(c, http.StatusNotFound, "Customer not found")
		}
		return respondError(c, http.StatusInternalServerError, "Server error fetching customer")
	}
	return respondData(c, http.StatusOK, customer)
}

type UpdateCustomerRequest struct {
	Name       *string            `json:"name"`
	Email      *string            `json:"email"`
	Phone      *string            `json:"phone"`
	Address    *models.Address    `json:"address"`
	Membership *models.Membership `json:"membership"`
}

// UpdateCustomer patches customer fields. Changing the email re-checks
// uniqueness.
func UpdateCustomer(c echo.Context) error {
	var req UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	customers := database.DB.Collection("customers")

	var customer models.Customer
	if err := customers.FindOne(ctx, bson.M{"_id": c.Param("id")}).Decode(&customer); err != nil {
		if err == mongo.ErrNoDocuments {
			return respondError(c, http.StatusNotFound, "Customer not found")
		}
		return respondError(c, http.StatusInternalServerError, "Server error updating customer")
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != customer.Email {
			if err := customers.FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
				return respondError(c, http.StatusConflict, "Email already taken by another customer")
			}
		}
		set["email"] = email
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	if req.Membership != nil {
		set["membership"] = *req.Membership
	}

	var updated models.Customer
	err := customers.FindOneAndUpdate(ctx,
		bson.M{"_id": c.Param("id")},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		err = services.MapDuplicateKey(err, "Email already taken by another customer")
		return respondServiceError(c, err, "Server error updating customer")
	}
	return respondData(c, http.StatusOK, updated)
}

// DeleteCustomer removes a customer, refusing while orders still
// reference them.
func DeleteCustomer(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	customers := database.DB.Collection("customers")
	id := c.Param("id")

	if err := customers.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return respondError(c, http.StatusNotFound, "Customer not found")
		}
		return respondError(c, http.StatusInternalServerError, "Server error deleting customer")
	}

	orderCount, err := database.DB.Collection("orders").CountDocuments(ctx, bson.M{"customer_id": id})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error deleting customer")
	}
	if orderCount > 0 {
		return respondError(c, http.StatusBadRequest,
			"Cannot delete customer with existing orders")
	}

	if _, err := customers.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return respondError(c, http.StatusInternalServerError, "Server error deleting customer")
	}
	return respondMessage(c, "Customer deleted successfully")
}

// GetCustomerStats reports the customer aggregations.
func GetCustomerStats(c echo.Context) error {
	stats, err := svc.GetCustomerStats(c.Request().Context())
	if err != nil {
		return respondServiceError(c, err, "Server error fetching customer statistics")
	}
	return respondData(c, http.StatusOK, stats)
}
