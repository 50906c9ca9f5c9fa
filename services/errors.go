package services

import (
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// NotFoundError reports a missing customer, product, order or delivery.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConflictError reports a uniqueness violation such as a duplicate email
// or an already-existing delivery record.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// MapDuplicateKey converts a unique-index violation into a ConflictError
// with the given message; other errors pass through unchanged. Inserts
// racing a check-then-act uniqueness check land here.
func MapDuplicateKey(err error, message string) error {
	if mongo.IsDuplicateKeyError(err) {
		return &ConflictError{Message: message}
	}
	return err
}

// InvalidStateError reports an operation that is illegal for the entity's
// current status, e.g. editing a non-pending order.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string { return e.Message }

// InsufficientStockError reports a requested quantity exceeding the
// available stock of a product.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", e.ProductName, e.Available)
}

// ValidationError reports malformed input caught before any persistence.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
