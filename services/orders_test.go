package services

import (
	"testing"

	"github.com/Safaet-Rabbi/Amazon/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() map[string]models.Product {
	return map[string]models.Product{
		"P001": {ID: "P001", Name: "Widget", Price: 25.99, Stock: 10},
		"P002": {ID: "P002", Name: "Gadget", Price: 12.99, Stock: 2},
	}
}

func TestBuildOrderItemsSnapshots(t *testing.T) {
	items, lines, err := buildOrderItems(testProducts(), []OrderLineInput{
		{ProductID: "P001", Quantity: 2},
		{ProductID: "P002", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Len(t, lines, 2)

	assert.Equal(t, "Widget", items[0].ProductName)
	assert.Equal(t, 25.99, items[0].Price)
	assert.Equal(t, 51.98, items[0].Total)
	assert.Equal(t, "Gadget", items[1].ProductName)
	assert.Equal(t, 12.99, items[1].Total)
}

func TestBuildOrderItemsMissingProduct(t *testing.T) {
	items, _, err := buildOrderItems(testProducts(), []OrderLineInput{
		{ProductID: "P001", Quantity: 1},
		{ProductID: "P999", Quantity: 1},
	})
	assert.Nil(t, items)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "P999", notFound.ID)
}

func TestBuildOrderItemsInsufficientStock(t *testing.T) {
	// the second line fails; because validation precedes any mutation,
	// no stock change is implied by the first line either
	items, _, err := buildOrderItems(testProducts(), []OrderLineInput{
		{ProductID: "P001", Quantity: 1},
		{ProductID: "P002", Quantity: 3},
	})
	assert.Nil(t, items)

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Gadget", insufficient.ProductName)
	assert.Equal(t, 2, insufficient.Available)
}

func TestBuildOrderItemsRejectsBadQuantity(t *testing.T) {
	for _, qty := range []int{0, -1} {
		_, _, err := buildOrderItems(testProducts(), []OrderLineInput{{ProductID: "P001", Quantity: qty}})
		var invalid *ValidationError
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestBuildOrderItemsEmpty(t *testing.T) {
	_, _, err := buildOrderItems(testProducts(), nil)
	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)
}

func TestBuildOrderItemsExactStock(t *testing.T) {
	items, _, err := buildOrderItems(testProducts(), []OrderLineInput{{ProductID: "P002", Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestBuildOrderItemsRepeatedProductExceedsStock(t *testing.T) {
	// two lines of 2 against stock 2 must fail together even though
	// each line alone would pass
	items, _, err := buildOrderItems(testProducts(), []OrderLineInput{
		{ProductID: "P002", Quantity: 2},
		{ProductID: "P002", Quantity: 2},
	})
	assert.Nil(t, items)

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Gadget", insufficient.ProductName)
	assert.Equal(t, 2, insufficient.Available)
}

func TestBuildOrderItemsRepeatedProductWithinStock(t *testing.T) {
	items, lines, err := buildOrderItems(testProducts(), []OrderLineInput{
		{ProductID: "P001", Quantity: 4},
		{ProductID: "P001", Quantity: 6},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Len(t, lines, 2)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, 6, items[1].Quantity)
}

func TestCustomerRollbackNegatesOrderContribution(t *testing.T) {
	order := models.Order{Total: 80.17}
	inc := customerRollback(order)
	assert.Equal(t, -1, inc["totalOrders"])
	assert.Equal(t, -80.17, inc["totalSpent"])
}
