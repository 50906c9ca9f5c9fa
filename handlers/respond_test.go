package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Safaet-Rabbi/Amazon/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPageLimitDefaults(t *testing.T) {
	tests := []struct {
		name   string
		target string
		page   int
		limit  int
	}{
		{"no params", "/", 1, 10},
		{"explicit", "/?page=3&limit=25", 3, 25},
		{"zero page", "/?page=0", 1, 10},
		{"negative limit", "/?limit=-5", 1, 10},
		{"garbage", "/?page=abc&limit=xyz", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(tt.target)
			page, limit := pageLimit(c)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.limit, limit)
		})
	}
}

func TestRespondServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", &services.NotFoundError{Resource: "Order"}, http.StatusNotFound},
		{"conflict", &services.ConflictError{Message: "Delivery record already exists for this order"}, http.StatusConflict},
		{"invalid state", &services.InvalidStateError{Message: "Cannot modify items for non-pending orders"}, http.StatusBadRequest},
		{"insufficient stock", &services.InsufficientStockError{ProductName: "Widget", Available: 2}, http.StatusBadRequest},
		{"validation", &services.ValidationError{Message: "Item quantity must be at least 1"}, http.StatusBadRequest},
		{"unexpected", errors.New("mongo blew up"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := testContext("/")
			err := respondServiceError(c, tt.err, "Server error")
			require.NoError(t, err)
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), `"message"`)
			// stack traces and driver details never reach the client
			assert.NotContains(t, rec.Body.String(), "mongo blew up")
		})
	}
}

func TestRespondListPagination(t *testing.T) {
	c, rec := testContext("/")
	err := respondList(c, []string{"a", "b"}, 2, 10, 21)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"current":2`)
	assert.Contains(t, body, `"pages":3`)
	assert.Contains(t, body, `"total":21`)
	assert.Contains(t, body, `"success":true`)
}

func TestParseDate(t *testing.T) {
	assert.Nil(t, parseDate(""))
	assert.Nil(t, parseDate("not-a-date"))

	d := parseDate("2026-03-15")
	require.NotNil(t, d)
	assert.Equal(t, 2026, d.Year())

	rfc := parseDate("2026-03-15T10:30:00Z")
	require.NotNil(t, rfc)
	assert.Equal(t, 10, rfc.Hour())
}

func TestProductSort(t *testing.T) {
	assert.Equal(t, "price", productSort("price_asc")[0].Key)
	assert.Equal(t, 1, productSort("price_asc")[0].Value)
	assert.Equal(t, -1, productSort("price_desc")[0].Value)
	assert.Equal(t, "name", productSort("name_asc")[0].Key)
	assert.Equal(t, "stock", productSort("stock_desc")[0].Key)
	// unknown keys fall back to newest first
	assert.Equal(t, "createdAt", productSort("")[0].Key)
	assert.Equal(t, -1, productSort("bogus")[0].Value)
}
