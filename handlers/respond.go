package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/Safaet-Rabbi/Amazon/services"
	"github.com/labstack/echo/v4"
)

// svc is the shared lifecycle manager, set once from main.
var svc *services.Manager

// Init wires the handlers to the lifecycle manager.
func Init(m *services.Manager) {
	svc = m
}

func respondData(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, map[string]interface{}{"success": true, "data": data})
}

func respondList(c echo.Context, data interface{}, page, limit int, total int64) error {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
		"pagination": map[string]interface{}{
			"current": page,
			"pages":   pages,
			"total":   total,
		},
	})
}

func respondMessage(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": msg})
}

func respondError(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"message": msg})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Unexpected failures are logged server-side and reported generically.
func respondServiceError(c echo.Context, err error, fallback string) error {
	var (
		notFound     *services.NotFoundError
		conflict     *services.ConflictError
		invalidState *services.InvalidStateError
		insufficient *services.InsufficientStockError
		validation   *services.ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		return respondError(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &conflict):
		return respondError(c, http.StatusConflict, conflict.Error())
	case errors.As(err, &invalidState):
		return respondError(c, http.StatusBadRequest, invalidState.Error())
	case errors.As(err, &insufficient):
		return respondError(c, http.StatusBadRequest, insufficient.Error())
	case errors.As(err, &validation):
		return respondError(c, http.StatusBadRequest, validation.Error())
	}

	log.Printf("%s: %v", fallback, err)
	return respondError(c, http.StatusInternalServerError, fallback)
}

// pageLimit parses the standard pagination query params with the usual
// defaults (page 1, limit 10).
func pageLimit(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}
