package middleware

import (
	"net/http"
	"strings"

	"github.com/Safaet-Rabbi/Amazon/models"
	"github.com/Safaet-Rabbi/Amazon/utils"
	"github.com/labstack/echo/v4"
)

// Protect validates the bearer token and stores the caller's id and role
// in the request context.
func Protect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid authorization header format"})
			}

			claims, err := utils.ValidateJWT(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
			}

			c.Set("userID", claims.UserID)
			c.Set("role", models.Role(claims.Role))
			return next(c)
		}
	}
}

// StaffOrAdmin restricts a route to staff and admin accounts. It must run
// after Protect.
func StaffOrAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(models.Role)
			if !ok || (role != models.RoleStaff && role != models.RoleAdmin) {
				return c.JSON(http.StatusForbidden, map[string]string{"message": "Staff or admin access required"})
			}
			return next(c)
		}
	}
}
