package handlers

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/Safaet-Rabbi/Amazon/database"
	"github.com/Safaet-Rabbi/Amazon/models"
	"github.com/Safaet-Rabbi/Amazon/services"
	"github.com/Safaet-Rabbi/Amazon/utils"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates a staff account. The role defaults to staff; admin
// accounts must ask for the role explicitly.
func Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "Name, email and password are required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid email format")
	}
	if len(req.Password) < 8 {
		return respondError(c, http.StatusBadRequest, "Password must be at least 8 characters")
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleStaff
	}
	if role != models.RoleStaff && role != models.RoleAdmin {
		return respondError(c, http.StatusBadRequest, "Invalid role")
	}

	ctx := c.Request().Context()
	users := database.DB.Collection("users")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := users.FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
		return respondError(c, http.StatusConflict, "Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to process password")
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := users.InsertOne(ctx, user); err != nil {
		err = services.MapDuplicateKey(err, "User with this email already exists")
		return respondServiceError(c, err, "Server error creating user")
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), string(user.Role))
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to generate token")
	}

	user.Password = ""
	return respondData(c, http.StatusCreated, map[string]interface{}{"user": user, "token": token})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a bearer token.
func Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request format")
	}

	ctx := c.Request().Context()

	var user models.User
	err := database.DB.Collection("users").FindOne(ctx,
		bson.M{"email": strings.ToLower(strings.TrimSpace(req.Email))}).Decode(&user)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return respondError(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), string(user.Role))
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to generate token")
	}

	user.Password = ""
	return respondData(c, http.StatusOK, map[string]interface{}{"user": user, "token": token})
}

// Me returns the authenticated account.
func Me(c echo.Context) error {
	userID, ok := c.Get("userID").(string)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "User not authenticated")
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Invalid user ID")
	}

	var user models.User
	err = database.DB.Collection("users").FindOne(c.Request().Context(), bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		return respondError(c, http.StatusNotFound, "User not found")
	}

	user.Password = ""
	return respondData(c, http.StatusOK, user)
}
