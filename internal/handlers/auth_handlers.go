package handlers

import (
	"errors"
	"net/http"

	"brewtrack/internal/common"
	"brewtrack/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication and staff account HTTP requests
type AuthHandlers struct {
	authService services.AuthServiceInterface
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthServiceInterface) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return common.SendClientError(c, "Email and password are required")
	}

	user, token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, common.Envelope{Success: false, Message: "Invalid email or password"})
		}
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, map[string]interface{}{
		"token": token,
		"user":  user,
	}, "Login successful")
}

// Me handles GET /me
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.authService.GetUser(ctx, userID)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, user, "User retrieved successfully")
}

// CreateUserRequest represents the staff account creation payload
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser handles POST /users
func (h *AuthHandlers) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.authService.CreateUser(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendCreated(c, user, "User created successfully")
}

// ChangePasswordRequest represents the password change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles PUT /users/password for the authenticated user
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.authService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, common.Envelope{Success: false, Message: "Current password is incorrect"})
		}
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, nil, "Password changed successfully")
}
