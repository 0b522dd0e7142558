package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

// Envelope is the response body shape every endpoint returns.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// SendSuccess sends a 200 response with the standard envelope
func SendSuccess(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// SendCreated sends a 201 response with the standard envelope
func SendCreated(c echo.Context, data interface{}, message string) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// SendError maps a workflow error to its HTTP status and sends the failure envelope.
// Internal causes are not leaked; only the top-level message goes out.
func SendError(c echo.Context, err error) error {
	return c.JSON(HTTPStatus(err), Envelope{Success: false, Message: err.Error()})
}

// SendClientError sends a 400 failure envelope
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: message})
}

// SendNotFoundError sends a 404 failure envelope
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, Envelope{Success: false, Message: fmt.Sprintf("%s not found", resource)})
}

// SendServerError sends a 500 failure envelope
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: message})
}

// SendUnauthorizedError sends a 401 failure envelope
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "unauthorized"})
}

// ValidateUUID validates UUID path/body parameters
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid UUID", fieldName)
	}
	return id, nil
}

// ValidateDateFormat validates YYYY-MM-DD date strings
func ValidateDateFormat(dateStr, fieldName string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be in YYYY-MM-DD format", fieldName)
	}
	return date, nil
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetRoleFromContext extracts the user role from the request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
