package handlers

import (
	"strconv"

	"brewtrack/internal/analytics"
	"brewtrack/internal/common"
	"brewtrack/internal/models"
	"brewtrack/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for the order workflow
type OrderHandlers struct {
	orderService services.OrderServiceInterface
	analyticsSvc *analytics.Service
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderServiceInterface, analyticsSvc *analytics.Service) *OrderHandlers {
	return &OrderHandlers{
		orderService: orderService,
		analyticsSvc: analyticsSvc,
	}
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var draft models.OrderDraft
	if err := c.Bind(&draft); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	order, err := h.orderService.CreateOrder(ctx, &draft)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendCreated(c, order, "Order created successfully")
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.GetOrder(ctx, id)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, order, "Order retrieved successfully")
}

// GetOrders handles GET /orders with an optional status filter
func (h *OrderHandlers) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()

	status := c.QueryParam("status")
	limit, offset := paginationParams(c, 50)

	orders, err := h.orderService.ListOrders(ctx, status, limit, offset)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
		"limit":  limit,
		"offset": offset,
	}, "Orders retrieved successfully")
}

// UpdateOrderStatus handles PATCH /orders/:id/status
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Status == "" {
		return common.SendClientError(c, "status is required")
	}

	order, err := h.orderService.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, order, "Order status updated successfully")
}

// CancelOrder handles DELETE /orders/:id
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "order id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Reason *string `json:"reason"`
	}
	// The body is optional on cancellation
	_ = c.Bind(&req)

	order, err := h.orderService.CancelOrder(ctx, id, req.Reason)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, order, "Order cancelled successfully")
}

// GetOrderReport handles GET /admin/orders/report?start=&end=
func (h *OrderHandlers) GetOrderReport(c echo.Context) error {
	ctx := c.Request().Context()

	startParam := c.QueryParam("start")
	endParam := c.QueryParam("end")
	if startParam == "" || endParam == "" {
		return common.SendClientError(c, "start and end query parameters are required")
	}

	start, err := common.ValidateDateFormat(startParam, "start")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	end, err := common.ValidateDateFormat(endParam, "end")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if end.Before(start) {
		return common.SendClientError(c, "end must not be before start")
	}

	orders, err := h.orderService.ListOrdersByPeriod(ctx, start, end)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
		"start":  startParam,
		"end":    endParam,
	}, "Order report generated successfully")
}

// GetOrderStatistics handles GET /admin/orders/statistics
func (h *OrderHandlers) GetOrderStatistics(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.analyticsSvc.Statistics(ctx)
	if err != nil {
		return common.SendError(c, err)
	}

	return common.SendSuccess(c, stats, "Order statistics retrieved successfully")
}

// paginationParams reads limit/offset query parameters with sane bounds.
func paginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit := defaultLimit
	offset := 0

	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}
