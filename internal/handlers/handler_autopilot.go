package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wealthsync/wealthsync-backend/internal/apperrors"
	"github.com/wealthsync/wealthsync-backend/internal/core/domain"
	portssvc "github.com/wealthsync/wealthsync-backend/internal/core/ports/services"
	"github.com/wealthsync/wealthsync-backend/internal/dto"
	"github.com/wealthsync/wealthsync-backend/internal/middleware"
	"github.com/wealthsync/wealthsync-backend/internal/platform/config"
)

// autopilotHandler handles HTTP requests for the payment-order lifecycle.
type autopilotHandler struct {
	autopilotService portssvc.AutopilotSvcFacade
	cfg              config.Autopilot
}

// newAutopilotHandler creates a new autopilotHandler.
func newAutopilotHandler(autopilotService portssvc.AutopilotSvcFacade, cfg config.Autopilot) *autopilotHandler {
	return &autopilotHandler{autopilotService: autopilotService, cfg: cfg}
}

// RegisterAutopilotRoutes wires the payment-order endpoints onto the
// authenticated autopilot group.
func RegisterAutopilotRoutes(rg *gin.RouterGroup, autopilotService portssvc.AutopilotSvcFacade, cfg config.Autopilot) {
	h := newAutopilotHandler(autopilotService, cfg)

	payments := rg.Group("/payments")
	{
		payments.GET("", h.listPaymentOrders)
		payments.POST("/prepare", h.preparePaymentOrders)
		payments.POST("/execute-due", h.executeDuePayments)
		payments.POST("/:paymentID/approve", h.approvePaymentOrder)
		payments.POST("/:paymentID/execute", h.executePaymentOrder)
		payments.POST("/:paymentID/cancel", h.cancelPaymentOrder)
	}
}

type listPaymentOrdersQuery struct {
	Status string `form:"status" binding:"omitempty,orderstatus"`
	Limit  int    `form:"limit,default=100" binding:"gte=1,lte=200"`
}

// listPaymentOrders godoc
// @Summary List payment orders
// @Description Retrieves the current user's payment orders ordered by due date, optionally filtered by status
// @Tags autopilot
// @Produce  json
// @Param   status query string false "Order status filter"
// @Param   limit query int false "Maximum number of orders (1-200, default 100)"
// @Success 200 {object} dto.PaymentOrderListResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /autopilot/payments [get]
func (h *autopilotHandler) listPaymentOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query listPaymentOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var status *domain.OrderStatus
	if query.Status != "" {
		s := domain.OrderStatus(query.Status)
		status = &s
	}

	orders, err := h.autopilotService.ListOrders(c.Request.Context(), userID, status, query.Limit)
	if err != nil {
		logger.Error("Failed to list payment orders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payment orders"})
		return
	}

	c.JSON(http.StatusOK, dto.PaymentOrderListResponse{Items: dto.ToPaymentOrderResponses(orders)})
}

type preparePaymentOrdersQuery struct {
	DaysAhead *int `form:"days_ahead" binding:"omitempty,gte=0,lte=90"`
}

// preparePaymentOrders godoc
// @Summary Prepare payment orders
// @Description Materializes payment orders for the user's autopay bills and active subscriptions due inside the horizon
// @Tags autopilot
// @Produce  json
// @Param   days_ahead query int false "Preparation horizon in days (0-90, default from configuration)"
// @Success 200 {object} dto.PreparePaymentOrdersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /autopilot/payments/prepare [post]
func (h *autopilotHandler) preparePaymentOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query preparePaymentOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	daysAhead := h.cfg.PrepareDaysAhead
	if query.DaysAhead != nil {
		daysAhead = *query.DaysAhead
	}

	created, err := h.autopilotService.PrepareOrders(c.Request.Context(), userID, daysAhead)
	if err != nil {
		logger.Error("Failed to prepare payment orders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare payment orders"})
		return
	}

	c.JSON(http.StatusOK, dto.PreparePaymentOrdersResponse{
		CreatedCount: len(created),
		Items:        dto.ToPaymentOrderResponses(created),
	})
}

// approvePaymentOrder godoc
// @Summary Approve a payment order
// @Description Approves a payment order; with execute_now it chains into immediate execution when auto-execute is enabled
// @Tags autopilot
// @Accept  json
// @Produce  json
// @Param   paymentID path string true "Payment order ID"
// @Param   request body dto.ApprovePaymentOrderRequest false "Approval options"
// @Success 200 {object} map[string]dto.PaymentOrderResponse
// @Failure 404 {object} map[string]string "Payment order not found"
// @Router /autopilot/payments/{paymentID}/approve [post]
func (h *autopilotHandler) approvePaymentOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	var req dto.ApprovePaymentOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// execute_now defaults to true; only an explicit false defers execution.
	executeNow := req.ExecuteNow == nil || *req.ExecuteNow
	order, err := h.autopilotService.ApproveOrder(c.Request.Context(), userID, paymentID, executeNow)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment order not found"})
			return
		}
		logger.Error("Failed to approve payment order", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve payment order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": dto.ToPaymentOrderResponse(order)})
}

// executePaymentOrder godoc
// @Summary Execute a payment order
// @Description Executes an approved payment order through the internal ledger
// @Tags autopilot
// @Produce  json
// @Param   paymentID path string true "Payment order ID"
// @Success 200 {object} map[string]dto.PaymentOrderResponse
// @Failure 404 {object} map[string]string "Payment order not found"
// @Router /autopilot/payments/{paymentID}/execute [post]
func (h *autopilotHandler) executePaymentOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.autopilotService.ExecuteOrder(c.Request.Context(), userID, paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment order not found"})
			return
		}
		logger.Error("Failed to execute payment order", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute payment order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": dto.ToPaymentOrderResponse(order)})
}

// cancelPaymentOrder godoc
// @Summary Cancel a payment order
// @Description Cancels a payment order that has not yet succeeded
// @Tags autopilot
// @Accept  json
// @Produce  json
// @Param   paymentID path string true "Payment order ID"
// @Param   request body dto.CancelPaymentOrderRequest false "Cancellation reason"
// @Success 200 {object} map[string]dto.PaymentOrderResponse
// @Failure 404 {object} map[string]string "Payment order not found"
// @Router /autopilot/payments/{paymentID}/cancel [post]
func (h *autopilotHandler) cancelPaymentOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	var req dto.CancelPaymentOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.autopilotService.CancelOrder(c.Request.Context(), userID, paymentID, req.Reason)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment order not found"})
			return
		}
		logger.Error("Failed to cancel payment order", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel payment order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": dto.ToPaymentOrderResponse(order)})
}

// executeDuePayments godoc
// @Summary Execute the user's due approved payments
// @Description Executes every approved payment order of the current user due today or earlier
// @Tags autopilot
// @Produce  json
// @Success 200 {object} dto.BatchExecutionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /autopilot/payments/execute-due [post]
func (h *autopilotHandler) executeDuePayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.autopilotService.ExecuteDueApprovedOrdersForUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to execute due payments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute due payments"})
		return
	}

	c.JSON(http.StatusOK, result)
}
