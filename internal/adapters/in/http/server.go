// Package http is the inbound HTTP adapter: the webhooks that drive the
// pipeline plus the operational read endpoints. Responses to external callers
// carry generic messages only; internal error details stay in the logs.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler   commands.CreateOrderCommandHandler
	markDeliveredHandler commands.MarkOrderDeliveredCommandHandler
	cancelOrderHandler   commands.CancelOrderCommandHandler

	queueStatsHandler     queries.GetQueueStatsQueryHandler
	ordersByStatusHandler queries.GetOrdersByStatusQueryHandler
	commLogHandler        queries.GetCommunicationLogQueryHandler

	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	markDeliveredHandler commands.MarkOrderDeliveredCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	queueStatsHandler queries.GetQueueStatsQueryHandler,
	ordersByStatusHandler queries.GetOrdersByStatusQueryHandler,
	commLogHandler queries.GetCommunicationLogQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:    createOrderHandler,
		markDeliveredHandler:  markDeliveredHandler,
		cancelOrderHandler:    cancelOrderHandler,
		queueStatsHandler:     queueStatsHandler,
		ordersByStatusHandler: ordersByStatusHandler,
		commLogHandler:        commLogHandler,
		logger:                logger.With("component", "http"),
	}
}

// RegisterRoutes attaches every route to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/api/v1/queues/stats", s.GetQueueStats)
	e.GET("/api/v1/orders", s.GetOrdersByStatus)
	e.GET("/api/v1/orders/:id/communications", s.GetCommunicationLog)
	e.POST("/webhooks/payment", s.PaymentWebhook)
	e.POST("/webhooks/delivery", s.DeliveryWebhook)
	e.POST("/webhooks/cancellation", s.CancellationWebhook)
}

// errorResponse is the generic error envelope returned to external callers.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetQueueStats handles GET /api/v1/queues/stats - per-queue job counts.
func (s *Server) GetQueueStats(ctx echo.Context) error {
	query := queries.NewGetQueueStatsQuery()

	stats, err := s.queueStatsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.Error("queue stats query failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve queue stats",
		})
	}

	return ctx.JSON(http.StatusOK, stats)
}

// orderResponse is the wire shape of one order in the status listing.
type orderResponse struct {
	ID              string `json:"id"`
	ExternalOrderID string `json:"externalOrderId"`
	Status          string `json:"status"`
	SupplierID      string `json:"supplierId,omitempty"`
	TrackingCode    string `json:"trackingCode,omitempty"`
	Carrier         string `json:"carrier,omitempty"`
}

// GetOrdersByStatus handles GET /api/v1/orders?status=... - orders in one status.
func (s *Server) GetOrdersByStatus(ctx echo.Context) error {
	status := order.StatusFromString(ctx.QueryParam("status"))
	query, err := queries.NewGetOrdersByStatusQuery(status)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Unknown order status",
		})
	}

	orders, err := s.ordersByStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.Error("orders by status query failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]orderResponse, len(orders))
	for i, o := range orders {
		response[i] = orderResponse{
			ID:              o.ID.String(),
			ExternalOrderID: o.ExternalOrderID,
			Status:          o.Status,
			TrackingCode:    o.TrackingCode,
			Carrier:         o.Carrier,
		}
		if o.SupplierID != nil {
			response[i].SupplierID = o.SupplierID.String()
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// communicationResponse is the wire shape of one communication attempt.
type communicationResponse struct {
	SupplierID     string `json:"supplierId"`
	Action         string `json:"action"`
	Attempt        int    `json:"attempt"`
	Success        bool   `json:"success"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
	ResponseTimeMs int64  `json:"responseTimeMs"`
	CreatedAt      string `json:"createdAt"`
}

// GetCommunicationLog handles GET /api/v1/orders/:id/communications.
func (s *Server) GetCommunicationLog(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetCommunicationLogQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	records, err := s.commLogHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.Error("communication log query failed", "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve communication log",
		})
	}

	response := make([]communicationResponse, len(records))
	for i, record := range records {
		response[i] = communicationResponse{
			SupplierID:     record.SupplierID.String(),
			Action:         record.Action,
			Attempt:        record.Attempt,
			Success:        record.Success,
			ErrorMessage:   record.ErrMessage,
			ResponseTimeMs: record.ResponseTimeMs,
			CreatedAt:      record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// paymentWebhookRequest is the payload of a confirmed payment: the shop's
// order data, ready to enter the pipeline.
type paymentWebhookRequest struct {
	ExternalOrderID string `json:"externalOrderId"`
	CustomerID      string `json:"customerId"`
	Items           []struct {
		SKU            string `json:"sku"`
		Quantity       int    `json:"quantity"`
		UnitPriceCents int64  `json:"unitPriceCents"`
		Currency       string `json:"currency"`
	} `json:"items"`
	TotalCents int64  `json:"totalCents"`
	Currency   string `json:"currency"`
	Priority   int    `json:"priority"`
	Contact    struct {
		Language string `json:"language"`
		Phone    string `json:"phone"`
		Country  string `json:"country"`
	} `json:"contact"`
}

// PaymentWebhook handles POST /webhooks/payment - a paid order enters the
// pipeline. Replays of the same external reference are acknowledged without
// creating a second order.
func (s *Server) PaymentWebhook(ctx echo.Context) error {
	var req paymentWebhookRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := s.buildCreateOrderCommand(req)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order data",
		})
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		if errors.Is(err, commands.ErrOrderAlreadyExists) {
			return ctx.JSON(http.StatusOK, map[string]string{"status": "already accepted"})
		}
		s.logger.Error("payment webhook failed", "external_order_id", req.ExternalOrderID, "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to accept order",
		})
	}

	return ctx.JSON(http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) buildCreateOrderCommand(req paymentWebhookRequest) (commands.CreateOrderCommand, error) {
	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, line := range req.Items {
		price, priceErr := kernel.NewMoney(line.UnitPriceCents, line.Currency)
		if priceErr != nil {
			return commands.CreateOrderCommand{}, priceErr
		}
		item, itemErr := order.NewItem(line.SKU, line.Quantity, price)
		if itemErr != nil {
			return commands.CreateOrderCommand{}, itemErr
		}
		items = append(items, item)
	}

	total, err := kernel.NewMoney(req.TotalCents, req.Currency)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	contact := order.Contact{
		Language: kernel.LanguageFromTag(req.Contact.Language),
		Phone:    req.Contact.Phone,
		Country:  req.Contact.Country,
	}

	return commands.NewCreateOrderCommand(
		kernel.NewUUID(), req.ExternalOrderID, customerID,
		items, total, contact, req.Priority,
	)
}

// deliveryWebhookRequest is a carrier's delivery confirmation.
type deliveryWebhookRequest struct {
	OrderID string `json:"orderId"`
}

// DeliveryWebhook handles POST /webhooks/delivery - SHIPPED to DELIVERED.
// Duplicate confirmations are acknowledged without effect.
func (s *Server) DeliveryWebhook(ctx echo.Context) error {
	var req deliveryWebhookRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewMarkOrderDeliveredCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	if err := s.markDeliveredHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.orderTransitionError(ctx, req.OrderID, "delivery webhook", err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{"status": "delivered"})
}

// cancellationWebhookRequest is the shop's cancellation request.
type cancellationWebhookRequest struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

// CancellationWebhook handles POST /webhooks/cancellation - customer-initiated
// cancel. Rejected once the order is delivered.
func (s *Server) CancellationWebhook(ctx echo.Context) error {
	var req cancellationWebhookRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, req.Reason)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid cancellation request",
		})
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.orderTransitionError(ctx, req.OrderID, "cancellation webhook", err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

// orderTransitionError maps command failures to generic webhook responses:
// unknown order, rejected transition, or a plain 500.
func (s *Server) orderTransitionError(ctx echo.Context, orderID, operation string, err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ctx.JSON(http.StatusNotFound, errorResponse{
			Code:    http.StatusNotFound,
			Message: "Order not found",
		})
	}
	if errors.Is(err, errs.ErrInvalidStateTransition) {
		return ctx.JSON(http.StatusConflict, errorResponse{
			Code:    http.StatusConflict,
			Message: "Order state does not allow this operation",
		})
	}

	s.logger.Error(operation+" failed", "order_id", orderID, "error", err)
	return ctx.JSON(http.StatusInternalServerError, errorResponse{
		Code:    http.StatusInternalServerError,
		Message: "Failed to process request",
	})
}
