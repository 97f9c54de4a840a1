// Package http is the REST surface of the order service, built on echo.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// OrderService is the part of the coordinator the HTTP layer needs.
type OrderService interface {
	CreateOrder(ctx context.Context, lines []commands.OrderLine) (order.Snapshot, error)
	GetOrder(ctx context.Context, id string) (order.Snapshot, bool, error)
	ListOrders(ctx context.Context) ([]order.Snapshot, error)
	ListOrdersByStatus(ctx context.Context, status order.Status) ([]order.Snapshot, error)
	CancelOrder(ctx context.Context, id string) bool
	AdvanceOrder(ctx context.Context, id string) (order.Snapshot, bool, error)
	TransitionOrder(ctx context.Context, id string, target order.Status) (order.Snapshot, error)
}

// Server handles HTTP requests by delegating to the order service.
type Server struct {
	orders OrderService
	logger *slog.Logger
}

// NewServer creates a new HTTP server on top of orders.
func NewServer(orders OrderService, logger *slog.Logger) *Server {
	return &Server{
		orders: orders,
		logger: logger.With("component", "http_server"),
	}
}

// RegisterRoutes mounts the health check and the order API on e and installs
// the request validator.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewRequestValidator()

	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/advance", s.AdvanceOrder)
	api.PUT("/orders/:id/status", s.TransitionOrder)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /api/v1/orders - creates a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return validationErrorJSON(ctx, err)
	}

	snapshot, err := s.orders.CreateOrder(ctx.Request().Context(), request.toLines())
	if err != nil {
		if errors.Is(err, errs.ErrValueIsRequired) || errors.Is(err, errs.ErrValueIsInvalid) {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
		}
		s.logger.ErrorContext(ctx.Request().Context(), "Failed to create order", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, toOrderResponse(snapshot))
}

// GetOrders handles GET /api/v1/orders - lists orders, optionally by ?status=.
func (s *Server) GetOrders(ctx echo.Context) error {
	var (
		snapshots []order.Snapshot
		err       error
	)

	if raw := ctx.QueryParam("status"); raw != "" {
		status, parseErr := order.ParseStatus(raw)
		if parseErr != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid status: "+raw)
		}
		snapshots, err = s.orders.ListOrdersByStatus(ctx.Request().Context(), status)
	} else {
		snapshots, err = s.orders.ListOrders(ctx.Request().Context())
	}
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "Failed to list orders", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	return ctx.JSON(http.StatusOK, toOrderResponses(snapshots))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	snapshot, found, err := s.orders.GetOrder(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "Failed to get order", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve order")
	}
	if !found {
		return errorJSON(ctx, http.StatusNotFound, "Order not found")
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(snapshot))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel. Only Pending orders can
// be cancelled; anything else is a conflict.
func (s *Server) CancelOrder(ctx echo.Context) error {
	id := ctx.Param("id")
	if !s.orders.CancelOrder(ctx.Request().Context(), id) {
		return errorJSON(ctx, http.StatusConflict, "Order cannot be cancelled")
	}

	snapshot, found, err := s.orders.GetOrder(ctx.Request().Context(), id)
	if err != nil || !found {
		return ctx.NoContent(http.StatusNoContent)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(snapshot))
}

// AdvanceOrder handles POST /api/v1/orders/:id/advance.
func (s *Server) AdvanceOrder(ctx echo.Context) error {
	snapshot, advanced, err := s.orders.AdvanceOrder(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return s.transitionErrorJSON(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AdvanceResponse{
		Order:    toOrderResponse(snapshot),
		Advanced: advanced,
	})
}

// TransitionOrder handles PUT /api/v1/orders/:id/status.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	var request TransitionRequest
	if err := ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return validationErrorJSON(ctx, err)
	}

	target, err := order.ParseStatus(request.Status)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid status: "+request.Status)
	}

	snapshot, err := s.orders.TransitionOrder(ctx.Request().Context(), ctx.Param("id"), target)
	if err != nil {
		return s.transitionErrorJSON(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(snapshot))
}

func (s *Server) transitionErrorJSON(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, commands.ErrOrderNotFound):
		return errorJSON(ctx, http.StatusNotFound, "Order not found")
	case errors.Is(err, order.ErrInvalidTransition):
		return errorJSON(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid):
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "Failed to change order status", "error", err)
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to change order status")
	}
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{
		Code:    code,
		Message: message,
	})
}

func validationErrorJSON(ctx echo.Context, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Validation failed",
			Details: formatValidationErrors(validationErrs),
		})
	}

	return errorJSON(ctx, http.StatusBadRequest, "Validation failed")
}
