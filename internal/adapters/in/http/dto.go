package http

import (
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one requested line.
type OrderItemRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransitionRequest is the body of PUT /api/v1/orders/:id/status.
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderItemResponse is one line of an order.
type OrderItemResponse struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// OrderResponse is the wire form of an order snapshot.
type OrderResponse struct {
	ID        string              `json:"id"`
	Status    string              `json:"status"`
	Items     []OrderItemResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// AdvanceResponse reports the order after an advance request.
type AdvanceResponse struct {
	Order    OrderResponse `json:"order"`
	Advanced bool          `json:"advanced"`
}

// Error is the body of every failed request.
type Error struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (r CreateOrderRequest) toLines() []commands.OrderLine {
	lines := make([]commands.OrderLine, len(r.Items))
	for i, item := range r.Items {
		lines[i] = commands.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return lines
}

func toOrderResponse(snapshot order.Snapshot) OrderResponse {
	items := make([]OrderItemResponse, len(snapshot.Items))
	for i, item := range snapshot.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			Total:     item.Total(),
		}
	}

	return OrderResponse{
		ID:        snapshot.ID.String(),
		Status:    snapshot.Status.String(),
		Items:     items,
		Total:     snapshot.Total,
		CreatedAt: snapshot.CreatedAt,
		UpdatedAt: snapshot.UpdatedAt,
	}
}

func toOrderResponses(snapshots []order.Snapshot) []OrderResponse {
	response := make([]OrderResponse, len(snapshots))
	for i, snapshot := range snapshots {
		response[i] = toOrderResponse(snapshot)
	}
	return response
}

func formatValidationErrors(errs validator.ValidationErrors) []string {
	details := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		details = append(details, fieldErr.Namespace()+": failed on '"+fieldErr.Tag()+"'")
	}
	return details
}
