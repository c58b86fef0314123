package query

import (
	"strings"

	"github.com/tair/storefront/internal/order/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// OrderReader is the read side of the entity store used by order queries
type OrderReader interface {
	FindOrder(id string) (domain.Order, error)
	ListOrders() []domain.Order
}

// GetOrderQuery represents the query to fetch one order
type GetOrderQuery struct {
	OrderID string
	// CustomerEmail, when set, restricts the lookup to that customer's orders
	CustomerEmail string
}

// GetOrderHandler handles get order query
type GetOrderHandler struct {
	orders OrderReader
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(orders OrderReader) *GetOrderHandler {
	return &GetOrderHandler{orders: orders}
}

// Handle executes the get order query
func (h *GetOrderHandler) Handle(q GetOrderQuery) (*domain.Order, error) {
	if q.OrderID == "" {
		return nil, apperr.Invalid("order_id is required")
	}

	order, err := h.orders.FindOrder(q.OrderID)
	if err != nil {
		return nil, err
	}
	if q.CustomerEmail != "" && !strings.EqualFold(order.CustomerEmail, strings.TrimSpace(q.CustomerEmail)) {
		return nil, apperr.NotFound("order %s", q.OrderID)
	}
	return &order, nil
}
