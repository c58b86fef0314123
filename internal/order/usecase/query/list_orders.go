package query

import (
	"strings"

	"github.com/tair/storefront/internal/order/domain"
)

// ListOrdersQuery represents the query to list orders, most recent first
type ListOrdersQuery struct {
	CustomerEmail string // Optional: only this customer's orders
	Status        string // Optional: filter by status
	Limit         int
}

// ListOrdersHandler handles list orders query
type ListOrdersHandler struct {
	orders OrderReader
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(orders OrderReader) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders}
}

// Handle executes the list orders query
func (h *ListOrdersHandler) Handle(q ListOrdersQuery) []domain.Order {
	email := strings.TrimSpace(q.CustomerEmail)

	all := h.orders.ListOrders()
	out := make([]domain.Order, 0, len(all))
	for _, o := range all {
		if email != "" && !strings.EqualFold(o.CustomerEmail, email) {
			continue
		}
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		out = append(out, o)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}
