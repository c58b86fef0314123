package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/storefront/internal/order"
	"github.com/tair/storefront/internal/order/domain"
	"github.com/tair/storefront/internal/order/usecase/command"
	"github.com/tair/storefront/internal/order/usecase/query"
	userdomain "github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/middleware"
)

// OrderHandler handles HTTP requests for the order ledger
type OrderHandler struct {
	ledger  *order.Ledger
	guard   *middleware.Guard
	metrics *middleware.Metrics
}

// NewOrderHandlerWithDI creates a new order handler using dependency injection
func NewOrderHandlerWithDI(ledger *order.Ledger, guard *middleware.Guard, metrics *middleware.Metrics) *OrderHandler {
	return &OrderHandler{
		ledger:  ledger,
		guard:   guard,
		metrics: metrics,
	}
}

func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Instrument

	// Public routes
	router.HandleFunc("/api/orders/quote", m("/api/orders/quote", h.Quote)).Methods("POST")

	// Authenticated routes
	router.HandleFunc("/api/orders/checkout", m("/api/orders/checkout", h.guard.Auth(h.Checkout))).Methods("POST")
	router.HandleFunc("/api/orders", m("/api/orders", h.guard.Auth(h.ListOrders))).Methods("GET")
	router.HandleFunc("/api/orders/{id}", m("/api/orders/{id}", h.guard.Auth(h.GetOrder))).Methods("GET")
	router.HandleFunc("/api/orders/{id}/cancel", m("/api/orders/{id}/cancel", h.guard.Auth(h.CancelOrder))).Methods("POST")

	// Admin routes
	router.HandleFunc("/api/orders", m("/api/orders", h.guard.Admin(h.PlaceOrder))).Methods("POST")
	router.HandleFunc("/api/orders/{id}/status", m("/api/orders/{id}/status", h.guard.Admin(h.SetStatus))).Methods("PUT")
}

type cartRequest struct {
	Items          []order.CartLine `json:"items"`
	ShippingMethod string           `json:"shipping_method"`
}

// Quote handles POST /api/orders/quote
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}

	items, quote, err := h.ledger.Quote(req.Items, req.ShippingMethod)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	middleware.RespondOK(w, http.StatusOK, "", map[string]interface{}{
		"items": items,
		"quote": quote,
	})
}

// Checkout handles POST /api/orders/checkout for the signed-in customer
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	me, _ := middleware.UserFromContext(r.Context())

	var req struct {
		cartRequest
		ShippingAddress string `json:"shipping_address"`
		PaymentMethod   string `json:"payment_method"`
	}
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}

	placed, err := h.ledger.Checkout(r.Context(), order.CheckoutCommand{
		CustomerName:    me.Name,
		CustomerEmail:   me.Email,
		Lines:           req.Items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ShippingMethod:  req.ShippingMethod,
	})
	if err != nil {
		logger.Warn(r.Context()).Err(err).Int64("user_id", me.ID).Msg("Checkout failed")
		middleware.RespondError(w, err)
		return
	}

	h.metrics.OrdersPlaced.Inc()
	middleware.RespondOK(w, http.StatusCreated, "Order placed successfully", placed)
}

// PlaceOrder handles POST /api/orders with explicit line items
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName    string        `json:"customer_name"`
		CustomerEmail   string        `json:"customer_email"`
		Items           []domain.Item `json:"items"`
		ShippingAddress string        `json:"shipping_address"`
		PaymentMethod   string        `json:"payment_method"`
		ShippingFee     float64       `json:"shipping_fee"`
		Tax             float64       `json:"tax"`
	}
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}

	placed, err := h.ledger.PlaceOrder(r.Context(), command.PlaceOrderCommand{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ShippingFee:     req.ShippingFee,
		Tax:             req.Tax,
	})
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	h.metrics.OrdersPlaced.Inc()
	middleware.RespondOK(w, http.StatusCreated, "Order placed successfully", placed)
}

// ListOrders handles GET /api/orders; customers only see their own orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	me, _ := middleware.UserFromContext(r.Context())
	v := r.URL.Query()

	q := query.ListOrdersQuery{
		CustomerEmail: v.Get("customer_email"),
		Status:        v.Get("status"),
	}
	if me.Role != userdomain.RoleAdmin {
		q.CustomerEmail = me.Email
	}

	orders := h.ledger.ListOrders(q)
	middleware.RespondOK(w, http.StatusOK, "", map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	me, _ := middleware.UserFromContext(r.Context())

	q := query.GetOrderQuery{OrderID: mux.Vars(r)["id"]}
	if me.Role != userdomain.RoleAdmin {
		q.CustomerEmail = me.Email
	}

	o, err := h.ledger.GetOrder(q)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}
	middleware.RespondOK(w, http.StatusOK, "", o)
}

// CancelOrder handles POST /api/orders/{id}/cancel for the order's customer or an admin
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	me, _ := middleware.UserFromContext(r.Context())
	id := mux.Vars(r)["id"]

	if me.Role != userdomain.RoleAdmin {
		if _, err := h.ledger.GetOrder(query.GetOrderQuery{OrderID: id, CustomerEmail: me.Email}); err != nil {
			middleware.RespondError(w, err)
			return
		}
	}

	h.setStatus(w, r, id, domain.StatusCancelled)
}

// SetStatus handles PUT /api/orders/{id}/status
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}
	h.setStatus(w, r, mux.Vars(r)["id"], req.Status)
}

func (h *OrderHandler) setStatus(w http.ResponseWriter, r *http.Request, id, status string) {
	updated, err := h.ledger.SetStatus(r.Context(), id, status)
	if err != nil {
		logger.Warn(r.Context()).Err(err).Str("order_id", id).Str("status", status).Msg("Status change rejected")
		middleware.RespondError(w, err)
		return
	}

	h.metrics.StatusChanges.WithLabelValues(updated.Status).Inc()
	middleware.RespondOK(w, http.StatusOK, "Order status updated", updated)
}
