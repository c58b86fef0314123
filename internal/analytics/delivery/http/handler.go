package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/storefront/internal/analytics"
	"github.com/tair/storefront/pkg/apperr"
	"github.com/tair/storefront/pkg/middleware"
)

// AnalyticsHandler serves the admin dashboard figures
type AnalyticsHandler struct {
	engine  *analytics.Engine
	guard   *middleware.Guard
	metrics *middleware.Metrics
}

// NewAnalyticsHandlerWithDI creates a new analytics handler using dependency injection
func NewAnalyticsHandlerWithDI(engine *analytics.Engine, guard *middleware.Guard, metrics *middleware.Metrics) *AnalyticsHandler {
	return &AnalyticsHandler{
		engine:  engine,
		guard:   guard,
		metrics: metrics,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Instrument
	a := h.guard.Admin

	router.HandleFunc("/api/analytics/overview", m("/api/analytics/overview", a(h.Overview))).Methods("GET")
	router.HandleFunc("/api/analytics/revenue", m("/api/analytics/revenue", a(h.TotalRevenue))).Methods("GET")
	router.HandleFunc("/api/analytics/customers", m("/api/analytics/customers", a(h.TotalCustomers))).Methods("GET")
	router.HandleFunc("/api/analytics/revenue-by-category", m("/api/analytics/revenue-by-category", a(h.RevenueByCategory))).Methods("GET")
	router.HandleFunc("/api/analytics/top-selling", m("/api/analytics/top-selling", a(h.TopSelling))).Methods("GET")
	router.HandleFunc("/api/analytics/recent-orders", m("/api/analytics/recent-orders", a(h.RecentOrders))).Methods("GET")
	router.HandleFunc("/api/analytics/low-stock", m("/api/analytics/low-stock", a(h.LowStock))).Methods("GET")
}

// Overview handles GET /api/analytics/overview
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview := h.engine.Overview()
	h.metrics.CatalogSize.Set(float64(overview.TotalProducts))
	h.metrics.LowStockProducts.Set(float64(len(overview.LowStock)))
	middleware.RespondOK(w, http.StatusOK, "", overview)
}

// TotalRevenue handles GET /api/analytics/revenue
func (h *AnalyticsHandler) TotalRevenue(w http.ResponseWriter, r *http.Request) {
	middleware.RespondOK(w, http.StatusOK, "", map[string]float64{"total_revenue": h.engine.TotalRevenue()})
}

// TotalCustomers handles GET /api/analytics/customers
func (h *AnalyticsHandler) TotalCustomers(w http.ResponseWriter, r *http.Request) {
	middleware.RespondOK(w, http.StatusOK, "", map[string]int{"total_customers": h.engine.TotalCustomers()})
}

// RevenueByCategory handles GET /api/analytics/revenue-by-category
func (h *AnalyticsHandler) RevenueByCategory(w http.ResponseWriter, r *http.Request) {
	middleware.RespondOK(w, http.StatusOK, "", h.engine.RevenueByCategory())
}

// TopSelling handles GET /api/analytics/top-selling?n=
func (h *AnalyticsHandler) TopSelling(w http.ResponseWriter, r *http.Request) {
	n, err := countParam(r, analytics.DefaultTopN)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}
	middleware.RespondOK(w, http.StatusOK, "", h.engine.TopSellingProducts(n))
}

// RecentOrders handles GET /api/analytics/recent-orders?n=
func (h *AnalyticsHandler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	n, err := countParam(r, analytics.DefaultRecentN)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}
	middleware.RespondOK(w, http.StatusOK, "", h.engine.RecentOrders(n))
}

// LowStock handles GET /api/analytics/low-stock
func (h *AnalyticsHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products := h.engine.LowStockProducts()
	h.metrics.LowStockProducts.Set(float64(len(products)))
	middleware.RespondOK(w, http.StatusOK, "", map[string]interface{}{
		"threshold": h.engine.LowStockThreshold(),
		"products":  products,
	})
}

// countParam reads ?n=, falling back to def when absent
func countParam(r *http.Request, def int) (int, error) {
	s := r.URL.Query().Get("n")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, apperr.Invalid("invalid n")
	}
	return n, nil
}
