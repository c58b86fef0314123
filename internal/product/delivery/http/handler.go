package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/internal/product/usecase/command"
	"github.com/tair/storefront/internal/product/usecase/query"
	"github.com/tair/storefront/pkg/apperr"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/middleware"
)

// ProductHandler handles HTTP requests for the catalog using CQRS pattern
type ProductHandler struct {
	// Command handlers
	createHandler  *command.CreateProductHandler
	updateHandler  *command.UpdateProductHandler
	deleteHandler  *command.DeleteProductHandler
	restockHandler *command.RestockProductHandler

	// Query handlers
	getProductHandler *query.GetProductHandler
	listHandler       *query.ListProductsHandler
	statsHandler      *query.GetStatsHandler

	guard   *middleware.Guard
	metrics *middleware.Metrics
}

// NewProductHandlerWithDI creates a new product handler using dependency injection
// This is used by Wire for automatic dependency injection
func NewProductHandlerWithDI(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	restockHandler *command.RestockProductHandler,
	getProductHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	statsHandler *query.GetStatsHandler,
	guard *middleware.Guard,
	metrics *middleware.Metrics,
) *ProductHandler {
	return &ProductHandler{
		createHandler:     createHandler,
		updateHandler:     updateHandler,
		deleteHandler:     deleteHandler,
		restockHandler:    restockHandler,
		getProductHandler: getProductHandler,
		listHandler:       listHandler,
		statsHandler:      statsHandler,
		guard:             guard,
		metrics:           metrics,
	}
}

func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Instrument

	// Public routes (no auth required)
	router.HandleFunc("/api/products", m("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/stats", m("/api/products/stats", h.GetStats)).Methods("GET")
	router.HandleFunc("/api/products/{id}", m("/api/products/{id}", h.GetProduct)).Methods("GET")

	// Admin routes (admin role required)
	router.HandleFunc("/api/products", m("/api/products", h.guard.Admin(h.CreateProduct))).Methods("POST")
	router.HandleFunc("/api/products/{id}", m("/api/products/{id}", h.guard.Admin(h.UpdateProduct))).Methods("PATCH", "PUT")
	router.HandleFunc("/api/products/{id}", m("/api/products/{id}", h.guard.Admin(h.DeleteProduct))).Methods("DELETE")
	router.HandleFunc("/api/products/{id}/restock", m("/api/products/{id}/restock", h.guard.Admin(h.RestockProduct))).Methods("POST")
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.NewProduct
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}

	product, err := h.createHandler.Handle(command.CreateProductCommand{Product: req})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create product")
		middleware.RespondError(w, err)
		return
	}

	h.updateProductsMetric()
	logger.Info(r.Context()).Int64("product_id", product.ID).Str("name", product.Name).Msg("Product created")
	middleware.RespondOK(w, http.StatusCreated, "Product created successfully", product)
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	products, err := h.listHandler.Handle(q)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	middleware.RespondOK(w, http.StatusOK, "", map[string]interface{}{
		"products": products,
		"count":    len(products),
		"limit":    q.Limit,
		"offset":   q.Offset,
	})
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	product, err := h.getProductHandler.Handle(query.GetProductQuery{ID: id})
	if err != nil {
		middleware.RespondError(w, err)
		return
	}
	middleware.RespondOK(w, http.StatusOK, "", product)
}

// UpdateProduct handles PATCH /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	var patch domain.ProductPatch
	if err := middleware.DecodeJSON(r, &patch); err != nil {
		middleware.RespondError(w, err)
		return
	}

	product, err := h.updateHandler.Handle(command.UpdateProductCommand{ID: id, Patch: patch})
	if err != nil {
		logger.Error(r.Context()).Err(err).Int64("product_id", id).Msg("Failed to update product")
		middleware.RespondError(w, err)
		return
	}
	middleware.RespondOK(w, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	if err := h.deleteHandler.Handle(command.DeleteProductCommand{ID: id}); err != nil {
		logger.Error(r.Context()).Err(err).Int64("product_id", id).Msg("Failed to delete product")
		middleware.RespondError(w, err)
		return
	}

	h.updateProductsMetric()
	middleware.RespondOK(w, http.StatusOK, "Product deleted successfully", nil)
}

// RestockProduct handles POST /api/products/{id}/restock
func (h *ProductHandler) RestockProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		middleware.RespondError(w, err)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.RespondError(w, err)
		return
	}

	product, err := h.restockHandler.Handle(command.RestockProductCommand{ProductID: id, Quantity: req.Quantity})
	if err != nil {
		logger.Error(r.Context()).Err(err).Int64("product_id", id).Msg("Failed to restock product")
		middleware.RespondError(w, err)
		return
	}

	logger.Info(r.Context()).
		Int64("product_id", id).
		Int("quantity", req.Quantity).
		Int("stock", product.Stock).
		Msg("Product restocked")
	middleware.RespondOK(w, http.StatusOK, "Product restocked successfully", product)
}

// GetStats handles GET /api/products/stats
func (h *ProductHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	middleware.RespondOK(w, http.StatusOK, "", h.statsHandler.Handle(query.GetStatsQuery{}))
}

// updateProductsMetric updates the catalog size gauge
func (h *ProductHandler) updateProductsMetric() {
	stats := h.statsHandler.Handle(query.GetStatsQuery{})
	h.metrics.CatalogSize.Set(float64(stats.TotalProducts))
}

func productID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, apperr.Invalid("invalid product id")
	}
	return id, nil
}

func parseListQuery(r *http.Request) (query.ListProductsQuery, error) {
	v := r.URL.Query()
	q := query.ListProductsQuery{
		Category: v.Get("category"),
		Search:   v.Get("search"),
		Sort:     v.Get("sort"),
	}

	for _, b := range v["brand"] {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				q.Brands = append(q.Brands, part)
			}
		}
	}

	var err error
	floats := map[string]*float64{
		"min_price":  &q.MinPrice,
		"max_price":  &q.MaxPrice,
		"min_rating": &q.MinRating,
	}
	for key, dst := range floats {
		if s := v.Get(key); s != "" {
			if *dst, err = strconv.ParseFloat(s, 64); err != nil {
				return q, apperr.Invalid("invalid %s", key)
			}
		}
	}

	ints := map[string]*int{
		"limit":  &q.Limit,
		"offset": &q.Offset,
	}
	for key, dst := range ints {
		if s := v.Get(key); s != "" {
			if *dst, err = strconv.Atoi(s); err != nil || *dst < 0 {
				return q, apperr.Invalid("invalid %s", key)
			}
		}
	}

	if s := v.Get("featured"); s != "" {
		if q.Featured, err = strconv.ParseBool(s); err != nil {
			return q, apperr.Invalid("invalid featured")
		}
	}
	return q, nil
}
