package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/storefront/internal/analytics"
	analyticshttp "github.com/tair/storefront/internal/analytics/delivery/http"
	orderhttp "github.com/tair/storefront/internal/order/delivery/http"
	producthttp "github.com/tair/storefront/internal/product/delivery/http"
	sessionhttp "github.com/tair/storefront/internal/session/delivery/http"
	userhttp "github.com/tair/storefront/internal/user/delivery/http"
	userquery "github.com/tair/storefront/internal/user/usecase/query"
	"github.com/tair/storefront/pkg/logger"
	"github.com/tair/storefront/pkg/middleware"
)

// Server is the storefront HTTP API
type Server struct {
	router    *mux.Router
	engine    *analytics.Engine
	userStats *userquery.GetStatsHandler
	metrics   *middleware.Metrics
}

// NewServer registers every route on a fresh router
func NewServer(
	authHandler *sessionhttp.AuthHandler,
	productHandler *producthttp.ProductHandler,
	userHandler *userhttp.UserHandler,
	orderHandler *orderhttp.OrderHandler,
	analyticsHandler *analyticshttp.AnalyticsHandler,
	engine *analytics.Engine,
	userStats *userquery.GetStatsHandler,
	metrics *middleware.Metrics,
	reg *prometheus.Registry,
) *Server {
	router := mux.NewRouter()

	authHandler.RegisterRoutes(router)
	productHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router)
	analyticsHandler.RegisterRoutes(router)

	s := &Server{
		router:    router,
		engine:    engine,
		userStats: userStats,
		metrics:   metrics,
	}

	router.HandleFunc("/health", s.health).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	s.RefreshMetrics()
	return s
}

// Use appends router-level middleware, applied after route matching
func (s *Server) Use(mw ...mux.MiddlewareFunc) {
	s.router.Use(mw...)
}

// Handler returns the router wrapped with CORS, request logging and tracing
func (s *Server) Handler(serviceName string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return otelhttp.NewHandler(c.Handler(middleware.Logging(s.router)), serviceName)
}

// RefreshMetrics sets the storefront gauges from the current store contents
func (s *Server) RefreshMetrics() {
	overview := s.engine.Overview()
	s.metrics.CatalogSize.Set(float64(overview.TotalProducts))
	s.metrics.LowStockProducts.Set(float64(len(overview.LowStock)))
	s.metrics.ActiveUsers.Set(float64(s.userStats.Handle(userquery.GetStatsQuery{}).ActiveUsers))
}

// RunMetricsRefresher refreshes the gauges every interval until ctx is cancelled
func (s *Server) RunMetricsRefresher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshMetrics()
			logger.Debug(ctx).Msg("Storefront gauges refreshed")
		}
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	overview := s.engine.Overview()
	middleware.RespondOK(w, http.StatusOK, "Storefront is healthy", map[string]int{
		"products":  overview.TotalProducts,
		"orders":    overview.TotalOrders,
		"customers": overview.TotalCustomers,
	})
}
