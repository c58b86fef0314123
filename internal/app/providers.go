// Package app assembles the storefront HTTP server from the entity store and its services.
package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/storefront/internal/analytics"
	analyticshttp "github.com/tair/storefront/internal/analytics/delivery/http"
	"github.com/tair/storefront/internal/order"
	orderhttp "github.com/tair/storefront/internal/order/delivery/http"
	ordercommand "github.com/tair/storefront/internal/order/usecase/command"
	orderquery "github.com/tair/storefront/internal/order/usecase/query"
	producthttp "github.com/tair/storefront/internal/product/delivery/http"
	productdomain "github.com/tair/storefront/internal/product/domain"
	productcommand "github.com/tair/storefront/internal/product/usecase/command"
	productquery "github.com/tair/storefront/internal/product/usecase/query"
	"github.com/tair/storefront/internal/session"
	sessionhttp "github.com/tair/storefront/internal/session/delivery/http"
	"github.com/tair/storefront/internal/store"
	userhttp "github.com/tair/storefront/internal/user/delivery/http"
	userdomain "github.com/tair/storefront/internal/user/domain"
	usercommand "github.com/tair/storefront/internal/user/usecase/command"
	userquery "github.com/tair/storefront/internal/user/usecase/query"
	"github.com/tair/storefront/pkg/middleware"
)

// LowStockThreshold is the stock level under which analytics flags a product
type LowStockThreshold int

// Repository providers bind the entity store to the interfaces each service reads through
func ProvideUserRepository(s *store.Store) userdomain.UserRepository {
	return s
}

func ProvideProductRepository(s *store.Store) productdomain.ProductRepository {
	return s
}

func ProvideTransactor(s *store.Store) ordercommand.Transactor {
	return s
}

func ProvideOrderReader(s *store.Store) orderquery.OrderReader {
	return s
}

func ProvideProductFinder(s *store.Store) order.ProductFinder {
	return s
}

func ProvideSnapshotSource(s *store.Store) analytics.SnapshotSource {
	return s
}

func ProvideRegisterer(reg *prometheus.Registry) prometheus.Registerer {
	return reg
}

func ProvideAuthenticator(b *session.Binding) middleware.Authenticator {
	return b
}

func ProvideEngine(src analytics.SnapshotSource, threshold LowStockThreshold) *analytics.Engine {
	return analytics.NewEngine(src, int(threshold))
}

var RepositorySet = wire.NewSet(
	ProvideUserRepository,
	ProvideProductRepository,
	ProvideTransactor,
	ProvideOrderReader,
	ProvideProductFinder,
	ProvideSnapshotSource,
)

var UserHandlerSet = wire.NewSet(
	usercommand.NewCreateUserHandler,
	usercommand.NewUpdateUserHandler,
	usercommand.NewChangeRoleHandler,
	usercommand.NewToggleActiveHandler,
	userquery.NewGetUserHandler,
	userquery.NewListUsersHandler,
	userquery.NewGetStatsHandler,
	userhttp.NewUserHandlerWithDI,
)

var ProductHandlerSet = wire.NewSet(
	productcommand.NewCreateProductHandler,
	productcommand.NewUpdateProductHandler,
	productcommand.NewDeleteProductHandler,
	productcommand.NewRestockProductHandler,
	productquery.NewGetProductHandler,
	productquery.NewListProductsHandler,
	productquery.NewGetStatsHandler,
	producthttp.NewProductHandlerWithDI,
)

var OrderHandlerSet = wire.NewSet(
	ordercommand.NewPlaceOrderHandler,
	ordercommand.NewSetStatusHandler,
	orderquery.NewGetOrderHandler,
	orderquery.NewListOrdersHandler,
	order.NewLedger,
	orderhttp.NewOrderHandlerWithDI,
)

var SessionSet = wire.NewSet(
	session.NewBinding,
	ProvideAuthenticator,
	sessionhttp.NewAuthHandlerWithDI,
)

var AnalyticsSet = wire.NewSet(
	ProvideEngine,
	analyticshttp.NewAnalyticsHandlerWithDI,
)

var ServerSet = wire.NewSet(
	ProvideRegisterer,
	middleware.NewMetrics,
	middleware.NewGuard,
	NewServer,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	UserHandlerSet,
	ProductHandlerSet,
	OrderHandlerSet,
	SessionSet,
	AnalyticsSet,
	ServerSet,
)
