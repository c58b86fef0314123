//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	orderdomain "github.com/tair/storefront/internal/order/domain"
	"github.com/tair/storefront/internal/session"
	"github.com/tair/storefront/internal/store"
	"github.com/tair/storefront/pkg/auth"
)

// InitializeServer wires the HTTP server around an already seeded store
func InitializeServer(
	s *store.Store,
	creds session.CredentialStore,
	holders session.HolderStore,
	tokens *auth.TokenManager,
	publisher orderdomain.EventPublisher,
	reg *prometheus.Registry,
	threshold LowStockThreshold,
) (*Server, error) {
	wire.Build(AllHandlersSet)
	return nil, nil
}
