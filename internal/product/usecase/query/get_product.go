package query

import (
	"github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID int64
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.ProductRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(query GetProductQuery) (*domain.Product, error) {
	if query.ID <= 0 {
		return nil, apperr.Invalid("invalid product id")
	}

	product, err := h.repo.FindProduct(query.ID)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
