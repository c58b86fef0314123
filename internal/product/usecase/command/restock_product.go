package command

import (
	"github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// RestockProductCommand represents the command to add units to a product's stock
type RestockProductCommand struct {
	ProductID int64
	Quantity  int
}

// RestockProductHandler handles restock command
type RestockProductHandler struct {
	repo domain.ProductRepository
}

// NewRestockProductHandler creates a new restock handler
func NewRestockProductHandler(repo domain.ProductRepository) *RestockProductHandler {
	return &RestockProductHandler{repo: repo}
}

// Handle executes the restock command
func (h *RestockProductHandler) Handle(cmd RestockProductCommand) (*domain.Product, error) {
	if cmd.ProductID <= 0 {
		return nil, apperr.Invalid("invalid product id")
	}
	if cmd.Quantity < 1 {
		return nil, apperr.Invalid("quantity must be at least 1")
	}

	if err := h.repo.RestockProduct(cmd.ProductID, cmd.Quantity); err != nil {
		return nil, err
	}

	product, err := h.repo.FindProduct(cmd.ProductID)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
