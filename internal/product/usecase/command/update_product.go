package command

import (
	"github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// UpdateProductCommand represents the command to update a product
type UpdateProductCommand struct {
	ID    int64
	Patch domain.ProductPatch
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID <= 0 {
		return nil, apperr.Invalid("invalid product id")
	}

	if err := h.repo.UpdateProduct(cmd.ID, cmd.Patch); err != nil {
		return nil, err
	}

	product, err := h.repo.FindProduct(cmd.ID)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
