package command

import (
	"github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// DeleteProductCommand represents the command to delete a product
type DeleteProductCommand struct {
	ID int64
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	repo domain.ProductRepository
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo}
}

// Handle executes the delete product command.
// Orders keep their captured item name, price and image after the product is gone.
func (h *DeleteProductHandler) Handle(cmd DeleteProductCommand) error {
	if cmd.ID <= 0 {
		return apperr.Invalid("invalid product id")
	}
	return h.repo.DeleteProduct(cmd.ID)
}
