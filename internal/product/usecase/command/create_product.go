package command

import (
	"github.com/go-playground/validator/v10"

	"github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// CreateProductCommand represents the command to add a product to the catalog
type CreateProductCommand struct {
	Product domain.NewProduct
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo     domain.ProductRepository
	validate *validator.Validate
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, validate: validator.New()}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(cmd CreateProductCommand) (*domain.Product, error) {
	if err := h.validate.Struct(cmd.Product); err != nil {
		return nil, apperr.FromValidation(err)
	}

	id, err := h.repo.AddProduct(cmd.Product)
	if err != nil {
		return nil, err
	}

	product, err := h.repo.FindProduct(id)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
