package domain

import (
	"strings"

	"github.com/tair/storefront/pkg/apperr"
)

// Product statuses, derived from stock
const (
	StatusActive     = "active"
	StatusOutOfStock = "out_of_stock"
)

// Catalog defaults applied when an admin adds a product
const (
	FreeShippingThreshold = 2000.0
	DefaultRating         = 4.0
	DefaultImage          = "/placeholder.svg"
	DefaultBrand          = "Tanzeel's Brand"
	DefaultSeller         = "Tanzeel's Store"
	DefaultSellerID       = 1
	DefaultWarranty       = "1 Year Warranty"
	NewArrivalTag         = "new"
)

// Categories is the closed category set recognized by analytics and filtering
var Categories = []string{
	"Electronics",
	"Audio",
	"Fashion",
	"Home & Living",
	"Sports",
	"Beauty",
	"Books",
	"Gaming",
}

// IsKnownCategory reports whether category belongs to the closed set
func IsKnownCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Product represents a catalog entry
type Product struct {
	ID            int64    `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	Price         float64  `json:"price" yaml:"price"`
	OriginalPrice float64  `json:"original_price" yaml:"original_price"`
	Category      string   `json:"category" yaml:"category"`
	Stock         int      `json:"stock" yaml:"stock"`
	Sold          int      `json:"sold" yaml:"sold"`
	Rating        float64  `json:"rating" yaml:"rating"`
	Reviews       int      `json:"reviews" yaml:"reviews"`
	Images        []string `json:"images" yaml:"images"`
	Status        string   `json:"status" yaml:"status"`
	Brand         string   `json:"brand" yaml:"brand"`
	FreeShipping  bool     `json:"free_shipping" yaml:"free_shipping"`
	Warranty      string   `json:"warranty" yaml:"warranty"`
	Seller        string   `json:"seller" yaml:"seller"`
	SellerID      int64    `json:"seller_id" yaml:"seller_id"`
	Tags          []string `json:"tags" yaml:"tags"`
	Featured      bool     `json:"featured" yaml:"featured"`
}

// IsAvailable checks if product is in stock
func (p *Product) IsAvailable() bool {
	return p.Stock > 0
}

// OnSale reports whether the product is discounted from its original price
func (p *Product) OnSale() bool {
	return p.OriginalPrice > p.Price
}

// Revenue is the catalog-side revenue estimate: current price times units sold
func (p *Product) Revenue() float64 {
	return p.Price * float64(p.Sold)
}

// Derive recomputes the fields that follow from stock and price.
// It is invoked on every add and update.
func (p *Product) Derive() {
	p.Status = DeriveStatus(p.Stock)
	p.FreeShipping = DeriveFreeShipping(p.Price)
}

// DeriveStatus maps stock to a product status
func DeriveStatus(stock int) string {
	if stock == 0 {
		return StatusOutOfStock
	}
	return StatusActive
}

// DeriveFreeShipping reports whether price qualifies for free shipping
func DeriveFreeShipping(price float64) bool {
	return price >= FreeShippingThreshold
}

// Clone returns a deep copy of p
func (p Product) Clone() Product {
	p.Images = append([]string(nil), p.Images...)
	p.Tags = append([]string(nil), p.Tags...)
	return p
}

// NewProduct carries the admin-supplied fields of a product to be added
type NewProduct struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" validate:"gt=0"`
	OriginalPrice float64  `json:"original_price" validate:"gte=0"`
	Category      string   `json:"category" validate:"required"`
	Stock         int      `json:"stock" validate:"gte=0"`
	Rating        float64  `json:"rating" validate:"gte=0,lte=5"`
	Images        []string `json:"images"`
	Brand         string   `json:"brand"`
	Warranty      string   `json:"warranty"`
	Seller        string   `json:"seller"`
	SellerID      int64    `json:"seller_id"`
	Tags          []string `json:"tags"`
	Featured      bool     `json:"featured"`
}

// Build turns the new product into a catalog entry with catalog defaults applied.
// The id is left zero for the store to assign.
func (n NewProduct) Build() Product {
	p := Product{
		Name:          n.Name,
		Description:   n.Description,
		Price:         n.Price,
		OriginalPrice: n.OriginalPrice,
		Category:      n.Category,
		Stock:         n.Stock,
		Rating:        n.Rating,
		Images:        append([]string(nil), n.Images...),
		Brand:         n.Brand,
		Warranty:      n.Warranty,
		Seller:        n.Seller,
		SellerID:      n.SellerID,
		Tags:          dedupe(n.Tags),
		Featured:      n.Featured,
	}

	if p.OriginalPrice == 0 {
		p.OriginalPrice = p.Price
	}
	if p.Rating == 0 {
		p.Rating = DefaultRating
	}
	if len(p.Images) == 0 {
		p.Images = []string{DefaultImage}
	}
	if p.Brand == "" {
		p.Brand = DefaultBrand
	}
	if p.Warranty == "" {
		p.Warranty = DefaultWarranty
	}
	if p.Seller == "" {
		p.Seller = DefaultSeller
		p.SellerID = DefaultSellerID
	}
	if len(p.Tags) == 0 {
		p.Tags = []string{strings.ToLower(p.Category), NewArrivalTag}
	}

	p.Derive()
	return p
}

// ProductPatch lists the fields an update may change; nil fields are left untouched
type ProductPatch struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Price         *float64  `json:"price,omitempty"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Stock         *int      `json:"stock,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	Images        *[]string `json:"images,omitempty"`
	Brand         *string   `json:"brand,omitempty"`
	Warranty      *string   `json:"warranty,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	Featured      *bool     `json:"featured,omitempty"`
}

// Validate checks the patch before it is merged
func (p ProductPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperr.Invalid("name cannot be empty")
	}
	if p.Price != nil && *p.Price < 0 {
		return apperr.Invalid("price cannot be negative")
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < 0 {
		return apperr.Invalid("original price cannot be negative")
	}
	if p.Stock != nil && *p.Stock < 0 {
		return apperr.Invalid("stock cannot be negative")
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5) {
		return apperr.Invalid("rating must be between 0 and 5")
	}
	if p.Images != nil && len(*p.Images) == 0 {
		return apperr.Invalid("images cannot be empty")
	}
	return nil
}

// Apply merges the patch into product and recomputes derived fields
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.OriginalPrice != nil {
		product.OriginalPrice = *p.OriginalPrice
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.Rating != nil {
		product.Rating = *p.Rating
	}
	if p.Images != nil {
		product.Images = append([]string(nil), (*p.Images)...)
	}
	if p.Brand != nil {
		product.Brand = *p.Brand
	}
	if p.Warranty != nil {
		product.Warranty = *p.Warranty
	}
	if p.Tags != nil {
		product.Tags = dedupe(*p.Tags)
	}
	if p.Featured != nil {
		product.Featured = *p.Featured
	}
	product.Derive()
}

// dedupe keeps the first occurrence of each tag
func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
