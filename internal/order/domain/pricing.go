package domain

import (
	"math"

	"github.com/tair/storefront/pkg/apperr"
)

// Shipping methods offered at checkout
const (
	ShippingStandard = "standard"
	ShippingExpress  = "express"
)

// Checkout fees
const (
	StandardShippingFee = 200.0
	ExpressShippingFee  = 500.0
	TaxRate             = 0.02
)

// Quote is the checkout breakdown a caller folds into an order total
type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shipping_fee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

// NewQuote prices items for the given shipping method
func NewQuote(items []Item, method string) (Quote, error) {
	var fee float64
	switch method {
	case "", ShippingStandard:
		fee = StandardShippingFee
	case ShippingExpress:
		fee = ExpressShippingFee
	default:
		return Quote{}, apperr.Invalid("unknown shipping method %q", method)
	}

	subtotal := Subtotal(items)
	tax := math.Round(subtotal * TaxRate)

	return Quote{
		Subtotal:    subtotal,
		ShippingFee: fee,
		Tax:         tax,
		Total:       subtotal + fee + tax,
	}, nil
}

// Subtotal sums price times quantity over items
func Subtotal(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.LineTotal()
	}
	return sum
}
