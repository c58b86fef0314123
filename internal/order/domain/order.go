package domain

import (
	"fmt"
	"time"

	"github.com/tair/storefront/pkg/apperr"
)

// Order statuses
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// EstimatedDeliveryWindow is added to the order date to estimate delivery
const EstimatedDeliveryWindow = 7 * 24 * time.Hour

// IDPrefix starts every order id
const IDPrefix = "ORD-"

// IsValidStatus reports whether status is one of the known order statuses
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item is one line of an order; Name, Price and Image are captured at purchase time
type Item struct {
	ProductID int64   `json:"product_id" yaml:"product_id"`
	Quantity  int     `json:"quantity" yaml:"quantity" validate:"gte=1"`
	Name      string  `json:"name" yaml:"name"`
	Price     float64 `json:"price" yaml:"price" validate:"gt=0"`
	Image     string  `json:"image" yaml:"image"`
}

// LineTotal is price times quantity
func (i Item) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Tracking summarizes order progress
type Tracking struct {
	Ordered   bool `json:"ordered" yaml:"ordered"`
	Confirmed bool `json:"confirmed" yaml:"confirmed"`
	Shipped   bool `json:"shipped" yaml:"shipped"`
	Delivered bool `json:"delivered" yaml:"delivered"`
}

// NewTracking is the tracking state of a freshly placed order
func NewTracking() Tracking {
	return Tracking{Ordered: true}
}

// Order represents a placed order
type Order struct {
	ID                string     `json:"id" yaml:"id"`
	Date              time.Time  `json:"date" yaml:"date"`
	Status            string     `json:"status" yaml:"status"`
	Total             float64    `json:"total" yaml:"total"`
	CustomerName      string     `json:"customer_name" yaml:"customer_name"`
	CustomerEmail     string     `json:"customer_email" yaml:"customer_email"`
	Items             []Item     `json:"items" yaml:"items"`
	Tracking          Tracking   `json:"tracking" yaml:"tracking"`
	EstimatedDelivery time.Time  `json:"estimated_delivery" yaml:"estimated_delivery"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty" yaml:"actual_delivery"`
	ShippingAddress   string     `json:"shipping_address" yaml:"shipping_address"`
	PaymentMethod     string     `json:"payment_method" yaml:"payment_method"`
	TrackingNumber    string     `json:"tracking_number,omitempty" yaml:"tracking_number"`
}

// IsCancelled reports whether the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// Clone returns a deep copy of o
func (o Order) Clone() Order {
	o.Items = append([]Item(nil), o.Items...)
	if o.ActualDelivery != nil {
		t := *o.ActualDelivery
		o.ActualDelivery = &t
	}
	return o
}

// FormatID builds an order id from its creation time
func FormatID(t time.Time) string {
	return fmt.Sprintf("%s%d", IDPrefix, t.UnixMilli())
}

// CheckTransition validates moving an order from current to next.
// Only cancelling a delivered order is rejected; every other move between known
// statuses is accepted, including backward ones.
func CheckTransition(current, next string) error {
	if !IsValidStatus(next) {
		return apperr.Invalid("unknown order status %q", next)
	}
	if next == StatusCancelled && current == StatusDelivered {
		return apperr.Transition("delivered orders cannot be cancelled")
	}
	return nil
}

// AdvanceTracking recomputes tracking for status. Ordered is never altered.
func AdvanceTracking(t Tracking, status string) Tracking {
	t.Confirmed = status == StatusConfirmed || status == StatusShipped || status == StatusDelivered
	t.Shipped = status == StatusShipped || status == StatusDelivered
	t.Delivered = status == StatusDelivered
	return t
}
