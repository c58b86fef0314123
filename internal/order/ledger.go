// Package order is the order ledger: placement and status transitions with their
// effects on customers and the catalog, plus order reads.
package order

import (
	"context"

	"github.com/tair/storefront/internal/order/domain"
	"github.com/tair/storefront/internal/order/usecase/command"
	"github.com/tair/storefront/internal/order/usecase/query"
	productdomain "github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// ProductFinder resolves catalog entries at checkout
type ProductFinder interface {
	FindProduct(id int64) (productdomain.Product, error)
}

// CartLine is one product and quantity submitted at checkout
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CheckoutCommand prices a cart against the catalog and places it as an order
type CheckoutCommand struct {
	CustomerName    string
	CustomerEmail   string
	Lines           []CartLine
	ShippingAddress string
	PaymentMethod   string
	ShippingMethod  string
}

// Ledger groups the order command and query handlers
type Ledger struct {
	placeOrder *command.PlaceOrderHandler
	setStatus  *command.SetStatusHandler
	getOrder   *query.GetOrderHandler
	listOrders *query.ListOrdersHandler
	catalog    ProductFinder
}

// NewLedger creates a ledger from its handlers.
// This is used by Wire for automatic dependency injection.
func NewLedger(
	placeOrder *command.PlaceOrderHandler,
	setStatus *command.SetStatusHandler,
	getOrder *query.GetOrderHandler,
	listOrders *query.ListOrdersHandler,
	catalog ProductFinder,
) *Ledger {
	return &Ledger{
		placeOrder: placeOrder,
		setStatus:  setStatus,
		getOrder:   getOrder,
		listOrders: listOrders,
		catalog:    catalog,
	}
}

// PlaceOrder records a new pending order and returns it
func (l *Ledger) PlaceOrder(ctx context.Context, cmd command.PlaceOrderCommand) (*domain.Order, error) {
	return l.placeOrder.Handle(ctx, cmd)
}

// SetStatus moves an order to status
func (l *Ledger) SetStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	return l.setStatus.Handle(ctx, command.SetStatusCommand{OrderID: orderID, Status: status})
}

// GetOrder returns one order
func (l *Ledger) GetOrder(q query.GetOrderQuery) (*domain.Order, error) {
	return l.getOrder.Handle(q)
}

// ListOrders returns orders most recent first
func (l *Ledger) ListOrders(q query.ListOrdersQuery) []domain.Order {
	return l.listOrders.Handle(q)
}

// Quote prices cart lines at current catalog prices
func (l *Ledger) Quote(lines []CartLine, shippingMethod string) ([]domain.Item, domain.Quote, error) {
	if len(lines) == 0 {
		return nil, domain.Quote{}, apperr.Invalid("cart is empty")
	}

	items := make([]domain.Item, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, domain.Quote{}, apperr.Invalid("quantity for product %d must be at least 1", line.ProductID)
		}
		p, err := l.catalog.FindProduct(line.ProductID)
		if err != nil {
			return nil, domain.Quote{}, err
		}
		if !p.IsAvailable() {
			return nil, domain.Quote{}, apperr.Invalid("product %d is out of stock", p.ID)
		}

		item := domain.Item{
			ProductID: p.ID,
			Quantity:  line.Quantity,
			Name:      p.Name,
			Price:     p.Price,
		}
		if len(p.Images) > 0 {
			item.Image = p.Images[0]
		}
		items = append(items, item)
	}

	q, err := domain.NewQuote(items, shippingMethod)
	if err != nil {
		return nil, domain.Quote{}, err
	}
	return items, q, nil
}

// Checkout quotes the cart and places it with shipping and tax folded into the total
func (l *Ledger) Checkout(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error) {
	items, q, err := l.Quote(cmd.Lines, cmd.ShippingMethod)
	if err != nil {
		return nil, err
	}

	return l.placeOrder.Handle(ctx, command.PlaceOrderCommand{
		CustomerName:    cmd.CustomerName,
		CustomerEmail:   cmd.CustomerEmail,
		Items:           items,
		ShippingAddress: cmd.ShippingAddress,
		PaymentMethod:   cmd.PaymentMethod,
		ShippingFee:     q.ShippingFee,
		Tax:             q.Tax,
	})
}
