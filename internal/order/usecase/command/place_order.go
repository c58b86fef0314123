package command

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/storefront/internal/order/domain"
	"github.com/tair/storefront/internal/store"
	"github.com/tair/storefront/pkg/apperr"
	"github.com/tair/storefront/pkg/logger"
)

var tracer = otel.Tracer("order-ledger")

// Transactor runs a mutation against the entity store atomically
type Transactor interface {
	RunInTransaction(fn func(tx *store.Tx) error) error
}

// PlaceOrderCommand represents the command to place a new order.
// ShippingFee and Tax are already computed by the caller, usually from a domain.Quote.
type PlaceOrderCommand struct {
	CustomerName    string
	CustomerEmail   string        `validate:"required"`
	Items           []domain.Item `validate:"required,min=1,dive"`
	ShippingAddress string
	PaymentMethod   string
	ShippingFee     float64 `validate:"gte=0"`
	Tax             float64 `validate:"gte=0"`
}

// PlaceOrderHandler handles order placement
type PlaceOrderHandler struct {
	store     Transactor
	publisher domain.EventPublisher
	validate  *validator.Validate
}

// NewPlaceOrderHandler creates a new place order handler
func NewPlaceOrderHandler(s Transactor, publisher domain.EventPublisher) *PlaceOrderHandler {
	if publisher == nil {
		publisher = domain.NoopPublisher{}
	}
	return &PlaceOrderHandler{
		store:     s,
		publisher: publisher,
		validate:  validator.New(),
	}
}

// Handle creates the order and applies its effects on the customer and the
// catalog in one transaction
func (h *PlaceOrderHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "ledger.PlaceOrder",
		trace.WithAttributes(
			attribute.String("order.customer_email", cmd.CustomerEmail),
			attribute.Int("order.items", len(cmd.Items)),
		),
	)
	defer span.End()

	if len(cmd.Items) == 0 {
		err := apperr.Invalid("order must contain at least one item")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := h.validate.Struct(cmd); err != nil {
		err = apperr.FromValidation(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var placed domain.Order
	var matchedUser bool
	err := h.store.RunInTransaction(func(tx *store.Tx) error {
		now := tx.Now()
		order := domain.Order{
			Date:              now,
			Status:            domain.StatusPending,
			Total:             domain.Subtotal(cmd.Items) + cmd.ShippingFee + cmd.Tax,
			CustomerName:      strings.TrimSpace(cmd.CustomerName),
			CustomerEmail:     strings.TrimSpace(cmd.CustomerEmail),
			Items:             append([]domain.Item(nil), cmd.Items...),
			Tracking:          domain.NewTracking(),
			EstimatedDelivery: now.Add(domain.EstimatedDeliveryWindow),
			ShippingAddress:   cmd.ShippingAddress,
			PaymentMethod:     cmd.PaymentMethod,
		}

		if u, ok := tx.UserByEmail(order.CustomerEmail); ok {
			matchedUser = true
			if order.CustomerName == "" {
				order.CustomerName = u.Name
			}
			u.TotalOrders++
			u.TotalSpent += order.Total
			u.LastLogin = now
		}

		for _, it := range order.Items {
			p, err := tx.Product(it.ProductID)
			if err != nil {
				// product left the catalog after it was carted
				continue
			}
			p.Sold += it.Quantity
		}

		id, err := tx.InsertOrder(order)
		if err != nil {
			return err
		}
		order.ID = id
		placed = order
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.id", placed.ID),
		attribute.Float64("order.total", placed.Total),
		attribute.Bool("order.registered_customer", matchedUser),
	)

	logger.Info(ctx).
		Str("order_id", placed.ID).
		Str("customer_email", placed.CustomerEmail).
		Float64("total", placed.Total).
		Int("items", len(placed.Items)).
		Bool("registered_customer", matchedUser).
		Msg("Order placed")

	event := domain.OrderPlacedEvent{
		EventID:       uuid.NewString(),
		EventType:     domain.EventTypeOrderPlaced,
		OrderID:       placed.ID,
		CustomerEmail: placed.CustomerEmail,
		Total:         placed.Total,
		Items:         placed.Items,
		PaymentMethod: placed.PaymentMethod,
		Timestamp:     placed.Date,
	}
	if err := h.publisher.PublishOrderPlaced(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("order_id", placed.ID).Msg("Failed to publish order placed event")
	}

	return &placed, nil
}
