package command

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/storefront/internal/order/domain"
	"github.com/tair/storefront/internal/store"
	"github.com/tair/storefront/pkg/apperr"
	"github.com/tair/storefront/pkg/logger"
)

// TrackingNumberPrefix starts every carrier tracking number
const TrackingNumberPrefix = "TRK-"

// SetStatusCommand represents the command to move an order to a new status
type SetStatusCommand struct {
	OrderID string
	Status  string
}

// SetStatusHandler handles order status transitions
type SetStatusHandler struct {
	store     Transactor
	publisher domain.EventPublisher
}

// NewSetStatusHandler creates a new set status handler
func NewSetStatusHandler(s Transactor, publisher domain.EventPublisher) *SetStatusHandler {
	if publisher == nil {
		publisher = domain.NoopPublisher{}
	}
	return &SetStatusHandler{store: s, publisher: publisher}
}

// Handle applies the transition, recomputes tracking and keeps the owning
// customer's totals in line with cancellations
func (h *SetStatusHandler) Handle(ctx context.Context, cmd SetStatusCommand) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "ledger.SetStatus",
		trace.WithAttributes(
			attribute.String("order.id", cmd.OrderID),
			attribute.String("order.status", cmd.Status),
		),
	)
	defer span.End()

	if cmd.OrderID == "" {
		err := apperr.Invalid("order_id is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var updated domain.Order
	var previous string
	var changedAt time.Time
	err := h.store.RunInTransaction(func(tx *store.Tx) error {
		o, err := tx.Order(cmd.OrderID)
		if err != nil {
			return err
		}
		if err := domain.CheckTransition(o.Status, cmd.Status); err != nil {
			return err
		}

		previous = o.Status
		changedAt = tx.Now()
		o.Status = cmd.Status
		o.Tracking = domain.AdvanceTracking(o.Tracking, cmd.Status)

		switch cmd.Status {
		case domain.StatusShipped:
			if o.TrackingNumber == "" {
				o.TrackingNumber = newTrackingNumber()
			}
		case domain.StatusDelivered:
			if o.ActualDelivery == nil {
				delivered := changedAt
				o.ActualDelivery = &delivered
			}
		}

		entering := previous != domain.StatusCancelled && cmd.Status == domain.StatusCancelled
		leaving := previous == domain.StatusCancelled && cmd.Status != domain.StatusCancelled
		if entering || leaving {
			if u, ok := tx.UserByEmail(o.CustomerEmail); ok {
				if entering {
					u.TotalOrders--
					u.TotalSpent -= o.Total
				} else {
					u.TotalOrders++
					u.TotalSpent += o.Total
				}
				if u.TotalOrders < 0 {
					u.TotalOrders = 0
				}
				if u.TotalSpent < 0 {
					u.TotalSpent = 0
				}
			}
		}

		updated = o.Clone()
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("order.previous_status", previous))

	logger.Info(ctx).
		Str("order_id", updated.ID).
		Str("previous_status", previous).
		Str("status", updated.Status).
		Msg("Order status updated")

	event := domain.OrderStatusChangedEvent{
		EventID:        uuid.NewString(),
		EventType:      domain.EventTypeOrderStatusChanged,
		OrderID:        updated.ID,
		PreviousStatus: previous,
		Status:         updated.Status,
		Timestamp:      changedAt,
	}
	if err := h.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("order_id", updated.ID).Msg("Failed to publish order status event")
	}

	return &updated, nil
}

func newTrackingNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return TrackingNumberPrefix + strings.ToUpper(id[:10])
}
