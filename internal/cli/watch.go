package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	orderdomain "github.com/tair/storefront/internal/order/domain"
	"github.com/tair/storefront/kafka"
	"github.com/tair/storefront/pkg/logger"
)

// NewWatchCommand creates the watch command, which tails order events from Kafka
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	var groupID string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Log order events published by a running storefront",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(opts)

			consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, groupID, kafka.Topics)
			if err != nil {
				return err
			}
			defer consumer.Close()

			consumer.RegisterHandler(orderdomain.EventTypeOrderPlaced, kafka.OrderPlacedHandler(logOrderPlaced))
			consumer.RegisterHandler(orderdomain.EventTypeOrderStatusChanged, kafka.OrderStatusChangedHandler(logStatusChanged))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := consumer.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&groupID, "group", "storefront-watch", "Kafka consumer group")
	return cmd
}

func logOrderPlaced(ctx context.Context, e orderdomain.OrderPlacedEvent) error {
	logger.Info(ctx).
		Str("order_id", e.OrderID).
		Str("customer_email", e.CustomerEmail).
		Float64("total", e.Total).
		Int("items", len(e.Items)).
		Time("placed_at", e.Timestamp).
		Msg("Order placed")
	return nil
}

func logStatusChanged(ctx context.Context, e orderdomain.OrderStatusChangedEvent) error {
	logger.Info(ctx).
		Str("order_id", e.OrderID).
		Str("from", e.PreviousStatus).
		Str("to", e.Status).
		Time("changed_at", e.Timestamp).
		Msg("Order status changed")
	return nil
}
