package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/pkg/apperr"
)

func TestCheckTransition(t *testing.T) {
	statuses := []string{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

	for _, from := range statuses {
		for _, to := range statuses {
			err := CheckTransition(from, to)
			if from == StatusDelivered && to == StatusCancelled {
				assert.ErrorIs(t, err, apperr.ErrInvalidTransition, "%s -> %s", from, to)
				continue
			}
			assert.NoError(t, err, "%s -> %s", from, to)
		}
	}

	assert.ErrorIs(t, CheckTransition(StatusPending, "lost"), apperr.ErrInvalidArgument)
}

func TestAdvanceTracking(t *testing.T) {
	tests := []struct {
		status string
		want   Tracking
	}{
		{StatusPending, Tracking{Ordered: true}},
		{StatusConfirmed, Tracking{Ordered: true, Confirmed: true}},
		{StatusShipped, Tracking{Ordered: true, Confirmed: true, Shipped: true}},
		{StatusDelivered, Tracking{Ordered: true, Confirmed: true, Shipped: true, Delivered: true}},
		{StatusCancelled, Tracking{Ordered: true}},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, AdvanceTracking(NewTracking(), tt.status))
		})
	}
}

func TestAdvanceTrackingKeepsOrdered(t *testing.T) {
	got := AdvanceTracking(Tracking{}, StatusShipped)
	assert.False(t, got.Ordered)
	assert.True(t, got.Shipped)
}

func TestFormatID(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	assert.Equal(t, "ORD-1700000000123", FormatID(ts))
}

func TestOrderCloneIsDeep(t *testing.T) {
	delivered := time.Now()
	o := Order{
		Items:          []Item{{ProductID: 1, Quantity: 1}},
		ActualDelivery: &delivered,
	}

	c := o.Clone()
	c.Items[0].Quantity = 5
	*c.ActualDelivery = delivered.Add(time.Hour)

	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, delivered, *o.ActualDelivery)
}

func TestNewQuote(t *testing.T) {
	items := []Item{
		{ProductID: 1, Quantity: 2, Price: 1000},
		{ProductID: 2, Quantity: 1, Price: 525},
	}

	q, err := NewQuote(items, ShippingStandard)
	require.NoError(t, err)
	assert.Equal(t, 2525.0, q.Subtotal)
	assert.Equal(t, StandardShippingFee, q.ShippingFee)
	assert.Equal(t, 51.0, q.Tax)
	assert.Equal(t, 2525.0+200+51, q.Total)

	q, err = NewQuote(items, ShippingExpress)
	require.NoError(t, err)
	assert.Equal(t, ExpressShippingFee, q.ShippingFee)

	_, err = NewQuote(items, "drone")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
