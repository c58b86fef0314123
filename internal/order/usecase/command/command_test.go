package command

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/order/domain"
	productdomain "github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/internal/store"
	userdomain "github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
)

var now = time.Date(2024, 1, 28, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu      sync.Mutex
	placed  []domain.OrderPlacedEvent
	changed []domain.OrderStatusChangedEvent
	err     error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, e domain.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.placed = append(p.placed, e)
	return p.err
}

func (p *recordingPublisher) PublishOrderStatusChanged(_ context.Context, e domain.OrderStatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, e)
	return p.err
}

type fixture struct {
	store     *store.Store
	publisher *recordingPublisher
	place     *PlaceOrderHandler
	setStatus *SetStatusHandler
	userID    int64
	productID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := store.New(store.WithClock(func() time.Time { return now }))
	uid, err := s.AddUser(userdomain.NewUser{Name: "Tanzeel Yousef", Email: "tanzeel@example.com"})
	require.NoError(t, err)
	pid, err := s.AddProduct(productdomain.NewProduct{Name: "Headphones", Price: 1000, Category: "Audio", Stock: 5})
	require.NoError(t, err)

	pub := &recordingPublisher{}
	return &fixture{
		store:     s,
		publisher: pub,
		place:     NewPlaceOrderHandler(s, pub),
		setStatus: NewSetStatusHandler(s, pub),
		userID:    uid,
		productID: pid,
	}
}

func (f *fixture) placeOne(t *testing.T) *domain.Order {
	t.Helper()
	o, err := f.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerEmail: "tanzeel@example.com",
		Items:         []domain.Item{{ProductID: f.productID, Quantity: 2, Name: "Headphones", Price: 1000}},
	})
	require.NoError(t, err)
	return o
}

func TestPlaceOrderAppliesAllEffects(t *testing.T) {
	f := newFixture(t)

	o := f.placeOne(t)

	assert.Equal(t, domain.FormatID(now), o.ID)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, domain.Tracking{Ordered: true}, o.Tracking)
	assert.Equal(t, 2000.0, o.Total)
	assert.Equal(t, "Tanzeel Yousef", o.CustomerName)
	assert.Equal(t, now.Add(domain.EstimatedDeliveryWindow), o.EstimatedDelivery)

	p, err := f.store.FindProduct(f.productID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Sold)
	assert.Equal(t, 5, p.Stock, "stock is managed separately")

	u, err := f.store.FindUser(f.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.TotalOrders)
	assert.Equal(t, 2000.0, u.TotalSpent)
	assert.Equal(t, now, u.LastLogin)

	stored, err := f.store.FindOrder(o.ID)
	require.NoError(t, err)
	assert.Equal(t, *o, stored)

	require.Len(t, f.publisher.placed, 1)
	assert.Equal(t, o.ID, f.publisher.placed[0].OrderID)
	assert.Equal(t, domain.EventTypeOrderPlaced, f.publisher.placed[0].EventType)
}

func TestPlaceOrderFoldsShippingAndTax(t *testing.T) {
	f := newFixture(t)

	o, err := f.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerEmail: "tanzeel@example.com",
		Items:         []domain.Item{{ProductID: f.productID, Quantity: 1, Price: 1000}},
		ShippingFee:   200,
		Tax:           20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1220.0, o.Total)

	u, _ := f.store.FindUser(f.userID)
	assert.Equal(t, 1220.0, u.TotalSpent)
}

func TestPlaceOrderGuest(t *testing.T) {
	f := newFixture(t)

	o, err := f.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerName:  "Guest",
		CustomerEmail: "guest@example.com",
		Items:         []domain.Item{{ProductID: f.productID, Quantity: 1, Price: 1000}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Guest", o.CustomerName)

	u, _ := f.store.FindUser(f.userID)
	assert.Zero(t, u.TotalOrders)

	p, _ := f.store.FindProduct(f.productID)
	assert.Equal(t, 1, p.Sold)
}

func TestPlaceOrderUnknownProductStillPlaces(t *testing.T) {
	f := newFixture(t)

	_, err := f.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerEmail: "tanzeel@example.com",
		Items:         []domain.Item{{ProductID: 999, Quantity: 1, Price: 50}},
	})
	require.NoError(t, err)
	assert.Len(t, f.store.ListOrders(), 1)
}

func TestPlaceOrderValidation(t *testing.T) {
	tests := []struct {
		name string
		cmd  PlaceOrderCommand
	}{
		{"no items", PlaceOrderCommand{CustomerEmail: "a@x.com"}},
		{"zero quantity", PlaceOrderCommand{CustomerEmail: "a@x.com", Items: []domain.Item{{ProductID: 1, Quantity: 0, Price: 10}}}},
		{"zero price", PlaceOrderCommand{CustomerEmail: "a@x.com", Items: []domain.Item{{ProductID: 1, Quantity: 1, Price: 0}}}},
		{"no email", PlaceOrderCommand{Items: []domain.Item{{ProductID: 1, Quantity: 1, Price: 10}}}},
		{"negative tax", PlaceOrderCommand{CustomerEmail: "a@x.com", Items: []domain.Item{{ProductID: 1, Quantity: 1, Price: 10}}, Tax: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.place.Handle(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
			assert.Empty(t, f.store.ListOrders())
			assert.Empty(t, f.publisher.placed)
		})
	}
}

func TestPlaceOrderPublishFailureKeepsOrder(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")

	o := f.placeOne(t)
	_, err := f.store.FindOrder(o.ID)
	assert.NoError(t, err)
}

func TestSetStatusTracking(t *testing.T) {
	f := newFixture(t)
	o := f.placeOne(t)
	ctx := context.Background()

	shipped, err := f.setStatus.Handle(ctx, SetStatusCommand{OrderID: o.ID, Status: domain.StatusShipped})
	require.NoError(t, err)
	assert.Equal(t, domain.Tracking{Ordered: true, Confirmed: true, Shipped: true}, shipped.Tracking)
	assert.True(t, strings.HasPrefix(shipped.TrackingNumber, TrackingNumberPrefix))

	delivered, err := f.setStatus.Handle(ctx, SetStatusCommand{OrderID: o.ID, Status: domain.StatusDelivered})
	require.NoError(t, err)
	assert.Equal(t, domain.Tracking{Ordered: true, Confirmed: true, Shipped: true, Delivered: true}, delivered.Tracking)
	assert.Equal(t, shipped.TrackingNumber, delivered.TrackingNumber)
	require.NotNil(t, delivered.ActualDelivery)
	assert.Equal(t, now, *delivered.ActualDelivery)

	_, err = f.setStatus.Handle(ctx, SetStatusCommand{OrderID: o.ID, Status: domain.StatusCancelled})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	stored, _ := f.store.FindOrder(o.ID)
	assert.Equal(t, domain.StatusDelivered, stored.Status)

	require.Len(t, f.publisher.changed, 2)
	assert.Equal(t, domain.StatusShipped, f.publisher.changed[1].PreviousStatus)
}

func TestSetStatusCancellableFromNonDelivered(t *testing.T) {
	for _, from := range []string{domain.StatusPending, domain.StatusConfirmed, domain.StatusShipped, domain.StatusCancelled} {
		t.Run(from, func(t *testing.T) {
			f := newFixture(t)
			o := f.placeOne(t)
			ctx := context.Background()

			_, err := f.setStatus.Handle(ctx, SetStatusCommand{OrderID: o.ID, Status: from})
			require.NoError(t, err)

			got, err := f.setStatus.Handle(ctx, SetStatusCommand{OrderID: o.ID, Status: domain.StatusCancelled})
			require.NoError(t, err)
			assert.Equal(t, domain.Tracking{Ordered: true}, got.Tracking)
		})
	}
}

func TestSetStatusCancellationAccounting(t *testing.T) {
	f := newFixture(t)
	o := f.placeOne(t)
	ctx := context.Background()

	_, err := f.setStatus.Handle(ctx, SetStatusCommand{OrderID: o.ID, Status: domain.StatusCancelled})
	require.NoError(t, err)
	u, _ := f.store.FindUser(f.userID)
	assert.Zero(t, u.TotalOrders)
	assert.Zero(t, u.TotalSpent)

	_, err = f.setStatus.Handle(ctx, SetStatusCommand{OrderID: o.ID, Status: domain.StatusCancelled})
	require.NoError(t, err)
	u, _ = f.store.FindUser(f.userID)
	assert.Zero(t, u.TotalOrders, "repeat cancellation does not double count")

	_, err = f.setStatus.Handle(ctx, SetStatusCommand{OrderID: o.ID, Status: domain.StatusPending})
	require.NoError(t, err)
	u, _ = f.store.FindUser(f.userID)
	assert.Equal(t, 1, u.TotalOrders)
	assert.Equal(t, 2000.0, u.TotalSpent)
}

func TestSetStatusErrors(t *testing.T) {
	f := newFixture(t)
	o := f.placeOne(t)
	ctx := context.Background()

	_, err := f.setStatus.Handle(ctx, SetStatusCommand{OrderID: "ORD-404", Status: domain.StatusShipped})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.setStatus.Handle(ctx, SetStatusCommand{OrderID: o.ID, Status: "lost"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = f.setStatus.Handle(ctx, SetStatusCommand{Status: domain.StatusShipped})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestConcurrentPlacementIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.place.Handle(ctx, PlaceOrderCommand{
				CustomerEmail: "tanzeel@example.com",
				Items:         []domain.Item{{ProductID: f.productID, Quantity: 1, Price: 1000}},
			})
			assert.NoError(t, err)
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := f.store.Snapshot()
			var sold int
			for _, p := range snap.Products {
				sold += p.Sold
			}
			assert.Equal(t, len(snap.Orders), sold)
			assert.Equal(t, len(snap.Orders), snap.Users[0].TotalOrders)
		}()
	}
	wg.Wait()

	snap := f.store.Snapshot()
	assert.Len(t, snap.Orders, 20)
	assert.Equal(t, 20, snap.Products[0].Sold)
	assert.Equal(t, 20, snap.Users[0].TotalOrders)
	assert.Equal(t, 20000.0, snap.Users[0].TotalSpent)
}
