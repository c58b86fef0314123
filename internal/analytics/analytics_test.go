package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/tair/storefront/internal/order/domain"
	productdomain "github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/internal/store"
	userdomain "github.com/tair/storefront/internal/user/domain"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
}

func fixture() store.Snapshot {
	return store.Snapshot{
		Users: []userdomain.User{
			{ID: 1, Email: "a@example.com", Role: userdomain.RoleCustomer},
			{ID: 2, Email: "b@example.com", Role: userdomain.RoleCustomer},
			{ID: 3, Email: "admin@example.com", Role: userdomain.RoleAdmin},
		},
		Products: []productdomain.Product{
			{ID: 1, Category: "Electronics", Price: 1000, Sold: 10, Stock: 25, Status: productdomain.StatusActive, Featured: true},
			{ID: 2, Category: "Audio", Price: 500, Sold: 30, Stock: 5, Status: productdomain.StatusActive},
			{ID: 3, Category: "Toys", Price: 200, Sold: 30, Stock: 0, Status: productdomain.StatusOutOfStock},
			{ID: 4, Category: "Audio", Price: 100, Sold: 1, Stock: 9, Status: productdomain.StatusActive},
			{ID: 5, Category: "Books", Price: 50, Sold: 0, Stock: 10, Status: productdomain.StatusActive},
			{ID: 6, Category: "Gaming", Price: 10, Sold: 2, Stock: 100, Status: productdomain.StatusActive},
		},
		Orders: []orderdomain.Order{
			{ID: "ORD-3", Date: day(20), Status: orderdomain.StatusPending},
			{ID: "ORD-2", Date: day(25), Status: orderdomain.StatusShipped},
			{ID: "ORD-1b", Date: day(10), Status: orderdomain.StatusDelivered},
			{ID: "ORD-1a", Date: day(10), Status: orderdomain.StatusDelivered},
			{ID: "ORD-0", Date: day(1), Status: orderdomain.StatusCancelled},
			{ID: "ORD-4", Date: day(15), Status: orderdomain.StatusPending},
		},
	}
}

func TestTotals(t *testing.T) {
	snap := fixture()

	assert.Equal(t, 10000.0+15000+6000+100+0+20, TotalRevenue(snap.Products))
	assert.Equal(t, 2, TotalCustomers(snap.Users))
	assert.Zero(t, TotalRevenue(nil))
}

func TestRevenueByCategoryClosedSet(t *testing.T) {
	snap := fixture()
	got := RevenueByCategory(snap.Products)

	assert.Len(t, got, len(productdomain.Categories))
	assert.Equal(t, 10000.0, got["Electronics"])
	assert.Equal(t, 15100.0, got["Audio"])
	assert.Equal(t, 0.0, got["Fashion"])
	assert.NotContains(t, got, "Toys")

	var sum float64
	for _, v := range got {
		sum += v
	}
	assert.LessOrEqual(t, sum, TotalRevenue(snap.Products))
	assert.Equal(t, TotalRevenue(snap.Products)-6000, sum)
}

func TestTopSellingProducts(t *testing.T) {
	snap := fixture()

	top := TopSellingProducts(snap.Products, 3)
	require.Len(t, top, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{top[0].ID, top[1].ID, top[2].ID})

	assert.Empty(t, TopSellingProducts(snap.Products, 0))
	assert.Empty(t, TopSellingProducts(snap.Products, -3))
	assert.Len(t, TopSellingProducts(snap.Products, 50), len(snap.Products))

	all := TopSellingProducts(snap.Products, 50)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Sold, all[i].Sold)
	}

	assert.Equal(t, int64(1), snap.Products[0].ID, "input is not reordered")
}

func TestRecentOrders(t *testing.T) {
	snap := fixture()

	recent := RecentOrders(snap.Orders, 4)
	ids := make([]string, len(recent))
	for i, o := range recent {
		ids[i] = o.ID
	}
	assert.Equal(t, []string{"ORD-2", "ORD-3", "ORD-4", "ORD-1b"}, ids)

	for _, n := range []int{0, 1, 5, 6, 10} {
		got := RecentOrders(snap.Orders, n)
		want := n
		if want > len(snap.Orders) {
			want = len(snap.Orders)
		}
		assert.Len(t, got, want)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].Date.After(got[i-1].Date))
		}
	}

	assert.Empty(t, RecentOrders(nil, 5))
	assert.Empty(t, RecentOrders(snap.Orders, -1))
}

func TestLowStockProducts(t *testing.T) {
	snap := fixture()

	low := LowStockProducts(snap.Products, 10)
	require.Len(t, low, 3)
	assert.Equal(t, []int64{2, 3, 4}, []int64{low[0].ID, low[1].ID, low[2].ID})

	assert.Empty(t, LowStockProducts(snap.Products, 0))
	assert.Len(t, LowStockProducts(snap.Products, 1), 1)
	assert.NotNil(t, LowStockProducts(nil, 10))
}

func TestEngineOverview(t *testing.T) {
	s := store.New()
	require.NoError(t, s.Import(fixture()))

	e := NewEngine(s, 0)
	assert.Equal(t, DefaultLowStockThreshold, e.LowStockThreshold())
	assert.Equal(t, 2, e.TotalCustomers())
	assert.Equal(t, 31120.0, e.TotalRevenue())
	assert.Len(t, e.LowStockProducts(), 3)
	assert.Len(t, e.RecentOrders(2), 2)
	assert.Len(t, e.TopSellingProducts(2), 2)
	assert.Equal(t, 10000.0, e.RevenueByCategory()["Electronics"])

	o := e.Overview()
	assert.Equal(t, 6, o.TotalProducts)
	assert.Equal(t, 6, o.TotalOrders)
	assert.Equal(t, 2, o.TotalCustomers)
	assert.Equal(t, 5, o.ActiveProducts)
	assert.Equal(t, 1, o.OutOfStockProducts)
	assert.Equal(t, 1, o.FeaturedProducts)
	assert.Equal(t, 2, o.OrdersByStatus[orderdomain.StatusPending])
	assert.Equal(t, "ORD-2", o.RecentOrders[0].ID)
	assert.Equal(t, int64(2), o.TopSelling[0].ID)
}
