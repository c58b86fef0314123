package analytics

import (
	orderdomain "github.com/tair/storefront/internal/order/domain"
	productdomain "github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/internal/store"
)

// SnapshotSource yields a consistent copy of the store contents
type SnapshotSource interface {
	Snapshot() store.Snapshot
}

// Engine evaluates analytics against the live store
type Engine struct {
	src               SnapshotSource
	lowStockThreshold int
}

// NewEngine creates an engine; a non-positive threshold selects DefaultLowStockThreshold
func NewEngine(src SnapshotSource, lowStockThreshold int) *Engine {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &Engine{src: src, lowStockThreshold: lowStockThreshold}
}

// LowStockThreshold is the threshold used by LowStockProducts
func (e *Engine) LowStockThreshold() int {
	return e.lowStockThreshold
}

// TotalRevenue is the catalog revenue estimate
func (e *Engine) TotalRevenue() float64 {
	return TotalRevenue(e.src.Snapshot().Products)
}

// TotalCustomers counts customer accounts
func (e *Engine) TotalCustomers() int {
	return TotalCustomers(e.src.Snapshot().Users)
}

// RevenueByCategory reports revenue per known category
func (e *Engine) RevenueByCategory() map[string]float64 {
	return RevenueByCategory(e.src.Snapshot().Products)
}

// TopSellingProducts returns the n best sellers
func (e *Engine) TopSellingProducts(n int) []productdomain.Product {
	return TopSellingProducts(e.src.Snapshot().Products, n)
}

// RecentOrders returns the n newest orders
func (e *Engine) RecentOrders(n int) []orderdomain.Order {
	return RecentOrders(e.src.Snapshot().Orders, n)
}

// LowStockProducts returns products below the engine's threshold
func (e *Engine) LowStockProducts() []productdomain.Product {
	return LowStockProducts(e.src.Snapshot().Products, e.lowStockThreshold)
}

// Overview is the admin dashboard summary
type Overview struct {
	TotalRevenue       float64                 `json:"total_revenue"`
	TotalProducts      int                     `json:"total_products"`
	TotalOrders        int                     `json:"total_orders"`
	TotalCustomers     int                     `json:"total_customers"`
	ActiveProducts     int                     `json:"active_products"`
	OutOfStockProducts int                     `json:"out_of_stock_products"`
	FeaturedProducts   int                     `json:"featured_products"`
	OrdersByStatus     map[string]int          `json:"orders_by_status"`
	RevenueByCategory  map[string]float64      `json:"revenue_by_category"`
	TopSelling         []productdomain.Product `json:"top_selling"`
	RecentOrders       []orderdomain.Order     `json:"recent_orders"`
	LowStock           []productdomain.Product `json:"low_stock"`
}

// Overview computes every dashboard figure from a single snapshot
func (e *Engine) Overview() Overview {
	return BuildOverview(e.src.Snapshot(), e.lowStockThreshold)
}

// BuildOverview computes the dashboard summary of snap
func BuildOverview(snap store.Snapshot, lowStockThreshold int) Overview {
	o := Overview{
		TotalRevenue:      TotalRevenue(snap.Products),
		TotalProducts:     len(snap.Products),
		TotalOrders:       len(snap.Orders),
		TotalCustomers:    TotalCustomers(snap.Users),
		OrdersByStatus:    make(map[string]int),
		RevenueByCategory: RevenueByCategory(snap.Products),
		TopSelling:        TopSellingProducts(snap.Products, DefaultTopN),
		RecentOrders:      RecentOrders(snap.Orders, DefaultRecentN),
		LowStock:          LowStockProducts(snap.Products, lowStockThreshold),
	}

	for i := range snap.Products {
		switch snap.Products[i].Status {
		case productdomain.StatusActive:
			o.ActiveProducts++
		case productdomain.StatusOutOfStock:
			o.OutOfStockProducts++
		}
		if snap.Products[i].Featured {
			o.FeaturedProducts++
		}
	}
	for i := range snap.Orders {
		o.OrdersByStatus[snap.Orders[i].Status]++
	}
	return o
}
