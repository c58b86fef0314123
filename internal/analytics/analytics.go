// Package analytics answers aggregate questions over a snapshot of the store.
// Every function is pure: the same snapshot always yields the same answer.
package analytics

import (
	"sort"

	orderdomain "github.com/tair/storefront/internal/order/domain"
	productdomain "github.com/tair/storefront/internal/product/domain"
	userdomain "github.com/tair/storefront/internal/user/domain"
)

// Defaults used when a caller does not choose a size or threshold
const (
	DefaultTopN              = 5
	DefaultRecentN           = 5
	DefaultLowStockThreshold = 10
)

// TotalRevenue sums price times units sold over the catalog.
// Current catalog prices are used, not the prices paid on orders.
func TotalRevenue(products []productdomain.Product) float64 {
	var total float64
	for i := range products {
		total += products[i].Revenue()
	}
	return total
}

// TotalCustomers counts users with the customer role
func TotalCustomers(users []userdomain.User) int {
	var n int
	for i := range users {
		if users[i].IsCustomer() {
			n++
		}
	}
	return n
}

// RevenueByCategory reports revenue for every category of the closed set.
// Products in other categories are left out.
func RevenueByCategory(products []productdomain.Product) map[string]float64 {
	out := make(map[string]float64, len(productdomain.Categories))
	for _, c := range productdomain.Categories {
		out[c] = 0
	}
	for i := range products {
		if _, ok := out[products[i].Category]; ok {
			out[products[i].Category] += products[i].Revenue()
		}
	}
	return out
}

// TopSellingProducts returns up to n products by units sold, ties kept in catalog order.
// A non-positive n yields an empty result.
func TopSellingProducts(products []productdomain.Product, n int) []productdomain.Product {
	sorted := append([]productdomain.Product(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sold > sorted[j].Sold })
	return head(sorted, n)
}

// RecentOrders returns up to n orders by date, newest first, ties kept in input order.
// A non-positive n yields an empty result.
func RecentOrders(orders []orderdomain.Order, n int) []orderdomain.Order {
	sorted := append([]orderdomain.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })
	return head(sorted, n)
}

// LowStockProducts returns products with stock below threshold in catalog order
func LowStockProducts(products []productdomain.Product, threshold int) []productdomain.Product {
	out := make([]productdomain.Product, 0)
	for i := range products {
		if products[i].Stock < threshold {
			out = append(out, products[i])
		}
	}
	return out
}

func head[T any](s []T, n int) []T {
	if n <= 0 {
		return s[:0]
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
