package query

import (
	"github.com/tair/storefront/internal/product/domain"
)

// GetStatsQuery represents the query to get catalog statistics
type GetStatsQuery struct{}

// ProductStats represents catalog statistics
type ProductStats struct {
	TotalProducts      int            `json:"total_products"`
	ActiveProducts     int            `json:"active_products"`
	OutOfStockProducts int            `json:"out_of_stock_products"`
	FeaturedProducts   int            `json:"featured_products"`
	TotalStock         int            `json:"total_stock"`
	AveragePrice       float64        `json:"average_price"`
	ByCategory         map[string]int `json:"by_category"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.ProductRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.ProductRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(_ GetStatsQuery) *ProductStats {
	return ComputeStats(h.repo.ListProducts())
}

// ComputeStats summarizes products
func ComputeStats(products []domain.Product) *ProductStats {
	stats := &ProductStats{
		TotalProducts: len(products),
		ByCategory:    make(map[string]int),
	}

	var totalPrice float64
	for _, p := range products {
		switch p.Status {
		case domain.StatusActive:
			stats.ActiveProducts++
		case domain.StatusOutOfStock:
			stats.OutOfStockProducts++
		}
		if p.Featured {
			stats.FeaturedProducts++
		}
		stats.TotalStock += p.Stock
		totalPrice += p.Price
		stats.ByCategory[p.Category]++
	}

	if len(products) > 0 {
		stats.AveragePrice = totalPrice / float64(len(products))
	}
	return stats
}
