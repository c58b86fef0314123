package query

import (
	"sort"
	"strings"

	"github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// Sort orders accepted by ListProductsQuery
const (
	SortRelevance   = "relevance"
	SortPriceLow    = "price-low"
	SortPriceHigh   = "price-high"
	SortRating      = "rating"
	SortNewest      = "newest"
	SortBestselling = "bestselling"
)

// ListProductsQuery represents the catalog browsing query
type ListProductsQuery struct {
	Category  string   // Optional: case-insensitive, "all" means no filter
	Search    string   // Optional: matched against name, description and tags
	Brands    []string // Optional: exact brand names
	MinPrice  float64
	MaxPrice  float64 // Zero means no upper bound
	MinRating float64
	Featured  bool
	Sort      string
	Limit     int
	Offset    int
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(query ListProductsQuery) ([]domain.Product, error) {
	less, err := sortFunc(query.Sort)
	if err != nil {
		return nil, err
	}
	if query.MaxPrice != 0 && query.MaxPrice < query.MinPrice {
		return nil, apperr.Invalid("max price %v is below min price %v", query.MaxPrice, query.MinPrice)
	}

	products := Filter(h.repo.ListProducts(), query)
	if less != nil {
		sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
	}

	if query.Offset > 0 {
		if query.Offset >= len(products) {
			return []domain.Product{}, nil
		}
		products = products[query.Offset:]
	}
	if query.Limit > 0 && len(products) > query.Limit {
		products = products[:query.Limit]
	}
	return products, nil
}

// Filter keeps the products matching every criterion set on query, in input order
func Filter(products []domain.Product, query ListProductsQuery) []domain.Product {
	category := strings.TrimSpace(query.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}
	search := strings.ToLower(strings.TrimSpace(query.Search))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if len(query.Brands) > 0 && !contains(query.Brands, p.Brand) {
			continue
		}
		if p.Price < query.MinPrice || (query.MaxPrice > 0 && p.Price > query.MaxPrice) {
			continue
		}
		if p.Rating < query.MinRating {
			continue
		}
		if query.Featured && !p.Featured {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p domain.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortFunc(order string) (func(a, b domain.Product) bool, error) {
	switch order {
	case "", SortRelevance:
		return nil, nil
	case SortPriceLow:
		return func(a, b domain.Product) bool { return a.Price < b.Price }, nil
	case SortPriceHigh:
		return func(a, b domain.Product) bool { return a.Price > b.Price }, nil
	case SortRating:
		return func(a, b domain.Product) bool { return a.Rating > b.Rating }, nil
	case SortNewest:
		return func(a, b domain.Product) bool { return a.ID > b.ID }, nil
	case SortBestselling:
		return func(a, b domain.Product) bool { return a.Sold > b.Sold }, nil
	default:
		return nil, apperr.Invalid("unknown sort %q", order)
	}
}
