package query

import (
	"github.com/tair/storefront/internal/user/domain"
)

// GetStatsQuery represents the query to get user statistics (admin only)
type GetStatsQuery struct{}

// UserStats represents user statistics
type UserStats struct {
	TotalUsers    int     `json:"total_users"`
	AdminCount    int     `json:"admin_count"`
	CustomerCount int     `json:"customer_count"`
	ActiveUsers   int     `json:"active_users"`
	TotalSpent    float64 `json:"total_spent"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.UserRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.UserRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(_ GetStatsQuery) *UserStats {
	users := h.repo.ListUsers()

	stats := &UserStats{TotalUsers: len(users)}
	for _, u := range users {
		switch u.Role {
		case domain.RoleAdmin:
			stats.AdminCount++
		case domain.RoleCustomer:
			stats.CustomerCount++
		}
		if u.Status == domain.StatusActive {
			stats.ActiveUsers++
		}
		stats.TotalSpent += u.TotalSpent
	}
	return stats
}
