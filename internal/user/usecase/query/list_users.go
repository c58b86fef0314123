package query

import (
	"strings"

	"github.com/tair/storefront/internal/user/domain"
)

// ListUsersQuery represents the query to list users in registration order
type ListUsersQuery struct {
	Role   string // Optional
	Status string // Optional
	Search string // Optional: matched against name and email
}

// ListUsersHandler handles list users query
type ListUsersHandler struct {
	repo domain.UserRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

// Handle executes the list users query
func (h *ListUsersHandler) Handle(query ListUsersQuery) []domain.User {
	search := strings.ToLower(strings.TrimSpace(query.Search))

	users := h.repo.ListUsers()
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if query.Role != "" && u.Role != query.Role {
			continue
		}
		if query.Status != "" && u.Status != query.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		out = append(out, u)
	}
	return out
}
