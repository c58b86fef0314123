package query

import (
	"github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// GetUserQuery represents the query to get a user by ID or email
type GetUserQuery struct {
	UserID int64
	Email  string
}

// GetUserHandler handles get user query
type GetUserHandler struct {
	repo domain.UserRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// Handle executes the get user query
func (h *GetUserHandler) Handle(query GetUserQuery) (*domain.User, error) {
	var (
		user domain.User
		err  error
	)
	switch {
	case query.UserID > 0:
		user, err = h.repo.FindUser(query.UserID)
	case query.Email != "":
		user, err = h.repo.FindUserByEmail(query.Email)
	default:
		return nil, apperr.Invalid("user id or email is required")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
