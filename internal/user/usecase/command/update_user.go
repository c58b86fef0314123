package command

import (
	"github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// UpdateUserCommand represents the command to update a user's profile fields
type UpdateUserCommand struct {
	UserID int64
	Patch  domain.UserPatch
}

// UpdateUserHandler handles user update command
type UpdateUserHandler struct {
	repo domain.UserRepository
}

// NewUpdateUserHandler creates a new update user handler
func NewUpdateUserHandler(repo domain.UserRepository) *UpdateUserHandler {
	return &UpdateUserHandler{repo: repo}
}

// Handle executes the update user command
func (h *UpdateUserHandler) Handle(cmd UpdateUserCommand) (*domain.User, error) {
	if cmd.UserID <= 0 {
		return nil, apperr.Invalid("invalid user id")
	}

	if err := h.repo.UpdateUser(cmd.UserID, cmd.Patch); err != nil {
		return nil, err
	}

	user, err := h.repo.FindUser(cmd.UserID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
