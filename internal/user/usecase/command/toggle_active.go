package command

import (
	"github.com/tair/storefront/internal/user/domain"
)

// ToggleActiveCommand represents the command to activate/deactivate user (admin only)
type ToggleActiveCommand struct {
	UserID   int64
	IsActive bool
}

// ToggleActiveHandler handles user activation toggle command
type ToggleActiveHandler struct {
	update *UpdateUserHandler
}

// NewToggleActiveHandler creates a new toggle active handler
func NewToggleActiveHandler(repo domain.UserRepository) *ToggleActiveHandler {
	return &ToggleActiveHandler{update: NewUpdateUserHandler(repo)}
}

// Handle executes the toggle active command
func (h *ToggleActiveHandler) Handle(cmd ToggleActiveCommand) (*domain.User, error) {
	status := domain.StatusInactive
	if cmd.IsActive {
		status = domain.StatusActive
	}
	return h.update.Handle(UpdateUserCommand{
		UserID: cmd.UserID,
		Patch:  domain.UserPatch{Status: &status},
	})
}
