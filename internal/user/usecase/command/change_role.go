package command

import (
	"github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// ChangeRoleCommand represents the command to change a user's role (admin only)
type ChangeRoleCommand struct {
	UserID int64
	Role   string
}

// ChangeRoleHandler handles role change command
type ChangeRoleHandler struct {
	update *UpdateUserHandler
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{update: NewUpdateUserHandler(repo)}
}

// Handle executes the change role command
func (h *ChangeRoleHandler) Handle(cmd ChangeRoleCommand) (*domain.User, error) {
	if cmd.Role != domain.RoleCustomer && cmd.Role != domain.RoleAdmin {
		return nil, apperr.Invalid("invalid role %q", cmd.Role)
	}
	return h.update.Handle(UpdateUserCommand{
		UserID: cmd.UserID,
		Patch:  domain.UserPatch{Role: &cmd.Role},
	})
}
