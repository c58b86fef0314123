package command

import (
	"github.com/go-playground/validator/v10"

	"github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// CreateUserCommand represents the command to add a user account (admin only)
type CreateUserCommand struct {
	User domain.NewUser
}

// CreateUserHandler handles user creation command
type CreateUserHandler struct {
	repo     domain.UserRepository
	validate *validator.Validate
}

// NewCreateUserHandler creates a new create user handler
func NewCreateUserHandler(repo domain.UserRepository) *CreateUserHandler {
	return &CreateUserHandler{repo: repo, validate: validator.New()}
}

// Handle executes the create user command
func (h *CreateUserHandler) Handle(cmd CreateUserCommand) (*domain.User, error) {
	if err := h.validate.Struct(cmd.User); err != nil {
		return nil, apperr.FromValidation(err)
	}

	id, err := h.repo.AddUser(cmd.User)
	if err != nil {
		return nil, err
	}

	user, err := h.repo.FindUser(id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
