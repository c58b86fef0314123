package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/storefront/internal/store"
	"github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
)

func TestCreateUser(t *testing.T) {
	s := store.New()
	h := NewCreateUserHandler(s)

	u, err := h.Handle(CreateUserCommand{User: domain.NewUser{Name: "Ahmed Khan", Email: "ahmed@example.com"}})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, u.Role)
	assert.Equal(t, domain.StatusActive, u.Status)

	_, err = h.Handle(CreateUserCommand{User: domain.NewUser{Name: "Dup", Email: "ahmed@example.com"}})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = h.Handle(CreateUserCommand{User: domain.NewUser{Name: "No Email"}})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = h.Handle(CreateUserCommand{User: domain.NewUser{Name: "x", Email: "x@example.com", Role: "owner"}})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestRoleAndStatusChanges(t *testing.T) {
	s := store.New()
	u, err := NewCreateUserHandler(s).Handle(CreateUserCommand{User: domain.NewUser{Name: "Sara Ali", Email: "sara@example.com"}})
	require.NoError(t, err)

	promoted, err := NewChangeRoleHandler(s).Handle(ChangeRoleCommand{UserID: u.ID, Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	_, err = NewChangeRoleHandler(s).Handle(ChangeRoleCommand{UserID: u.ID, Role: "root"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	off, err := NewToggleActiveHandler(s).Handle(ToggleActiveCommand{UserID: u.ID, IsActive: false})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, off.Status)

	on, err := NewToggleActiveHandler(s).Handle(ToggleActiveCommand{UserID: u.ID, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, on.Status)

	_, err = NewToggleActiveHandler(s).Handle(ToggleActiveCommand{UserID: 42})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateUser(t *testing.T) {
	s := store.New()
	u, _ := NewCreateUserHandler(s).Handle(CreateUserCommand{User: domain.NewUser{Name: "A", Email: "a@example.com"}})
	_, _ = NewCreateUserHandler(s).Handle(CreateUserCommand{User: domain.NewUser{Name: "B", Email: "b@example.com"}})

	phone := "+92 300 0000000"
	got, err := NewUpdateUserHandler(s).Handle(UpdateUserCommand{UserID: u.ID, Patch: domain.UserPatch{Phone: &phone}})
	require.NoError(t, err)
	assert.Equal(t, phone, got.Phone)

	taken := "b@example.com"
	_, err = NewUpdateUserHandler(s).Handle(UpdateUserCommand{UserID: u.ID, Patch: domain.UserPatch{Email: &taken}})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = NewUpdateUserHandler(s).Handle(UpdateUserCommand{Patch: domain.UserPatch{Phone: &phone}})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
