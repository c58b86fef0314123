package domain

import (
	"strings"
	"time"

	"github.com/tair/storefront/pkg/apperr"
)

// Role types
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Account statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User represents a storefront account.
// TotalOrders and TotalSpent are maintained by the order ledger only.
type User struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Email       string    `json:"email" yaml:"email"`
	Role        string    `json:"role" yaml:"role"`
	JoinDate    time.Time `json:"join_date" yaml:"join_date"`
	TotalOrders int       `json:"total_orders" yaml:"total_orders"`
	TotalSpent  float64   `json:"total_spent" yaml:"total_spent"`
	Status      string    `json:"status" yaml:"status"`
	LastLogin   time.Time `json:"last_login" yaml:"last_login"`
	Phone       string    `json:"phone,omitempty" yaml:"phone"`
	Address     string    `json:"address,omitempty" yaml:"address"`
	Avatar      string    `json:"avatar,omitempty" yaml:"avatar"`
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsCustomer checks if user has customer role
func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

// Public returns the session-safe projection of the user
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Avatar: u.Avatar,
	}
}

// PublicUser is the identity handed to session holders
type PublicUser struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// NewUser carries the caller-supplied fields of a user to be added
type NewUser struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Role    string `json:"role" validate:"omitempty,oneof=customer admin"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Avatar  string `json:"avatar"`
}

// UserPatch lists the fields an update may change; nil fields are left untouched
type UserPatch struct {
	Name      *string    `json:"name,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Role      *string    `json:"role,omitempty"`
	Status    *string    `json:"status,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Address   *string    `json:"address,omitempty"`
	Avatar    *string    `json:"avatar,omitempty"`
}

// Validate checks the patch before it is merged
func (p UserPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperr.Invalid("name cannot be empty")
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) == "" {
		return apperr.Invalid("email cannot be empty")
	}
	if p.Role != nil && *p.Role != RoleCustomer && *p.Role != RoleAdmin {
		return apperr.Invalid("invalid role %q", *p.Role)
	}
	if p.Status != nil && *p.Status != StatusActive && *p.Status != StatusInactive {
		return apperr.Invalid("invalid status %q", *p.Status)
	}
	return nil
}

// Apply merges the patch into u
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.LastLogin != nil {
		u.LastLogin = *p.LastLogin
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
}
