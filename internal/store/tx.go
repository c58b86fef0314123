package store

import (
	"strings"
	"time"

	orderdomain "github.com/tair/storefront/internal/order/domain"
	productdomain "github.com/tair/storefront/internal/product/domain"
	userdomain "github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// Tx is the mutable view handed to RunInTransaction callbacks.
// Pointers returned by Tx refer to the transaction's private copy and must not
// escape the callback.
type Tx struct {
	state state
	now   time.Time
}

// Now is the time the transaction started
func (tx *Tx) Now() time.Time {
	return tx.now
}

// User returns the user with id
func (tx *Tx) User(id int64) (*userdomain.User, error) {
	i := tx.state.userIndex(id)
	if i < 0 {
		return nil, apperr.NotFound("user %d", id)
	}
	return &tx.state.users[i], nil
}

// UserByEmail returns the user registered with email, if any
func (tx *Tx) UserByEmail(email string) (*userdomain.User, bool) {
	i := tx.state.emailIndex(email)
	if i < 0 {
		return nil, false
	}
	return &tx.state.users[i], true
}

// InsertUser adds a user with account defaults and returns the assigned id
func (tx *Tx) InsertUser(n userdomain.NewUser) (int64, error) {
	name := strings.TrimSpace(n.Name)
	email := strings.TrimSpace(n.Email)
	if name == "" {
		return 0, apperr.Invalid("name is required")
	}
	if email == "" {
		return 0, apperr.Invalid("email is required")
	}
	if tx.state.emailIndex(email) >= 0 {
		return 0, apperr.Conflict("email %q already registered", email)
	}

	role := n.Role
	if role == "" {
		role = userdomain.RoleCustomer
	}
	if role != userdomain.RoleCustomer && role != userdomain.RoleAdmin {
		return 0, apperr.Invalid("invalid role %q", role)
	}

	id := tx.state.nextUserID
	tx.state.nextUserID++

	y, m, d := tx.now.Date()
	tx.state.users = append(tx.state.users, userdomain.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      role,
		JoinDate:  time.Date(y, m, d, 0, 0, 0, 0, tx.now.Location()),
		Status:    userdomain.StatusActive,
		LastLogin: tx.now,
		Phone:     n.Phone,
		Address:   n.Address,
		Avatar:    n.Avatar,
	})
	return id, nil
}

// PatchUser merges patch into the user with id, keeping emails unique.
// A new email re-derives the order totals from the orders placed under it.
func (tx *Tx) PatchUser(id int64, patch userdomain.UserPatch) error {
	u, err := tx.User(id)
	if err != nil {
		return err
	}

	emailChanged := false
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if i := tx.state.emailIndex(email); i >= 0 && tx.state.users[i].ID != id {
			return apperr.Conflict("email %q already registered", email)
		}
		emailChanged = normalizeEmail(email) != normalizeEmail(u.Email)
		patch.Email = &email
	}

	patch.Apply(u)
	if emailChanged {
		u.TotalOrders, u.TotalSpent = tx.state.customerTotals(u.Email)
	}
	return nil
}

// Product returns the product with id
func (tx *Tx) Product(id int64) (*productdomain.Product, error) {
	i := tx.state.productIndex(id)
	if i < 0 {
		return nil, apperr.NotFound("product %d", id)
	}
	return &tx.state.products[i], nil
}

// InsertProduct appends p under a freshly assigned id
func (tx *Tx) InsertProduct(p productdomain.Product) (int64, error) {
	if strings.TrimSpace(p.Name) == "" {
		return 0, apperr.Invalid("name is required")
	}

	p.ID = tx.state.nextProductID
	tx.state.nextProductID++
	p.Derive()

	tx.state.products = append(tx.state.products, p.Clone())
	return p.ID, nil
}

// RemoveProduct deletes the product with id
func (tx *Tx) RemoveProduct(id int64) error {
	i := tx.state.productIndex(id)
	if i < 0 {
		return apperr.NotFound("product %d", id)
	}
	tx.state.products = append(tx.state.products[:i], tx.state.products[i+1:]...)
	return nil
}

// Order returns the order with id
func (tx *Tx) Order(id string) (*orderdomain.Order, error) {
	i := tx.state.orderIndex(id)
	if i < 0 {
		return nil, apperr.NotFound("order %s", id)
	}
	return &tx.state.orders[i], nil
}

// InsertOrder records o as the most recent order.
// An empty id is replaced with one derived from the transaction time, moved
// forward a millisecond at a time until it is unused.
func (tx *Tx) InsertOrder(o orderdomain.Order) (string, error) {
	if o.ID == "" {
		ts := tx.now
		o.ID = orderdomain.FormatID(ts)
		for tx.state.orderIndex(o.ID) >= 0 {
			ts = ts.Add(time.Millisecond)
			o.ID = orderdomain.FormatID(ts)
		}
	} else if tx.state.orderIndex(o.ID) >= 0 {
		return "", apperr.Conflict("order %s already exists", o.ID)
	}

	orders := make([]orderdomain.Order, 0, len(tx.state.orders)+1)
	orders = append(orders, o.Clone())
	tx.state.orders = append(orders, tx.state.orders...)
	return o.ID, nil
}
