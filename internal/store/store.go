// Package store is the exclusive owner of the storefront's users, products and orders.
//
// All state lives in process memory behind a single RWMutex. Every mutation runs in
// RunInTransaction against a cloned copy of the state which replaces the live state
// only when the mutation succeeds, so readers never observe a half-applied change.
// Reads return deep copies; callers never hold references into the store.
package store

import (
	"sync"
	"time"

	orderdomain "github.com/tair/storefront/internal/order/domain"
	productdomain "github.com/tair/storefront/internal/product/domain"
	userdomain "github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
)

// Snapshot is a point-in-time deep copy of the store contents.
// Orders are most-recent-first; users and products are in insertion order.
type Snapshot struct {
	Users    []userdomain.User       `json:"users" yaml:"users"`
	Products []productdomain.Product `json:"products" yaml:"products"`
	Orders   []orderdomain.Order     `json:"orders" yaml:"orders"`
}

// Store provides the in-memory transactional entity store
type Store struct {
	mu    sync.RWMutex
	state state
	nowFn func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for ids, dates and defaults
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		s.nowFn = fn
	}
}

// New constructs an empty store
func New(opts ...Option) *Store {
	s := &Store{
		state: newState(),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock's current time
func (s *Store) Now() time.Time {
	return s.nowFn()
}

// RunInTransaction executes fn against a transactional copy of the state.
// The copy replaces the live state only if fn returns nil.
func (s *Store) RunInTransaction(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		state: s.state.clone(),
		now:   s.nowFn(),
	}
	if err := fn(tx); err != nil {
		return err
	}

	s.state = tx.state
	return nil
}

// Snapshot returns a deep copy of every collection taken under one read lock
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.snapshot()
}

// Import replaces the store contents with snapshot, validating unique keys
// and recomputing derived product fields.
func (s *Store) Import(snapshot Snapshot) error {
	st, err := stateFromSnapshot(snapshot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	return nil
}

// ListUsers returns all users in insertion order
func (s *Store) ListUsers() []userdomain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]userdomain.User(nil), s.state.users...)
}

// FindUser returns the user with id
func (s *Store) FindUser(id int64) (userdomain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.state.userIndex(id)
	if i < 0 {
		return userdomain.User{}, apperr.NotFound("user %d", id)
	}
	return s.state.users[i], nil
}

// FindUserByEmail returns the user registered with email
func (s *Store) FindUserByEmail(email string) (userdomain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.state.emailIndex(email)
	if i < 0 {
		return userdomain.User{}, apperr.NotFound("user %q", email)
	}
	return s.state.users[i], nil
}

// AddUser inserts a new user with account defaults and returns its id
func (s *Store) AddUser(n userdomain.NewUser) (int64, error) {
	var id int64
	err := s.RunInTransaction(func(tx *Tx) error {
		var err error
		id, err = tx.InsertUser(n)
		return err
	})
	return id, err
}

// UpdateUser merges patch into the user with id
func (s *Store) UpdateUser(id int64, patch userdomain.UserPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return s.RunInTransaction(func(tx *Tx) error {
		return tx.PatchUser(id, patch)
	})
}

// ListProducts returns all products in insertion order
func (s *Store) ListProducts() []productdomain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.state.products)
}

// FindProduct returns the product with id
func (s *Store) FindProduct(id int64) (productdomain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.state.productIndex(id)
	if i < 0 {
		return productdomain.Product{}, apperr.NotFound("product %d", id)
	}
	return s.state.products[i].Clone(), nil
}

// AddProduct inserts a catalog entry built from n and returns its id
func (s *Store) AddProduct(n productdomain.NewProduct) (int64, error) {
	if n.Price <= 0 {
		return 0, apperr.Invalid("price must be greater than 0")
	}
	if n.Stock < 0 {
		return 0, apperr.Invalid("stock cannot be negative")
	}

	var id int64
	err := s.RunInTransaction(func(tx *Tx) error {
		var err error
		id, err = tx.InsertProduct(n.Build())
		return err
	})
	return id, err
}

// UpdateProduct merges patch into the product with id
func (s *Store) UpdateProduct(id int64, patch productdomain.ProductPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return s.RunInTransaction(func(tx *Tx) error {
		p, err := tx.Product(id)
		if err != nil {
			return err
		}
		patch.Apply(p)
		return nil
	})
}

// RestockProduct adds quantity units to the product's stock
func (s *Store) RestockProduct(id int64, quantity int) error {
	if quantity < 1 {
		return apperr.Invalid("restock quantity must be at least 1")
	}
	return s.RunInTransaction(func(tx *Tx) error {
		p, err := tx.Product(id)
		if err != nil {
			return err
		}
		p.Stock += quantity
		p.Derive()
		return nil
	})
}

// DeleteProduct removes the product with id from the catalog
func (s *Store) DeleteProduct(id int64) error {
	return s.RunInTransaction(func(tx *Tx) error {
		return tx.RemoveProduct(id)
	})
}

// ListOrders returns all orders, most recent first
func (s *Store) ListOrders() []orderdomain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.state.orders)
}

// FindOrder returns the order with id
func (s *Store) FindOrder(id string) (orderdomain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.state.orderIndex(id)
	if i < 0 {
		return orderdomain.Order{}, apperr.NotFound("order %s", id)
	}
	return s.state.orders[i].Clone(), nil
}
