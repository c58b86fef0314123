package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/tair/storefront/internal/order/domain"
	productdomain "github.com/tair/storefront/internal/product/domain"
	userdomain "github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
)

var fixedNow = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(WithClock(func() time.Time { return fixedNow }))
}

func TestAddUserAppliesDefaults(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddUser(userdomain.NewUser{Name: "Bilal", Email: "bilal@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	u, err := s.FindUser(id)
	require.NoError(t, err)
	assert.Equal(t, userdomain.RoleCustomer, u.Role)
	assert.Equal(t, userdomain.StatusActive, u.Status)
	assert.Zero(t, u.TotalOrders)
	assert.Zero(t, u.TotalSpent)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), u.JoinDate)
	assert.Equal(t, fixedNow, u.LastLogin)

	id2, err := s.AddUser(userdomain.NewUser{Name: "Hina", Email: "hina@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2)
}

func TestAddUserRejectsDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddUser(userdomain.NewUser{Name: "Bilal", Email: "bilal@example.com"})
	require.NoError(t, err)

	_, err = s.AddUser(userdomain.NewUser{Name: "Other", Email: " Bilal@Example.com"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Len(t, s.ListUsers(), 1)
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddUser(userdomain.NewUser{Name: "A", Email: "a@example.com"})
	b, _ := s.AddUser(userdomain.NewUser{Name: "B", Email: "b@example.com"})

	taken := "a@example.com"
	err := s.UpdateUser(b, userdomain.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	own := "A@example.com"
	require.NoError(t, s.UpdateUser(a, userdomain.UserPatch{Email: &own}))

	name := "Bee"
	require.NoError(t, s.UpdateUser(b, userdomain.UserPatch{Name: &name}))
	u, err := s.FindUser(b)
	require.NoError(t, err)
	assert.Equal(t, "Bee", u.Name)

	err = s.UpdateUser(99, userdomain.UserPatch{Name: &name})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateUserEmailRederivesTotals(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Import(Snapshot{
		Users: []userdomain.User{
			{ID: 1, Name: "U", Email: "u@example.com", TotalOrders: 1, TotalSpent: 2000},
		},
		Orders: []orderdomain.Order{
			{ID: "ORD-3", CustomerEmail: "v@example.com", Total: 300, Status: orderdomain.StatusPending},
			{ID: "ORD-2", CustomerEmail: "V@Example.com", Total: 50, Status: orderdomain.StatusCancelled},
			{ID: "ORD-1", CustomerEmail: "u@example.com", Total: 2000, Status: orderdomain.StatusDelivered},
		},
	}))

	moved := "  v@example.com "
	require.NoError(t, s.UpdateUser(1, userdomain.UserPatch{Email: &moved}))

	u, err := s.FindUser(1)
	require.NoError(t, err)
	assert.Equal(t, "v@example.com", u.Email, "stored trimmed")
	assert.Equal(t, 1, u.TotalOrders)
	assert.Equal(t, 300.0, u.TotalSpent)

	recased := "V@example.com"
	require.NoError(t, s.UpdateUser(1, userdomain.UserPatch{Email: &recased}))
	u, _ = s.FindUser(1)
	assert.Equal(t, 1, u.TotalOrders)
	assert.Equal(t, 300.0, u.TotalSpent)

	fresh := "w@example.com"
	require.NoError(t, s.UpdateUser(1, userdomain.UserPatch{Email: &fresh}))
	u, _ = s.FindUser(1)
	assert.Zero(t, u.TotalOrders)
	assert.Zero(t, u.TotalSpent)
}

func TestFindUserByEmail(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.AddUser(userdomain.NewUser{Name: "A", Email: "a@example.com"})

	u, err := s.FindUserByEmail("A@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)

	_, err = s.FindUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProductLifecycle(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddProduct(productdomain.NewProduct{Name: "Lamp", Price: 2500, Category: "Home & Living", Stock: 2})
	require.NoError(t, err)

	p, err := s.FindProduct(id)
	require.NoError(t, err)
	assert.Equal(t, productdomain.StatusActive, p.Status)
	assert.True(t, p.FreeShipping)

	zero := 0
	require.NoError(t, s.UpdateProduct(id, productdomain.ProductPatch{Stock: &zero}))
	p, _ = s.FindProduct(id)
	assert.Equal(t, productdomain.StatusOutOfStock, p.Status)

	require.NoError(t, s.RestockProduct(id, 5))
	p, _ = s.FindProduct(id)
	assert.Equal(t, 5, p.Stock)
	assert.Equal(t, productdomain.StatusActive, p.Status)

	assert.ErrorIs(t, s.RestockProduct(id, 0), apperr.ErrInvalidArgument)

	require.NoError(t, s.DeleteProduct(id))
	_, err = s.FindProduct(id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct(id), apperr.ErrNotFound)
}

func TestAddProductValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddProduct(productdomain.NewProduct{Name: "Free", Price: 0, Category: "Books"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = s.AddProduct(productdomain.NewProduct{Name: "Neg", Price: 10, Category: "Books", Stock: -1})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	assert.Empty(t, s.ListProducts())
}

func TestReadsReturnCopies(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.AddProduct(productdomain.NewProduct{Name: "Lamp", Price: 100, Category: "Books", Stock: 1})

	list := s.ListProducts()
	list[0].Tags[0] = "mutated"
	list[0].Stock = 100

	p, _ := s.FindProduct(id)
	assert.Equal(t, "books", p.Tags[0])
	assert.Equal(t, 1, p.Stock)
}

func TestRunInTransactionRollsBack(t *testing.T) {
	s := newTestStore(t)
	uid, _ := s.AddUser(userdomain.NewUser{Name: "A", Email: "a@example.com"})

	boom := errors.New("boom")
	err := s.RunInTransaction(func(tx *Tx) error {
		u, err := tx.User(uid)
		if err != nil {
			return err
		}
		u.TotalOrders = 10
		if _, err := tx.InsertOrder(orderdomain.Order{Status: orderdomain.StatusPending}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	u, _ := s.FindUser(uid)
	assert.Zero(t, u.TotalOrders)
	assert.Empty(t, s.ListOrders())
}

func TestInsertOrderAssignsUniqueIDs(t *testing.T) {
	s := newTestStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		err := s.RunInTransaction(func(tx *Tx) error {
			id, err := tx.InsertOrder(orderdomain.Order{Status: orderdomain.StatusPending})
			ids = append(ids, id)
			return err
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		orderdomain.FormatID(fixedNow),
		orderdomain.FormatID(fixedNow.Add(time.Millisecond)),
		orderdomain.FormatID(fixedNow.Add(2 * time.Millisecond)),
	}, ids)

	orders := s.ListOrders()
	require.Len(t, orders, 3)
	assert.Equal(t, ids[2], orders[0].ID, "most recent first")

	err := s.RunInTransaction(func(tx *Tx) error {
		_, err := tx.InsertOrder(orderdomain.Order{ID: ids[0]})
		return err
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestImport(t *testing.T) {
	s := newTestStore(t)

	err := s.Import(Snapshot{
		Users: []userdomain.User{{ID: 7, Name: "A", Email: "a@example.com"}},
		Products: []productdomain.Product{
			{ID: 3, Name: "Lamp", Price: 2500, Stock: 0, Status: productdomain.StatusActive},
		},
		Orders: []orderdomain.Order{{ID: "ORD-1", Status: orderdomain.StatusPending}},
	})
	require.NoError(t, err)

	p, _ := s.FindProduct(3)
	assert.Equal(t, productdomain.StatusOutOfStock, p.Status)
	assert.True(t, p.FreeShipping)

	id, err := s.AddUser(userdomain.NewUser{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)

	pid, err := s.AddProduct(productdomain.NewProduct{Name: "Pen", Price: 10, Category: "Books", Stock: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(4), pid)
}

func TestImportRejectsDuplicates(t *testing.T) {
	s := newTestStore(t)

	err := s.Import(Snapshot{Users: []userdomain.User{
		{ID: 1, Email: "a@example.com"},
		{ID: 2, Email: "a@example.com"},
	}})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	err = s.Import(Snapshot{Orders: []orderdomain.Order{{ID: "ORD-1", Status: "lost"}}})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestConcurrentAddUser(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.AddUser(userdomain.NewUser{Name: "u", Email: fmt.Sprintf("u%d@example.com", i)})
			assert.NoError(t, err)
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	users := s.ListUsers()
	require.Len(t, users, 50)
	seen := make(map[int64]bool)
	for _, u := range users {
		assert.False(t, seen[u.ID])
		seen[u.ID] = true
	}
}
