package store

import (
	"strings"

	orderdomain "github.com/tair/storefront/internal/order/domain"
	productdomain "github.com/tair/storefront/internal/product/domain"
	userdomain "github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
)

type state struct {
	users    []userdomain.User
	products []productdomain.Product
	// most recent first
	orders []orderdomain.Order

	nextUserID    int64
	nextProductID int64
}

func newState() state {
	return state{
		nextUserID:    1,
		nextProductID: 1,
	}
}

func (s state) clone() state {
	return state{
		users:         append([]userdomain.User(nil), s.users...),
		products:      cloneProducts(s.products),
		orders:        cloneOrders(s.orders),
		nextUserID:    s.nextUserID,
		nextProductID: s.nextProductID,
	}
}

func (s state) snapshot() Snapshot {
	return Snapshot{
		Users:    append([]userdomain.User(nil), s.users...),
		Products: cloneProducts(s.products),
		Orders:   cloneOrders(s.orders),
	}
}

func (s *state) userIndex(id int64) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *state) emailIndex(email string) int {
	email = normalizeEmail(email)
	for i := range s.users {
		if normalizeEmail(s.users[i].Email) == email {
			return i
		}
	}
	return -1
}

// customerTotals counts the non-cancelled orders placed under email and sums their totals
func (s *state) customerTotals(email string) (int, float64) {
	email = normalizeEmail(email)
	var count int
	var spent float64
	for i := range s.orders {
		o := &s.orders[i]
		if o.Status != orderdomain.StatusCancelled && normalizeEmail(o.CustomerEmail) == email {
			count++
			spent += o.Total
		}
	}
	return count, spent
}

func (s *state) productIndex(id int64) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *state) orderIndex(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func stateFromSnapshot(snap Snapshot) (state, error) {
	st := newState()

	for _, u := range snap.Users {
		if u.ID <= 0 {
			return state{}, apperr.Invalid("user %q has no id", u.Email)
		}
		if st.userIndex(u.ID) >= 0 {
			return state{}, apperr.Conflict("duplicate user id %d", u.ID)
		}
		if st.emailIndex(u.Email) >= 0 {
			return state{}, apperr.Conflict("duplicate user email %q", u.Email)
		}
		st.users = append(st.users, u)
		if u.ID >= st.nextUserID {
			st.nextUserID = u.ID + 1
		}
	}

	for _, p := range snap.Products {
		if p.ID <= 0 {
			return state{}, apperr.Invalid("product %q has no id", p.Name)
		}
		if st.productIndex(p.ID) >= 0 {
			return state{}, apperr.Conflict("duplicate product id %d", p.ID)
		}
		p = p.Clone()
		p.Derive()
		st.products = append(st.products, p)
		if p.ID >= st.nextProductID {
			st.nextProductID = p.ID + 1
		}
	}

	for _, o := range snap.Orders {
		if o.ID == "" {
			return state{}, apperr.Invalid("order without id")
		}
		if st.orderIndex(o.ID) >= 0 {
			return state{}, apperr.Conflict("duplicate order id %s", o.ID)
		}
		if !orderdomain.IsValidStatus(o.Status) {
			return state{}, apperr.Invalid("order %s has unknown status %q", o.ID, o.Status)
		}
		st.orders = append(st.orders, o.Clone())
	}

	return st, nil
}

func cloneProducts(in []productdomain.Product) []productdomain.Product {
	out := make([]productdomain.Product, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func cloneOrders(in []orderdomain.Order) []orderdomain.Order {
	out := make([]orderdomain.Order, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
