package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/tair/storefront/internal/order/domain"
	productdomain "github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/internal/store"
	"github.com/tair/storefront/pkg/apperr"
)

type recordingSeeder struct {
	got map[string]string
}

func (r *recordingSeeder) Seed(p map[string]string) error {
	r.got = p
	return nil
}

func TestDefaultSeedIsConsistent(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	require.Len(t, f.Users, 4)
	assert.Equal(t, "Tanzeel Yousef", f.Users[0].Name)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), f.Users[0].JoinDate)
	assert.NotEmpty(t, f.Products)
	assert.NotEmpty(t, f.Orders)

	// user totals agree with the non-cancelled seeded orders
	for _, u := range f.Users {
		var count int
		var spent float64
		for _, o := range f.Orders {
			if strings.EqualFold(o.CustomerEmail, u.Email) && o.Status != orderdomain.StatusCancelled {
				count++
				spent += o.Total
			}
		}
		assert.Equal(t, u.TotalOrders, count, u.Email)
		assert.Equal(t, u.TotalSpent, spent, u.Email)
	}

	for i := 1; i < len(f.Orders); i++ {
		assert.False(t, f.Orders[i].Date.After(f.Orders[i-1].Date), "orders are most recent first")
	}
	for _, o := range f.Orders {
		assert.Equal(t, orderdomain.AdvanceTracking(orderdomain.NewTracking(), o.Status), o.Tracking, o.ID)
	}
	for _, p := range f.Products {
		assert.True(t, productdomain.IsKnownCategory(p.Category), p.Name)
		assert.NotEmpty(t, p.Images, p.Name)
	}
}

func TestApply(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	s := store.New()
	creds := &recordingSeeder{}
	require.NoError(t, Apply(f, s, creds))

	assert.Len(t, s.ListUsers(), 4)
	assert.Equal(t, "admin123", creds.got["admin@example.com"])

	p, err := s.FindProduct(10)
	require.NoError(t, err)
	assert.Equal(t, productdomain.StatusOutOfStock, p.Status)

	o, err := s.FindOrder("ORD-002")
	require.NoError(t, err)
	require.NotNil(t, o.ActualDelivery)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - id: 9
    name: Only User
    email: only@example.com
    role: customer
    status: active
`), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Users, 1)
	assert.Equal(t, int64(9), f.Users[0].ID)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("users:\n  - id: 1\n    nickname: x\n"))
	assert.Error(t, err)
}

func TestApplyRejectsDuplicateEmails(t *testing.T) {
	f, err := Parse([]byte(`
users:
  - {id: 1, name: A, email: a@example.com}
  - {id: 2, name: B, email: a@example.com}
`))
	require.NoError(t, err)

	err = Apply(f, store.New(), nil)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}
