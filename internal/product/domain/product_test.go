package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tair/storefront/pkg/apperr"
)

func TestNewProductBuildAppliesDefaults(t *testing.T) {
	p := NewProduct{
		Name:     "Desk Lamp",
		Price:    1500,
		Category: "Home & Living",
		Stock:    0,
	}.Build()

	assert.Zero(t, p.ID)
	assert.Equal(t, 1500.0, p.OriginalPrice)
	assert.Equal(t, DefaultRating, p.Rating)
	assert.Equal(t, []string{DefaultImage}, p.Images)
	assert.Equal(t, DefaultBrand, p.Brand)
	assert.Equal(t, DefaultSeller, p.Seller)
	assert.Equal(t, int64(DefaultSellerID), p.SellerID)
	assert.Equal(t, []string{"home & living", NewArrivalTag}, p.Tags)
	assert.Equal(t, StatusOutOfStock, p.Status)
	assert.False(t, p.FreeShipping)
	assert.Zero(t, p.Sold)
	assert.Zero(t, p.Reviews)
}

func TestNewProductBuildKeepsSuppliedFields(t *testing.T) {
	p := NewProduct{
		Name:          "Headphones",
		Price:         2500,
		OriginalPrice: 2000,
		Category:      "Audio",
		Stock:         3,
		Images:        []string{"/a.png", "/b.png"},
		Tags:          []string{"audio", "audio", "wireless"},
		Brand:         "Acme",
	}.Build()

	assert.Equal(t, 2000.0, p.OriginalPrice)
	assert.False(t, p.OnSale())
	assert.Equal(t, []string{"/a.png", "/b.png"}, p.Images)
	assert.Equal(t, []string{"audio", "wireless"}, p.Tags)
	assert.Equal(t, StatusActive, p.Status)
	assert.True(t, p.FreeShipping)
}

func TestDerive(t *testing.T) {
	assert.Equal(t, StatusOutOfStock, DeriveStatus(0))
	assert.Equal(t, StatusActive, DeriveStatus(1))
	assert.True(t, DeriveFreeShipping(FreeShippingThreshold))
	assert.False(t, DeriveFreeShipping(FreeShippingThreshold-1))
}

func TestProductPatch(t *testing.T) {
	p := NewProduct{Name: "Ball", Price: 500, Category: "Sports", Stock: 4}.Build()

	price := 2400.0
	stock := 0
	patch := ProductPatch{Price: &price, Stock: &stock}
	assert.NoError(t, patch.Validate())

	patch.Apply(&p)
	assert.Equal(t, 2400.0, p.Price)
	assert.Equal(t, StatusOutOfStock, p.Status)
	assert.True(t, p.FreeShipping)
	assert.Equal(t, "Ball", p.Name)
}

func TestProductPatchValidate(t *testing.T) {
	negative := -1.0
	negStock := -3
	empty := ""
	noImages := []string{}
	badRating := 7.0

	tests := []struct {
		name  string
		patch ProductPatch
	}{
		{"negative price", ProductPatch{Price: &negative}},
		{"negative stock", ProductPatch{Stock: &negStock}},
		{"empty name", ProductPatch{Name: &empty}},
		{"empty images", ProductPatch{Images: &noImages}},
		{"rating out of range", ProductPatch{Rating: &badRating}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.patch.Validate(), apperr.ErrInvalidArgument)
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := Product{Images: []string{"/a.png"}, Tags: []string{"x"}}
	c := p.Clone()
	c.Images[0] = "/b.png"
	c.Tags[0] = "y"

	assert.Equal(t, "/a.png", p.Images[0])
	assert.Equal(t, "x", p.Tags[0])
}

func TestIsKnownCategory(t *testing.T) {
	assert.True(t, IsKnownCategory("Home & Living"))
	assert.False(t, IsKnownCategory("home & living"))
	assert.False(t, IsKnownCategory("Toys"))
}
