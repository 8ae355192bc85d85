package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name          string
		price         float64
		originalPrice float64
		want          int
	}{
		{"no discount when equal", 100, 100, 0},
		{"no discount when original lower", 100, 80, 0},
		{"no discount when original zero", 100, 0, 0},
		{"half off", 50, 100, 50},
		{"rounds up", 66.5, 100, 34},
		{"rounds down", 66.6, 100, 33},
		{"small discount", 299, 349, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountPercent(tt.price, tt.originalPrice))
		})
	}
}

func TestNewProduct_DerivesDiscount(t *testing.T) {
	p, err := NewProduct("Sandalwood Incense", "cat-1", 75, 100)
	require.NoError(t, err)

	assert.Equal(t, 25, p.DiscountPercent)
	assert.True(t, p.IsActive)
	assert.NotEmpty(t, p.ID)
}

func TestProduct_SetPricingRecomputesDiscount(t *testing.T) {
	p, err := NewProduct("Sandalwood Incense", "cat-1", 100, 100)
	require.NoError(t, err)
	require.Equal(t, 0, p.DiscountPercent)

	require.NoError(t, p.SetPricing(80, 100))
	assert.Equal(t, 20, p.DiscountPercent)

	require.NoError(t, p.SetPricing(100, 100))
	assert.Equal(t, 0, p.DiscountPercent)

	assert.Error(t, p.SetPricing(-1, 100))
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 0.0, RoundRating(0, 0))
	assert.Equal(t, 4.0, RoundRating(8, 2))
	assert.Equal(t, 4.3, RoundRating(13, 3))
	assert.Equal(t, 3.7, RoundRating(11, 3))
	assert.Equal(t, 5.0, RoundRating(5, 1))
}

func TestNewReview_RatingBounds(t *testing.T) {
	for _, rating := range []int{1, 3, 5} {
		r, err := NewReview("prod-1", "devotee", "", "", rating)
		require.NoError(t, err)
		assert.False(t, r.IsApproved, "reviews must start pending")
	}

	for _, rating := range []int{0, 6, -1} {
		_, err := NewReview("prod-1", "devotee", "", "", rating)
		assert.Error(t, err)
	}
}

func TestPage_ComponentOrder(t *testing.T) {
	p, err := NewPage("Home")
	require.NoError(t, err)

	p.AttachComponent("a")
	p.AttachComponent("b")
	p.AttachComponent("c")
	assert.Equal(t, []string{"a", "b", "c"}, p.ComponentIDs)

	p.SetComponentOrder([]string{"c", "a", "b"})
	assert.Equal(t, []string{"c", "a", "b"}, p.ComponentIDs)

	p.DetachComponent("a")
	assert.Equal(t, []string{"c", "b"}, p.ComponentIDs)
}

func TestComponent_LocalizedFields(t *testing.T) {
	c, err := NewPageComponent("page-1", "hero_section", 0)
	require.NoError(t, err)

	c.SetFields([]Field{
		{Key: "heading", Value: map[string]interface{}{"en": "Welcome", "hi": "स्वागत"}},
		{Key: "overlayOpacity", Value: 0.5},
	})

	heading, ok := c.Field("heading")
	require.True(t, ok)
	assert.Equal(t, "Welcome", heading.In("en"))
	assert.Equal(t, "स्वागत", heading.In("hi"))

	opacity, ok := c.Field("overlayOpacity")
	require.True(t, ok)
	_, localized := opacity.Localized()
	assert.False(t, localized)
	assert.Equal(t, 0.5, opacity.In("en"))
}
