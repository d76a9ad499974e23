package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaladDann/SIGECOB/internal/domain"
)

func TestNewProduct_StatusFollowsStock(t *testing.T) {
	t.Parallel()

	p, err := NewProduct(" Lamp ", "", decimal.RequireFromString("10.00"), 0, "home", "")
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Name)
	assert.Equal(t, domain.ProductOutOfStock, p.Status)

	p, err = NewProduct("Desk", "", decimal.RequireFromString("99.90"), 4, "home", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ProductAvailable, p.Status)
}

func TestNewProduct_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewProduct("", "", decimal.Zero, 1, "", "")
	require.ErrorIs(t, err, domain.ErrMissingField)

	_, err = NewProduct("x", "", decimal.NewFromInt(-1), 1, "", "")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewProduct("x", "", decimal.Zero, -1, "", "")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestProduct_NormalizeKeepsDiscontinued(t *testing.T) {
	t.Parallel()

	p := Product{Stock: 5, Status: domain.ProductDiscontinued}
	p.Normalize()
	assert.Equal(t, domain.ProductDiscontinued, p.Status)
	assert.Equal(t, 0, p.Available())

	p = Product{Stock: 3, Status: domain.ProductOutOfStock}
	p.Normalize()
	assert.Equal(t, domain.ProductAvailable, p.Status)
	assert.Equal(t, 3, p.Available())
}

func TestNewCartItem(t *testing.T) {
	t.Parallel()

	p := &Product{ID: 7, Price: decimal.RequireFromString("9.99")}
	item, err := NewCartItem(1, p, 3)
	require.NoError(t, err)
	assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("29.97")))

	p.Price = decimal.NewFromInt(100)
	assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("29.97")))

	for _, q := range []int{0, 11, -1} {
		_, err := NewCartItem(1, p, q)
		require.ErrorIs(t, err, domain.ErrValidation, q)
	}
}
