package cart

import (
	"testing"

	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, price string, stock int) models.Product {
	return models.Product{ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price), Stock: stock, CategoryID: "cat"}
}

func TestAddTwiceScenario(t *testing.T) {
	c := New()
	a := product("A", "3.50", 5)

	require.NoError(t, c.AddItem(a))
	require.NoError(t, c.AddItem(a))
	assert.Equal(t, 2, c.Quantity("A"))

	s := c.Summary().Rounded()
	assert.Equal(t, "7.00", s.Subtotal.StringFixed(2))
	assert.Equal(t, "0.70", s.Tax.StringFixed(2))
	assert.Equal(t, "7.70", s.Total.StringFixed(2))
}

func TestAddItemRespectsStock(t *testing.T) {
	c := New()
	a := product("A", "1.00", 2)

	require.NoError(t, c.AddItem(a))
	require.NoError(t, c.AddItem(a))

	err := c.AddItem(a)
	assert.ErrorIs(t, err, apperr.ErrStockLimitExceeded)
	var sle *apperr.StockLimitError
	require.ErrorAs(t, err, &sle)
	assert.Equal(t, 2, sle.Available)
	assert.Equal(t, 2, c.Quantity("A"), "rejected add must not change the cart")

	err = c.AddItem(product("Z", "1.00", 0))
	assert.ErrorIs(t, err, apperr.ErrStockLimitExceeded)
	assert.Equal(t, 1, c.Len())
}

func TestAdjustQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(product("A", "2.00", 5)))

	require.NoError(t, c.AdjustQuantity("A", 3))
	assert.Equal(t, 4, c.Quantity("A"))

	assert.ErrorIs(t, c.AdjustQuantity("A", 2), apperr.ErrStockLimitExceeded)
	assert.Equal(t, 4, c.Quantity("A"))

	// going to zero or below leaves the line alone
	require.NoError(t, c.AdjustQuantity("A", -4))
	assert.Equal(t, 4, c.Quantity("A"))

	assert.ErrorIs(t, c.AdjustQuantity("B", 1), apperr.ErrNotFound)
}

func TestAdjustRoundTrip(t *testing.T) {
	for delta := 1; delta <= 4; delta++ {
		c := New()
		require.NoError(t, c.AddItem(product("A", "2.00", 10)))
		require.NoError(t, c.AdjustQuantity("A", 4))

		require.NoError(t, c.AdjustQuantity("A", -delta))
		require.NoError(t, c.AdjustQuantity("A", delta))
		assert.Equal(t, 5, c.Quantity("A"), "delta %d", delta)
	}
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(product("A", "1.00", 3)))
	require.NoError(t, c.AddItem(product("B", "1.00", 3)))

	c.RemoveItem("A")
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "B", c.Lines()[0].Product.ID)

	c.RemoveItem("missing")
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Summary().Total.IsZero())
}

func TestSummaryTotalProperty(t *testing.T) {
	c := New()
	require.NoError(t, c.AddItem(product("A", "0.33", 10)))
	require.NoError(t, c.AddItem(product("B", "19.99", 10)))
	require.NoError(t, c.AddItem(product("C", "4.05", 10)))
	require.NoError(t, c.AdjustQuantity("A", 2))
	require.NoError(t, c.AdjustQuantity("C", 6))

	s := c.Summary()
	want := decimal.RequireFromString("0.33").Mul(decimal.NewFromInt(3)).
		Add(decimal.RequireFromString("19.99")).
		Add(decimal.RequireFromString("4.05").Mul(decimal.NewFromInt(7)))
	assert.True(t, want.Equal(s.Subtotal))
	assert.True(t, s.Subtotal.Add(s.Subtotal.Mul(TaxRate)).Round(2).Equal(s.Rounded().Total))
	assert.True(t, s.Total.Equal(s.Subtotal.Add(s.Tax)))
}

func TestRegistryKeepsCartsApart(t *testing.T) {
	r := NewRegistry()
	a := product("A", "1.00", 3)

	require.NoError(t, r.With("u1", func(c *Cart) error { return c.AddItem(a) }))
	require.NoError(t, r.With("u1", func(c *Cart) error { return c.AddItem(a) }))
	require.NoError(t, r.With("u2", func(c *Cart) error { return c.AddItem(a) }))

	_ = r.With("u1", func(c *Cart) error {
		assert.Equal(t, 2, c.Quantity("A"))
		return nil
	})

	r.Drop("u1")
	_ = r.With("u1", func(c *Cart) error {
		assert.True(t, c.IsEmpty())
		return nil
	})
	_ = r.With("u2", func(c *Cart) error {
		assert.Equal(t, 1, c.Quantity("A"))
		return nil
	})
}
