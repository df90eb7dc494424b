package ledger

import (
	"strings"
	"testing"
	"time"

	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/cart"
	"go-pos-lite/internal/catalog"
	"go-pos-lite/internal/database"
	"go-pos-lite/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

type fixture struct {
	cat    *catalog.Catalog
	ledger *Ledger
	bev    models.Category
	food   models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.NewMemoryStore()
	cat := catalog.New(db)
	l, err := New(db, 1)
	require.NoError(t, err)
	l.WithClock(func() time.Time { return fixedNow })

	bev, err := cat.UpsertCategory(models.Category{Name: "Beverages", IsActive: true})
	require.NoError(t, err)
	food, err := cat.UpsertCategory(models.Category{Name: "Food", IsActive: true})
	require.NoError(t, err)
	return &fixture{cat: cat, ledger: l, bev: bev, food: food}
}

func (f *fixture) product(t *testing.T, name, price string, stock int, categoryID string) models.Product {
	t.Helper()
	p, err := f.cat.UpsertProduct(models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock, CategoryID: categoryID})
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.cat.Product(id)
	require.NoError(t, err)
	return p.Stock
}

func cash(amount string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(amount))
}

func TestCommitCashScenario(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Espresso", "3.50", 5, f.bev.ID)

	c := cart.New()
	require.NoError(t, c.AddItem(a))
	require.NoError(t, c.AddItem(a))

	sale, err := f.ledger.Commit(CommitRequest{
		Items:          c.Lines(),
		Method:         models.PaymentCash,
		AmountReceived: cash("10.00"),
		CashierID:      "u1",
		CashierName:    "John Cashier",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sale.ID, "INV-"))
	assert.Equal(t, "7.70", sale.Total.StringFixed(2))
	require.IsType(t, models.CashPayment{}, sale.Payment)
	assert.Equal(t, "2.30", sale.Payment.(models.CashPayment).Change.StringFixed(2))
	assert.Equal(t, 3, f.stock(t, a.ID))

	all, err := f.ledger.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, sale.ID, all[0].ID)
	require.Len(t, all[0].Items, 1)
	assert.Equal(t, a.ID, all[0].Items[0].Product.ID)
	assert.Equal(t, 2, all[0].Items[0].Quantity)
	assert.True(t, all[0].Items[0].Product.Price.Equal(a.Price))
	assert.Equal(t, fixedNow, all[0].CreatedAt)
}

func TestCommitExactCashHasNoChange(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Espresso", "3.50", 5, f.bev.ID)

	sale, err := f.ledger.Commit(CommitRequest{
		Items:          []models.CartLine{{Product: a, Quantity: 2}},
		Method:         models.PaymentCash,
		AmountReceived: cash("7.70"),
	})
	require.NoError(t, err)
	assert.True(t, sale.Payment.(models.CashPayment).Change.IsZero())
}

func TestCommitInsufficientCash(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Espresso", "3.50", 5, f.bev.ID)
	lines := []models.CartLine{{Product: a, Quantity: 2}}

	_, err := f.ledger.Commit(CommitRequest{Items: lines, Method: models.PaymentCash, AmountReceived: cash("7.69")})
	assert.ErrorIs(t, err, apperr.ErrInsufficientPayment)

	_, err = f.ledger.Commit(CommitRequest{Items: lines, Method: models.PaymentCash})
	assert.ErrorIs(t, err, apperr.ErrInsufficientPayment)

	assert.Equal(t, 5, f.stock(t, a.ID))
	all, err := f.ledger.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCommitEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.Commit(CommitRequest{Method: models.PaymentQR})
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)

	all, err := f.ledger.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCommitRejectsUnknownMethod(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Espresso", "3.50", 5, f.bev.ID)

	_, err := f.ledger.Commit(CommitRequest{Items: []models.CartLine{{Product: a, Quantity: 1}}, Method: "card"})
	assert.ErrorIs(t, err, apperr.ErrInvalidPayment)
}

func TestCommitMultiLineDecrementsEach(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Latte", "5.00", 10, f.bev.ID)
	b := f.product(t, "Croissant", "3.00", 4, f.food.ID)

	sale, err := f.ledger.Commit(CommitRequest{
		Items:  []models.CartLine{{Product: a, Quantity: 2}, {Product: b, Quantity: 1}},
		Method: models.PaymentQR,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentQR, sale.PaymentMethod())
	assert.Equal(t, "14.30", sale.Total.StringFixed(2))

	assert.Equal(t, 8, f.stock(t, a.ID))
	assert.Equal(t, 3, f.stock(t, b.ID))
}

func TestCommitIsAtomic(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Latte", "5.00", 10, f.bev.ID)
	b := f.product(t, "Croissant", "3.00", 1, f.food.ID)

	_, err := f.ledger.Commit(CommitRequest{
		Items:  []models.CartLine{{Product: a, Quantity: 2}, {Product: b, Quantity: 2}},
		Method: models.PaymentQR,
	})
	assert.ErrorIs(t, err, apperr.ErrStockLimitExceeded)

	ghost := models.Product{ID: "deleted", Name: "Ghost", Price: decimal.NewFromInt(1), Stock: 5, CategoryID: f.food.ID}
	_, err = f.ledger.Commit(CommitRequest{
		Items:  []models.CartLine{{Product: a, Quantity: 2}, {Product: ghost, Quantity: 1}},
		Method: models.PaymentQR,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, 10, f.stock(t, a.ID))
	assert.Equal(t, 1, f.stock(t, b.ID))
	all, err := f.ledger.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Latte", "5.00", 100, f.bev.ID)
	b := f.product(t, "Croissant", "3.00", 100, f.food.ID)

	commitAt := func(at time.Time, cashier string, lines ...models.CartLine) models.Sale {
		f.ledger.WithClock(func() time.Time { return at })
		s, err := f.ledger.Commit(CommitRequest{Items: lines, Method: models.PaymentQR, CashierID: cashier})
		require.NoError(t, err)
		return s
	}

	old := commitAt(fixedNow.AddDate(0, 0, -3), "u1", models.CartLine{Product: a, Quantity: 1})
	mixed := commitAt(fixedNow.Add(-time.Hour), "u2", models.CartLine{Product: a, Quantity: 1}, models.CartLine{Product: b, Quantity: 1})
	late := commitAt(StartOfDay(fixedNow).Add(23*time.Hour), "u1", models.CartLine{Product: b, Quantity: 2})

	all, err := f.ledger.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{late.ID, mixed.ID, old.ID}, []string{all[0].ID, all[1].ID, all[2].ID}, "newest first")

	byCashier, err := f.ledger.ListByCashier("u1")
	require.NoError(t, err)
	assert.Len(t, byCashier, 2)

	today, err := f.ledger.ListByDateRange(StartOfDay(fixedNow), EndOfDay(fixedNow))
	require.NoError(t, err)
	assert.Len(t, today, 2, "end of range covers the whole day")

	food, err := f.ledger.ListByCategory(f.food.ID)
	require.NoError(t, err)
	assert.Len(t, food, 2, "any matching line counts")

	got, err := f.ledger.Get(old.ID)
	require.NoError(t, err)
	assert.Equal(t, old.ID, got.ID)
	_, err = f.ledger.Get("INV-0")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	found, err := f.ledger.Query(Filter{Search: strings.ToLower(mixed.ID[len(mixed.ID)-6:]), CashierID: "u2"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, mixed.ID, found[0].ID)
}
