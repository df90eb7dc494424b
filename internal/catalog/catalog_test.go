package catalog

import (
	"testing"
	"time"

	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/database"
	"go-pos-lite/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := New(database.NewMemoryStore()).WithClock(func() time.Time { return fixedNow })
	return c
}

func mustCategory(t *testing.T, c *Catalog, name string) models.Category {
	t.Helper()
	cat, err := c.UpsertCategory(models.Category{Name: name, IsActive: true})
	require.NoError(t, err)
	return cat
}

func mustProduct(t *testing.T, c *Catalog, name, price string, stock int, categoryID string) models.Product {
	t.Helper()
	p, err := c.UpsertProduct(models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	return p
}

func TestUpsertCategoryKeepsInsertionOrder(t *testing.T) {
	c := newTestCatalog(t)
	bev := mustCategory(t, c, "Beverages")
	mustCategory(t, c, "Snacks")

	bev.Name = "Drinks"
	_, err := c.UpsertCategory(bev)
	require.NoError(t, err)

	cats, err := c.Categories()
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Drinks", cats[0].Name)
	assert.Equal(t, "Snacks", cats[1].Name)
	assert.Equal(t, fixedNow, cats[0].CreatedAt)
	assert.NotEmpty(t, cats[0].ID)
}

func TestUpsertCategoryRequiresName(t *testing.T) {
	c := newTestCatalog(t)
	_, err := c.UpsertCategory(models.Category{Name: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestActiveCategories(t *testing.T) {
	c := newTestCatalog(t)
	mustCategory(t, c, "Beverages")
	_, err := c.UpsertCategory(models.Category{Name: "Seasonal", IsActive: false})
	require.NoError(t, err)

	active, err := c.ActiveCategories()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Beverages", active[0].Name)
}

func TestDeleteCategoryInUse(t *testing.T) {
	c := newTestCatalog(t)
	bev := mustCategory(t, c, "Beverages")
	mustProduct(t, c, "Espresso", "3.50", 100, bev.ID)

	err := c.DeleteCategory(bev.ID)
	assert.ErrorIs(t, err, apperr.ErrCategoryInUse)

	cats, err := c.Categories()
	require.NoError(t, err)
	assert.Len(t, cats, 1, "category list must be unchanged")
}

func TestDeleteCategoryUnused(t *testing.T) {
	c := newTestCatalog(t)
	mustCategory(t, c, "Beverages")
	desserts := mustCategory(t, c, "Desserts")

	require.NoError(t, c.DeleteCategory(desserts.ID))

	cats, err := c.Categories()
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Beverages", cats[0].Name)

	assert.ErrorIs(t, c.DeleteCategory(desserts.ID), apperr.ErrNotFound)
}

func TestDeleteUncategorizedIsLocked(t *testing.T) {
	c := newTestCatalog(t)
	unc := mustCategory(t, c, models.UncategorizedName)

	assert.ErrorIs(t, c.DeleteCategory(unc.ID), apperr.ErrCategoryLocked)
}

func TestUpsertProductValidation(t *testing.T) {
	c := newTestCatalog(t)
	bev := mustCategory(t, c, "Beverages")

	_, err := c.UpsertProduct(models.Product{Name: "Latte", Price: decimal.NewFromInt(-1), CategoryID: bev.ID})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = c.UpsertProduct(models.Product{Name: "Latte", Price: decimal.NewFromInt(5), Stock: -1, CategoryID: bev.ID})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = c.UpsertProduct(models.Product{Name: "Latte", Price: decimal.NewFromInt(5), CategoryID: "nope"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpsertProductEditPreservesCreatedAt(t *testing.T) {
	c := newTestCatalog(t)
	bev := mustCategory(t, c, "Beverages")
	p := mustProduct(t, c, "Latte", "5.00", 75, bev.ID)

	c.WithClock(func() time.Time { return fixedNow.Add(time.Hour) })
	p.Price = decimal.RequireFromString("5.50")
	edited, err := c.UpsertProduct(p)
	require.NoError(t, err)

	assert.Equal(t, fixedNow, edited.CreatedAt)
	got, err := c.Product(p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("5.5")))
}

func TestSearchProducts(t *testing.T) {
	c := newTestCatalog(t)
	bev := mustCategory(t, c, "Beverages")
	snacks := mustCategory(t, c, "Snacks")
	mustProduct(t, c, "Iced Tea", "3.00", 50, bev.ID)
	mustProduct(t, c, "Iced Latte", "5.00", 0, bev.ID)
	mustProduct(t, c, "Muffin", "3.00", 25, snacks.ID)

	found, err := c.SearchProducts("ICED", "all", false)
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = c.SearchProducts("iced", bev.ID, true)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Iced Tea", found[0].Name)

	inStock, err := c.InStockProducts()
	require.NoError(t, err)
	assert.Len(t, inStock, 2)
}

func TestDeleteProduct(t *testing.T) {
	c := newTestCatalog(t)
	bev := mustCategory(t, c, "Beverages")
	p := mustProduct(t, c, "Latte", "5.00", 75, bev.ID)

	require.NoError(t, c.DeleteProduct(p.ID))
	_, err := c.Product(p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, c.DeleteProduct(p.ID), apperr.ErrNotFound)
	// the category is free again
	assert.NoError(t, c.DeleteCategory(bev.ID))
}

func TestDecrementStock(t *testing.T) {
	c := newTestCatalog(t)
	bev := mustCategory(t, c, "Beverages")
	p := mustProduct(t, c, "Espresso", "3.50", 5, bev.ID)

	require.NoError(t, c.DecrementStock(p.ID, 2))
	got, err := c.Product(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	err = c.DecrementStock(p.ID, 4)
	var sle *apperr.StockLimitError
	require.ErrorAs(t, err, &sle)
	assert.Equal(t, 3, sle.Available)

	assert.ErrorIs(t, c.DecrementStock("missing", 1), apperr.ErrNotFound)
}
