// Package catalog stores categories and products.
package catalog

import (
	"strings"
	"time"

	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/database"
	"go-pos-lite/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var validate = validator.New()

// Catalog is the category/product store. Reads open a view, writes run in
// their own Update.
type Catalog struct {
	db  database.Store
	now func() time.Time
}

func New(db database.Store) *Catalog {
	return &Catalog{db: db, now: time.Now}
}

// WithClock replaces the time source used for createdAt.
func (c *Catalog) WithClock(now func() time.Time) *Catalog {
	c.now = now
	return c
}

// Categories returns every category in insertion order.
func (c *Catalog) Categories() ([]models.Category, error) {
	var list []models.Category
	err := c.db.View(func(b database.Bucket) error {
		var err error
		list, err = WithBucket(b).Categories()
		return err
	})
	return list, err
}

// ActiveCategories is what the till shows as category tabs.
func (c *Catalog) ActiveCategories() ([]models.Category, error) {
	all, err := c.Categories()
	if err != nil {
		return nil, err
	}
	active := make([]models.Category, 0, len(all))
	for _, cat := range all {
		if cat.IsActive {
			active = append(active, cat)
		}
	}
	return active, nil
}

func (c *Catalog) Category(id string) (models.Category, error) {
	all, err := c.Categories()
	if err != nil {
		return models.Category{}, err
	}
	for _, cat := range all {
		if cat.ID == id {
			return cat, nil
		}
	}
	return models.Category{}, errors.Wrapf(apperr.ErrNotFound, "category %s", id)
}

// UpsertCategory creates the category when ID is empty or unknown, otherwise
// replaces it in place.
func (c *Catalog) UpsertCategory(cat models.Category) (models.Category, error) {
	cat.Name = strings.TrimSpace(cat.Name)
	if err := validate.Struct(cat); err != nil {
		return models.Category{}, errors.Wrap(apperr.ErrValidation, err.Error())
	}

	err := c.db.Update(func(b database.Bucket) error {
		list, err := WithBucket(b).Categories()
		if err != nil {
			return err
		}
		idx := indexOf(list, func(x models.Category) bool { return x.ID == cat.ID })
		if cat.ID == "" || idx < 0 {
			if cat.ID == "" {
				cat.ID = uuid.NewString()
			}
			cat.CreatedAt = c.now()
			list = append(list, cat)
		} else {
			cat.CreatedAt = list[idx].CreatedAt
			list[idx] = cat
		}
		return database.SaveList(b, database.KeyCategories, list)
	})
	if err != nil {
		return models.Category{}, err
	}

	zap.L().Info("category saved", zap.String("category_id", cat.ID), zap.String("name", cat.Name))
	return cat, nil
}

// DeleteCategory refuses while any product references the category, and
// always for the Uncategorized fallback.
func (c *Catalog) DeleteCategory(id string) error {
	err := c.db.Update(func(b database.Bucket) error {
		tx := WithBucket(b)
		list, err := tx.Categories()
		if err != nil {
			return err
		}
		idx := indexOf(list, func(x models.Category) bool { return x.ID == id })
		if idx < 0 {
			return errors.Wrapf(apperr.ErrNotFound, "category %s", id)
		}
		if list[idx].Name == models.UncategorizedName {
			return errors.Wrapf(apperr.ErrCategoryLocked, "category %q", list[idx].Name)
		}

		products, err := tx.Products()
		if err != nil {
			return err
		}
		for _, p := range products {
			if p.CategoryID == id {
				return errors.Wrapf(apperr.ErrCategoryInUse, "category %q", list[idx].Name)
			}
		}

		list = append(list[:idx], list[idx+1:]...)
		return database.SaveList(b, database.KeyCategories, list)
	})
	if err != nil {
		return err
	}

	zap.L().Info("category deleted", zap.String("category_id", id))
	return nil
}

// Products returns every product in insertion order.
func (c *Catalog) Products() ([]models.Product, error) {
	var list []models.Product
	err := c.db.View(func(b database.Bucket) error {
		var err error
		list, err = WithBucket(b).Products()
		return err
	})
	return list, err
}

// InStockProducts is the till's product grid: stock > 0 only.
func (c *Catalog) InStockProducts() ([]models.Product, error) {
	return c.SearchProducts("", "", true)
}

// SearchProducts filters by case-insensitive name substring and category.
// An empty or "all" categoryID matches every category.
func (c *Catalog) SearchProducts(query, categoryID string, inStockOnly bool) ([]models.Product, error) {
	all, err := c.Products()
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if inStockOnly && p.Stock <= 0 {
			continue
		}
		if categoryID != "" && categoryID != "all" && p.CategoryID != categoryID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Catalog) Product(id string) (models.Product, error) {
	var p models.Product
	err := c.db.View(func(b database.Bucket) error {
		var err error
		p, err = WithBucket(b).Product(id)
		return err
	})
	return p, err
}

// UpsertProduct validates price, stock and the category reference before
// saving.
func (c *Catalog) UpsertProduct(p models.Product) (models.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validate.Struct(p); err != nil {
		return models.Product{}, errors.Wrap(apperr.ErrValidation, err.Error())
	}
	if p.Price.IsNegative() {
		return models.Product{}, errors.Wrap(apperr.ErrValidation, "price must not be negative")
	}

	err := c.db.Update(func(b database.Bucket) error {
		tx := WithBucket(b)
		cats, err := tx.Categories()
		if err != nil {
			return err
		}
		if indexOf(cats, func(x models.Category) bool { return x.ID == p.CategoryID }) < 0 {
			return errors.Wrapf(apperr.ErrValidation, "unknown category %s", p.CategoryID)
		}

		list, err := tx.Products()
		if err != nil {
			return err
		}
		idx := indexOf(list, func(x models.Product) bool { return x.ID == p.ID })
		if p.ID == "" || idx < 0 {
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			p.CreatedAt = c.now()
			list = append(list, p)
		} else {
			p.CreatedAt = list[idx].CreatedAt
			list[idx] = p
		}
		return database.SaveList(b, database.KeyProducts, list)
	})
	if err != nil {
		return models.Product{}, err
	}

	zap.L().Info("product saved",
		zap.String("product_id", p.ID),
		zap.String("name", p.Name),
		zap.String("price", p.Price.StringFixed(2)),
		zap.Int("stock", p.Stock))
	return p, nil
}

// DeleteProduct removes the product from the catalog. Past sales keep their
// embedded copy.
func (c *Catalog) DeleteProduct(id string) error {
	err := c.db.Update(func(b database.Bucket) error {
		list, err := WithBucket(b).Products()
		if err != nil {
			return err
		}
		idx := indexOf(list, func(x models.Product) bool { return x.ID == id })
		if idx < 0 {
			return errors.Wrapf(apperr.ErrNotFound, "product %s", id)
		}
		list = append(list[:idx], list[idx+1:]...)
		return database.SaveList(b, database.KeyProducts, list)
	})
	if err != nil {
		return err
	}

	zap.L().Info("product deleted", zap.String("product_id", id))
	return nil
}

// DecrementStock takes qty units off a product in its own transaction.
func (c *Catalog) DecrementStock(id string, qty int) error {
	return c.db.Update(func(b database.Bucket) error {
		return WithBucket(b).DecrementStock(id, qty)
	})
}

func indexOf[T any](list []T, match func(T) bool) int {
	for i, v := range list {
		if match(v) {
			return i
		}
	}
	return -1
}
