package catalog

import (
	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/database"
	"go-pos-lite/internal/models"

	"github.com/pkg/errors"
)

// Tx is the catalog bound to an open bucket, so other stores (the ledger)
// can read and change stock inside their own transaction.
type Tx struct {
	b database.Bucket
}

func WithBucket(b database.Bucket) Tx {
	return Tx{b: b}
}

func (t Tx) Categories() ([]models.Category, error) {
	return database.LoadList[models.Category](t.b, database.KeyCategories)
}

func (t Tx) Products() ([]models.Product, error) {
	return database.LoadList[models.Product](t.b, database.KeyProducts)
}

func (t Tx) Product(id string) (models.Product, error) {
	list, err := t.Products()
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, errors.Wrapf(apperr.ErrNotFound, "product %s", id)
}

// DecrementStock fails with a StockLimitError instead of taking stock below
// zero.
func (t Tx) DecrementStock(id string, qty int) error {
	return t.DecrementMany(map[string]int{id: qty})
}

// DecrementMany applies several decrements with one read and one write of
// the product collection. Nothing is written if any product is missing or
// short.
func (t Tx) DecrementMany(qty map[string]int) error {
	list, err := t.Products()
	if err != nil {
		return err
	}

	for id, n := range qty {
		if n < 0 {
			return errors.Wrapf(apperr.ErrValidation, "negative decrement for product %s", id)
		}
		idx := indexOf(list, func(p models.Product) bool { return p.ID == id })
		if idx < 0 {
			return errors.Wrapf(apperr.ErrNotFound, "product %s", id)
		}
		if list[idx].Stock < n {
			return &apperr.StockLimitError{ProductID: id, Name: list[idx].Name, Available: list[idx].Stock}
		}
		list[idx].Stock -= n
	}
	return database.SaveList(t.b, database.KeyProducts, list)
}
