// Package ledger records committed sales and applies their stock effect.
package ledger

import (
	"strings"
	"sync"
	"time"

	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/cart"
	"go-pos-lite/internal/catalog"
	"go-pos-lite/internal/database"
	"go-pos-lite/internal/models"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const invoicePrefix = "INV-"

// CommitRequest is a cart snapshot plus tender details. AmountReceived is
// only read for cash.
type CommitRequest struct {
	Items          []models.CartLine
	Method         models.PaymentMethod
	AmountReceived decimal.NullDecimal
	CashierID      string
	CashierName    string
}

type Ledger struct {
	db   database.Store
	node *snowflake.Node
	now  func() time.Time
	mu   sync.Mutex
}

// New creates a ledger whose invoice ids come from snowflake node nodeID.
func New(db database.Store, nodeID int64) (*Ledger, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrap(err, "create invoice id node")
	}
	return &Ledger{db: db, node: node, now: time.Now}, nil
}

func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Commit validates the tender, then in one storage transaction decrements
// the stock of every line and prepends the sale. Either all of it is written
// or none of it.
func (l *Ledger) Commit(req CommitRequest) (models.Sale, error) {
	if len(req.Items) == 0 {
		return models.Sale{}, apperr.ErrEmptyCart
	}

	sum := cart.Summarize(req.Items)

	var payment models.Payment
	switch req.Method {
	case models.PaymentCash:
		if !req.AmountReceived.Valid || req.AmountReceived.Decimal.LessThan(sum.Total) {
			return models.Sale{}, errors.Wrapf(apperr.ErrInsufficientPayment, "total is %s", sum.Total.StringFixed(2))
		}
		received := req.AmountReceived.Decimal
		payment = models.CashPayment{AmountReceived: received, Change: received.Sub(sum.Total)}
	case models.PaymentQR:
		payment = models.QRPayment{}
	default:
		return models.Sale{}, errors.Wrapf(apperr.ErrInvalidPayment, "%q", req.Method)
	}

	qty := make(map[string]int, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return models.Sale{}, errors.Wrapf(apperr.ErrValidation, "quantity for %s must be at least 1", line.Product.Name)
		}
		qty[line.Product.ID] += line.Quantity
	}

	items := make([]models.CartLine, len(req.Items))
	copy(items, req.Items)

	l.mu.Lock()
	defer l.mu.Unlock()

	sale := models.Sale{
		ID:          invoicePrefix + l.node.Generate().String(),
		Items:       items,
		Subtotal:    sum.Subtotal,
		Tax:         sum.Tax,
		Total:       sum.Total,
		Payment:     payment,
		CashierID:   req.CashierID,
		CashierName: req.CashierName,
		CreatedAt:   l.now(),
	}

	err := l.db.Update(func(b database.Bucket) error {
		if err := catalog.WithBucket(b).DecrementMany(qty); err != nil {
			return err
		}
		sales, err := database.LoadList[models.Sale](b, database.KeySales)
		if err != nil {
			return err
		}
		sales = append([]models.Sale{sale}, sales...)
		return database.SaveList(b, database.KeySales, sales)
	})
	if err != nil {
		zap.L().Warn("sale rejected", zap.String("cashier_id", req.CashierID), zap.Error(err))
		return models.Sale{}, err
	}

	zap.L().Info("sale committed",
		zap.String("invoice", sale.ID),
		zap.String("cashier_id", sale.CashierID),
		zap.String("method", string(req.Method)),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.Int("lines", len(sale.Items)),
	)
	return sale, nil
}

// ListAll returns every sale, newest first.
func (l *Ledger) ListAll() ([]models.Sale, error) {
	var list []models.Sale
	err := l.db.View(func(b database.Bucket) error {
		var err error
		list, err = database.LoadList[models.Sale](b, database.KeySales)
		return err
	})
	return list, err
}

func (l *Ledger) Get(id string) (models.Sale, error) {
	all, err := l.ListAll()
	if err != nil {
		return models.Sale{}, err
	}
	for _, s := range all {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Sale{}, errors.Wrapf(apperr.ErrNotFound, "sale %s", id)
}

func (l *Ledger) ListByCashier(cashierID string) ([]models.Sale, error) {
	return l.Query(Filter{CashierID: cashierID})
}

// ListByDateRange is inclusive on both ends. Pass EndOfDay(end) when end is
// a calendar date.
func (l *Ledger) ListByDateRange(start, end time.Time) ([]models.Sale, error) {
	return l.Query(Filter{From: start, To: end})
}

// ListByCategory matches a sale when any of its lines was sold under
// categoryID.
func (l *Ledger) ListByCategory(categoryID string) ([]models.Sale, error) {
	return l.Query(Filter{CategoryID: categoryID})
}

// Query runs Filter over the ledger.
func (l *Ledger) Query(f Filter) ([]models.Sale, error) {
	all, err := l.ListAll()
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

// Filter narrows a sale list. Zero fields do not filter.
type Filter struct {
	From       time.Time
	To         time.Time
	CategoryID string
	CashierID  string
	// Search is a case-insensitive substring of the invoice id.
	Search string
}

func (f Filter) Match(s models.Sale) bool {
	if !f.From.IsZero() && s.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && s.CreatedAt.After(f.To) {
		return false
	}
	if f.CashierID != "" && s.CashierID != f.CashierID {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(s.ID), strings.ToLower(f.Search)) {
		return false
	}
	if f.CategoryID != "" && f.CategoryID != "all" {
		hit := false
		for _, line := range s.Items {
			if line.Product.CategoryID == f.CategoryID {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// Apply keeps the order of sales.
func (f Filter) Apply(sales []models.Sale) []models.Sale {
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// StartOfDay is midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay is the last nanosecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
