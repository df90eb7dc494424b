// Package seed fills an empty store with the demo shop.
package seed

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"go-pos-lite/internal/cart"
	"go-pos-lite/internal/database"
	"go-pos-lite/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func Categories(now time.Time) []models.Category {
	cat := func(id, name, desc string) models.Category {
		return models.Category{ID: id, Name: name, Description: desc, IsActive: true, CreatedAt: now}
	}
	return []models.Category{
		cat("1", "Beverages", "Hot and cold drinks"),
		cat("2", "Snacks", "Quick bites and treats"),
		cat("3", "Main Course", "Full meals"),
		cat("4", "Desserts", "Sweet treats"),
		cat("5", models.UncategorizedName, "Default category"),
	}
}

func Products(now time.Time) []models.Product {
	p := func(id, name, price string, stock int, categoryID string) models.Product {
		return models.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Stock: stock, CategoryID: categoryID, CreatedAt: now}
	}
	return []models.Product{
		p("1", "Espresso", "3.50", 100, "1"),
		p("2", "Cappuccino", "4.50", 80, "1"),
		p("3", "Latte", "5.00", 75, "1"),
		p("4", "Iced Tea", "3.00", 50, "1"),
		p("5", "Croissant", "3.50", 30, "2"),
		p("6", "Muffin", "3.00", 25, "2"),
		p("7", "Sandwich", "7.50", 20, "3"),
		p("8", "Pasta Bowl", "12.00", 15, "3"),
		p("9", "Grilled Chicken", "14.00", 12, "3"),
		p("10", "Cheesecake", "6.50", 10, "4"),
		p("11", "Brownie", "4.00", 20, "4"),
		p("12", "Ice Cream", "5.00", 30, "4"),
	}
}

func Users(now time.Time) []models.User {
	return []models.User{
		{ID: "1", Name: "Admin User", Email: "admin@pos.com", Role: models.RoleAdmin, IsActive: true, CreatedAt: now},
		{ID: "2", Name: "John Cashier", Email: "john@pos.com", Role: models.RoleCashier, IsActive: true, CreatedAt: now},
		{ID: "3", Name: "Jane Cashier", Email: "jane@pos.com", Role: models.RoleCashier, IsActive: true, CreatedAt: now},
	}
}

// SampleSales generates n sales spread over the 7 days before now, newest
// first. The same seed always gives the same sales. Stock is not touched.
func SampleSales(n int, now time.Time, seed uint64) []models.Sale {
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	products := Products(now)
	cashiers := Users(now)[1:]
	ten := decimal.NewFromInt(10)

	sales := make([]models.Sale, 0, n)
	for i := 0; i < n; i++ {
		day := now.AddDate(0, 0, -rnd.IntN(7))
		at := time.Date(day.Year(), day.Month(), day.Day(), 8+rnd.IntN(12), rnd.IntN(60), 0, 0, now.Location())

		if at.After(now) {
			at = now.Add(-time.Duration(rnd.IntN(60)) * time.Minute)
		}

		count := 1 + rnd.IntN(4)
		lines := make([]models.CartLine, 0, count)
		for j := 0; j < count; j++ {
			lines = append(lines, models.CartLine{Product: products[rnd.IntN(len(products))], Quantity: 1 + rnd.IntN(3)})
		}
		sum := cart.Summarize(lines)

		var payment models.Payment = models.QRPayment{}
		if rnd.Float64() > 0.4 {
			// customer hands over the next multiple of ten
			received := sum.Total.Div(ten).Ceil().Mul(ten)
			payment = models.CashPayment{AmountReceived: received, Change: received.Sub(sum.Total)}
		}
		cashier := cashiers[rnd.IntN(len(cashiers))]

		sales = append(sales, models.Sale{
			ID:          fmt.Sprintf("INV-SAMPLE-%03d", i+1),
			Items:       lines,
			Subtotal:    sum.Subtotal,
			Tax:         sum.Tax,
			Total:       sum.Total,
			Payment:     payment,
			CashierID:   cashier.ID,
			CashierName: cashier.Name,
			CreatedAt:   at,
		})
	}

	slices.SortStableFunc(sales, func(a, b models.Sale) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sales
}

// Options controls what Defaults writes.
type Options struct {
	SampleSales int
	Seed        uint64
}

// Defaults writes each default collection whose key is still absent. It
// never overwrites data that is already there.
func Defaults(db database.Store, now time.Time, opt Options) error {
	written := []string{}
	err := db.Update(func(b database.Bucket) error {
		steps := []struct {
			key  string
			save func() error
		}{
			{database.KeyCategories, func() error { return database.SaveList(b, database.KeyCategories, Categories(now)) }},
			{database.KeyProducts, func() error { return database.SaveList(b, database.KeyProducts, Products(now)) }},
			{database.KeyUsers, func() error { return database.SaveList(b, database.KeyUsers, Users(now)) }},
			{database.KeySales, func() error {
				return database.SaveList(b, database.KeySales, SampleSales(opt.SampleSales, now, opt.Seed))
			}},
		}
		for _, step := range steps {
			ok, err := database.Exists(b, step.key)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
			if err := step.save(); err != nil {
				return err
			}
			written = append(written, step.key)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(written) > 0 {
		zap.L().Info("seeded defaults", zap.Strings("keys", written), zap.Int("sample_sales", opt.SampleSales))
	}
	return nil
}
