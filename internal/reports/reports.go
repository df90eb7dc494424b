// Package reports turns a ledger and catalog snapshot into dashboard and
// report figures. Every function here is pure: it reads its inputs and
// never changes them.
package reports

import (
	"slices"
	"time"

	"go-pos-lite/internal/ledger"
	"go-pos-lite/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold matches the dashboard alert.
const DefaultLowStockThreshold = 10

// Snapshot is everything the aggregators read, loaded once per request.
type Snapshot struct {
	Sales      []models.Sale
	Products   []models.Product
	Categories []models.Category
	Users      []models.User
}

type DashboardStats struct {
	TodaySales       decimal.Decimal `json:"todaySales"`
	MonthlySales     decimal.Decimal `json:"monthlySales"`
	TotalProducts    int             `json:"totalProducts"`
	ActiveCategories int             `json:"activeCategories"`
	ActiveCashiers   int             `json:"activeCashiers"`
}

// Dashboard sums sales since the start of now's day and month, and counts
// catalog and staff records.
func Dashboard(s Snapshot, now time.Time) DashboardStats {
	today := ledger.StartOfDay(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := DashboardStats{
		TodaySales:    decimal.Zero,
		MonthlySales:  decimal.Zero,
		TotalProducts: len(s.Products),
	}
	for _, sale := range s.Sales {
		if !sale.CreatedAt.Before(today) {
			stats.TodaySales = stats.TodaySales.Add(sale.Total)
		}
		if !sale.CreatedAt.Before(monthStart) {
			stats.MonthlySales = stats.MonthlySales.Add(sale.Total)
		}
	}
	for _, c := range s.Categories {
		if c.IsActive {
			stats.ActiveCategories++
		}
	}
	for _, u := range s.Users {
		if u.Role == models.RoleCashier && u.IsActive {
			stats.ActiveCashiers++
		}
	}
	return stats
}

type DayTotal struct {
	Day   time.Time       `json:"day"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// WeeklySeries returns the trailing 7 calendar days, oldest first, ending
// with now's day. Days without sales are present with a zero total.
func WeeklySeries(sales []models.Sale, now time.Time) []DayTotal {
	today := ledger.StartOfDay(now)
	series := make([]DayTotal, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		next := day.AddDate(0, 0, 1)
		total := decimal.Zero
		for _, s := range sales {
			if !s.CreatedAt.Before(day) && s.CreatedAt.Before(next) {
				total = total.Add(s.Total)
			}
		}
		series = append(series, DayTotal{Day: day, Label: day.Format("Mon"), Total: total})
	}
	return series
}

type PaymentSplit struct {
	Cash decimal.Decimal `json:"cash"`
	QR   decimal.Decimal `json:"qr"`
}

func SplitByPayment(sales []models.Sale) PaymentSplit {
	split := PaymentSplit{Cash: decimal.Zero, QR: decimal.Zero}
	for _, s := range sales {
		switch s.PaymentMethod() {
		case models.PaymentCash:
			split.Cash = split.Cash.Add(s.Total)
		case models.PaymentQR:
			split.QR = split.QR.Add(s.Total)
		}
	}
	return split
}

type ProductSales struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// TopProducts ranks products by revenue at the price they were sold for.
// Ties keep the order in which products first appear in sales.
func TopProducts(sales []models.Sale, n int) []ProductSales {
	var ranked []ProductSales
	index := make(map[string]int)
	for _, s := range sales {
		for _, line := range s.Items {
			i, ok := index[line.Product.ID]
			if !ok {
				i = len(ranked)
				index[line.Product.ID] = i
				ranked = append(ranked, ProductSales{ProductID: line.Product.ID, Name: line.Product.Name, Revenue: decimal.Zero})
			}
			ranked[i].Quantity += line.Quantity
			ranked[i].Revenue = ranked[i].Revenue.Add(line.LineTotal())
		}
	}

	slices.SortStableFunc(ranked, func(a, b ProductSales) int {
		return b.Revenue.Cmp(a.Revenue)
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	if ranked == nil {
		ranked = []ProductSales{}
	}
	return ranked
}

type CategoryTotal struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
}

// CategorySales groups line revenue by the category the product is in now.
// Products deleted since the sale fall back to the category they were sold
// under. Categories that no longer exist or sold nothing are left out.
func CategorySales(s Snapshot) []CategoryTotal {
	current := make(map[string]string, len(s.Products))
	for _, p := range s.Products {
		current[p.ID] = p.CategoryID
	}

	sums := make(map[string]decimal.Decimal)
	for _, sale := range s.Sales {
		for _, line := range sale.Items {
			catID, ok := current[line.Product.ID]
			if !ok {
				catID = line.Product.CategoryID
			}
			sums[catID] = sums[catID].Add(line.LineTotal())
		}
	}

	out := []CategoryTotal{}
	for _, c := range s.Categories {
		total, ok := sums[c.ID]
		if !ok || !total.IsPositive() {
			continue
		}
		out = append(out, CategoryTotal{CategoryID: c.ID, Name: c.Name, Total: total})
	}
	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		return b.Total.Cmp(a.Total)
	})
	return out
}

// LowStock keeps catalog order.
func LowStock(products []models.Product, threshold int) []models.Product {
	out := []models.Product{}
	for _, p := range products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out
}

// SalesSummary is the header of the sales report.
type SalesSummary struct {
	TransactionCount int             `json:"transactionCount"`
	TotalSales       decimal.Decimal `json:"totalSales"`
	TotalTax         decimal.Decimal `json:"totalTax"`
	CashSales        decimal.Decimal `json:"cashSales"`
	QRSales          decimal.Decimal `json:"qrSales"`
	AvgTransaction   decimal.Decimal `json:"avgTransaction"`
}

func Summarize(sales []models.Sale) SalesSummary {
	split := SplitByPayment(sales)
	sum := SalesSummary{
		TransactionCount: len(sales),
		TotalSales:       decimal.Zero,
		TotalTax:         decimal.Zero,
		CashSales:        split.Cash,
		QRSales:          split.QR,
		AvgTransaction:   decimal.Zero,
	}
	for _, s := range sales {
		sum.TotalSales = sum.TotalSales.Add(s.Total)
		sum.TotalTax = sum.TotalTax.Add(s.Tax)
	}
	if len(sales) > 0 {
		sum.AvgTransaction = sum.TotalSales.Div(decimal.NewFromInt(int64(len(sales))))
	}
	return sum
}

type CashierStats struct {
	CashierID        string          `json:"cashierId"`
	TransactionCount int             `json:"transactionCount"`
	TotalSales       decimal.Decimal `json:"totalSales"`
}

func CashierPerformance(sales []models.Sale, cashierID string) CashierStats {
	stats := CashierStats{CashierID: cashierID, TotalSales: decimal.Zero}
	for _, s := range sales {
		if s.CashierID == cashierID {
			stats.TransactionCount++
			stats.TotalSales = stats.TotalSales.Add(s.Total)
		}
	}
	return stats
}
