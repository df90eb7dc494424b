package reports

import (
	"go-pos-lite/internal/models"

	"github.com/shopspring/decimal"
)

type ValuationItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Value     decimal.Decimal `json:"value"`
}

type ValuationGroup struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Items      []ValuationItem `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type Valuation struct {
	Categories []ValuationGroup `json:"categories"`
	GrandTotal decimal.Decimal  `json:"grandTotal"`
}

// StockValuation prices the stock on hand at selling price, grouped by
// category in catalog order. Products whose category is gone are counted
// under Uncategorized. Empty categories are left out.
func StockValuation(products []models.Product, categories []models.Category) Valuation {
	fallback := ""
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
		if c.Name == models.UncategorizedName {
			fallback = c.ID
		}
	}

	groups := make(map[string]*ValuationGroup)
	v := Valuation{Categories: []ValuationGroup{}, GrandTotal: decimal.Zero}
	for _, p := range products {
		catID := p.CategoryID
		if !known[catID] {
			catID = fallback
		}
		g, ok := groups[catID]
		if !ok {
			g = &ValuationGroup{CategoryID: catID, Items: []ValuationItem{}, Subtotal: decimal.Zero}
			groups[catID] = g
		}

		value := p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
		g.Items = append(g.Items, ValuationItem{ProductID: p.ID, Name: p.Name, Quantity: p.Stock, Price: p.Price, Value: value})
		g.Subtotal = g.Subtotal.Add(value)
		v.GrandTotal = v.GrandTotal.Add(value)
	}

	for _, c := range categories {
		if g, ok := groups[c.ID]; ok {
			g.Name = c.Name
			v.Categories = append(v.Categories, *g)
		}
	}
	// no Uncategorized row in the catalog
	if g, ok := groups[""]; ok {
		g.Name = models.UncategorizedName
		v.Categories = append(v.Categories, *g)
	}
	return v
}
