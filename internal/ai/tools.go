package ai

import (
	"fmt"
	"strings"
	"time"

	"go-pos-lite/internal/catalog"
	"go-pos-lite/internal/ledger"
	"go-pos-lite/internal/models"
	"go-pos-lite/internal/reports"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Tool names the model can call.
const (
	ToolCheckInventory     = "check_inventory"
	ToolUpdateProductPrice = "update_product_price"
	ToolCreateProduct      = "create_product"
	ToolGetSalesReport     = "get_sales_report"
	ToolGetLowStock        = "get_low_stock"
	ToolGetTopProducts     = "get_top_products"
)

// Toolbox runs the assistant's tools against the POS services. It does not
// talk to the model, so it can be exercised directly.
type Toolbox struct {
	Catalog           *catalog.Catalog
	Ledger            *ledger.Ledger
	LowStockThreshold int
	Now               func() time.Time
}

type inventoryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Stock    int    `json:"stock"`
	Price    string `json:"price"`
}

// Call executes tool name with the model-supplied args. Tool failures the
// model can react to come back as a {"error": ...} result, not as err.
func (t *Toolbox) Call(name string, args map[string]any) (map[string]any, error) {
	zap.L().Info("assistant tool call", zap.String("tool", name))

	var (
		result map[string]any
		err    error
	)
	switch name {
	case ToolCheckInventory:
		result, err = t.checkInventory()
	case ToolUpdateProductPrice:
		result, err = t.updatePrice(args)
	case ToolCreateProduct:
		result, err = t.createProduct(args)
	case ToolGetSalesReport:
		result, err = t.salesReport(args)
	case ToolGetLowStock:
		result, err = t.lowStock()
	case ToolGetTopProducts:
		result, err = t.topProducts(args)
	default:
		return nil, errors.Errorf("unknown tool %q", name)
	}
	if err != nil {
		return map[string]any{"error": err.Error()}, nil
	}
	return result, nil
}

func (t *Toolbox) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Toolbox) checkInventory() (map[string]any, error) {
	products, err := t.Catalog.Products()
	if err != nil {
		return nil, err
	}
	cats, err := t.Catalog.Categories()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	items := make([]inventoryItem, 0, len(products))
	for _, p := range products {
		items = append(items, inventoryItem{ID: p.ID, Name: p.Name, Category: names[p.CategoryID], Stock: p.Stock, Price: p.Price.StringFixed(2)})
	}
	return map[string]any{"inventory": items}, nil
}

func (t *Toolbox) updatePrice(args map[string]any) (map[string]any, error) {
	id := stringArg(args, "product_id")
	price, ok := decimalArg(args, "new_price")
	if id == "" || !ok {
		return nil, errors.New("product_id and new_price are required")
	}

	p, err := t.Catalog.Product(id)
	if err != nil {
		return nil, err
	}
	old := p.Price
	p.Price = price
	if _, err := t.Catalog.UpsertProduct(p); err != nil {
		return nil, err
	}
	return map[string]any{"status": "updated", "name": p.Name, "old_price": old.StringFixed(2), "new_price": price.StringFixed(2)}, nil
}

func (t *Toolbox) createProduct(args map[string]any) (map[string]any, error) {
	name := stringArg(args, "name")
	price, ok := decimalArg(args, "price")
	if name == "" || !ok {
		return nil, errors.New("name and price are required")
	}
	stock, _ := decimalArg(args, "stock")

	categoryID, err := t.categoryByName(stringArg(args, "category"))
	if err != nil {
		return nil, err
	}
	p, err := t.Catalog.UpsertProduct(models.Product{Name: name, Price: price, Stock: int(stock.IntPart()), CategoryID: categoryID})
	if err != nil {
		return nil, err
	}
	return map[string]any{"status": "created", "id": p.ID}, nil
}

// categoryByName falls back to Uncategorized when name is empty or unknown.
func (t *Toolbox) categoryByName(name string) (string, error) {
	cats, err := t.Catalog.Categories()
	if err != nil {
		return "", err
	}
	fallback := ""
	for _, c := range cats {
		if name != "" && strings.EqualFold(c.Name, name) {
			return c.ID, nil
		}
		if c.Name == models.UncategorizedName {
			fallback = c.ID
		}
	}
	if fallback == "" {
		return "", errors.Errorf("no category named %q", name)
	}
	return fallback, nil
}

func (t *Toolbox) salesReport(args map[string]any) (map[string]any, error) {
	from, to, err := reports.ParseRange(reports.PresetCustom, stringArg(args, "start_date"), stringArg(args, "end_date"), t.now())
	if err != nil {
		return nil, err
	}
	sales, err := t.Ledger.ListByDateRange(from, to)
	if err != nil {
		return nil, err
	}
	sum := reports.Summarize(sales)
	return map[string]any{
		"revenue":         sum.TotalSales.StringFixed(2),
		"tax":             sum.TotalTax.StringFixed(2),
		"cash":            sum.CashSales.StringFixed(2),
		"qr":              sum.QRSales.StringFixed(2),
		"average_sale":    sum.AvgTransaction.StringFixed(2),
		"sales_count":     sum.TransactionCount,
		"range_start_day": from.Format("2006-01-02"),
		"range_end_day":   to.Format("2006-01-02"),
	}, nil
}

func (t *Toolbox) lowStock() (map[string]any, error) {
	products, err := t.Catalog.Products()
	if err != nil {
		return nil, err
	}
	low := reports.LowStock(products, t.LowStockThreshold)
	items := make([]map[string]any, 0, len(low))
	for _, p := range low {
		items = append(items, map[string]any{"id": p.ID, "name": p.Name, "stock": p.Stock})
	}
	return map[string]any{"threshold": t.LowStockThreshold, "products": items}, nil
}

func (t *Toolbox) topProducts(args map[string]any) (map[string]any, error) {
	n := 5
	if v, ok := decimalArg(args, "limit"); ok && v.IsPositive() {
		n = int(v.IntPart())
	}
	sales, err := t.Ledger.ListAll()
	if err != nil {
		return nil, err
	}
	top := reports.TopProducts(sales, n)
	items := make([]map[string]any, 0, len(top))
	for _, p := range top {
		items = append(items, map[string]any{"name": p.Name, "quantity": p.Quantity, "revenue": p.Revenue.StringFixed(2)})
	}
	return map[string]any{"top_products": items}, nil
}

func stringArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// the model sometimes sends numeric ids
		return decimal.NewFromFloat(v).String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func decimalArg(args map[string]any, key string) (decimal.Decimal, bool) {
	switch v := args[key].(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}
