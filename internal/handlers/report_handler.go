package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"go-pos-lite/internal/ledger"
	"go-pos-lite/internal/models"
	"go-pos-lite/internal/reports"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/reports/dashboard ---
func (h *Handler) GetDashboard(c *gin.Context) {
	snap, err := h.snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports.Dashboard(snap, h.now()))
}

func (h *Handler) GetWeeklySales(c *gin.Context) {
	sales, err := h.Ledger.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports.WeeklySeries(sales, h.now()))
}

func (h *Handler) GetPaymentSplit(c *gin.Context) {
	sales, err := h.Ledger.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports.SplitByPayment(sales))
}

func (h *Handler) GetTopProducts(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive number"})
		return
	}
	sales, err := h.Ledger.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports.TopProducts(sales, n))
}

func (h *Handler) GetCategorySales(c *gin.Context) {
	snap, err := h.snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports.CategorySales(snap))
}

func (h *Handler) GetLowStock(c *gin.Context) {
	threshold := h.LowStockThreshold
	if v := c.Query("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a non-negative number"})
			return
		}
		threshold = n
	}
	products, err := h.Catalog.Products()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports.LowStock(products, threshold))
}

// --- GET: /api/reports/valuation ---
// GetStockValuation totals the value of the stock on hand by category.
func (h *Handler) GetStockValuation(c *gin.Context) {
	products, err := h.Catalog.Products()
	if err != nil {
		respondError(c, err)
		return
	}
	categories, err := h.Catalog.Categories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports.StockValuation(products, categories))
}

// salesFilter reads ?range=today|week|month|custom&start=&end=&category=&cashier=&q=
func (h *Handler) salesFilter(c *gin.Context) (ledger.Filter, error) {
	from, to, err := reports.ParseRange(c.Query("range"), c.Query("start"), c.Query("end"), h.now())
	if err != nil {
		return ledger.Filter{}, err
	}
	return ledger.Filter{
		From:       from,
		To:         to,
		CategoryID: c.Query("category"),
		CashierID:  c.Query("cashier"),
		Search:     c.Query("q"),
	}, nil
}

// SalesReport is the filtered sales list with its header figures.
type SalesReport struct {
	Summary reports.SalesSummary `json:"summary"`
	Sales   []models.Sale        `json:"sales"`
}

// --- GET: /api/reports/sales ---
func (h *Handler) GetSalesReport(c *gin.Context) {
	// 1. Resolve the date range and filters
	filter, err := h.salesFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	// 2. Run them over the ledger
	sales, err := h.Ledger.Query(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. Summarize what is left
	c.JSON(http.StatusOK, SalesReport{Summary: reports.Summarize(sales), Sales: sales})
}

// --- GET: /api/reports/export?format=csv|xlsx ---
func (h *Handler) ExportSales(c *gin.Context) {
	filter, err := h.salesFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	sales, err := h.Ledger.Query(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.now()
	var (
		buf         bytes.Buffer
		contentType string
		ext         string
	)
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		ext, contentType = "csv", "text/csv; charset=utf-8"
		err = reports.WriteCSV(&buf, sales, now.Location())
	case "xlsx":
		ext, contentType = "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = reports.WriteXLSX(&buf, sales, now.Location())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reports.ExportFileName(now, ext)))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
