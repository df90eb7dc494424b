package reports

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go-pos-lite/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ExportRow is one sale in the export, columns in file order.
type ExportRow struct {
	Date          string `csv:"Date"`
	InvoiceID     string `csv:"Invoice ID"`
	Items         string `csv:"Items"`
	Subtotal      string `csv:"Subtotal"`
	Tax           string `csv:"Tax"`
	Total         string `csv:"Total"`
	PaymentMethod string `csv:"Payment Method"`
	Cashier       string `csv:"Cashier"`
}

var exportHeaders = []string{"Date", "Invoice ID", "Items", "Subtotal", "Tax", "Total", "Payment Method", "Cashier"}

// ExportRows formats sales for export. Times are shown in loc.
func ExportRows(sales []models.Sale, loc *time.Location) []ExportRow {
	rows := make([]ExportRow, 0, len(sales))
	for _, s := range sales {
		items := make([]string, 0, len(s.Items))
		for _, line := range s.Items {
			items = append(items, fmt.Sprintf("%s × %d", line.Product.Name, line.Quantity))
		}
		rows = append(rows, ExportRow{
			Date:          s.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			InvoiceID:     s.ID,
			Items:         strings.Join(items, "; "),
			Subtotal:      s.Subtotal.StringFixed(2),
			Tax:           s.Tax.StringFixed(2),
			Total:         s.Total.StringFixed(2),
			PaymentMethod: strings.ToUpper(string(s.PaymentMethod())),
			Cashier:       s.CashierName,
		})
	}
	return rows
}

func WriteCSV(w io.Writer, sales []models.Sale, loc *time.Location) error {
	rows := ExportRows(sales, loc)
	return errors.Wrap(gocsv.Marshal(&rows, w), "write csv")
}

func WriteXLSX(w io.Writer, sales []models.Sale, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "name sheet")
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errors.Wrap(err, "write header")
		}
	}

	for i, r := range ExportRows(sales, loc) {
		row := []interface{}{r.Date, r.InvoiceID, r.Items, r.Subtotal, r.Tax, r.Total, r.PaymentMethod, r.Cashier}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i+2)
		}
	}

	f.SetColWidth(sheet, "A", "B", 20)
	f.SetColWidth(sheet, "C", "C", 40)
	f.SetColWidth(sheet, "D", "H", 14)

	return errors.Wrap(f.Write(w), "write xlsx")
}

// ExportFileName is sales-report-YYYY-MM-DD.<ext>, dated now.
func ExportFileName(now time.Time, ext string) string {
	return fmt.Sprintf("sales-report-%s.%s", now.Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}
