package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleStoredLayout(t *testing.T) {
	sale := Sale{
		ID:       "INV-1",
		Items:    []CartLine{{Product: Product{ID: "1", Name: "Espresso", Price: decimal.RequireFromString("3.50")}, Quantity: 2}},
		Subtotal: decimal.RequireFromString("7"),
		Tax:      decimal.RequireFromString("0.7"),
		Total:    decimal.RequireFromString("7.7"),
		Payment: CashPayment{
			AmountReceived: decimal.RequireFromString("10"),
			Change:         decimal.RequireFromString("2.3"),
		},
		CashierID:   "2",
		CashierName: "John Cashier",
		CreatedAt:   time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
	}

	data, err := json.Marshal(sale)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "cash", raw["paymentMethod"])
	assert.Equal(t, "2.3", raw["change"])

	var back Sale
	require.NoError(t, json.Unmarshal(data, &back))
	cash, ok := back.Payment.(CashPayment)
	require.True(t, ok)
	assert.True(t, cash.Change.Equal(decimal.RequireFromString("2.30")))
	assert.Equal(t, 2, back.Items[0].Quantity)
}

func TestQRSaleOmitsChange(t *testing.T) {
	data, err := json.Marshal(Sale{ID: "INV-2", Payment: QRPayment{}})
	require.NoError(t, err)

	assert.NotContains(t, string(data), "change")
	assert.NotContains(t, string(data), "amountReceived")

	var back Sale
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, PaymentQR, back.PaymentMethod())
}

func TestSaleRejectsUnknownMethod(t *testing.T) {
	var s Sale
	err := json.Unmarshal([]byte(`{"id":"x","paymentMethod":"card"}`), &s)
	assert.Error(t, err)

	_, err = json.Marshal(Sale{ID: "y"})
	assert.Error(t, err)
}
