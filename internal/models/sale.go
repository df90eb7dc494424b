package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentQR   PaymentMethod = "qr"
)

// Payment is the outcome of tendering a sale. It is either CashPayment or
// QRPayment, so a QR sale can never carry a change value.
type Payment interface {
	Method() PaymentMethod
	isPayment()
}

type CashPayment struct {
	AmountReceived decimal.Decimal
	Change         decimal.Decimal
}

func (CashPayment) Method() PaymentMethod { return PaymentCash }
func (CashPayment) isPayment()            {}

// QRPayment is confirmed outside the till; nothing is recorded but the method.
type QRPayment struct{}

func (QRPayment) Method() PaymentMethod { return PaymentQR }
func (QRPayment) isPayment()            {}

// Sale - an immutable committed invoice
type Sale struct {
	ID          string
	Items       []CartLine
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	Payment     Payment
	CashierID   string
	CashierName string
	CreatedAt   time.Time
}

// PaymentMethod is a shortcut for s.Payment.Method().
func (s Sale) PaymentMethod() PaymentMethod {
	if s.Payment == nil {
		return ""
	}
	return s.Payment.Method()
}

// saleRecord is the stored layout: flat, with amountReceived/change only
// present for cash sales.
type saleRecord struct {
	ID             string           `json:"id"`
	Items          []CartLine       `json:"items"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	Tax            decimal.Decimal  `json:"tax"`
	Total          decimal.Decimal  `json:"total"`
	PaymentMethod  PaymentMethod    `json:"paymentMethod"`
	AmountReceived *decimal.Decimal `json:"amountReceived,omitempty"`
	Change         *decimal.Decimal `json:"change,omitempty"`
	CashierID      string           `json:"cashierId"`
	CashierName    string           `json:"cashierName"`
	CreatedAt      time.Time        `json:"createdAt"`
}

func (s Sale) MarshalJSON() ([]byte, error) {
	rec := saleRecord{
		ID:          s.ID,
		Items:       s.Items,
		Subtotal:    s.Subtotal,
		Tax:         s.Tax,
		Total:       s.Total,
		CashierID:   s.CashierID,
		CashierName: s.CashierName,
		CreatedAt:   s.CreatedAt,
	}
	switch p := s.Payment.(type) {
	case CashPayment:
		rec.PaymentMethod = PaymentCash
		rec.AmountReceived = &p.AmountReceived
		rec.Change = &p.Change
	case QRPayment:
		rec.PaymentMethod = PaymentQR
	default:
		return nil, fmt.Errorf("sale %s: unknown payment %T", s.ID, s.Payment)
	}
	return json.Marshal(rec)
}

func (s *Sale) UnmarshalJSON(data []byte) error {
	var rec saleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	switch rec.PaymentMethod {
	case PaymentCash:
		cash := CashPayment{}
		if rec.AmountReceived != nil {
			cash.AmountReceived = *rec.AmountReceived
		}
		if rec.Change != nil {
			cash.Change = *rec.Change
		}
		s.Payment = cash
	case PaymentQR:
		s.Payment = QRPayment{}
	default:
		return fmt.Errorf("sale %s: unknown payment method %q", rec.ID, rec.PaymentMethod)
	}

	s.ID = rec.ID
	s.Items = rec.Items
	s.Subtotal = rec.Subtotal
	s.Tax = rec.Tax
	s.Total = rec.Total
	s.CashierID = rec.CashierID
	s.CashierName = rec.CashierName
	s.CreatedAt = rec.CreatedAt
	return nil
}
