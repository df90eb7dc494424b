// Package payment renders the QR code a customer scans to pay.
package payment

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const DefaultQRSize = 256

// QRPayload is the content encoded in the payment QR code.
type QRPayload struct {
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
}

// Payload builds the QR content for reference and amount, 2 dp.
func Payload(reference string, amount decimal.Decimal) ([]byte, error) {
	data, err := json.Marshal(QRPayload{Reference: reference, Amount: amount.StringFixed(2), Type: "payment"})
	return data, errors.Wrap(err, "marshal qr payload")
}

// QRCode returns a size×size PNG.
func QRCode(reference string, amount decimal.Decimal, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	data, err := Payload(reference, amount)
	if err != nil {
		return nil, err
	}
	code, err := qrcode.New(string(data), qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(err, "create qr code")
	}
	png, err := code.PNG(size)
	if err != nil {
		return nil, errors.Wrap(err, "render qr png")
	}
	return png, nil
}
