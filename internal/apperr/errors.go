// Package apperr holds the error kinds shared by the POS core and the
// transport layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("record not found")
	ErrStockLimitExceeded  = errors.New("stock limit exceeded")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrInvalidPayment      = errors.New("invalid payment method")
	ErrCategoryInUse       = errors.New("category is referenced by products")
	ErrCategoryLocked      = errors.New("category cannot be deleted")
	ErrUnauthorized        = errors.New("not signed in")
	ErrForbidden           = errors.New("permission denied")
)

// StockLimitError reports a cart or commit operation that would take a line
// above the product's available stock.
type StockLimitError struct {
	ProductID string
	Name      string
	Available int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("only %d of %q available", e.Available, e.Name)
}

func (e *StockLimitError) Is(target error) bool {
	return target == ErrStockLimitExceeded
}

// HTTPStatus maps an error kind to the status code the API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInvalidPayment):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientPayment):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStockLimitExceeded),
		errors.Is(err, ErrCategoryInUse),
		errors.Is(err, ErrCategoryLocked):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
