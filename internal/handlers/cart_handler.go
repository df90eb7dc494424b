package handlers

import (
	"net/http"

	"go-pos-lite/internal/apperr"
	"go-pos-lite/internal/cart"
	"go-pos-lite/internal/ledger"
	"go-pos-lite/internal/models"
	"go-pos-lite/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CartView is the cart as the till renders it, amounts rounded.
type CartView struct {
	Items   []models.CartLine `json:"items"`
	Summary cart.Summary      `json:"summary"`
}

func viewOf(c *cart.Cart) CartView {
	return CartView{Items: c.Lines(), Summary: c.Summary().Rounded()}
}

func (h *Handler) GetCart(c *gin.Context) {
	var view CartView
	_ = h.Carts.With(currentCaller(c).ID, func(ct *cart.Cart) error {
		view = viewOf(ct)
		return nil
	})
	c.JSON(http.StatusOK, view)
}

func (h *Handler) ClearCart(c *gin.Context) {
	h.Carts.Drop(currentCaller(c).ID)
	c.JSON(http.StatusOK, CartView{Items: []models.CartLine{}, Summary: cart.Summarize(nil)})
}

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// AddToCart adds one unit of the product as it is in the catalog now.
func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	product, err := h.Catalog.Product(req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	var view CartView
	err = h.Carts.With(currentCaller(c).ID, func(ct *cart.Cart) error {
		if err := ct.AddItem(product); err != nil {
			return err
		}
		view = viewOf(ct)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type AdjustRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *Handler) AdjustCartItem(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delta is required"})
		return
	}

	var view CartView
	err := h.Carts.With(currentCaller(c).ID, func(ct *cart.Cart) error {
		if err := ct.AdjustQuantity(c.Param("id"), req.Delta); err != nil {
			return err
		}
		view = viewOf(ct)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	var view CartView
	_ = h.Carts.With(currentCaller(c).ID, func(ct *cart.Cart) error {
		ct.RemoveItem(c.Param("id"))
		view = viewOf(ct)
		return nil
	})
	c.JSON(http.StatusOK, view)
}

// SaleRequest defines what the till sends at checkout
type SaleRequest struct {
	PaymentMethod  models.PaymentMethod `json:"paymentMethod" binding:"required"`
	AmountReceived decimal.NullDecimal  `json:"amountReceived"`
}

// ProcessSale commits the caller's cart. The cart is emptied only when the
// sale is recorded.
func (h *Handler) ProcessSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	who := currentCaller(c)
	var sale models.Sale

	// 1. Commit stock and ledger in one transaction
	err := h.Carts.With(who.ID, func(ct *cart.Cart) error {
		var err error
		sale, err = h.Ledger.Commit(ledger.CommitRequest{
			Items:          ct.Lines(),
			Method:         req.PaymentMethod,
			AmountReceived: req.AmountReceived,
			CashierID:      who.ID,
			CashierName:    who.Name,
		})
		if err != nil {
			return err
		}
		// 2. Start the next order
		ct.Clear()
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sale successful!",
		"sale":    sale,
	})
}

// CheckoutQR renders the payment QR code for the caller's cart total.
func (h *Handler) CheckoutQR(c *gin.Context) {
	who := currentCaller(c)
	var total decimal.Decimal
	err := h.Carts.With(who.ID, func(ct *cart.Cart) error {
		if ct.IsEmpty() {
			return apperr.ErrEmptyCart
		}
		total = ct.Summary().Rounded().Total
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	png, err := payment.QRCode("CART-"+who.ID, total, payment.DefaultQRSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// MySales is the cashier's own bill history.
func (h *Handler) MySales(c *gin.Context) {
	sales, err := h.Ledger.Query(ledger.Filter{CashierID: currentCaller(c).ID, Search: c.Query("q")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// GetSale returns one invoice. Cashiers only see their own.
func (h *Handler) GetSale(c *gin.Context) {
	sale, err := h.Ledger.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	who := currentCaller(c)
	if who.Role != models.RoleAdmin && sale.CashierID != who.ID {
		respondError(c, apperr.ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, sale)
}
