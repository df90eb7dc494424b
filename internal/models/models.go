package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// UncategorizedName is the fallback category that can never be deleted.
const UncategorizedName = "Uncategorized"

// User - admin or cashier operating the till
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Role      Role      `json:"role" validate:"oneof=admin cashier"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Product - the inventory
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name" validate:"required"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock" validate:"gte=0"`
	CategoryID string          `json:"categoryId" validate:"required"`
	Image      string          `json:"image,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// CartLine embeds the full product so a sale keeps the price it was sold at,
// even if the catalog entry is edited or deleted later.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price × quantity, unrounded.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
