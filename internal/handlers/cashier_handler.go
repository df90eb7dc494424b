package handlers

import (
	"net/http"

	"go-pos-lite/internal/models"
	"go-pos-lite/internal/reports"

	"github.com/gin-gonic/gin"
)

// CashierView is a cashier row with their lifetime sales.
type CashierView struct {
	models.User
	Performance reports.CashierStats `json:"performance"`
}

func (h *Handler) ListCashiers(c *gin.Context) {
	cashiers, err := h.Users.Cashiers()
	if err != nil {
		respondError(c, err)
		return
	}
	sales, err := h.Ledger.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]CashierView, 0, len(cashiers))
	for _, u := range cashiers {
		out = append(out, CashierView{User: u, Performance: reports.CashierPerformance(sales, u.ID)})
	}
	c.JSON(http.StatusOK, out)
}

type CashierInput struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required"`
	Role     models.Role `json:"role"`
	IsActive *bool       `json:"isActive"`
}

func (h *Handler) CreateCashier(c *gin.Context) {
	var input CashierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.Users.Upsert(models.User{
		Name:     input.Name,
		Email:    input.Email,
		Role:     input.Role,
		IsActive: input.IsActive == nil || *input.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateCashier edits or deactivates a user. There is no delete.
func (h *Handler) UpdateCashier(c *gin.Context) {
	user, err := h.Users.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var input CashierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user.Name = input.Name
	user.Email = input.Email
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if user, err = h.Users.Upsert(user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
