package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email string `json:"email" binding:"required"`
}

// Login is the demo sign-in: an active user's email is enough.
func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	// 1. Validate Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// 2. Find the active user and mark them as the till's current user
	user, err := h.Users.Login(input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// 3. Generate JWT Token
	token, err := h.Issuer.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	// 4. Success! Return Token and Role
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"role":  user.Role,
		"user":  user,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	who := currentCaller(c)
	h.Carts.Drop(who.ID)
	if err := h.Users.Logout(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.Users.Get(currentCaller(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
