package handlers

import (
	"net/http"

	"go-pos-lite/internal/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the till identity so support can tell devices apart.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"device_id": utils.GetDeviceID(),
		"storage":   h.StorageDriver,
	})
}
