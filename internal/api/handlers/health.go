package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) HealthHandler(c *gin.Context) {
	dbStatus := "ok"
	if _, err := h.DB.CountBrandsWithMetrics(c.Request.Context()); err != nil {
		dbStatus = "down"
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":           dbStatus,
		"scheduler_active": h.Worker.IsActive(),
		"sync_running":     h.Worker.IsSyncing(),
	})
}
