package handlers

import (
	"net/http"

	"github.com/fluffyriot/brandpulse/internal/credits"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SheetsImportHandler(c *gin.Context) {
	if h.Sheets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Google Sheets sync is not configured"})
		return
	}

	brands, err := h.Sheets.ImportBrands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": err.Error()})
		return
	}

	metrics, err := h.Sheets.ImportMetrics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if err := h.Credits.LogUsage(c.Request.Context(), credits.OpSheetsSync, "import"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to record usage"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands":  brands,
		"metrics": metrics,
	})
}

func (h *Handler) SheetsExportHandler(c *gin.Context) {
	if h.Sheets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Google Sheets sync is not configured"})
		return
	}

	brandCount, err := h.Sheets.ExportBrands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": err.Error()})
		return
	}

	metricCount, err := h.Sheets.ExportMetrics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if err := h.Credits.LogUsage(c.Request.Context(), credits.OpSheetsSync, "export"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to record usage"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"brands_exported":  brandCount,
		"metrics_exported": metricCount,
	})
}
