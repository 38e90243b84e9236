package handlers

import (
	"net/http"

	"github.com/fluffyriot/brandpulse/internal/stats"
	"github.com/gin-gonic/gin"
)

// DashboardHandler bundles the figures the landing page shows in one
// response.
func (h *Handler) DashboardHandler(c *gin.Context) {
	ctx := c.Request.Context()

	categoryCounts, err := h.DB.CountBrandsByCategory(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load brand counts"})
		return
	}

	var totalBrands int64
	categories := make([]gin.H, 0, len(categoryCounts))
	for _, row := range categoryCounts {
		totalBrands += row.Count
		categories = append(categories, gin.H{
			"category": row.Category,
			"count":    row.Count,
		})
	}

	tracked, err := h.DB.CountBrandsWithMetrics(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load tracked count"})
		return
	}

	platforms, err := stats.GetPlatformSummary(ctx, h.DB, parseDays(c, 30))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load platform summary"})
		return
	}

	budget, err := h.Credits.Budget(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load budget"})
		return
	}

	insights, err := stats.GenerateInsights(ctx, h.DB, c.DefaultQuery("platform", "tiktok"), parseDays(c, 30))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to generate insights"})
		return
	}

	payload := gin.H{
		"total_brands":   totalBrands,
		"insights":       insights,
		"tracked_brands": tracked,
		"categories":     categories,
		"platforms":      platforms,
		"budget":         budget,
		"quota":          h.Worker.Orchestrator.Limits(),
	}

	if lastSync, err := h.DB.GetLastSyncLog(ctx, "social_sync"); err == nil {
		payload["last_sync"] = syncLogToResponse(lastSync)
	}

	c.JSON(http.StatusOK, payload)
}
