package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreditUsageHandler(c *gin.Context) {
	days := parseDays(c, 30)
	summary, err := h.Credits.UsageForPeriod(c.Request.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load credit usage"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) CreditDailyHandler(c *gin.Context) {
	breakdown, err := h.Credits.DailyBreakdown(c.Request.Context(), parseDays(c, 30))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load daily breakdown"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": breakdown})
}

func (h *Handler) CreditBudgetHandler(c *gin.Context) {
	budget, err := h.Credits.Budget(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load budget status"})
		return
	}

	c.JSON(http.StatusOK, budget)
}
