// SPDX-License-Identifier: AGPL-3.0-only
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/fluffyriot/brandpulse/internal/credits"
	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/fluffyriot/brandpulse/internal/exports"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func csvAttachment(c *gin.Context, name string, body []byte) {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", body)
}

func (h *Handler) ExportBrandsCSVHandler(c *gin.Context) {
	brands, err := h.DB.ListBrands(c.Request.Context(), database.ListBrandsParams{
		Category: c.Query("category"),
		Limit:    100000,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load brands"})
		return
	}

	var buf bytes.Buffer
	if err := exports.WriteBrandsCSV(&buf, brands); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to write export"})
		return
	}

	if err := h.Credits.LogUsage(c.Request.Context(), credits.OpExport, "brands_csv"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to record usage"})
		return
	}

	csvAttachment(c, "brands", buf.Bytes())
}

func (h *Handler) ExportMetricsCSVHandler(c *gin.Context) {
	var brandID uuid.NullUUID
	if raw := c.Query("brand_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id"})
			return
		}
		brandID = uuid.NullUUID{UUID: id, Valid: true}
	}

	metrics, err := h.DB.ExportMetrics(c.Request.Context(), brandID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load metrics"})
		return
	}

	var buf bytes.Buffer
	if err := exports.WriteMetricsCSV(&buf, metrics); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to write export"})
		return
	}

	if err := h.Credits.LogUsage(c.Request.Context(), credits.OpExport, "metrics_csv"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to record usage"})
		return
	}

	csvAttachment(c, "metrics", buf.Bytes())
}
