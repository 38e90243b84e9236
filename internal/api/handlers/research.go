package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type researchRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *Handler) ResearchWebsiteHandler(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "A website url is required"})
		return
	}

	pending, err := h.Researcher.ResearchAndQueue(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, pendingToResponse(pending))
}

func (h *Handler) ListPendingBrandsHandler(c *gin.Context) {
	pending, err := h.DB.ListPendingBrands(c.Request.Context(), c.DefaultQuery("status", "pending"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to list pending brands"})
		return
	}

	out := make([]PendingBrandResponse, 0, len(pending))
	for _, p := range pending {
		out = append(out, pendingToResponse(p))
	}

	c.JSON(http.StatusOK, gin.H{"pending": out})
}

func (h *Handler) ApprovePendingHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid pending brand id"})
		return
	}

	brand, err := h.Researcher.ApprovePending(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Pending brand not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, brandToResponse(brand))
}

func (h *Handler) RejectPendingHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid pending brand id"})
		return
	}

	if err := h.Researcher.RejectPending(c.Request.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Pending brand not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Pending brand rejected"})
}

func (h *Handler) ListUpdateLogsHandler(c *gin.Context) {
	var brandID uuid.NullUUID
	if raw := c.Query("brand_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id"})
			return
		}
		brandID = uuid.NullUUID{UUID: id, Valid: true}
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "90"))
	if days <= 0 {
		days = 90
	}

	logs, err := h.DB.ListUpdateLogs(c.Request.Context(), database.ListUpdateLogsParams{
		BrandID: brandID,
		Since:   time.Now().AddDate(0, 0, -days),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to list update logs"})
		return
	}

	out := make([]gin.H, 0, len(logs))
	for _, l := range logs {
		out = append(out, gin.H{
			"id":            l.ID,
			"brand_id":      l.BrandID,
			"brand_name":    l.BrandName,
			"field_changed": l.FieldChanged,
			"old_value":     nullString(l.OldValue),
			"new_value":     nullString(l.NewValue),
			"update_type":   nullString(l.UpdateType),
			"updated_at":    l.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"updates": out})
}

func (h *Handler) RefreshBrandHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id"})
		return
	}

	logs, err := h.Researcher.RefreshBrand(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Brand not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"fields_changed": len(logs),
	})
}
