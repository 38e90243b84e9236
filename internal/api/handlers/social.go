package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/fluffyriot/brandpulse/internal/worker"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type triggerSyncRequest struct {
	BrandIDs []uuid.UUID `json:"brand_ids"`
}

// TriggerSyncAllHandler starts a background batch. An optional
// brand_ids list narrows the batch to those brands.
func (h *Handler) TriggerSyncAllHandler(c *gin.Context) {
	if h.Worker.IsSyncing() {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "A sync is already in progress",
		})
		return
	}

	var req triggerSyncRequest
	_ = c.ShouldBindJSON(&req)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic in manual sync trigger: %v", r)
			}
		}()
		if len(req.BrandIDs) > 0 {
			h.Worker.SyncSelected(context.Background(), req.BrandIDs)
		} else {
			h.Worker.SyncAll(context.Background())
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "ok",
		"message": "Sync triggered successfully",
		"brands":  len(req.BrandIDs),
	})
}

func (h *Handler) TriggerSyncBrandHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id"})
		return
	}

	brand, err := h.DB.GetBrandByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Brand not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load brand"})
		return
	}

	results, started := h.Worker.SyncBrand(c.Request.Context(), worker.BrandHandle{
		BrandID:           brand.ID,
		Name:              brand.Name,
		TikTokUsername:    brand.TiktokHandle.String,
		InstagramUsername: brand.InstagramHandle.String,
	})
	if !started {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "A sync is already in progress",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"results": results,
	})
}

func (h *Handler) SyncStatusHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	logs, err := h.DB.ListRecentSyncLogs(c.Request.Context(), database.ListRecentSyncLogsParams{
		Source: c.Query("source"),
		Limit:  int32(limit),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load sync logs"})
		return
	}

	out := make([]SyncLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, syncLogToResponse(l))
	}

	c.JSON(http.StatusOK, gin.H{
		"running":          h.Worker.IsSyncing(),
		"scheduler_active": h.Worker.IsActive(),
		"logs":             out,
	})
}

func (h *Handler) SyncHistoryHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	c.JSON(http.StatusOK, gin.H{
		"history": h.Worker.Orchestrator.History(limit),
	})
}

func (h *Handler) BrandSyncStatusHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id"})
		return
	}

	results, ok := h.Worker.Orchestrator.BrandStatus(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Brand has not been synced since startup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *Handler) QuotaLimitsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"limits": h.Worker.Orchestrator.Limits()})
}

// TestConnectivityHandler probes the platform APIs with the supplied
// usernames; without any, both platforms are probed with well-known
// public accounts.
func (h *Handler) TestConnectivityHandler(c *gin.Context) {
	tiktok := c.Query("tiktok_username")
	instagram := c.Query("instagram_username")
	if tiktok == "" && instagram == "" {
		tiktok, instagram = "tiktok", "instagram"
	}

	c.JSON(http.StatusOK, gin.H{
		"results": h.Worker.Orchestrator.TestConnectivity(c.Request.Context(), tiktok, instagram),
	})
}

type schedulerRequest struct {
	Action   string `json:"action" binding:"required"`
	Interval string `json:"interval"`
}

func (h *Handler) SchedulerHandler(c *gin.Context) {
	var req schedulerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Action is required"})
		return
	}

	interval := h.Config.SyncInterval
	if req.Interval != "" {
		parsed, err := time.ParseDuration(req.Interval)
		if err != nil || parsed < time.Minute {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid interval"})
			return
		}
		interval = parsed
	}

	switch req.Action {
	case "start":
		h.Worker.Start(interval)
	case "stop":
		h.Worker.Stop()
	case "restart":
		h.Worker.Restart(interval)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Unknown action"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"scheduler_active": h.Worker.IsActive(),
	})
}
