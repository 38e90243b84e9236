package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/fluffyriot/brandpulse/internal/stats"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseDays(c *gin.Context, fallback int) int {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(fallback)))
	if err != nil || days <= 0 {
		return fallback
	}
	return days
}

func (h *Handler) ListMetricsHandler(c *gin.Context) {
	var brandID uuid.NullUUID
	if raw := c.Query("brand_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id"})
			return
		}
		brandID = uuid.NullUUID{UUID: id, Valid: true}
	}

	days := parseDays(c, 30)
	metrics, err := h.DB.ListMetrics(c.Request.Context(), database.ListMetricsParams{
		BrandID:  brandID,
		Platform: c.Query("platform"),
		Since:    time.Now().AddDate(0, 0, -days),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to list metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metricsToResponse(metrics)})
}

func (h *Handler) BrandGrowthHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id"})
		return
	}

	platform := c.DefaultQuery("platform", "tiktok")
	series, err := stats.GetGrowthData(c.Request.Context(), h.DB, id, platform, parseDays(c, 30))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to build growth series"})
		return
	}

	c.JSON(http.StatusOK, series)
}

func (h *Handler) LatestMetricHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id"})
		return
	}

	metric, err := h.DB.GetLatestMetric(c.Request.Context(), database.GetLatestMetricParams{
		BrandID:  id,
		Platform: c.Query("platform"),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "No metrics recorded for this brand"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load metric"})
		return
	}

	c.JSON(http.StatusOK, metricToResponse(metric))
}

type createMetricRequest struct {
	BrandID        uuid.UUID `json:"brand_id" binding:"required"`
	Platform       string    `json:"platform" binding:"required"`
	Followers      *int64    `json:"followers"`
	Following      *int32    `json:"following"`
	Posts          *int32    `json:"posts"`
	Likes          *int64    `json:"likes"`
	Comments       *int64    `json:"comments"`
	Shares         *int64    `json:"shares"`
	Views          *int64    `json:"views"`
	EngagementRate *float64  `json:"engagement_rate"`
}

// CreateMetricHandler records a manual snapshot, for platforms the
// sync does not cover or for backfilling history.
func (h *Handler) CreateMetricHandler(c *gin.Context) {
	var req createMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Brand id and platform are required"})
		return
	}

	if _, err := h.DB.GetBrandByID(c.Request.Context(), req.BrandID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Brand not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load brand"})
		return
	}

	params := database.CreateMetricParams{
		ID:         uuid.New(),
		BrandID:    req.BrandID,
		Platform:   req.Platform,
		RecordedAt: time.Now(),
	}
	if req.Followers != nil {
		params.Followers = sql.NullInt64{Int64: *req.Followers, Valid: true}
	}
	if req.Following != nil {
		params.Following = sql.NullInt32{Int32: *req.Following, Valid: true}
	}
	if req.Posts != nil {
		params.Posts = sql.NullInt32{Int32: *req.Posts, Valid: true}
	}
	if req.Likes != nil {
		params.Likes = sql.NullInt64{Int64: *req.Likes, Valid: true}
	}
	if req.Comments != nil {
		params.Comments = sql.NullInt64{Int64: *req.Comments, Valid: true}
	}
	if req.Shares != nil {
		params.Shares = sql.NullInt64{Int64: *req.Shares, Valid: true}
	}
	if req.Views != nil {
		params.Views = sql.NullInt64{Int64: *req.Views, Valid: true}
	}
	if req.EngagementRate != nil {
		params.EngagementRate = sql.NullFloat64{Float64: *req.EngagementRate, Valid: true}
	}

	metric, err := h.DB.CreateMetric(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create metric"})
		return
	}

	c.JSON(http.StatusCreated, metricToResponse(metric))
}

// CompareMetricsHandler returns the latest snapshot for each requested
// brand side by side.
func (h *Handler) CompareMetricsHandler(c *gin.Context) {
	raw := c.QueryArray("brand_id")
	if len(raw) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "At least two brand_id values are required"})
		return
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id: " + r})
			return
		}
		ids = append(ids, id)
	}

	brands, err := h.DB.ListBrandsByIDs(c.Request.Context(), ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load brands"})
		return
	}

	platform := c.DefaultQuery("platform", "tiktok")
	comparison := make([]gin.H, 0, len(brands))
	for _, b := range brands {
		entry := gin.H{"brand": brandToResponse(b)}
		if metric, err := h.DB.GetLatestMetric(c.Request.Context(), database.GetLatestMetricParams{
			BrandID:  b.ID,
			Platform: platform,
		}); err == nil {
			entry["latest"] = metricToResponse(metric)
		}
		comparison = append(comparison, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"platform":   platform,
		"comparison": comparison,
	})
}

func (h *Handler) PlatformSummaryHandler(c *gin.Context) {
	summary, err := stats.GetPlatformSummary(c.Request.Context(), h.DB, parseDays(c, 30))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to build platform summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"platforms": summary})
}
