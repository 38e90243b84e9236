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

func parsePagination(c *gin.Context, defaultLimit int32) (int32, int32) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(int(defaultLimit))))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 500 {
		limit = int(defaultLimit)
	}
	return int32(offset), int32(limit)
}

func (h *Handler) ListBrandsHandler(c *gin.Context) {
	offset, limit := parsePagination(c, 50)

	brands, err := h.DB.ListBrands(c.Request.Context(), database.ListBrandsParams{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to list brands"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands": brandsToResponse(brands),
		"offset": offset,
		"limit":  limit,
	})
}

func (h *Handler) GetBrandHandler(c *gin.Context) {
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

	c.JSON(http.StatusOK, brandToResponse(brand))
}

func (h *Handler) CreateBrandHandler(c *gin.Context) {
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Name and category are required"})
		return
	}

	if _, err := h.DB.GetBrandByName(c.Request.Context(), req.Name); err == nil {
		c.JSON(http.StatusConflict, gin.H{"status": "error", "message": "A brand with that name already exists"})
		return
	}

	now := time.Now()
	brand, err := h.DB.CreateBrand(c.Request.Context(), database.CreateBrandParams{
		ID:              uuid.New(),
		Name:            req.Name,
		Category:        req.Category,
		HqCity:          toNullString(req.HqCity),
		HqState:         toNullString(req.HqState),
		Country:         toNullString(req.Country),
		Website:         toNullString(req.Website),
		InstagramHandle: toNullString(req.InstagramHandle),
		TiktokHandle:    toNullString(req.TiktokHandle),
		Founders:        toNullString(req.Founders),
		FoundedYear:     toNullInt32(req.FoundedYear),
		Revenue:         toNullString(req.Revenue),
		Funding:         toNullString(req.Funding),
		ParentCompany:   toNullString(req.ParentCompany),
		Notes:           toNullString(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to create brand"})
		return
	}

	c.JSON(http.StatusCreated, brandToResponse(brand))
}

func (h *Handler) UpdateBrandHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id"})
		return
	}

	existing, err := h.DB.GetBrandByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Brand not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load brand"})
		return
	}

	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Name and category are required"})
		return
	}

	// Absent optional fields keep their stored values.
	params := database.UpdateBrandParams{
		ID:              existing.ID,
		Name:            req.Name,
		Category:        req.Category,
		HqCity:          keepOr(existing.HqCity, req.HqCity),
		HqState:         keepOr(existing.HqState, req.HqState),
		Country:         keepOr(existing.Country, req.Country),
		Website:         keepOr(existing.Website, req.Website),
		InstagramHandle: keepOr(existing.InstagramHandle, req.InstagramHandle),
		TiktokHandle:    keepOr(existing.TiktokHandle, req.TiktokHandle),
		Founders:        keepOr(existing.Founders, req.Founders),
		FoundedYear:     existing.FoundedYear,
		Revenue:         keepOr(existing.Revenue, req.Revenue),
		Funding:         keepOr(existing.Funding, req.Funding),
		ParentCompany:   keepOr(existing.ParentCompany, req.ParentCompany),
		Notes:           keepOr(existing.Notes, req.Notes),
		UpdatedAt:       time.Now(),
	}
	if req.FoundedYear != nil {
		params.FoundedYear = sql.NullInt32{Int32: *req.FoundedYear, Valid: true}
	}

	brand, err := h.DB.UpdateBrand(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to update brand"})
		return
	}

	c.JSON(http.StatusOK, brandToResponse(brand))
}

func keepOr(existing sql.NullString, incoming *string) sql.NullString {
	if incoming == nil {
		return existing
	}
	return sql.NullString{String: *incoming, Valid: *incoming != ""}
}

// BrandFullHandler bundles the brand record with its latest snapshot
// per platform, the shape the detail page renders.
func (h *Handler) BrandFullHandler(c *gin.Context) {
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

	latest := gin.H{}
	for _, platform := range []string{"tiktok", "instagram"} {
		metric, err := h.DB.GetLatestMetric(c.Request.Context(), database.GetLatestMetricParams{
			BrandID:  id,
			Platform: platform,
		})
		if err != nil {
			continue
		}
		latest[platform] = metricToResponse(metric)
	}

	payload := gin.H{
		"brand":          brandToResponse(brand),
		"latest_metrics": latest,
	}
	if results, ok := h.Worker.Orchestrator.BrandStatus(id); ok {
		payload["last_sync"] = results
	}

	c.JSON(http.StatusOK, payload)
}

func (h *Handler) DeleteBrandHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id"})
		return
	}

	affected, err := h.DB.DeleteBrand(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to delete brand"})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Brand not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Brand deleted"})
}

func (h *Handler) ListCategoriesHandler(c *gin.Context) {
	counts, err := h.DB.CountBrandsByCategory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to list categories"})
		return
	}

	categories := make([]gin.H, 0, len(counts))
	for _, row := range counts {
		categories = append(categories, gin.H{
			"category": row.Category,
			"count":    row.Count,
		})
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
