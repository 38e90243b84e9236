package handlers

import (
	"net/http"
	"strconv"

	"github.com/fluffyriot/brandpulse/internal/stats"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) RankingsHandler(c *gin.Context) {
	offset, limit := parsePagination(c, 25)
	platform := c.DefaultQuery("platform", "tiktok")

	category := c.Query("category")

	// Category filtering happens after ranking so ranks stay global.
	fetchLimit := int(limit)
	fetchOffset := int(offset)
	if category != "" {
		fetchLimit = 100000
		fetchOffset = 0
	}

	rankings, err := stats.GetBrandRankings(c.Request.Context(), h.DB, platform,
		parseDays(c, 30), fetchOffset, fetchLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to build rankings"})
		return
	}

	if category != "" {
		filtered := rankings[:0]
		for _, r := range rankings {
			if r.Category == category {
				filtered = append(filtered, r)
			}
		}
		rankings = filtered
		if int(offset) < len(rankings) {
			rankings = rankings[offset:]
		} else {
			rankings = rankings[:0]
		}
		if len(rankings) > int(limit) {
			rankings = rankings[:limit]
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"platform": platform,
		"category": category,
		"rankings": rankings,
		"offset":   offset,
		"limit":    limit,
	})
}

func (h *Handler) TopGrowingHandler(c *gin.Context) {
	platform := c.DefaultQuery("platform", "tiktok")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	top, err := stats.GetTopGrowingBrands(c.Request.Context(), h.DB, platform, parseDays(c, 30), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to load top growing brands"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"platform": platform,
		"brands":   top,
	})
}

// BrandPositionHandler reports where one brand sits in the full
// follower ranking for a platform.
func (h *Handler) BrandPositionHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid brand id"})
		return
	}

	platform := c.DefaultQuery("platform", "tiktok")
	rankings, err := stats.GetBrandRankings(c.Request.Context(), h.DB, platform, parseDays(c, 30), 0, 100000)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to build rankings"})
		return
	}

	for _, r := range rankings {
		if r.BrandID == id {
			c.JSON(http.StatusOK, gin.H{
				"platform": platform,
				"rank":     r.Rank,
				"of":       len(rankings),
				"entry":    r,
			})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Brand has no ranked metrics on this platform"})
}

func (h *Handler) FollowerGrowthHandler(c *gin.Context) {
	platform := c.DefaultQuery("platform", "tiktok")

	growth, err := stats.GetFollowerGrowth(c.Request.Context(), h.DB, platform, parseDays(c, 30))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to compute follower growth"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"platform": platform,
		"growth":   growth,
	})
}
