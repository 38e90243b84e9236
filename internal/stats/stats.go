// Package stats derives growth, engagement and ranking figures from
// stored metric snapshots.
package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/google/uuid"
)

type GrowthPoint struct {
	Date           string  `json:"date"`
	Followers      int64   `json:"followers"`
	Likes          int64   `json:"likes"`
	Posts          int32   `json:"posts"`
	EngagementRate float64 `json:"engagement_rate"`
}

type GrowthSeries struct {
	BrandID  uuid.UUID     `json:"brand_id"`
	Platform string        `json:"platform"`
	Points   []GrowthPoint `json:"points"`
}

type FollowerGrowth struct {
	BrandID          uuid.UUID `json:"brand_id"`
	BrandName        string    `json:"brand_name"`
	Platform         string    `json:"platform"`
	CurrentFollowers int64     `json:"current_followers"`
	StartFollowers   int64     `json:"start_followers"`
	AbsoluteGrowth   int64     `json:"absolute_growth"`
	GrowthRate       float64   `json:"growth_rate"`
}

type BrandRanking struct {
	Rank           int       `json:"rank"`
	BrandID        uuid.UUID `json:"brand_id"`
	BrandName      string    `json:"brand_name"`
	Category       string    `json:"category"`
	Platform       string    `json:"platform"`
	Followers      int64     `json:"followers"`
	EngagementRate float64   `json:"engagement_rate"`
	Momentum       float64   `json:"momentum"`
}

type PlatformSummary struct {
	Platform       string  `json:"platform"`
	MetricsCount   int64   `json:"metrics_count"`
	AvgEngagement  float64 `json:"avg_engagement"`
	TotalFollowers int64   `json:"total_followers"`
}

// CalculateGrowthRate returns the percentage change from start to
// current. A zero start with any current value counts as 100 percent.
func CalculateGrowthRate(start, current int64) float64 {
	if start == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-start) / float64(start) * 100
}

// CalculateEngagementRate is interactions per follower, in percent.
func CalculateEngagementRate(likes, comments, shares, followers int64) float64 {
	if followers == 0 {
		return 0
	}
	return float64(likes+comments+shares) / float64(followers) * 100
}

// MomentumScore blends growth rate with engagement, weighting recent
// follower growth heavier.
func MomentumScore(growthRate, engagementRate float64) float64 {
	return growthRate*0.7 + engagementRate*0.3
}

// GetGrowthData returns one brand's metric history as a chart series.
func GetGrowthData(ctx context.Context, db *database.Queries, brandID uuid.UUID, platform string, days int) (GrowthSeries, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	metrics, err := db.MetricSeries(ctx, database.MetricSeriesParams{
		BrandID:  brandID,
		Platform: platform,
		Since:    since,
	})
	if err != nil {
		return GrowthSeries{}, err
	}

	series := GrowthSeries{BrandID: brandID, Platform: platform, Points: []GrowthPoint{}}
	for _, m := range metrics {
		series.Points = append(series.Points, GrowthPoint{
			Date:           m.RecordedAt.Format("2006-01-02"),
			Followers:      m.Followers.Int64,
			Likes:          m.Likes.Int64,
			Posts:          m.Posts.Int32,
			EngagementRate: m.EngagementRate.Float64,
		})
	}
	return series, nil
}

// GetFollowerGrowth compares each brand's newest snapshot against the
// closest one at or before the window start.
func GetFollowerGrowth(ctx context.Context, db *database.Queries, platform string, days int) ([]FollowerGrowth, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	latest, err := db.ListLatestMetrics(ctx, database.ListLatestMetricsParams{
		Platform: platform,
		Limit:    10000,
	})
	if err != nil {
		return nil, err
	}

	growth := []FollowerGrowth{}
	for _, m := range latest {
		brand, err := db.GetBrandByID(ctx, m.BrandID)
		if err != nil {
			continue
		}

		start := m.Followers.Int64
		if earlier, err := db.GetMetricBefore(ctx, database.GetMetricBeforeParams{
			BrandID:  m.BrandID,
			Platform: m.Platform,
			Cutoff:   cutoff,
		}); err == nil {
			start = earlier.Followers.Int64
		}

		growth = append(growth, FollowerGrowth{
			BrandID:          m.BrandID,
			BrandName:        brand.Name,
			Platform:         m.Platform,
			CurrentFollowers: m.Followers.Int64,
			StartFollowers:   start,
			AbsoluteGrowth:   m.Followers.Int64 - start,
			GrowthRate:       CalculateGrowthRate(start, m.Followers.Int64),
		})
	}

	sort.Slice(growth, func(i, j int) bool {
		return growth[i].GrowthRate > growth[j].GrowthRate
	})
	return growth, nil
}

// GetTopGrowingBrands is the head of the follower growth list.
func GetTopGrowingBrands(ctx context.Context, db *database.Queries, platform string, days, limit int) ([]FollowerGrowth, error) {
	growth, err := GetFollowerGrowth(ctx, db, platform, days)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if len(growth) > limit {
		growth = growth[:limit]
	}
	return growth, nil
}

// GetBrandRankings orders brands by followers, paginated.
func GetBrandRankings(ctx context.Context, db *database.Queries, platform string, days, offset, limit int) ([]BrandRanking, error) {
	if limit <= 0 {
		limit = 25
	}

	latest, err := db.ListLatestMetrics(ctx, database.ListLatestMetricsParams{
		Platform: platform,
		Limit:    10000,
	})
	if err != nil {
		return nil, err
	}

	growth, err := GetFollowerGrowth(ctx, db, platform, days)
	if err != nil {
		return nil, err
	}
	growthByBrand := make(map[uuid.UUID]FollowerGrowth, len(growth))
	for _, g := range growth {
		growthByBrand[g.BrandID] = g
	}

	rankings := []BrandRanking{}
	for _, m := range latest {
		brand, err := db.GetBrandByID(ctx, m.BrandID)
		if err != nil {
			continue
		}

		g := growthByBrand[m.BrandID]
		rankings = append(rankings, BrandRanking{
			BrandID:        m.BrandID,
			BrandName:      brand.Name,
			Category:       brand.Category,
			Platform:       m.Platform,
			Followers:      m.Followers.Int64,
			EngagementRate: m.EngagementRate.Float64,
			Momentum:       MomentumScore(g.GrowthRate, m.EngagementRate.Float64),
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		return rankings[i].Followers > rankings[j].Followers
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
	}

	if offset >= len(rankings) {
		return []BrandRanking{}, nil
	}
	rankings = rankings[offset:]
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings, nil
}

// GenerateInsights turns the biggest movers into short dashboard
// callouts.
func GenerateInsights(ctx context.Context, db *database.Queries, platform string, days int) ([]string, error) {
	top, err := GetTopGrowingBrands(ctx, db, platform, days, 3)
	if err != nil {
		return nil, err
	}

	insights := []string{}
	for _, g := range top {
		switch {
		case g.AbsoluteGrowth > 0:
			insights = append(insights, fmt.Sprintf(
				"%s gained %d %s followers over the last %d days (%.1f%%)",
				g.BrandName, g.AbsoluteGrowth, g.Platform, days, g.GrowthRate))
		case g.AbsoluteGrowth < 0:
			insights = append(insights, fmt.Sprintf(
				"%s lost %d %s followers over the last %d days",
				g.BrandName, -g.AbsoluteGrowth, g.Platform, days))
		}
	}
	return insights, nil
}

// GetPlatformSummary aggregates the stored metrics per platform.
func GetPlatformSummary(ctx context.Context, db *database.Queries, days int) ([]PlatformSummary, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	rows, err := db.PlatformSummary(ctx, since)
	if err != nil {
		return nil, err
	}

	summary := []PlatformSummary{}
	for _, r := range rows {
		summary = append(summary, PlatformSummary{
			Platform:       r.Platform,
			MetricsCount:   r.MetricsCount,
			AvgEngagement:  r.AvgEngagement.Float64,
			TotalFollowers: r.TotalFollowers.Int64,
		})
	}
	return summary, nil
}
