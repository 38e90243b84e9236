package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const metricColumns = `id, brand_id, platform, followers, following, posts, likes,
	comments, shares, views, engagement_rate, recorded_at`

func scanMetric(row interface{ Scan(...any) error }) (SocialMetric, error) {
	var m SocialMetric
	err := row.Scan(
		&m.ID, &m.BrandID, &m.Platform, &m.Followers, &m.Following, &m.Posts,
		&m.Likes, &m.Comments, &m.Shares, &m.Views, &m.EngagementRate,
		&m.RecordedAt,
	)
	return m, err
}

func collectMetrics(rows *sql.Rows) ([]SocialMetric, error) {
	defer rows.Close()
	var metrics []SocialMetric
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

type CreateMetricParams struct {
	ID             uuid.UUID
	BrandID        uuid.UUID
	Platform       string
	Followers      sql.NullInt64
	Following      sql.NullInt32
	Posts          sql.NullInt32
	Likes          sql.NullInt64
	Comments       sql.NullInt64
	Shares         sql.NullInt64
	Views          sql.NullInt64
	EngagementRate sql.NullFloat64
	RecordedAt     time.Time
}

func (q *Queries) CreateMetric(ctx context.Context, arg CreateMetricParams) (SocialMetric, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO social_metrics (id, brand_id, platform, followers, following,
			posts, likes, comments, shares, views, engagement_rate, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+metricColumns,
		arg.ID, arg.BrandID, arg.Platform, arg.Followers, arg.Following,
		arg.Posts, arg.Likes, arg.Comments, arg.Shares, arg.Views,
		arg.EngagementRate, arg.RecordedAt,
	)
	return scanMetric(row)
}

type ListMetricsParams struct {
	BrandID  uuid.NullUUID
	Platform string
	Since    time.Time
}

func (q *Queries) ListMetrics(ctx context.Context, arg ListMetricsParams) ([]SocialMetric, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+metricColumns+` FROM social_metrics
		WHERE ($1::uuid IS NULL OR brand_id = $1)
		  AND ($2 = '' OR platform = $2)
		  AND recorded_at >= $3
		ORDER BY recorded_at DESC`,
		arg.BrandID, arg.Platform, arg.Since)
	if err != nil {
		return nil, err
	}
	return collectMetrics(rows)
}

type MetricSeriesParams struct {
	BrandID  uuid.UUID
	Platform string
	Since    time.Time
}

// MetricSeries returns the metric history oldest-first, for chart series.
func (q *Queries) MetricSeries(ctx context.Context, arg MetricSeriesParams) ([]SocialMetric, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+metricColumns+` FROM social_metrics
		WHERE brand_id = $1 AND platform = $2 AND recorded_at >= $3
		ORDER BY recorded_at ASC`,
		arg.BrandID, arg.Platform, arg.Since)
	if err != nil {
		return nil, err
	}
	return collectMetrics(rows)
}

type GetLatestMetricParams struct {
	BrandID  uuid.UUID
	Platform string
}

func (q *Queries) GetLatestMetric(ctx context.Context, arg GetLatestMetricParams) (SocialMetric, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+metricColumns+` FROM social_metrics
		WHERE brand_id = $1 AND ($2 = '' OR platform = $2)
		ORDER BY recorded_at DESC LIMIT 1`,
		arg.BrandID, arg.Platform)
	return scanMetric(row)
}

type GetMetricBeforeParams struct {
	BrandID  uuid.UUID
	Platform string
	Cutoff   time.Time
}

func (q *Queries) GetMetricBefore(ctx context.Context, arg GetMetricBeforeParams) (SocialMetric, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+metricColumns+` FROM social_metrics
		WHERE brand_id = $1 AND platform = $2 AND recorded_at <= $3
		ORDER BY recorded_at DESC LIMIT 1`,
		arg.BrandID, arg.Platform, arg.Cutoff)
	return scanMetric(row)
}

type ListLatestMetricsParams struct {
	Platform string
	Limit    int32
}

// ListLatestMetrics returns the newest metric per (brand, platform).
func (q *Queries) ListLatestMetrics(ctx context.Context, arg ListLatestMetricsParams) ([]SocialMetric, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT DISTINCT ON (brand_id, platform) `+metricColumns+`
		FROM social_metrics
		WHERE ($1 = '' OR platform = $1)
		ORDER BY brand_id, platform, recorded_at DESC
		LIMIT $2`,
		arg.Platform, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectMetrics(rows)
}

type PlatformSummaryRow struct {
	Platform       string
	MetricsCount   int64
	AvgEngagement  sql.NullFloat64
	TotalFollowers sql.NullInt64
}

func (q *Queries) PlatformSummary(ctx context.Context, since time.Time) ([]PlatformSummaryRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT platform, COUNT(id), AVG(engagement_rate), SUM(followers)
		FROM social_metrics
		WHERE recorded_at >= $1
		GROUP BY platform ORDER BY platform`,
		since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var summary []PlatformSummaryRow
	for rows.Next() {
		var r PlatformSummaryRow
		if err := rows.Scan(&r.Platform, &r.MetricsCount, &r.AvgEngagement, &r.TotalFollowers); err != nil {
			return nil, err
		}
		summary = append(summary, r)
	}
	return summary, rows.Err()
}

func (q *Queries) CountBrandsWithMetrics(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT brand_id) FROM social_metrics`).Scan(&count)
	return count, err
}

// ExportMetrics returns every stored metric, optionally for one brand.
func (q *Queries) ExportMetrics(ctx context.Context, brandID uuid.NullUUID) ([]SocialMetric, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+metricColumns+` FROM social_metrics
		WHERE ($1::uuid IS NULL OR brand_id = $1)
		ORDER BY recorded_at`,
		brandID)
	if err != nil {
		return nil, err
	}
	return collectMetrics(rows)
}
