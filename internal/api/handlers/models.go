package handlers

import (
	"database/sql"
	"time"

	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/google/uuid"
)

type BrandResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	HqCity          *string   `json:"hq_city,omitempty"`
	HqState         *string   `json:"hq_state,omitempty"`
	Country         *string   `json:"country,omitempty"`
	Website         *string   `json:"website,omitempty"`
	InstagramHandle *string   `json:"instagram_handle,omitempty"`
	TiktokHandle    *string   `json:"tiktok_handle,omitempty"`
	Founders        *string   `json:"founders,omitempty"`
	FoundedYear     *int32    `json:"founded_year,omitempty"`
	Revenue         *string   `json:"revenue,omitempty"`
	Funding         *string   `json:"funding,omitempty"`
	ParentCompany   *string   `json:"parent_company,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type MetricResponse struct {
	ID             uuid.UUID `json:"id"`
	BrandID        uuid.UUID `json:"brand_id"`
	Platform       string    `json:"platform"`
	Followers      *int64    `json:"followers,omitempty"`
	Following      *int32    `json:"following,omitempty"`
	Posts          *int32    `json:"posts,omitempty"`
	Likes          *int64    `json:"likes,omitempty"`
	Comments       *int64    `json:"comments,omitempty"`
	Shares         *int64    `json:"shares,omitempty"`
	Views          *int64    `json:"views,omitempty"`
	EngagementRate *float64  `json:"engagement_rate,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type PendingBrandResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Website         *string   `json:"website,omitempty"`
	InstagramHandle *string   `json:"instagram_handle,omitempty"`
	TiktokHandle    *string   `json:"tiktok_handle,omitempty"`
	Category        *string   `json:"category,omitempty"`
	ConfidenceScore *float64  `json:"confidence_score,omitempty"`
	DiscoveredAt    time.Time `json:"discovered_at"`
	Status          string    `json:"status"`
	Source          *string   `json:"source,omitempty"`
}

type SyncLogResponse struct {
	ID               uuid.UUID  `json:"id"`
	Source           string     `json:"source"`
	Status           string     `json:"status"`
	RecordsProcessed *int32     `json:"records_processed,omitempty"`
	RecordsInserted  *int32     `json:"records_inserted,omitempty"`
	RecordsUpdated   *int32     `json:"records_updated,omitempty"`
	ErrorMessage     *string    `json:"error_message,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type BrandRequest struct {
	Name            string  `json:"name" binding:"required"`
	Category        string  `json:"category" binding:"required"`
	HqCity          *string `json:"hq_city"`
	HqState         *string `json:"hq_state"`
	Country         *string `json:"country"`
	Website         *string `json:"website"`
	InstagramHandle *string `json:"instagram_handle"`
	TiktokHandle    *string `json:"tiktok_handle"`
	Founders        *string `json:"founders"`
	FoundedYear     *int32  `json:"founded_year"`
	Revenue         *string `json:"revenue"`
	Funding         *string `json:"funding"`
	ParentCompany   *string `json:"parent_company"`
	Notes           *string `json:"notes"`
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullInt32(n sql.NullInt32) *int32 {
	if !n.Valid {
		return nil
	}
	return &n.Int32
}

func nullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

func nullFloat64(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func toNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func toNullInt32(n *int32) sql.NullInt32 {
	if n == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *n, Valid: true}
}

func brandToResponse(b database.Brand) BrandResponse {
	return BrandResponse{
		ID:              b.ID,
		Name:            b.Name,
		Category:        b.Category,
		HqCity:          nullString(b.HqCity),
		HqState:         nullString(b.HqState),
		Country:         nullString(b.Country),
		Website:         nullString(b.Website),
		InstagramHandle: nullString(b.InstagramHandle),
		TiktokHandle:    nullString(b.TiktokHandle),
		Founders:        nullString(b.Founders),
		FoundedYear:     nullInt32(b.FoundedYear),
		Revenue:         nullString(b.Revenue),
		Funding:         nullString(b.Funding),
		ParentCompany:   nullString(b.ParentCompany),
		Notes:           nullString(b.Notes),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func brandsToResponse(brands []database.Brand) []BrandResponse {
	out := make([]BrandResponse, 0, len(brands))
	for _, b := range brands {
		out = append(out, brandToResponse(b))
	}
	return out
}

func metricToResponse(m database.SocialMetric) MetricResponse {
	return MetricResponse{
		ID:             m.ID,
		BrandID:        m.BrandID,
		Platform:       m.Platform,
		Followers:      nullInt64(m.Followers),
		Following:      nullInt32(m.Following),
		Posts:          nullInt32(m.Posts),
		Likes:          nullInt64(m.Likes),
		Comments:       nullInt64(m.Comments),
		Shares:         nullInt64(m.Shares),
		Views:          nullInt64(m.Views),
		EngagementRate: nullFloat64(m.EngagementRate),
		RecordedAt:     m.RecordedAt,
	}
}

func metricsToResponse(metrics []database.SocialMetric) []MetricResponse {
	out := make([]MetricResponse, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, metricToResponse(m))
	}
	return out
}

func pendingToResponse(p database.PendingBrand) PendingBrandResponse {
	return PendingBrandResponse{
		ID:              p.ID,
		Name:            p.Name,
		Website:         nullString(p.Website),
		InstagramHandle: nullString(p.InstagramHandle),
		TiktokHandle:    nullString(p.TiktokHandle),
		Category:        nullString(p.Category),
		ConfidenceScore: nullFloat64(p.ConfidenceScore),
		DiscoveredAt:    p.DiscoveredAt,
		Status:          p.Status,
		Source:          nullString(p.Source),
	}
}

func syncLogToResponse(l database.SyncLog) SyncLogResponse {
	return SyncLogResponse{
		ID:               l.ID,
		Source:           l.Source,
		Status:           l.Status,
		RecordsProcessed: nullInt32(l.RecordsProcessed),
		RecordsInserted:  nullInt32(l.RecordsInserted),
		RecordsUpdated:   nullInt32(l.RecordsUpdated),
		ErrorMessage:     nullString(l.ErrorMessage),
		StartedAt:        l.StartedAt,
		CompletedAt:      nullTime(l.CompletedAt),
	}
}
