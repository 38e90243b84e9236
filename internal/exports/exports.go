// SPDX-License-Identifier: AGPL-3.0-only

package exports

import (
	"database/sql"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/fluffyriot/brandpulse/internal/database"
)

func WriteBrandsCSV(w io.Writer, brands []database.Brand) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "name", "category", "hq_city", "hq_state", "country",
		"website", "instagram_handle", "tiktok_handle", "founders", "founded_year",
		"revenue", "funding", "parent_company", "notes", "created_at", "updated_at"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, b := range brands {
		foundedYear := ""
		if b.FoundedYear.Valid {
			foundedYear = strconv.Itoa(int(b.FoundedYear.Int32))
		}
		record := []string{
			b.ID.String(), b.Name, b.Category, b.HqCity.String, b.HqState.String,
			b.Country.String, b.Website.String, b.InstagramHandle.String,
			b.TiktokHandle.String, b.Founders.String, foundedYear,
			b.Revenue.String, b.Funding.String, b.ParentCompany.String,
			b.Notes.String,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
			b.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteMetricsCSV(w io.Writer, metrics []database.SocialMetric) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "brand_id", "platform", "followers", "following",
		"posts", "likes", "comments", "shares", "views", "engagement_rate",
		"recorded_at"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, m := range metrics {
		record := []string{
			m.ID.String(), m.BrandID.String(), m.Platform,
			nullInt64(m.Followers), nullInt32(m.Following), nullInt32(m.Posts),
			nullInt64(m.Likes), nullInt64(m.Comments), nullInt64(m.Shares),
			nullInt64(m.Views), nullFloat(m.EngagementRate),
			m.RecordedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func nullInt64(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}

func nullInt32(v sql.NullInt32) string {
	if !v.Valid {
		return ""
	}
	return strconv.Itoa(int(v.Int32))
}

func nullFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}
