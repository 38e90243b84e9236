// Package sheets imports the brand directory from a Google Sheet and
// exports snapshots back, for teams that still maintain the master
// list in a spreadsheet.
package sheets

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/google/uuid"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const (
	brandsRange  = "Brands!A2:O"
	metricsRange = "Metrics!A2:K"
)

type ImportSummary struct {
	Processed int `json:"processed"`
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
}

type Service struct {
	DB            *database.Queries
	SpreadsheetID string
	svc           *gsheets.Service
}

func NewService(ctx context.Context, db *database.Queries, credentialsPath, spreadsheetID string) (*Service, error) {
	if credentialsPath == "" || spreadsheetID == "" {
		return nil, fmt.Errorf("sheets sync requires GOOGLE_CREDENTIALS_PATH and GOOGLE_SHEETS_ID")
	}

	raw, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	svc, err := gsheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &Service{DB: db, SpreadsheetID: spreadsheetID, svc: svc}, nil
}

func cell(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s, _ := row[idx].(string)
	return strings.TrimSpace(s)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ImportBrands upserts directory rows from the Brands sheet, matching
// existing brands by name. Expected columns: name, category, hq_city,
// hq_state, country, website, instagram, tiktok, founders, founded_year,
// revenue, funding, parent_company, notes.
func (s *Service) ImportBrands(ctx context.Context) (ImportSummary, error) {

	resp, err := s.svc.Spreadsheets.Values.Get(s.SpreadsheetID, brandsRange).Context(ctx).Do()
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to read sheet: %w", err)
	}

	var summary ImportSummary

	for _, row := range resp.Values {
		name := cell(row, 0)
		if name == "" {
			summary.Skipped++
			continue
		}
		summary.Processed++

		category := cell(row, 1)
		if category == "" {
			category = "uncategorized"
		}

		var foundedYear sql.NullInt32
		if y := cell(row, 9); y != "" {
			if parsed, err := strconv.Atoi(y); err == nil {
				foundedYear = sql.NullInt32{Int32: int32(parsed), Valid: true}
			}
		}

		now := time.Now()

		existing, err := s.DB.GetBrandByName(ctx, name)
		if err != nil {
			_, err = s.DB.CreateBrand(ctx, database.CreateBrandParams{
				ID:              uuid.New(),
				Name:            name,
				Category:        category,
				HqCity:          nullable(cell(row, 2)),
				HqState:         nullable(cell(row, 3)),
				Country:         nullable(cell(row, 4)),
				Website:         nullable(cell(row, 5)),
				InstagramHandle: nullable(cell(row, 6)),
				TiktokHandle:    nullable(cell(row, 7)),
				Founders:        nullable(cell(row, 8)),
				FoundedYear:     foundedYear,
				Revenue:         nullable(cell(row, 10)),
				Funding:         nullable(cell(row, 11)),
				ParentCompany:   nullable(cell(row, 12)),
				Notes:           nullable(cell(row, 13)),
				CreatedAt:       now,
				UpdatedAt:       now,
			})
			if err != nil {
				log.Printf("Sheets: Failed to insert brand %s: %v", name, err)
				summary.Skipped++
				continue
			}
			summary.Inserted++
			continue
		}

		_, err = s.DB.UpdateBrand(ctx, database.UpdateBrandParams{
			ID:              existing.ID,
			Name:            name,
			Category:        category,
			HqCity:          orKeep(nullable(cell(row, 2)), existing.HqCity),
			HqState:         orKeep(nullable(cell(row, 3)), existing.HqState),
			Country:         orKeep(nullable(cell(row, 4)), existing.Country),
			Website:         orKeep(nullable(cell(row, 5)), existing.Website),
			InstagramHandle: orKeep(nullable(cell(row, 6)), existing.InstagramHandle),
			TiktokHandle:    orKeep(nullable(cell(row, 7)), existing.TiktokHandle),
			Founders:        orKeep(nullable(cell(row, 8)), existing.Founders),
			FoundedYear:     orKeepInt(foundedYear, existing.FoundedYear),
			Revenue:         orKeep(nullable(cell(row, 10)), existing.Revenue),
			Funding:         orKeep(nullable(cell(row, 11)), existing.Funding),
			ParentCompany:   orKeep(nullable(cell(row, 12)), existing.ParentCompany),
			Notes:           orKeep(nullable(cell(row, 13)), existing.Notes),
			UpdatedAt:       now,
		})
		if err != nil {
			log.Printf("Sheets: Failed to update brand %s: %v", name, err)
			summary.Skipped++
			continue
		}
		summary.Updated++
	}

	return summary, nil
}

// ImportMetrics appends snapshot rows from the Metrics sheet. Rows are
// matched to brands by name; rows naming an unknown brand are skipped.
// Expected columns: brand_name, platform, followers, following, posts,
// likes, comments, shares, views, engagement_rate, date (YYYY-MM-DD).
func (s *Service) ImportMetrics(ctx context.Context) (ImportSummary, error) {

	resp, err := s.svc.Spreadsheets.Values.Get(s.SpreadsheetID, metricsRange).Context(ctx).Do()
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to read sheet: %w", err)
	}

	var summary ImportSummary

	for _, row := range resp.Values {
		name, params := parseMetricRow(row)
		if name == "" {
			summary.Skipped++
			continue
		}
		summary.Processed++

		brand, err := s.DB.GetBrandByName(ctx, name)
		if err != nil {
			summary.Skipped++
			continue
		}

		params.ID = uuid.New()
		params.BrandID = brand.ID
		if _, err := s.DB.CreateMetric(ctx, params); err != nil {
			log.Printf("Sheets: Failed to insert metric for %s: %v", name, err)
			summary.Skipped++
			continue
		}
		summary.Inserted++
	}

	return summary, nil
}

// parseMetricRow turns one Metrics sheet row into insert params, minus
// the id and brand_id the caller fills in.
func parseMetricRow(row []interface{}) (string, database.CreateMetricParams) {
	name := cell(row, 0)

	platform := cell(row, 1)
	if platform == "" {
		platform = "instagram"
	}

	recordedAt := time.Now()
	if d := cell(row, 10); d != "" {
		if parsed, err := time.Parse("2006-01-02", d); err == nil {
			recordedAt = parsed
		}
	}

	return name, database.CreateMetricParams{
		Platform:       platform,
		Followers:      nullableInt64(cell(row, 2)),
		Following:      nullableInt32(cell(row, 3)),
		Posts:          nullableInt32(cell(row, 4)),
		Likes:          nullableInt64(cell(row, 5)),
		Comments:       nullableInt64(cell(row, 6)),
		Shares:         nullableInt64(cell(row, 7)),
		Views:          nullableInt64(cell(row, 8)),
		EngagementRate: nullableFloat(cell(row, 9)),
		RecordedAt:     recordedAt,
	}
}

func nullableInt64(s string) sql.NullInt64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func nullableInt32(s string) sql.NullInt32 {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(v), Valid: true}
}

func nullableFloat(s string) sql.NullFloat64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// Empty sheet cells never blank out data we already have.
func orKeep(incoming, existing sql.NullString) sql.NullString {
	if incoming.Valid {
		return incoming
	}
	return existing
}

func orKeepInt(incoming, existing sql.NullInt32) sql.NullInt32 {
	if incoming.Valid {
		return incoming
	}
	return existing
}

// ExportBrands overwrites the Brands sheet with the current directory.
func (s *Service) ExportBrands(ctx context.Context) (int, error) {

	brands, err := s.DB.ListBrands(ctx, database.ListBrandsParams{Limit: 100000})
	if err != nil {
		return 0, err
	}

	values := [][]interface{}{
		{"name", "category", "hq_city", "hq_state", "country", "website",
			"instagram_handle", "tiktok_handle", "founders", "founded_year",
			"revenue", "funding", "parent_company", "notes"},
	}
	for _, b := range brands {
		foundedYear := ""
		if b.FoundedYear.Valid {
			foundedYear = strconv.Itoa(int(b.FoundedYear.Int32))
		}
		values = append(values, []interface{}{
			b.Name, b.Category, b.HqCity.String, b.HqState.String,
			b.Country.String, b.Website.String, b.InstagramHandle.String,
			b.TiktokHandle.String, b.Founders.String, foundedYear,
			b.Revenue.String, b.Funding.String, b.ParentCompany.String,
			b.Notes.String,
		})
	}

	_, err = s.svc.Spreadsheets.Values.Update(s.SpreadsheetID, "Brands!A1", &gsheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to write sheet: %w", err)
	}

	return len(brands), nil
}

// ExportMetrics overwrites the Metrics sheet with every stored snapshot,
// one row per metric, brands referenced by name.
func (s *Service) ExportMetrics(ctx context.Context) (int, error) {

	brands, err := s.DB.ListBrands(ctx, database.ListBrandsParams{Limit: 100000})
	if err != nil {
		return 0, err
	}
	names := make(map[uuid.UUID]string, len(brands))
	for _, b := range brands {
		names[b.ID] = b.Name
	}

	metrics, err := s.DB.ExportMetrics(ctx, uuid.NullUUID{})
	if err != nil {
		return 0, err
	}

	values := [][]interface{}{
		{"brand_name", "platform", "followers", "following", "posts",
			"likes", "comments", "shares", "views", "engagement_rate", "date"},
	}
	exported := 0
	for _, m := range metrics {
		name, ok := names[m.BrandID]
		if !ok {
			continue
		}
		values = append(values, []interface{}{
			name, m.Platform,
			numCell64(m.Followers), numCell32(m.Following), numCell32(m.Posts),
			numCell64(m.Likes), numCell64(m.Comments), numCell64(m.Shares),
			numCell64(m.Views), floatCell(m.EngagementRate),
			m.RecordedAt.Format("2006-01-02"),
		})
		exported++
	}

	_, err = s.svc.Spreadsheets.Values.Update(s.SpreadsheetID, "Metrics!A1", &gsheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to write sheet: %w", err)
	}

	return exported, nil
}

func numCell64(n sql.NullInt64) interface{} {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

func numCell32(n sql.NullInt32) interface{} {
	if !n.Valid {
		return ""
	}
	return strconv.Itoa(int(n.Int32))
}

func floatCell(f sql.NullFloat64) interface{} {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}
