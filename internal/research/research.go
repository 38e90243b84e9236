// Package research discovers brand details from their websites and
// queues candidates for manual review before they enter the directory.
package research

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/google/uuid"
)

type CreditLogger interface {
	LogResearchJob(ctx context.Context, url string) error
}

type Researcher struct {
	DB         *database.Queries
	Credits    CreditLogger
	HTTPClient *http.Client
}

func NewResearcher(db *database.Queries, credits CreditLogger, timeout time.Duration) *Researcher {
	return &Researcher{
		DB:      db,
		Credits: credits,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ResearchAndQueue fetches a website, extracts brand signals and stores
// them as a pending brand awaiting approval.
func (r *Researcher) ResearchAndQueue(ctx context.Context, siteURL string) (database.PendingBrand, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", siteURL, nil)
	if err != nil {
		return database.PendingBrand{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; brandpulse/1.0)")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return database.PendingBrand{}, fmt.Errorf("failed to fetch %s: %v", siteURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return database.PendingBrand{}, fmt.Errorf("failed to fetch %s: status %d", siteURL, resp.StatusCode)
	}

	info, err := ParseWebsite(resp.Body)
	if err != nil {
		return database.PendingBrand{}, err
	}
	if info.BrandName == "" {
		return database.PendingBrand{}, fmt.Errorf("no brand name found at %s", siteURL)
	}

	metadata, _ := json.Marshal(map[string]string{
		"title":       info.Title,
		"description": info.Description,
	})

	pending, err := r.DB.CreatePendingBrand(ctx, database.CreatePendingBrandParams{
		ID:              uuid.New(),
		Name:            info.BrandName,
		Website:         sql.NullString{String: siteURL, Valid: true},
		InstagramHandle: sql.NullString{String: info.InstagramHandle, Valid: info.InstagramHandle != ""},
		TiktokHandle:    sql.NullString{String: info.TikTokHandle, Valid: info.TikTokHandle != ""},
		Category:        sql.NullString{String: info.Category, Valid: info.Category != ""},
		ConfidenceScore: sql.NullFloat64{Float64: info.Confidence, Valid: true},
		DiscoveredAt:    time.Now(),
		Status:          "pending",
		Source:          sql.NullString{String: "website_research", Valid: true},
		MetadataJson:    sql.NullString{String: string(metadata), Valid: true},
	})
	if err != nil {
		return database.PendingBrand{}, err
	}

	if r.Credits != nil {
		if err := r.Credits.LogResearchJob(ctx, siteURL); err != nil {
			return pending, err
		}
	}

	return pending, nil
}

// ApprovePending promotes a pending brand into the directory.
func (r *Researcher) ApprovePending(ctx context.Context, id uuid.UUID) (database.Brand, error) {

	pending, err := r.DB.GetPendingBrandByID(ctx, id)
	if err != nil {
		return database.Brand{}, err
	}
	if pending.Status != "pending" {
		return database.Brand{}, fmt.Errorf("pending brand %s already %s", id, pending.Status)
	}

	category := pending.Category.String
	if category == "" {
		category = "uncategorized"
	}

	now := time.Now()
	brand, err := r.DB.CreateBrand(ctx, database.CreateBrandParams{
		ID:              uuid.New(),
		Name:            pending.Name,
		Category:        category,
		Website:         pending.Website,
		InstagramHandle: pending.InstagramHandle,
		TiktokHandle:    pending.TiktokHandle,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return database.Brand{}, err
	}

	_, err = r.DB.UpdatePendingBrandStatus(ctx, database.UpdatePendingBrandStatusParams{
		ID:     id,
		Status: "approved",
	})
	if err != nil {
		return brand, err
	}

	return brand, nil
}

// RejectPending marks a queued candidate as rejected.
func (r *Researcher) RejectPending(ctx context.Context, id uuid.UUID) error {
	pending, err := r.DB.GetPendingBrandByID(ctx, id)
	if err != nil {
		return err
	}
	if pending.Status != "pending" {
		return fmt.Errorf("pending brand %s already %s", id, pending.Status)
	}
	_, err = r.DB.UpdatePendingBrandStatus(ctx, database.UpdatePendingBrandStatusParams{
		ID:     id,
		Status: "rejected",
	})
	return err
}

// RefreshBrand re-parses an existing brand's website and fills in
// missing handles, logging each field it changes.
func (r *Researcher) RefreshBrand(ctx context.Context, id uuid.UUID) ([]database.UpdateLog, error) {

	brand, err := r.DB.GetBrandByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !brand.Website.Valid || brand.Website.String == "" {
		return nil, fmt.Errorf("brand %s has no website on record", brand.Name)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", brand.Website.String, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; brandpulse/1.0)")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %v", brand.Website.String, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", brand.Website.String, resp.StatusCode)
	}

	info, err := ParseWebsite(resp.Body)
	if err != nil {
		return nil, err
	}

	updated := brand
	var logs []database.UpdateLog

	logChange := func(field, oldVal, newVal string) error {
		l, err := r.DB.CreateUpdateLog(ctx, database.CreateUpdateLogParams{
			ID:           uuid.New(),
			BrandID:      brand.ID,
			BrandName:    brand.Name,
			FieldChanged: field,
			OldValue:     sql.NullString{String: oldVal, Valid: oldVal != ""},
			NewValue:     sql.NullString{String: newVal, Valid: true},
			UpdateType:   sql.NullString{String: "research_refresh", Valid: true},
			UpdatedAt:    time.Now(),
		})
		if err != nil {
			return err
		}
		logs = append(logs, l)
		return nil
	}

	if info.InstagramHandle != "" && info.InstagramHandle != brand.InstagramHandle.String {
		if err := logChange("instagram_handle", brand.InstagramHandle.String, info.InstagramHandle); err != nil {
			return logs, err
		}
		updated.InstagramHandle = sql.NullString{String: info.InstagramHandle, Valid: true}
	}
	if info.TikTokHandle != "" && info.TikTokHandle != brand.TiktokHandle.String {
		if err := logChange("tiktok_handle", brand.TiktokHandle.String, info.TikTokHandle); err != nil {
			return logs, err
		}
		updated.TiktokHandle = sql.NullString{String: info.TikTokHandle, Valid: true}
	}

	if len(logs) == 0 {
		return logs, nil
	}

	_, err = r.DB.UpdateBrand(ctx, database.UpdateBrandParams{
		ID:              brand.ID,
		Name:            brand.Name,
		Category:        brand.Category,
		HqCity:          brand.HqCity,
		HqState:         brand.HqState,
		Country:         brand.Country,
		Website:         brand.Website,
		InstagramHandle: updated.InstagramHandle,
		TiktokHandle:    updated.TiktokHandle,
		Founders:        brand.Founders,
		FoundedYear:     brand.FoundedYear,
		Revenue:         brand.Revenue,
		Funding:         brand.Funding,
		ParentCompany:   brand.ParentCompany,
		Notes:           brand.Notes,
		UpdatedAt:       time.Now(),
	})
	if err != nil {
		return logs, err
	}

	if r.Credits != nil {
		if err := r.Credits.LogResearchJob(ctx, brand.Website.String); err != nil {
			return logs, err
		}
	}

	return logs, nil
}
