// SPDX-License-Identifier: AGPL-3.0-only

package worker

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/fluffyriot/brandpulse/internal/fetcher"
	"github.com/fluffyriot/brandpulse/internal/quota"
	"github.com/google/uuid"
)

type Outcome string

// Local quota denials and upstream 429s both surface as rate_limited;
// transport failures surface as server_error, same as upstream 5xx.
const (
	OutcomeSuccess     Outcome = "success"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeAuthError   Outcome = "auth_error"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeServerError Outcome = "server_error"
)

// BrandHandle is the sync-relevant slice of a brand record.
type BrandHandle struct {
	BrandID           uuid.UUID
	Name              string
	TikTokUsername    string
	InstagramUsername string
}

// MetricSample is what a successful profile fetch turns into. HasLikes
// distinguishes platforms without a likes counter from a real zero.
type MetricSample struct {
	Followers int64
	Following int32
	Posts     int32
	Likes     int64
	HasLikes  bool
}

// SyncResult records the outcome of one brand/platform attempt.
type SyncResult struct {
	BrandID   uuid.UUID     `json:"brand_id"`
	BrandName string        `json:"brand_name"`
	Platform  string        `json:"platform"`
	Outcome   Outcome       `json:"outcome"`
	Error     string        `json:"error,omitempty"`
	Sample    *MetricSample `json:"sample,omitempty"`
	At        time.Time     `json:"at"`
}

// BatchSummary aggregates one SyncAll run.
type BatchSummary struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	Results   []SyncResult `json:"results"`
	StartedAt time.Time    `json:"started_at"`
	Duration  string       `json:"duration"`
}

// MetricStore persists fetched samples.
type MetricStore interface {
	SaveMetric(ctx context.Context, brandID uuid.UUID, platform string, sample MetricSample, at time.Time) error
}

// SyncLogStore records batch lifecycle rows.
type SyncLogStore interface {
	StartBatch(ctx context.Context, source string, at time.Time) (uuid.UUID, error)
	FinishBatch(ctx context.Context, id uuid.UUID, status string, processed, inserted int, errMsg string, at time.Time) error
}

// CreditLogger charges successful API calls against the budget.
type CreditLogger interface {
	LogAPICall(ctx context.Context, platform, endpoint string) error
}

const maxBackoffExponent = 3

// Orchestrator runs profile syncs one brand and one platform at a time,
// gated by the quota tracker.
type Orchestrator struct {
	fetchers    []fetcher.ProfileFetcher
	quotas      *quota.Tracker
	store       MetricStore
	logs        SyncLogStore
	credits     CreditLogger
	delay       time.Duration
	backoffBase time.Duration
	sleep       func(time.Duration)
	now         func() time.Time

	mu          sync.Mutex
	history     []SyncResult
	historyMax  int
	lastByBrand map[uuid.UUID][]SyncResult
}

func NewOrchestrator(
	fetchers []fetcher.ProfileFetcher,
	quotas *quota.Tracker,
	store MetricStore,
	logs SyncLogStore,
	credits CreditLogger,
	delay, backoffBase time.Duration,
	historyMax int,
) *Orchestrator {
	if historyMax <= 0 {
		historyMax = 200
	}
	return &Orchestrator{
		fetchers:    fetchers,
		quotas:      quotas,
		store:       store,
		logs:        logs,
		credits:     credits,
		delay:       delay,
		backoffBase: backoffBase,
		sleep:       time.Sleep,
		now:         time.Now,
		historyMax:  historyMax,
		lastByBrand: make(map[uuid.UUID][]SyncResult),
	}
}

func usernameFor(b BrandHandle, platform string) string {
	switch platform {
	case quota.PlatformTikTok:
		return b.TikTokUsername
	case quota.PlatformInstagram:
		return b.InstagramUsername
	}
	return ""
}

// syncPlatform performs one brand/platform attempt. The caller has
// already established that the brand has a handle for this platform.
// authFailed carries the per-batch short-circuit set: once a platform
// reports an auth failure the rest of the batch skips it without
// spending quota. With persist false the sample is not stored.
func (o *Orchestrator) syncPlatform(ctx context.Context, f fetcher.ProfileFetcher, brand BrandHandle, authFailed map[string]bool, persist bool) SyncResult {
	platform := f.Platform()
	result := SyncResult{
		BrandID:   brand.BrandID,
		BrandName: brand.Name,
		Platform:  platform,
		At:        o.now(),
	}

	username := usernameFor(brand, platform)

	if authFailed[platform] {
		result.Outcome = OutcomeAuthError
		result.Error = "credentials rejected earlier in this batch"
		return result
	}

	if ok, reason := o.quotas.TryConsume(platform); !ok {
		result.Outcome = OutcomeRateLimited
		result.Error = string(reason)
		return result
	}

	profile, err := o.fetchWithRetry(ctx, f, username)

	// An HTTP attempt happened, paced regardless of outcome.
	defer o.sleep(o.delay)

	if err != nil {
		var apiErr *fetcher.APIError
		if !errors.As(err, &apiErr) {
			result.Outcome = OutcomeServerError
			result.Error = err.Error()
			return result
		}
		result.Error = apiErr.Message
		switch apiErr.Kind {
		case fetcher.KindNotFound:
			result.Outcome = OutcomeNotFound
		case fetcher.KindRateLimited:
			result.Outcome = OutcomeRateLimited
		case fetcher.KindAuthError:
			result.Outcome = OutcomeAuthError
			authFailed[platform] = true
		default:
			result.Outcome = OutcomeServerError
		}
		return result
	}

	o.quotas.Record(platform)
	if o.credits != nil {
		if err := o.credits.LogAPICall(ctx, platform, "profile"); err != nil {
			log.Printf("Worker: Failed to log credit usage for %s: %v", platform, err)
		}
	}

	sample := MetricSample{
		Followers: profile.Followers,
		Following: profile.Following,
		Posts:     profile.Posts,
		Likes:     profile.Likes,
		HasLikes:  profile.HasLikes,
	}
	if persist {
		if err := o.store.SaveMetric(ctx, brand.BrandID, platform, sample, result.At); err != nil {
			result.Outcome = OutcomeServerError
			result.Error = "persist: " + err.Error()
			return result
		}
	}

	result.Outcome = OutcomeSuccess
	result.Sample = &sample
	return result
}

// fetchWithRetry retries exactly once, and only after an upstream 429.
func (o *Orchestrator) fetchWithRetry(ctx context.Context, f fetcher.ProfileFetcher, username string) (*fetcher.Profile, error) {
	profile, err := f.FetchProfile(ctx, username)
	if err == nil {
		return profile, nil
	}

	var apiErr *fetcher.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != fetcher.KindRateLimited {
		return nil, err
	}

	o.sleep(o.backoff(1))
	return f.FetchProfile(ctx, username)
}

func (o *Orchestrator) backoff(attempt int) time.Duration {
	if attempt > maxBackoffExponent {
		attempt = maxBackoffExponent
	}
	return o.backoffBase * (1 << attempt)
}

// SyncBrand syncs one brand across every configured platform, in the
// fetcher registration order. Platforms the brand has no handle for
// produce no result.
func (o *Orchestrator) SyncBrand(ctx context.Context, brand BrandHandle) []SyncResult {
	authFailed := make(map[string]bool)
	results, _ := o.syncBrand(ctx, brand, authFailed)
	return results
}

func (o *Orchestrator) syncBrand(ctx context.Context, brand BrandHandle, authFailed map[string]bool) ([]SyncResult, int) {
	results := make([]SyncResult, 0, len(o.fetchers))
	skipped := 0
	for _, f := range o.fetchers {
		if usernameFor(brand, f.Platform()) == "" {
			skipped++
			continue
		}
		results = append(results, o.syncPlatform(ctx, f, brand, authFailed, true))
	}
	o.remember(brand.BrandID, results)
	return results, skipped
}

// SyncAll walks every brand strictly sequentially, writing a sync_logs
// row around the batch. Brands are ordered by id so repeated runs visit
// them the same way.
func (o *Orchestrator) SyncAll(ctx context.Context, brands []BrandHandle) BatchSummary {
	startedAt := o.now()

	sorted := make([]BrandHandle, len(brands))
	copy(sorted, brands)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].BrandID[:], sorted[j].BrandID[:]) < 0
	})

	var logID uuid.UUID
	var logErr error
	if o.logs != nil {
		logID, logErr = o.logs.StartBatch(ctx, "social_sync", startedAt)
		if logErr != nil {
			log.Printf("Worker: Failed to open sync log: %v", logErr)
		}
	}

	summary := BatchSummary{StartedAt: startedAt}
	authFailed := make(map[string]bool)

	for _, brand := range sorted {
		if ctx.Err() != nil {
			log.Printf("Worker: Sync cancelled after %d results", summary.Total)
			break
		}

		results, skipped := o.syncBrand(ctx, brand, authFailed)
		summary.Skipped += skipped
		for _, result := range results {
			summary.Total++
			summary.Results = append(summary.Results, result)
			if result.Outcome == OutcomeSuccess {
				summary.Succeeded++
			} else {
				summary.Failed++
			}
		}
	}

	summary.Duration = o.now().Sub(startedAt).String()

	if o.logs != nil && logErr == nil {
		status := "success"
		errMsg := ""
		if summary.Failed > 0 {
			status = "partial"
			if summary.Succeeded == 0 {
				status = "error"
			}
			errMsg = firstError(summary.Results)
		}
		if err := o.logs.FinishBatch(ctx, logID, status, summary.Total, summary.Succeeded, errMsg, o.now()); err != nil {
			log.Printf("Worker: Failed to close sync log: %v", err)
		}
	}

	log.Printf("Worker: Completed sync: %d total, %d succeeded, %d failed, %d skipped",
		summary.Total, summary.Succeeded, summary.Failed, summary.Skipped)

	return summary
}

func firstError(results []SyncResult) string {
	for _, r := range results {
		if r.Outcome != OutcomeSuccess && r.Error != "" {
			return r.Platform + ": " + r.Error
		}
	}
	return ""
}

// TestConnectivity makes one real call per supplied username. It spends
// quota like any other call but never persists a sample. Platforms with
// no username given are left out of the results.
func (o *Orchestrator) TestConnectivity(ctx context.Context, tiktokUsername, instagramUsername string) []SyncResult {
	probe := BrandHandle{
		Name:              "connectivity test",
		TikTokUsername:    tiktokUsername,
		InstagramUsername: instagramUsername,
	}

	authFailed := make(map[string]bool)
	results := make([]SyncResult, 0, len(o.fetchers))
	for _, f := range o.fetchers {
		if usernameFor(probe, f.Platform()) == "" {
			continue
		}
		results = append(results, o.syncPlatform(ctx, f, probe, authFailed, false))
	}
	return results
}

// Limits reports the current quota snapshots.
func (o *Orchestrator) Limits() []quota.Status {
	return o.quotas.StatusAll()
}

func (o *Orchestrator) remember(brandID uuid.UUID, results []SyncResult) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.lastByBrand[brandID] = results

	for _, r := range results {
		o.history = append([]SyncResult{r}, o.history...)
	}
	if len(o.history) > o.historyMax {
		o.history = o.history[:o.historyMax]
	}
}

// History returns recent results newest-first, at most limit entries.
func (o *Orchestrator) History(limit int) []SyncResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	if limit <= 0 || limit > len(o.history) {
		limit = len(o.history)
	}
	out := make([]SyncResult, limit)
	copy(out, o.history[:limit])
	return out
}

// BrandStatus returns the results of the brand's most recent sync.
func (o *Orchestrator) BrandStatus(brandID uuid.UUID) ([]SyncResult, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	results, ok := o.lastByBrand[brandID]
	if !ok {
		return nil, false
	}
	out := make([]SyncResult, len(results))
	copy(out, results)
	return out, true
}
