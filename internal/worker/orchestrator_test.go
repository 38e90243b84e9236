package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fluffyriot/brandpulse/internal/fetcher"
	"github.com/fluffyriot/brandpulse/internal/quota"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	platform string
	// responses are consumed in order, then the last one repeats.
	responses []fakeResponse
	calls     []string
}

type fakeResponse struct {
	profile *fetcher.Profile
	err     error
}

func (f *fakeFetcher) Platform() string { return f.platform }

func (f *fakeFetcher) FetchProfile(ctx context.Context, username string) (*fetcher.Profile, error) {
	f.calls = append(f.calls, username)
	idx := len(f.calls) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	r := f.responses[idx]
	return r.profile, r.err
}

type savedMetric struct {
	brandID  uuid.UUID
	platform string
	sample   MetricSample
}

type fakeStore struct {
	saved   []savedMetric
	saveErr error
}

func (s *fakeStore) SaveMetric(ctx context.Context, brandID uuid.UUID, platform string, sample MetricSample, at time.Time) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, savedMetric{brandID: brandID, platform: platform, sample: sample})
	return nil
}

type fakeLogs struct {
	started    int
	finished   int
	lastStatus string
	lastErrMsg string
}

func (l *fakeLogs) StartBatch(ctx context.Context, source string, at time.Time) (uuid.UUID, error) {
	l.started++
	return uuid.New(), nil
}

func (l *fakeLogs) FinishBatch(ctx context.Context, id uuid.UUID, status string, processed, inserted int, errMsg string, at time.Time) error {
	l.finished++
	l.lastStatus = status
	l.lastErrMsg = errMsg
	return nil
}

type fakeCredits struct {
	logged []string
}

func (c *fakeCredits) LogAPICall(ctx context.Context, platform, endpoint string) error {
	c.logged = append(c.logged, platform)
	return nil
}

func okProfile(platform string) *fetcher.Profile {
	return &fetcher.Profile{
		Platform:  platform,
		Username:  "acme",
		Followers: 12000,
		Following: 300,
		Posts:     42,
		Likes:     90000,
		HasLikes:  platform == "tiktok",
	}
}

func apiErr(platform string, kind fetcher.ErrorKind) *fetcher.APIError {
	return &fetcher.APIError{Platform: platform, Message: string(kind), Kind: kind}
}

func newTestOrchestrator(t *testing.T, fetchers []fetcher.ProfileFetcher, store MetricStore, logs SyncLogStore, credits CreditLogger, limits quota.Limits) (*Orchestrator, *[]time.Duration) {
	t.Helper()

	quotas := quota.NewTracker(map[string]quota.Limits{
		quota.PlatformTikTok:    limits,
		quota.PlatformInstagram: limits,
	})

	o := NewOrchestrator(fetchers, quotas, store, logs, credits, 50*time.Millisecond, time.Second, 10)

	var sleeps []time.Duration
	o.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return o, &sleeps
}

func testBrand(tiktok, instagram string) BrandHandle {
	return BrandHandle{
		BrandID:           uuid.New(),
		Name:              "Acme",
		TikTokUsername:    tiktok,
		InstagramUsername: instagram,
	}
}

func TestSyncBrandSuccessPersistsAndCharges(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{profile: okProfile("tiktok")}}}
	store := &fakeStore{}
	credits := &fakeCredits{}
	o, sleeps := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, store, nil, credits, quota.Limits{Hourly: 10, Monthly: 10})

	results := o.SyncBrand(context.Background(), testBrand("acme", ""))

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeSuccess, results[0].Outcome)
	require.NotNil(t, results[0].Sample)
	assert.Equal(t, int64(12000), results[0].Sample.Followers)

	require.Len(t, store.saved, 1)
	assert.Equal(t, "tiktok", store.saved[0].platform)
	assert.Equal(t, []string{"tiktok"}, credits.logged)

	// Pacing delay after the HTTP attempt.
	assert.Equal(t, []time.Duration{50 * time.Millisecond}, *sleeps)

	st, _ := o.quotas.Status("tiktok")
	assert.Equal(t, 1, st.HourlyUsed)
}

func TestSyncBrandEmitsNothingForMissingHandle(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{profile: okProfile("tiktok")}}}
	o, sleeps := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	results := o.SyncBrand(context.Background(), testBrand("", ""))

	assert.Empty(t, results, "a platform without a handle produces no result")
	assert.Empty(t, tiktok.calls)
	assert.Empty(t, *sleeps)
	assert.Empty(t, o.History(0))
}

func TestSyncAllCountsMissingHandlesAsSkipped(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{profile: okProfile("tiktok")}}}
	instagram := &fakeFetcher{platform: "instagram", responses: []fakeResponse{{profile: okProfile("instagram")}}}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok, instagram}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	summary := o.SyncAll(context.Background(), []BrandHandle{testBrand("acme", "")})

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "tiktok", summary.Results[0].Platform)
	assert.Empty(t, instagram.calls)
}

func TestQuotaDeniedMakesNoHTTPCall(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{profile: okProfile("tiktok")}}}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 1, Monthly: 10})

	first := o.SyncBrand(context.Background(), testBrand("acme", ""))
	require.Equal(t, OutcomeSuccess, first[0].Outcome)

	second := o.SyncBrand(context.Background(), testBrand("other", ""))
	assert.Equal(t, OutcomeRateLimited, second[0].Outcome, "local denial reads the same as an upstream 429")
	assert.Equal(t, string(quota.HourlyLimitReached), second[0].Error)
	assert.Equal(t, []string{"acme"}, tiktok.calls)
}

func TestNetworkFailureReportsServerError(t *testing.T) {
	byKind := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{err: apiErr("tiktok", fetcher.KindNetworkError)}}}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{byKind}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	results := o.SyncBrand(context.Background(), testBrand("acme", ""))
	require.Len(t, results, 1)
	assert.Equal(t, OutcomeServerError, results[0].Outcome)

	// A transport error that never became an APIError maps the same way.
	plain := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{err: errors.New("connection reset")}}}
	o2, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{plain}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	results = o2.SyncBrand(context.Background(), testBrand("acme", ""))
	require.Len(t, results, 1)
	assert.Equal(t, OutcomeServerError, results[0].Outcome)
	assert.Len(t, plain.calls, 1, "transport failures are not retried")
}

func TestNotFoundDoesNotPersistOrSpendQuota(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{err: apiErr("tiktok", fetcher.KindNotFound)}}}
	store := &fakeStore{}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, store, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	results := o.SyncBrand(context.Background(), testBrand("ghost", ""))

	assert.Equal(t, OutcomeNotFound, results[0].Outcome)
	assert.Empty(t, store.saved)

	st, _ := o.quotas.Status("tiktok")
	assert.Equal(t, 0, st.HourlyUsed)
}

func TestRateLimitedRetriesOnceWithBackoff(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{
		{err: apiErr("tiktok", fetcher.KindRateLimited)},
		{profile: okProfile("tiktok")},
	}}
	store := &fakeStore{}
	o, sleeps := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, store, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	results := o.SyncBrand(context.Background(), testBrand("acme", ""))

	assert.Equal(t, OutcomeSuccess, results[0].Outcome)
	assert.Len(t, tiktok.calls, 2)
	require.Len(t, *sleeps, 2)
	assert.Equal(t, 2*time.Second, (*sleeps)[0], "backoff before the retry")
	assert.Equal(t, 50*time.Millisecond, (*sleeps)[1], "pacing delay afterwards")
	assert.Len(t, store.saved, 1)
}

func TestRateLimitedTwiceGivesUp(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{
		{err: apiErr("tiktok", fetcher.KindRateLimited)},
		{err: apiErr("tiktok", fetcher.KindRateLimited)},
	}}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	results := o.SyncBrand(context.Background(), testBrand("acme", ""))

	assert.Equal(t, OutcomeRateLimited, results[0].Outcome)
	assert.Len(t, tiktok.calls, 2)
}

func TestServerErrorDoesNotRetry(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{err: apiErr("tiktok", fetcher.KindServerError)}}}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	results := o.SyncBrand(context.Background(), testBrand("acme", ""))

	assert.Equal(t, OutcomeServerError, results[0].Outcome)
	assert.Len(t, tiktok.calls, 1)
}

func TestAuthErrorShortCircuitsPlatformForBatch(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{err: apiErr("tiktok", fetcher.KindAuthError)}}}
	instagram := &fakeFetcher{platform: "instagram", responses: []fakeResponse{{profile: okProfile("instagram")}}}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok, instagram}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	brands := []BrandHandle{
		testBrand("one", "one"),
		testBrand("two", "two"),
		testBrand("three", "three"),
	}
	summary := o.SyncAll(context.Background(), brands)

	// Only the first brand actually hits the failing platform.
	assert.Len(t, tiktok.calls, 1)
	assert.Len(t, instagram.calls, 3)

	authErrors := 0
	for _, r := range summary.Results {
		if r.Platform == "tiktok" {
			assert.Equal(t, OutcomeAuthError, r.Outcome)
			authErrors++
		}
	}
	assert.Equal(t, 3, authErrors)
	assert.Equal(t, 3, summary.Succeeded)
}

func TestAuthShortCircuitResetsBetweenBatches(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{
		{err: apiErr("tiktok", fetcher.KindAuthError)},
		{profile: okProfile("tiktok")},
	}}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	brand := testBrand("acme", "")
	o.SyncAll(context.Background(), []BrandHandle{brand})
	summary := o.SyncAll(context.Background(), []BrandHandle{brand})

	assert.Len(t, tiktok.calls, 2, "the next batch should try the platform again")
	assert.Equal(t, 1, summary.Succeeded)
}

func TestPersistErrorBecomesServerErrorButBatchContinues(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{profile: okProfile("tiktok")}}}
	store := &fakeStore{saveErr: errors.New("disk full")}
	logs := &fakeLogs{}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, store, logs, nil, quota.Limits{Hourly: 10, Monthly: 10})

	brands := []BrandHandle{testBrand("one", ""), testBrand("two", "")}
	summary := o.SyncAll(context.Background(), brands)

	assert.Equal(t, 2, summary.Failed)
	assert.Len(t, tiktok.calls, 2, "a persistence failure must not stop the batch")
	for _, r := range summary.Results {
		assert.Equal(t, OutcomeServerError, r.Outcome)
	}

	// Quota was still spent, the HTTP calls happened.
	st, _ := o.quotas.Status("tiktok")
	assert.Equal(t, 2, st.HourlyUsed)
}

func TestSyncAllWritesBatchLog(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{profile: okProfile("tiktok")}}}
	logs := &fakeLogs{}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, logs, nil, quota.Limits{Hourly: 10, Monthly: 10})

	o.SyncAll(context.Background(), []BrandHandle{testBrand("acme", "")})

	assert.Equal(t, 1, logs.started)
	assert.Equal(t, 1, logs.finished)
	assert.Equal(t, "success", logs.lastStatus)
}

func TestSyncAllMarksPartialOnFailure(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{
		{profile: okProfile("tiktok")},
		{err: apiErr("tiktok", fetcher.KindServerError)},
	}}
	logs := &fakeLogs{}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, logs, nil, quota.Limits{Hourly: 10, Monthly: 10})

	o.SyncAll(context.Background(), []BrandHandle{testBrand("one", ""), testBrand("two", "")})

	assert.Equal(t, "partial", logs.lastStatus)
	assert.NotEmpty(t, logs.lastErrMsg)
}

func TestSyncAllMarksErrorWhenNothingSucceeds(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{err: apiErr("tiktok", fetcher.KindServerError)}}}
	logs := &fakeLogs{}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, logs, nil, quota.Limits{Hourly: 10, Monthly: 10})

	o.SyncAll(context.Background(), []BrandHandle{testBrand("one", ""), testBrand("two", "")})

	assert.Equal(t, "error", logs.lastStatus)
	assert.NotEmpty(t, logs.lastErrMsg)
}

func TestSyncAllStopsOnCancelledContext(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{profile: okProfile("tiktok")}}}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := o.SyncAll(ctx, []BrandHandle{testBrand("one", ""), testBrand("two", "")})
	assert.Zero(t, summary.Total)
	assert.Empty(t, tiktok.calls)
}

func TestHistoryIsBoundedAndNewestFirst(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{profile: okProfile("tiktok")}}}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 100, Monthly: 100})

	var last BrandHandle
	for i := 0; i < 15; i++ {
		last = testBrand("acme", "")
		o.SyncBrand(context.Background(), last)
	}

	history := o.History(0)
	assert.Len(t, history, 10)
	assert.Equal(t, last.BrandID, history[0].BrandID, "most recent result first")

	limited := o.History(3)
	assert.Len(t, limited, 3)
}

func TestBrandStatusTracksLastRun(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{profile: okProfile("tiktok")}}}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	brand := testBrand("acme", "")
	o.SyncBrand(context.Background(), brand)

	results, ok := o.BrandStatus(brand.BrandID)
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, OutcomeSuccess, results[0].Outcome)

	_, ok = o.BrandStatus(uuid.New())
	assert.False(t, ok)
}

func TestConnectivityProbesSuppliedUsernamesWithoutPersisting(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{profile: okProfile("tiktok")}}}
	instagram := &fakeFetcher{platform: "instagram", responses: []fakeResponse{{profile: okProfile("instagram")}}}
	store := &fakeStore{}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok, instagram}, store, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	results := o.TestConnectivity(context.Background(), "sometiktok", "")

	require.Len(t, results, 1, "only the platform with a username is probed")
	assert.Equal(t, "tiktok", results[0].Platform)
	assert.Equal(t, OutcomeSuccess, results[0].Outcome)
	assert.Equal(t, []string{"sometiktok"}, tiktok.calls)
	assert.Empty(t, instagram.calls)

	assert.Empty(t, store.saved, "connectivity probes never persist samples")
	assert.Empty(t, o.History(0))

	st, _ := o.quotas.Status("tiktok")
	assert.Equal(t, 1, st.HourlyUsed, "probes spend quota like any other call")
}

func TestConnectivityReportsFailuresAsSyncResults(t *testing.T) {
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{err: apiErr("tiktok", fetcher.KindAuthError)}}}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok}, &fakeStore{}, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	results := o.TestConnectivity(context.Background(), "sometiktok", "")

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeAuthError, results[0].Outcome)
	assert.NotEmpty(t, results[0].Error)
}

func TestZeroLikesSampleKeepsLikesFlag(t *testing.T) {
	profile := okProfile("tiktok")
	profile.Likes = 0
	tiktok := &fakeFetcher{platform: "tiktok", responses: []fakeResponse{{profile: profile}}}
	instagram := &fakeFetcher{platform: "instagram", responses: []fakeResponse{{profile: okProfile("instagram")}}}
	store := &fakeStore{}
	o, _ := newTestOrchestrator(t, []fetcher.ProfileFetcher{tiktok, instagram}, store, nil, nil, quota.Limits{Hourly: 10, Monthly: 10})

	o.SyncBrand(context.Background(), testBrand("acme", "acme"))

	require.Len(t, store.saved, 2)
	assert.True(t, store.saved[0].sample.HasLikes, "a real zero likes count is still a likes count")
	assert.Zero(t, store.saved[0].sample.Likes)
	assert.False(t, store.saved[1].sample.HasLikes, "instagram profiles carry no likes counter")
}
