package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(limits Limits, start time.Time) (*Tracker, *time.Time) {
	clock := start
	tracker := NewTrackerWithClock(map[string]Limits{
		PlatformTikTok: limits,
	}, func() time.Time { return clock })
	return tracker, &clock
}

func TestTryConsumeDoesNotCount(t *testing.T) {
	tracker, _ := newTestTracker(Limits{Hourly: 1, Monthly: 1}, time.Now())

	for i := 0; i < 5; i++ {
		ok, reason := tracker.TryConsume(PlatformTikTok)
		assert.True(t, ok, "check %d should pass, nothing recorded yet", i)
		assert.Empty(t, reason)
	}
}

func TestHourlyLimitDeniesAfterRecord(t *testing.T) {
	tracker, _ := newTestTracker(Limits{Hourly: 2, Monthly: 100}, time.Now())

	for i := 0; i < 2; i++ {
		ok, _ := tracker.TryConsume(PlatformTikTok)
		require.True(t, ok)
		tracker.Record(PlatformTikTok)
	}

	ok, reason := tracker.TryConsume(PlatformTikTok)
	assert.False(t, ok)
	assert.Equal(t, HourlyLimitReached, reason)
}

func TestHourlyWindowRollsOver(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker, clock := newTestTracker(Limits{Hourly: 1, Monthly: 100}, start)

	tracker.Record(PlatformTikTok)
	ok, reason := tracker.TryConsume(PlatformTikTok)
	require.False(t, ok)
	require.Equal(t, HourlyLimitReached, reason)

	*clock = start.Add(time.Hour)
	ok, _ = tracker.TryConsume(PlatformTikTok)
	assert.True(t, ok, "counter should reset a full hour after the first recorded call")
}

func TestMonthlyLimitOutlivesHourlyReset(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker, clock := newTestTracker(Limits{Hourly: 100, Monthly: 2}, start)

	tracker.Record(PlatformTikTok)
	tracker.Record(PlatformTikTok)

	*clock = start.Add(2 * time.Hour)
	ok, reason := tracker.TryConsume(PlatformTikTok)
	assert.False(t, ok)
	assert.Equal(t, MonthlyLimitReached, reason)

	*clock = start.Add(30 * 24 * time.Hour)
	ok, _ = tracker.TryConsume(PlatformTikTok)
	assert.True(t, ok)
}

func TestStatusIsReadOnly(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker, _ := newTestTracker(Limits{Hourly: 10, Monthly: 20}, start)

	tracker.Record(PlatformTikTok)

	for i := 0; i < 3; i++ {
		st, ok := tracker.Status(PlatformTikTok)
		require.True(t, ok)
		assert.Equal(t, 1, st.HourlyUsed)
		assert.Equal(t, 9, st.HourlyRemaining)
		assert.Equal(t, 1, st.MonthlyUsed)
		assert.Equal(t, 19, st.MonthlyRemaining)
		assert.Equal(t, start.Add(time.Hour), st.HourlyResetsAt)
	}
}

func TestStatusReportsExpiredWindowAsEmpty(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker, clock := newTestTracker(Limits{Hourly: 10, Monthly: 20}, start)

	tracker.Record(PlatformTikTok)
	*clock = start.Add(90 * time.Minute)

	st, ok := tracker.Status(PlatformTikTok)
	require.True(t, ok)
	assert.Equal(t, 0, st.HourlyUsed)
	assert.Equal(t, 1, st.MonthlyUsed)
}

func TestUnknownPlatformDenied(t *testing.T) {
	tracker, _ := newTestTracker(Limits{Hourly: 1, Monthly: 1}, time.Now())

	ok, _ := tracker.TryConsume("youtube")
	assert.False(t, ok)

	_, found := tracker.Status("youtube")
	assert.False(t, found)
}

func TestStatusAllOrdersKnownPlatformsFirst(t *testing.T) {
	tracker := NewTracker(map[string]Limits{
		PlatformInstagram: {Hourly: 1, Monthly: 1},
		PlatformTikTok:    {Hourly: 1, Monthly: 1},
	})

	statuses := tracker.StatusAll()
	require.Len(t, statuses, 2)
	assert.Equal(t, PlatformTikTok, statuses[0].Platform)
	assert.Equal(t, PlatformInstagram, statuses[1].Platform)
}
