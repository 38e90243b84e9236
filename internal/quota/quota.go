// SPDX-License-Identifier: AGPL-3.0-only

// Package quota enforces per-platform API call budgets over two fixed
// windows, an hourly one and a rolling 30-day one. Counters live in
// memory only, so a process restart starts both windows fresh.
package quota

import (
	"sync"
	"time"
)

const (
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
)

const (
	hourlyWindow  = time.Hour
	monthlyWindow = 30 * 24 * time.Hour
)

type DeniedReason string

const (
	HourlyLimitReached  DeniedReason = "hourly_limit_reached"
	MonthlyLimitReached DeniedReason = "monthly_limit_reached"
)

// Limits holds the maximum number of calls allowed per window.
type Limits struct {
	Hourly  int
	Monthly int
}

// Status is a read-only snapshot of one platform's quota state.
type Status struct {
	Platform         string    `json:"platform"`
	HourlyUsed       int       `json:"hourly_used"`
	HourlyLimit      int       `json:"hourly_limit"`
	HourlyRemaining  int       `json:"hourly_remaining"`
	HourlyResetsAt   time.Time `json:"hourly_resets_at"`
	MonthlyUsed      int       `json:"monthly_used"`
	MonthlyLimit     int       `json:"monthly_limit"`
	MonthlyRemaining int       `json:"monthly_remaining"`
	MonthlyResetsAt  time.Time `json:"monthly_resets_at"`
}

type platformState struct {
	limits       Limits
	hourlyCount  int
	hourlyStart  time.Time
	monthlyCount int
	monthlyStart time.Time
}

// Tracker gates API calls for a fixed set of platforms.
type Tracker struct {
	mu        sync.Mutex
	now       func() time.Time
	platforms map[string]*platformState
}

func NewTracker(limits map[string]Limits) *Tracker {
	return NewTrackerWithClock(limits, time.Now)
}

func NewTrackerWithClock(limits map[string]Limits, now func() time.Time) *Tracker {
	platforms := make(map[string]*platformState, len(limits))
	for name, l := range limits {
		platforms[name] = &platformState{limits: l}
	}
	return &Tracker{now: now, platforms: platforms}
}

func (s *platformState) rollover(now time.Time) {
	if !s.hourlyStart.IsZero() && now.Sub(s.hourlyStart) >= hourlyWindow {
		s.hourlyCount = 0
		s.hourlyStart = time.Time{}
	}
	if !s.monthlyStart.IsZero() && now.Sub(s.monthlyStart) >= monthlyWindow {
		s.monthlyCount = 0
		s.monthlyStart = time.Time{}
	}
}

// TryConsume reports whether one more call to the platform is allowed
// right now. It rolls expired windows over but does not count the call;
// callers record the call separately once it actually succeeds.
func (t *Tracker) TryConsume(platform string) (bool, DeniedReason) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.platforms[platform]
	if !ok {
		return false, MonthlyLimitReached
	}

	s.rollover(t.now())

	if s.hourlyCount >= s.limits.Hourly {
		return false, HourlyLimitReached
	}
	if s.monthlyCount >= s.limits.Monthly {
		return false, MonthlyLimitReached
	}
	return true, ""
}

// Record counts one completed call against both windows. A window that
// was empty starts now.
func (t *Tracker) Record(platform string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.platforms[platform]
	if !ok {
		return
	}

	now := t.now()
	s.rollover(now)

	if s.hourlyStart.IsZero() {
		s.hourlyStart = now
	}
	if s.monthlyStart.IsZero() {
		s.monthlyStart = now
	}
	s.hourlyCount++
	s.monthlyCount++
}

// Status returns a snapshot for one platform without mutating counters.
func (t *Tracker) Status(platform string) (Status, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.platforms[platform]
	if !ok {
		return Status{}, false
	}

	now := t.now()

	hourlyUsed := s.hourlyCount
	hourlyResets := s.hourlyStart.Add(hourlyWindow)
	if s.hourlyStart.IsZero() || now.Sub(s.hourlyStart) >= hourlyWindow {
		hourlyUsed = 0
		hourlyResets = now.Add(hourlyWindow)
	}

	monthlyUsed := s.monthlyCount
	monthlyResets := s.monthlyStart.Add(monthlyWindow)
	if s.monthlyStart.IsZero() || now.Sub(s.monthlyStart) >= monthlyWindow {
		monthlyUsed = 0
		monthlyResets = now.Add(monthlyWindow)
	}

	return Status{
		Platform:         platform,
		HourlyUsed:       hourlyUsed,
		HourlyLimit:      s.limits.Hourly,
		HourlyRemaining:  s.limits.Hourly - hourlyUsed,
		HourlyResetsAt:   hourlyResets,
		MonthlyUsed:      monthlyUsed,
		MonthlyLimit:     s.limits.Monthly,
		MonthlyRemaining: s.limits.Monthly - monthlyUsed,
		MonthlyResetsAt:  monthlyResets,
	}, true
}

// StatusAll returns snapshots for every tracked platform.
func (t *Tracker) StatusAll() []Status {
	t.mu.Lock()
	names := make([]string, 0, len(t.platforms))
	for name := range t.platforms {
		names = append(names, name)
	}
	t.mu.Unlock()

	statuses := make([]Status, 0, len(names))
	for _, name := range orderedPlatforms(names) {
		if st, ok := t.Status(name); ok {
			statuses = append(statuses, st)
		}
	}
	return statuses
}

// orderedPlatforms puts the well-known platforms first so responses are
// stable across calls.
func orderedPlatforms(names []string) []string {
	ordered := make([]string, 0, len(names))
	for _, known := range []string{PlatformTikTok, PlatformInstagram} {
		for _, n := range names {
			if n == known {
				ordered = append(ordered, n)
			}
		}
	}
	for _, n := range names {
		if n != PlatformTikTok && n != PlatformInstagram {
			ordered = append(ordered, n)
		}
	}
	return ordered
}
