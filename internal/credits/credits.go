// Package credits attributes a dollar cost to every billable operation
// and reports spend against a monthly budget.
package credits

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/google/uuid"
)

type OperationType string

const (
	OpAPICallTikTok    OperationType = "api_call_tiktok"
	OpAPICallInstagram OperationType = "api_call_instagram"
	OpResearchJob      OperationType = "research_job"
	OpDBOperation      OperationType = "db_operation"
	OpSheetsSync       OperationType = "sheets_sync"
	OpExport           OperationType = "export"
)

var defaultCosts = map[OperationType]float64{
	OpAPICallTikTok:    0.001,
	OpAPICallInstagram: 0.001,
	OpResearchJob:      0.01,
	OpDBOperation:      0.0001,
	OpSheetsSync:       0.05,
	OpExport:           0.01,
}

type DailyUsage struct {
	Date    string  `json:"date"`
	CostUsd float64 `json:"cost_usd"`
	Count   int     `json:"count"`
}

type UsageSummary struct {
	TotalCostUsd float64            `json:"total_cost_usd"`
	Operations   int                `json:"operations"`
	ByOperation  map[string]float64 `json:"by_operation"`
}

type BudgetStatus struct {
	MonthlyBudgetUsd float64 `json:"monthly_budget_usd"`
	UsedUsd          float64 `json:"used_usd"`
	RemainingUsd     float64 `json:"remaining_usd"`
	PercentUsed      float64 `json:"percent_used"`
	ProjectedUsd     float64 `json:"projected_usd"`
}

// Tracker logs billable operations against the credit_usage table.
type Tracker struct {
	db            *database.Queries
	costs         map[OperationType]float64
	monthlyBudget float64
}

// NewTracker reads COST_<OPERATION> env overrides, so deployments can
// match whatever their API vendor actually charges.
func NewTracker(db *database.Queries, monthlyBudget float64) *Tracker {
	costs := make(map[OperationType]float64, len(defaultCosts))
	for op, cost := range defaultCosts {
		costs[op] = cost
		envKey := "COST_" + strings.ToUpper(string(op))
		if v := os.Getenv(envKey); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				costs[op] = parsed
			}
		}
	}
	return &Tracker{db: db, costs: costs, monthlyBudget: monthlyBudget}
}

func (t *Tracker) CostOf(op OperationType) float64 {
	return t.costs[op]
}

// LogUsage writes one usage row at the configured cost for the
// operation type.
func (t *Tracker) LogUsage(ctx context.Context, op OperationType, description string) error {
	_, err := t.db.CreateCreditUsage(ctx, database.CreateCreditUsageParams{
		ID:            uuid.New(),
		OperationType: string(op),
		Description:   sql.NullString{String: description, Valid: description != ""},
		CostUsd:       t.costs[op],
		CreatedAt:     time.Now(),
	})
	return err
}

func (t *Tracker) LogAPICall(ctx context.Context, platform, endpoint string) error {
	op := OpAPICallTikTok
	if platform == "instagram" {
		op = OpAPICallInstagram
	}
	return t.LogUsage(ctx, op, fmt.Sprintf("%s %s", platform, endpoint))
}

func (t *Tracker) LogResearchJob(ctx context.Context, url string) error {
	return t.LogUsage(ctx, OpResearchJob, url)
}

// UsageForPeriod sums the usage rows since the given time.
func (t *Tracker) UsageForPeriod(ctx context.Context, since time.Time) (UsageSummary, error) {
	rows, err := t.db.ListCreditUsageSince(ctx, since)
	if err != nil {
		return UsageSummary{}, err
	}

	summary := UsageSummary{ByOperation: make(map[string]float64)}
	for _, r := range rows {
		summary.TotalCostUsd += r.CostUsd
		summary.Operations++
		summary.ByOperation[r.OperationType] += r.CostUsd
	}
	return summary, nil
}

// DailyBreakdown buckets usage by calendar day, oldest first.
func (t *Tracker) DailyBreakdown(ctx context.Context, days int) ([]DailyUsage, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	rows, err := t.db.ListCreditUsageSince(ctx, since)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailyUsage)
	for _, r := range rows {
		day := r.CreatedAt.Format("2006-01-02")
		if _, ok := byDay[day]; !ok {
			byDay[day] = &DailyUsage{Date: day}
		}
		byDay[day].CostUsd += r.CostUsd
		byDay[day].Count++
	}

	breakdown := make([]DailyUsage, 0, len(byDay))
	for _, d := range byDay {
		breakdown = append(breakdown, *d)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Date < breakdown[j].Date
	})
	return breakdown, nil
}

// Budget reports month-to-date spend against the budget, projecting
// the full month from the daily run rate so far.
func (t *Tracker) Budget(ctx context.Context) (BudgetStatus, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	summary, err := t.UsageForPeriod(ctx, monthStart)
	if err != nil {
		return BudgetStatus{}, err
	}

	status := BudgetStatus{
		MonthlyBudgetUsd: t.monthlyBudget,
		UsedUsd:          summary.TotalCostUsd,
		RemainingUsd:     t.monthlyBudget - summary.TotalCostUsd,
	}
	if t.monthlyBudget > 0 {
		status.PercentUsed = summary.TotalCostUsd / t.monthlyBudget * 100
	}

	daysElapsed := now.Sub(monthStart).Hours() / 24
	if daysElapsed >= 1 {
		daysInMonth := float64(time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day())
		status.ProjectedUsd = summary.TotalCostUsd / daysElapsed * daysInMonth
	} else {
		status.ProjectedUsd = summary.TotalCostUsd
	}
	return status, nil
}
