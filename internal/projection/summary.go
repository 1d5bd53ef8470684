package projection

import (
	"sort"

	"github.com/shopspring/decimal"

	"smartfinance/internal/core"
)

// MonthlySummaries folds all allocations into one summary per touched
// month, ascending. Months without allocations are never synthesized.
func MonthlySummaries(records []core.Expense) []core.MonthlySummary {
	buckets := make(map[core.MonthKey]*core.MonthlySummary)
	for _, a := range Project(records) {
		s, ok := buckets[a.Month]
		if !ok {
			s = &core.MonthlySummary{
				Month:            a.Month,
				CashTotal:        decimal.Zero,
				InstallmentTotal: decimal.Zero,
			}
			buckets[a.Month] = s
		}
		if a.Mode == core.Installment {
			s.InstallmentTotal = s.InstallmentTotal.Add(a.Amount)
		} else {
			s.CashTotal = s.CashTotal.Add(a.Amount)
		}
	}

	out := make([]core.MonthlySummary, 0, len(buckets))
	for _, s := range buckets {
		s.Total = s.CashTotal.Add(s.InstallmentTotal)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// DashboardStats are the headline numbers over the summary timeline.
type DashboardStats struct {
	Months       int             `json:"months"`
	AverageTotal decimal.Decimal `json:"averageTotal"`
	PeakTotal    decimal.Decimal `json:"peakTotal"`
	PeakMonth    core.MonthKey   `json:"peakMonth,omitempty"`
	LatestMonth  core.MonthKey   `json:"latestMonth,omitempty"`
}

// Dashboard averages over the months present only; gaps do not count.
func Dashboard(summaries []core.MonthlySummary) DashboardStats {
	stats := DashboardStats{AverageTotal: decimal.Zero, PeakTotal: decimal.Zero}
	if len(summaries) == 0 {
		return stats
	}
	sum := decimal.Zero
	for _, s := range summaries {
		sum = sum.Add(s.Total)
		if stats.PeakMonth == "" || s.Total.GreaterThan(stats.PeakTotal) {
			stats.PeakTotal = s.Total
			stats.PeakMonth = s.Month
		}
		if s.Month > stats.LatestMonth {
			stats.LatestMonth = s.Month
		}
	}
	stats.Months = len(summaries)
	stats.AverageTotal = sum.Div(decimal.NewFromInt(int64(len(summaries))))
	return stats
}

// Recent returns the first n records in store order (newest first).
func Recent(records []core.Expense, n int) []core.Expense {
	if n < 0 {
		n = 0
	}
	if n > len(records) {
		n = len(records)
	}
	out := make([]core.Expense, n)
	copy(out, records[:n])
	return out
}
