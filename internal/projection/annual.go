package projection

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"smartfinance/internal/core"
)

type (
	// CategoryRow is one category across the twelve months of a year.
	CategoryRow struct {
		Category string              `json:"category"`
		Months   [12]decimal.Decimal `json:"months"`
		Total    decimal.Decimal     `json:"total"`
	}

	// AnnualBreakdown is the category x month matrix of one year. Rows
	// cover every category ever used, alphabetically, even when a row is
	// all zeros for this year.
	AnnualBreakdown struct {
		Year        int                 `json:"year"`
		Categories  []string            `json:"categories"`
		Rows        []CategoryRow       `json:"rows"`
		MonthTotals [12]decimal.Decimal `json:"monthTotals"`
		Total       decimal.Decimal     `json:"total"`
	}

	// AnnualStats headline numbers. PeakMonth is 1..12, or 0 when the
	// year has no spending.
	AnnualStats struct {
		Total          decimal.Decimal `json:"total"`
		MonthlyAverage decimal.Decimal `json:"monthlyAverage"`
		PeakMonth      int             `json:"peakMonth"`
		PeakAmount     decimal.Decimal `json:"peakAmount"`
		CategoryCount  int             `json:"categoryCount"`
	}
)

// Categories returns the sorted union of every category in records.
func Categories(records []core.Expense) []string {
	seen := make(map[string]struct{})
	for _, e := range records {
		seen[e.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// AvailableYears is the union of allocation years and the current year,
// newest first.
func AvailableYears(records []core.Expense, now time.Time) []int {
	seen := map[int]struct{}{now.Year(): {}}
	for _, a := range Project(records) {
		seen[a.Month.Year()] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// Annual builds the category x month matrix for year. Row and column
// totals are derived by summing the cells.
func Annual(records []core.Expense, year int) AnnualBreakdown {
	categories := Categories(records)
	index := make(map[string]int, len(categories))
	rows := make([]CategoryRow, len(categories))
	for i, c := range categories {
		index[c] = i
		rows[i] = CategoryRow{Category: c, Months: zeroMonths(), Total: decimal.Zero}
	}

	for _, a := range Project(records) {
		if a.Month.Year() != year {
			continue
		}
		m := a.Month.Month() - 1
		r := &rows[index[a.Category]]
		r.Months[m] = r.Months[m].Add(a.Amount)
	}

	b := AnnualBreakdown{
		Year:        year,
		Categories:  categories,
		Rows:        rows,
		MonthTotals: zeroMonths(),
		Total:       decimal.Zero,
	}
	for i := range b.Rows {
		r := &b.Rows[i]
		for m, v := range r.Months {
			r.Total = r.Total.Add(v)
			b.MonthTotals[m] = b.MonthTotals[m].Add(v)
		}
		b.Total = b.Total.Add(r.Total)
	}
	return b
}

// Stats summarizes the matrix. The monthly average always divides by 12.
func (b AnnualBreakdown) Stats() AnnualStats {
	st := AnnualStats{
		Total:          b.Total,
		MonthlyAverage: b.Total.Div(decimal.NewFromInt(12)),
		PeakAmount:     decimal.Zero,
	}
	for m, v := range b.MonthTotals {
		if v.GreaterThan(st.PeakAmount) {
			st.PeakAmount = v
			st.PeakMonth = m + 1
		}
	}
	for _, r := range b.Rows {
		if !r.Total.IsZero() {
			st.CategoryCount++
		}
	}
	return st
}

func zeroMonths() [12]decimal.Decimal {
	var out [12]decimal.Decimal
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}
