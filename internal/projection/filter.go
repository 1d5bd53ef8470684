package projection

import (
	"strings"
	"time"

	"smartfinance/internal/core"
)

// Filter narrows the raw record list. Empty fields (or "all") match
// everything; Start and End are inclusive YYYY-MM-DD bounds on the
// record's origin date.
type Filter struct {
	Category string `json:"category,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
}

// FilterRecords keeps the records matching f, preserving input order.
func FilterRecords(records []core.Expense, f Filter) []core.Expense {
	out := make([]core.Expense, 0, len(records))
	for _, e := range records {
		if !isAny(f.Category) && e.Category != f.Category {
			continue
		}
		if !isAny(f.Mode) && !strings.EqualFold(string(e.Mode), f.Mode) {
			continue
		}
		// YYYY-MM-DD strings compare chronologically.
		d := e.Date.String()
		if f.Start != "" && d < f.Start {
			continue
		}
		if f.End != "" && d > f.End {
			continue
		}
		out = append(out, e)
	}
	return out
}

func isAny(v string) bool {
	return v == "" || v == AllCategories
}

// QuickRange names a date window derived from today.
type QuickRange string

const (
	RangeToday     QuickRange = "today"
	RangeLast7     QuickRange = "last7"
	RangeLast30    QuickRange = "last30"
	RangeThisMonth QuickRange = "this_month"
	RangeLastMonth QuickRange = "last_month"
	RangeThisYear  QuickRange = "this_year"
	RangeAll       QuickRange = "all"
)

func (r QuickRange) Valid() bool {
	switch r {
	case RangeToday, RangeLast7, RangeLast30, RangeThisMonth, RangeLastMonth, RangeThisYear, RangeAll:
		return true
	}
	return false
}

// Bounds returns the inclusive [start, end] dates of r relative to today.
// RangeAll and unknown ranges return empty (unbounded) bounds.
func (r QuickRange) Bounds(today time.Time) (string, string) {
	d := core.DateOf(today).Time
	day := func(t time.Time) string { return t.Format(core.DateLayout) }
	firstOfMonth := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch r {
	case RangeToday:
		return day(d), day(d)
	case RangeLast7:
		return day(d.AddDate(0, 0, -7)), day(d)
	case RangeLast30:
		return day(d.AddDate(0, 0, -30)), day(d)
	case RangeThisMonth:
		return day(firstOfMonth), day(firstOfMonth.AddDate(0, 1, -1))
	case RangeLastMonth:
		start := firstOfMonth.AddDate(0, -1, 0)
		return day(start), day(firstOfMonth.AddDate(0, 0, -1))
	case RangeThisYear:
		return day(time.Date(d.Year(), 1, 1, 0, 0, 0, 0, time.UTC)), day(d)
	}
	return "", ""
}

// Apply sets the filter's date bounds from r.
func (f Filter) Apply(r QuickRange, today time.Time) Filter {
	f.Start, f.End = r.Bounds(today)
	return f
}
