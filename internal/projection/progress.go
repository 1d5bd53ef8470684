package projection

import (
	"time"

	"smartfinance/internal/core"
)

// InstallmentProgress is a display-time estimate. It assumes payments
// started in the origin month and advance one per calendar month, so it
// can disagree with the allocation ledger.
type InstallmentProgress struct {
	Current   int     `json:"current"`
	Total     int     `json:"total"`
	Remaining int     `json:"remaining"`
	Percent   float64 `json:"percent"`
	Finished  bool    `json:"finished"`
}

// Progress estimates where an installment record stands at now. It returns
// false for cash records.
func Progress(e core.Expense, now time.Time) (InstallmentProgress, bool) {
	if e.Mode != core.Installment || e.InstallmentCount < 1 {
		return InstallmentProgress{}, false
	}
	n := e.InstallmentCount
	elapsed := core.MonthKeyOf(now).MonthsSince(e.Date.MonthKey())
	current := min(max(elapsed+1, 1), n)
	return InstallmentProgress{
		Current:   current,
		Total:     n,
		Remaining: n - current,
		Percent:   float64(current) / float64(n) * 100,
		Finished:  elapsed+1 > n,
	}, true
}
