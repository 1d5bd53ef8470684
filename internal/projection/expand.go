package projection

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"smartfinance/internal/core"
)

// Allocation is one record's contribution to a single calendar month.
type Allocation struct {
	SourceID    string           `json:"sourceId"`
	Description string           `json:"description"`
	Month       core.MonthKey    `json:"month"`
	Category    string           `json:"category"`
	Amount      decimal.Decimal  `json:"amount"`
	Mode        core.PaymentMode `json:"type"`
	Index       int              `json:"index"`
	Count       int              `json:"count"`
	Label       string           `json:"label,omitempty"`
}

// ItemID is unique per (record, installment) pair. Cash allocations reuse
// the record id.
func (a Allocation) ItemID() string {
	if a.Mode != core.Installment {
		return a.SourceID
	}
	return fmt.Sprintf("%s-%d", a.SourceID, a.Index)
}

// Info is the display line of an installment, e.g. "Parcela 2/10". Cash
// allocations have none.
func (a Allocation) Info() string {
	if a.Label == "" {
		return ""
	}
	return "Parcela " + a.Label
}

// MarshalJSON adds the item id and display line to the plain fields.
func (a Allocation) MarshalJSON() ([]byte, error) {
	type plain Allocation
	return json.Marshal(struct {
		ID string `json:"id"`
		plain
		Info string `json:"info,omitempty"`
	}{ID: a.ItemID(), plain: plain(a), Info: a.Info()})
}

// Expand produces the ordered monthly allocations of one record. Cash
// records yield a single allocation in their own month; installment records
// yield Count allocations of Amount/Count in consecutive months.
func Expand(e core.Expense) []Allocation {
	origin := e.Date.MonthKey()
	if e.Mode != core.Installment {
		return []Allocation{{
			SourceID:    e.ID,
			Description: e.Description,
			Month:       origin,
			Category:    e.Category,
			Amount:      e.Amount,
			Mode:        core.Cash,
			Count:       1,
		}}
	}

	share := e.Share()
	out := make([]Allocation, 0, e.InstallmentCount)
	for i := 0; i < e.InstallmentCount; i++ {
		out = append(out, Allocation{
			SourceID:    e.ID,
			Description: e.Description,
			Month:       origin.AddMonths(i),
			Category:    e.Category,
			Amount:      share,
			Mode:        core.Installment,
			Index:       i,
			Count:       e.InstallmentCount,
			Label:       fmt.Sprintf("%d/%d", i+1, e.InstallmentCount),
		})
	}
	return out
}

// Project expands every record, in input order.
func Project(records []core.Expense) []Allocation {
	var out []Allocation
	for _, e := range records {
		out = append(out, Expand(e)...)
	}
	return out
}
