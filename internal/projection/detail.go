package projection

import (
	"sort"

	"github.com/shopspring/decimal"

	"smartfinance/internal/core"
)

// AllCategories disables category filtering.
const AllCategories = "all"

// FixedExpensesCategory is the category whose share of a month is surfaced
// as a savings tip.
const FixedExpensesCategory = "Gastos Fixos"

type CategoryGroup struct {
	Category string          `json:"category"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Items    []Allocation    `json:"items"`
}

// MonthDetail lists the allocations of one month, largest first. An empty
// category or "all" keeps every category.
func MonthDetail(records []core.Expense, month core.MonthKey, category string) []Allocation {
	var out []Allocation
	for _, a := range Project(records) {
		if a.Month != month {
			continue
		}
		if category != "" && category != AllCategories && a.Category != category {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	return out
}

// GroupByCategory partitions items by category, largest subtotal first.
// Items keep their relative order inside a group.
func GroupByCategory(items []Allocation) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup
	for _, a := range items {
		i, ok := index[a.Category]
		if !ok {
			i = len(groups)
			index[a.Category] = i
			groups = append(groups, CategoryGroup{Category: a.Category, Subtotal: decimal.Zero})
		}
		groups[i].Items = append(groups[i].Items, a)
		groups[i].Subtotal = groups[i].Subtotal.Add(a.Amount)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Subtotal.GreaterThan(groups[j].Subtotal) })
	return groups
}

// CategoryTotals sums items per category, largest first.
func CategoryTotals(items []Allocation) []core.CategoryAmount {
	groups := GroupByCategory(items)
	out := make([]core.CategoryAmount, len(groups))
	for i, g := range groups {
		out[i] = core.CategoryAmount{Category: g.Category, Amount: g.Subtotal}
	}
	return out
}

// MonthCategories returns the sorted category names present in items.
func MonthCategories(items []Allocation) []string {
	seen := make(map[string]struct{})
	for _, a := range items {
		seen[a.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CategoryShare returns the amount spent on category within items and its
// percentage of the items total (0 when the total is zero).
func CategoryShare(items []Allocation, category string) (decimal.Decimal, float64) {
	amount, total := decimal.Zero, decimal.Zero
	for _, a := range items {
		total = total.Add(a.Amount)
		if a.Category == category {
			amount = amount.Add(a.Amount)
		}
	}
	if total.IsZero() {
		return amount, 0
	}
	return amount, amount.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// Total sums the allocated amounts.
func Total(items []Allocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range items {
		sum = sum.Add(a.Amount)
	}
	return sum
}
