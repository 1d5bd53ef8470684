package projection

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartfinance/internal/core"
)

func TestMonthDetailOrdering(t *testing.T) {
	items := MonthDetail(sampleRecords(), "2026-01", "")

	require.Len(t, items, 3)
	assert.Equal(t, "mercado", items[0].SourceID)
	assert.Equal(t, "sofa", items[1].SourceID)
	assert.Equal(t, "tv", items[2].SourceID)
	assert.Equal(t, "3/3", items[2].Label)
	assert.Equal(t, "installment tv", items[2].Description)
}

func TestMonthDetailCategoryFilter(t *testing.T) {
	items := MonthDetail(sampleRecords(), "2026-01", "Casa")
	require.Len(t, items, 1)
	assert.Equal(t, "sofa", items[0].SourceID)

	assert.Len(t, MonthDetail(sampleRecords(), "2026-01", AllCategories), 3)
	assert.Empty(t, MonthDetail(sampleRecords(), "2026-01", "Viagem"))
	assert.Empty(t, MonthDetail(nil, "2026-01", ""))
}

func TestGroupByCategory(t *testing.T) {
	records := append(sampleRecords(), cash("super", "2026-01-03", "300", "Casa"))
	groups := GroupByCategory(MonthDetail(records, "2026-01", ""))

	require.Len(t, groups, 3)
	assert.Equal(t, "Casa", groups[0].Category)
	assert.True(t, groups[0].Subtotal.Equal(decimal.NewFromInt(550)))
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, "super", groups[0].Items[0].SourceID)
	assert.Equal(t, "Mercado", groups[1].Category)
	assert.Equal(t, "Eletrônicos", groups[2].Category)

	for i := 1; i < len(groups); i++ {
		assert.False(t, groups[i].Subtotal.GreaterThan(groups[i-1].Subtotal), "subtotals must be non-increasing")
	}
	assert.Empty(t, GroupByCategory(nil))
}

func TestCategoryTotalsAndNames(t *testing.T) {
	items := MonthDetail(sampleRecords(), "2026-01", "")

	totals := CategoryTotals(items)
	require.Len(t, totals, 3)
	assert.Equal(t, "Mercado", totals[0].Category)
	assert.True(t, totals[0].Amount.Equal(decimal.RequireFromString("450.5")))

	assert.Equal(t, []string{"Casa", "Eletrônicos", "Mercado"}, MonthCategories(items))
}

func TestCategoryShare(t *testing.T) {
	items := MonthDetail(sampleRecords(), "2025-12", "")

	amount, pct := CategoryShare(items, FixedExpensesCategory)
	assert.True(t, amount.Equal(decimal.NewFromInt(120)))
	assert.InDelta(t, 54.545, pct, 0.01)

	amount, pct = CategoryShare(nil, FixedExpensesCategory)
	assert.True(t, amount.IsZero())
	assert.Zero(t, pct)
}

func TestDeletionLeavesNoResidue(t *testing.T) {
	records := sampleRecords()
	var kept []core.Expense
	for _, e := range records {
		if e.ID != "sofa" {
			kept = append(kept, e)
		}
	}

	for _, a := range Project(kept) {
		assert.NotEqual(t, "sofa", a.SourceID)
	}
	for _, s := range MonthlySummaries(kept) {
		assert.NotEqual(t, core.MonthKey("2026-04"), s.Month)
	}
	assert.NotContains(t, Annual(kept, 2026).Categories, "Casa")
}
