package projection

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualMatrix(t *testing.T) {
	b := Annual(sampleRecords(), 2026)

	assert.Equal(t, []string{"Casa", "Eletrônicos", "Gastos Fixos", "Lazer", "Mercado"}, b.Categories)
	require.Len(t, b.Rows, 5)

	casa := b.Rows[0]
	for m := 0; m < 4; m++ {
		assert.True(t, casa.Months[m].Equal(decimal.NewFromInt(250)), "Casa month %d", m+1)
	}
	assert.True(t, casa.Months[4].IsZero())
	assert.True(t, casa.Total.Equal(decimal.NewFromInt(1000)))

	// Categories without spending this year still get a zero row.
	assert.Equal(t, "Gastos Fixos", b.Rows[2].Category)
	assert.True(t, b.Rows[2].Total.IsZero())

	assertDecimalNear(t, decimal.RequireFromString("800.5"), b.MonthTotals[0])
	assertDecimalNear(t, decimal.RequireFromString("1550.5"), b.Total)
}

func TestAnnualMatchesSummaries(t *testing.T) {
	records := sampleRecords()
	records = append(records, installment("long", "2025-06-10", "1000", 9, "Casa"))

	for _, year := range []int{2025, 2026} {
		want := decimal.Zero
		for _, s := range MonthlySummaries(records) {
			if s.Month.Year() == year {
				want = want.Add(s.Total)
			}
		}
		b := Annual(records, year)

		cells := decimal.Zero
		for _, r := range b.Rows {
			for _, v := range r.Months {
				cells = cells.Add(v)
			}
		}
		assertDecimalNear(t, want, cells, year)
		assertDecimalNear(t, want, b.Total, year)
	}
}

func TestAnnualStats(t *testing.T) {
	st := Annual(sampleRecords(), 2026).Stats()

	assertDecimalNear(t, decimal.RequireFromString("1550.5"), st.Total)
	assertDecimalNear(t, decimal.RequireFromString("1550.5").Div(decimal.NewFromInt(12)), st.MonthlyAverage)
	assert.Equal(t, 1, st.PeakMonth)
	assert.Equal(t, 3, st.CategoryCount)

	quiet := Annual(sampleRecords(), 2030).Stats()
	assert.Zero(t, quiet.PeakMonth)
	assert.Zero(t, quiet.CategoryCount)
	assert.True(t, quiet.Total.IsZero())
}

func TestAnnualEmpty(t *testing.T) {
	b := Annual(nil, 2026)

	assert.Empty(t, b.Rows)
	assert.True(t, b.Total.IsZero())
	for _, v := range b.MonthTotals {
		assert.True(t, v.IsZero())
	}
}

func TestAvailableYears(t *testing.T) {
	now := time.Date(2027, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []int{2027, 2026, 2025}, AvailableYears(sampleRecords(), now))

	now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []int{2026}, AvailableYears(nil, now))
}
