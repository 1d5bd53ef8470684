package projection

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartfinance/internal/core"
)

func TestExpandCash(t *testing.T) {
	got := Expand(cash("a", "2026-03-10", "500", "Mercado"))

	require.Len(t, got, 1)
	assert.Equal(t, core.MonthKey("2026-03"), got[0].Month)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, core.Cash, got[0].Mode)
	assert.Empty(t, got[0].Label)
	assert.Equal(t, "a", got[0].ItemID())
	assert.Empty(t, got[0].Info())
}

func TestExpandInstallmentYearRollover(t *testing.T) {
	got := Expand(installment("tv", "2025-11-15", "400", 4, "Eletrônicos"))

	require.Len(t, got, 4)
	months := []core.MonthKey{"2025-11", "2025-12", "2026-01", "2026-02"}
	for i, a := range got {
		assert.Equal(t, months[i], a.Month)
		assert.True(t, a.Amount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, core.Installment, a.Mode)
		assert.Equal(t, i, a.Index)
	}
	assert.Equal(t, "1/4", got[0].Label)
	assert.Equal(t, "4/4", got[3].Label)
	assert.Equal(t, "Parcela 2/4", got[1].Info())
	assert.Equal(t, "tv-3", got[3].ItemID())
}

func TestExpandSplitInvariant(t *testing.T) {
	cases := []struct {
		amount string
		n      int
	}{
		{"100", 3},
		{"99.99", 7},
		{"0.01", 12},
		{"123456.78", 60},
	}
	for _, tc := range cases {
		e := installment("x", "2025-01-31", tc.amount, tc.n, "c")
		allocs := Expand(e)

		require.Len(t, allocs, tc.n)
		assertDecimalNear(t, e.Amount, Total(allocs), tc.amount)
		for i, a := range allocs {
			assert.Equal(t, e.Date.MonthKey().AddMonths(i), a.Month, "consecutive months")
		}
	}
}

func TestProjectEmpty(t *testing.T) {
	assert.Empty(t, Project(nil))
}

func TestAllocationJSON(t *testing.T) {
	got := Project([]core.Expense{
		cash("pao", "2026-01-20", "12.5", "Mercado"),
		installment("tv", "2026-01-15", "300", 3, "Casa"),
	})
	require.Len(t, got, 4)

	raw, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"pao","sourceId":"pao","description":"cash pao","month":"2026-01",
		"category":"Mercado","amount":12.5,"type":"CASH","index":0,"count":1}`, string(raw))

	raw, err = json.Marshal(got[2])
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "tv-1", m["id"])
	assert.Equal(t, "Parcela 2/3", m["info"])
	assert.Equal(t, "2/3", m["label"])
}
