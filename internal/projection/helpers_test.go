package projection

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"smartfinance/internal/core"
)

var tolerance = decimal.New(1, -9)

func cash(id, date, amount, category string) core.Expense {
	d, _ := core.ParseDate(date)
	return core.Expense{
		ID:               id,
		Description:      "cash " + id,
		Amount:           decimal.RequireFromString(amount),
		Date:             d,
		Mode:             core.Cash,
		InstallmentCount: 1,
		Category:         category,
	}
}

func installment(id, date, amount string, n int, category string) core.Expense {
	e := cash(id, date, amount, category)
	e.Description = "installment " + id
	e.Mode = core.Installment
	e.InstallmentCount = n
	return e
}

func assertDecimalNear(t *testing.T, want, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, want.Sub(got).Abs().LessThan(tolerance), "want %s, got %s %v", want, got, msgAndArgs)
}

func sumAmounts(records []core.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range records {
		sum = sum.Add(e.Amount)
	}
	return sum
}
