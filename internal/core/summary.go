package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthlySummary is the fold of every allocation landing in one month.
// Total is always CashTotal + InstallmentTotal.
type MonthlySummary struct {
	Month            MonthKey        `json:"month"`
	CashTotal        decimal.Decimal `json:"cashTotal"`
	InstallmentTotal decimal.Decimal `json:"installmentTotal"`
	Total            decimal.Decimal `json:"total"`
}
