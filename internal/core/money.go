// Package core provides money parsing and formatting utilities.
//
// Amounts travel as decimal.Decimal end to end. Rounding to cents happens
// only when a value is rendered, and always through RoundCents so totals
// reconcile on every surface.
package core

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amounts are stored and served as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseAmount converts a user-entered decimal string to an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rounds half-up to cents. Signs, empty strings and malformed numbers are
// rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12,34")  -> 12.34
//	ParseAmount("12.345") -> 12.35
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if s == "." {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return RoundCents(d), nil
}

// RoundCents rounds half away from zero at two decimals.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CurrencyFormatter renders amounts for one locale and currency.
type CurrencyFormatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewCurrencyFormatter builds a formatter, e.g. ("pt-BR", "BRL").
func NewCurrencyFormatter(locale, code string) (*CurrencyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}
	return &CurrencyFormatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// Format renders d with the currency symbol and two fraction digits.
func (f *CurrencyFormatter) Format(d decimal.Decimal) string {
	v := RoundCents(d).InexactFloat64()
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(v)))
}
