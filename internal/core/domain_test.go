package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var today = time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-01-01", true},
		{"2025-12-31", true},
		{" 2025-02-28 ", true},
		{"2025-02-30", false},
		{"2025/01/01", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, 11, 15))
	if err != nil || string(b) != `"2025-11-15"` {
		t.Fatalf("unexpected marshal: %s err=%v", b, err)
	}
	var d Date
	if err := json.Unmarshal([]byte(`"2026-03-10"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.MonthKey() != "2026-03" {
		t.Fatalf("unexpected month key %q", d.MonthKey())
	}
	if err := json.Unmarshal([]byte(`"10/03/2026"`), &d); err == nil {
		t.Fatalf("expected error for bad layout")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		ID:               "x",
		Description:      "ok",
		Amount:           decimal.NewFromInt(100),
		Date:             NewDate(2025, 1, 1),
		Mode:             Installment,
		InstallmentCount: 3,
		Category:         "Casa",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	accented := good
	accented.Description = strings.Repeat("ção", MaxDescriptionLen/3)
	if err := accented.Validate(); err != nil {
		t.Fatalf("accented description within limit: %v", err)
	}

	lastYear := good
	lastYear.Date = NewDate(9999, 10, 31)
	if err := lastYear.Validate(); err != nil {
		t.Fatalf("installments ending 9999-12 should be valid, got %v", err)
	}

	cases := []struct {
		mutate func(*Expense)
		want   error
	}{
		{func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
		{func(e *Expense) { e.Description = "  " }, ErrEmptyDescription},
		{func(e *Expense) { e.Description = strings.Repeat("a", 201) }, ErrDescriptionTooLong},
		{func(e *Expense) { e.Description = strings.Repeat("ã", 201) }, ErrDescriptionTooLong},
		{func(e *Expense) { e.Date = NewDate(9999, 11, 1) }, ErrInvalidDate},
		{func(e *Expense) { e.Amount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
		{func(e *Expense) { e.InstallmentCount = 1 }, ErrInvalidInstallments},
		{func(e *Expense) { e.InstallmentCount = 61 }, ErrInvalidInstallments},
		{func(e *Expense) { e.Mode = Cash }, ErrInvalidInstallments},
		{func(e *Expense) { e.Mode = "CREDIT" }, ErrInvalidPaymentMode},
	}
	for i, tc := range cases {
		e := good
		tc.mutate(&e)
		if err := e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestNewExpenseDefaults(t *testing.T) {
	e, err := NewExpense(ExpenseInput{
		Description:      " Mercado ",
		Amount:           "150,90",
		Mode:             Cash,
		InstallmentCount: 12,
	}, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected generated id")
	}
	if e.Description != "Mercado" || e.Category != DefaultCategory {
		t.Fatalf("unexpected defaults: %+v", e)
	}
	if e.InstallmentCount != 1 {
		t.Fatalf("cash must force a single installment, got %d", e.InstallmentCount)
	}
	if e.Date.String() != "2026-03-10" {
		t.Fatalf("empty date should default to today, got %s", e.Date)
	}
	if !e.Amount.Equal(decimal.RequireFromString("150.90")) {
		t.Fatalf("unexpected amount %s", e.Amount)
	}
}

func TestNewExpenseInstallment(t *testing.T) {
	e, err := NewExpense(ExpenseInput{
		Description:      "TV",
		Amount:           "3000",
		Date:             "2025-11-15",
		Mode:             "installment",
		InstallmentCount: 10,
		Category:         "Eletrônicos",
	}, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Mode != Installment || e.InstallmentCount != 10 {
		t.Fatalf("unexpected record: %+v", e)
	}
	if !e.Share().Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected share %s", e.Share())
	}

	other, _ := NewExpense(ExpenseInput{Description: "TV", Amount: "1"}, today)
	if other.ID == e.ID {
		t.Fatalf("ids must be unique")
	}
}

func TestNewExpenseRejects(t *testing.T) {
	cases := []struct {
		in   ExpenseInput
		want error
	}{
		{ExpenseInput{Description: "", Amount: "10"}, ErrEmptyDescription},
		{ExpenseInput{Description: "a", Amount: ""}, ErrInvalidAmount},
		{ExpenseInput{Description: "a", Amount: "-5"}, ErrInvalidAmount},
		{ExpenseInput{Description: "a", Amount: "10", Date: "2025-13-01"}, ErrInvalidDate},
		{ExpenseInput{Description: "a", Amount: "10", Mode: Installment, InstallmentCount: 1}, ErrInvalidInstallments},
		{ExpenseInput{Description: "a", Amount: "10", Mode: Installment, InstallmentCount: 0}, ErrInvalidInstallments},
		{ExpenseInput{Description: "a", Amount: "10", Mode: "PIX"}, ErrInvalidPaymentMode},
		{ExpenseInput{Description: "a", Amount: "10", Date: "9999-12-01", Mode: Installment, InstallmentCount: 2}, ErrInvalidDate},
	}
	for i, tc := range cases {
		if _, err := NewExpense(tc.in, today); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestExpenseJSONFieldNames(t *testing.T) {
	raw := `{"id":"1","description":"Luz","amount":120.5,"date":"2026-01-05","type":"CASH","installmentsCount":1,"category":"Gastos Fixos"}`
	var e Expense
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := e.Validate(); err != nil {
		t.Fatalf("decoded record invalid: %v", err)
	}
	if e.Category != "Gastos Fixos" || !e.Amount.Equal(decimal.RequireFromString("120.5")) {
		t.Fatalf("unexpected decode: %+v", e)
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(fmt.Errorf("wrap: %w", ErrInvalidAmount)) {
		t.Error("wrapped ErrInvalidAmount should be a validation error")
	}
	if IsValidationError(errors.New("disk full")) {
		t.Error("arbitrary error should not be a validation error")
	}
	if IsValidationError(nil) {
		t.Error("nil should not be a validation error")
	}
}
