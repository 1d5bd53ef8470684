package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Cash        PaymentMode = "CASH"
	Installment PaymentMode = "INSTALLMENT"
)

const (
	// DateLayout is the wire form of every origin date.
	DateLayout = "2006-01-02"

	DefaultCategory   = "Geral"
	MaxDescriptionLen = 200
	MinInstallments   = 2
	MaxInstallments   = 60

	// MaxYear bounds month keys to four digits so they keep sorting
	// chronologically.
	MaxYear = 9999
)

type (
	PaymentMode string

	Date struct {
		time.Time
	}

	// Expense is an immutable record. Amount is always the full value;
	// the per-installment share is derived, never stored.
	Expense struct {
		ID               string          `json:"id"`
		Description      string          `json:"description"`
		Amount           decimal.Decimal `json:"amount"`
		Date             Date            `json:"date"`
		Mode             PaymentMode     `json:"type"`
		InstallmentCount int             `json:"installmentsCount"`
		Category         string          `json:"category"`
	}

	// ExpenseInput is the raw, unvalidated shape coming from forms and JSON bodies.
	ExpenseInput struct {
		Description      string      `json:"description"`
		Amount           string      `json:"amount"`
		Date             string      `json:"date"`
		Mode             PaymentMode `json:"type"`
		InstallmentCount int         `json:"installmentsCount"`
		Category         string      `json:"category"`
	}
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyDescription    = errors.New("empty description")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
	ErrInvalidPaymentMode  = errors.New("invalid payment mode")
	ErrInvalidInstallments = errors.New("installment count must be between 2 and 60")
)

// IsValidationError reports whether err stems from bad user input.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidDate, ErrInvalidAmount, ErrEmptyDescription,
		ErrDescriptionTooLong, ErrInvalidPaymentMode, ErrInvalidInstallments,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (m PaymentMode) Valid() bool {
	return m == Cash || m == Installment
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthKey returns the calendar month the date falls in.
func (d Date) MonthKey() MonthKey {
	return NewMonthKey(d.Year(), int(d.Month()))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Share is the amount allocated to each month of the record.
func (e Expense) Share() decimal.Decimal {
	if e.InstallmentCount <= 1 {
		return e.Amount
	}
	return e.Amount.Div(decimal.NewFromInt(int64(e.InstallmentCount)))
}

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(e.Description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	switch e.Mode {
	case Cash:
		if e.InstallmentCount != 1 {
			return ErrInvalidInstallments
		}
	case Installment:
		if e.InstallmentCount < MinInstallments || e.InstallmentCount > MaxInstallments {
			return ErrInvalidInstallments
		}
	default:
		return ErrInvalidPaymentMode
	}
	if last := e.Date.MonthKey().AddMonths(e.InstallmentCount - 1); last.Year() > MaxYear {
		return fmt.Errorf("%w: last installment falls in %s", ErrInvalidDate, last)
	}
	return nil
}

// NewExpense validates the input and builds a record with a fresh id.
// Cash always gets a single installment; an empty date means today.
func NewExpense(in ExpenseInput, today time.Time) (Expense, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Expense{}, err
	}

	date := DateOf(today)
	if strings.TrimSpace(in.Date) != "" {
		if date, err = ParseDate(in.Date); err != nil {
			return Expense{}, err
		}
	}

	mode := PaymentMode(strings.ToUpper(strings.TrimSpace(string(in.Mode))))
	if mode == "" {
		mode = Cash
	}
	count := in.InstallmentCount
	if mode == Cash {
		count = 1
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultCategory
	}

	e := Expense{
		ID:               uuid.NewString(),
		Description:      strings.TrimSpace(in.Description),
		Amount:           amount,
		Date:             date,
		Mode:             mode,
		InstallmentCount: count,
		Category:         category,
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	return e, nil
}
