package core

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month as YYYY-MM. Lexicographic order is
// chronological order.
type MonthKey string

var shortMonths = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

func NewMonthKey(year, month int) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, month))
}

func MonthKeyOf(t time.Time) MonthKey {
	return NewMonthKey(t.Year(), int(t.Month()))
}

// ParseMonthKey validates s as a YYYY-MM key.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	return MonthKeyOf(t), nil
}

func (k MonthKey) parts() (int, int) {
	var y, m int
	fmt.Sscanf(string(k), "%d-%d", &y, &m)
	return y, m
}

func (k MonthKey) Year() int {
	y, _ := k.parts()
	return y
}

// Month returns 1..12.
func (k MonthKey) Month() int {
	_, m := k.parts()
	return m
}

// AddMonths advances the key by n months (n may be negative). Only year and
// month take part, so there is no day-of-month overflow.
func (k MonthKey) AddMonths(n int) MonthKey {
	y, m := k.parts()
	idx := y*12 + (m - 1) + n
	return NewMonthKey(idx/12, idx%12+1)
}

// MonthsSince is the number of calendar months from other to k.
func (k MonthKey) MonthsSince(other MonthKey) int {
	y1, m1 := k.parts()
	y2, m2 := other.parts()
	return (y1-y2)*12 + (m1 - m2)
}

// MonthLabel renders a short label such as "Jan/26".
func MonthLabel(k MonthKey) string {
	y, m := k.parts()
	if m < 1 || m > 12 {
		return string(k)
	}
	return fmt.Sprintf("%s/%02d", shortMonths[m-1], y%100)
}

