// Package charts renders PNG charts of the projected spending.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"

	"smartfinance/internal/core"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

type Generator struct {
	Width  int
	Height int
	format *core.CurrencyFormatter
}

// NewGenerator uses format for value labels; nil falls back to plain numbers.
func NewGenerator(format *core.CurrencyFormatter) *Generator {
	return &Generator{Width: 1200, Height: 600, format: format}
}

func (g *Generator) money(d decimal.Decimal) string {
	if g.format == nil {
		return core.RoundCents(d).StringFixed(2)
	}
	return g.format.Format(d)
}

// MonthlyChart stacks cash and installment totals per month.
func (g *Generator) MonthlyChart(summaries []core.MonthlySummary) ([]byte, error) {
	bars := make([]chart.StackedBar, 0, len(summaries))
	for _, s := range summaries {
		if !s.Total.IsPositive() {
			continue
		}
		cash := s.CashTotal.InexactFloat64()
		inst := s.InstallmentTotal.InexactFloat64()
		bars = append(bars, chart.StackedBar{
			Name: core.MonthLabel(s.Month),
			Values: []chart.Value{
				{Label: "À vista", Value: cash, Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue}},
				{Label: "Parcelado", Value: inst, Style: chart.Style{FillColor: chart.ColorGreen, StrokeColor: chart.ColorGreen}},
			},
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	graph := chart.StackedBarChart{
		Title:      "Gastos mensais",
		Width:      g.Width,
		Height:     g.Height,
		BarSpacing: 20,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.Style{FontSize: 10, FontColor: chart.ColorBlack},
		YAxis: chart.Style{FontSize: 10, FontColor: chart.ColorBlack},
		Bars:  bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render monthly chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// CategoryChart draws the category split of one month as a pie.
func (g *Generator) CategoryChart(month core.MonthKey, totals []core.CategoryAmount) ([]byte, error) {
	total := decimal.Zero
	for _, c := range totals {
		if c.Amount.IsPositive() {
			total = total.Add(c.Amount)
		}
	}
	if !total.IsPositive() {
		return nil, ErrNoData
	}

	values := make([]chart.Value, 0, len(totals))
	for _, c := range totals {
		if !c.Amount.IsPositive() {
			continue
		}
		pct := c.Amount.Div(total).InexactFloat64() * 100
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s (%.1f%%)", c.Category, g.money(c.Amount), pct),
			Value: c.Amount.InexactFloat64(),
		})
	}

	pie := chart.PieChart{
		Title:  "Categorias " + core.MonthLabel(month),
		Width:  g.Height,
		Height: g.Height,
		Values: values,
		Background: chart.Style{
			Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render category chart: %w", err)
	}
	return buffer.Bytes(), nil
}
