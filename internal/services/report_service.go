package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"smartfinance/internal/cache"
	"smartfinance/internal/core"
	"smartfinance/internal/ledger"
	applog "smartfinance/internal/log"
	"smartfinance/internal/projection"
)

// RecentLimit is how many records the dashboard lists.
const RecentLimit = 5

type (
	AnnualReport struct {
		projection.AnnualBreakdown
		Stats projection.AnnualStats `json:"stats"`
	}

	// FixedShare is the part of a month spent on fixed expenses.
	FixedShare struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Percent  float64         `json:"percent"`
	}

	// MonthReport is the drill-down of one month. Items and Groups honor
	// the category filter; Categories, CategoryTotals and Fixed always
	// describe the whole month.
	MonthReport struct {
		Month          core.MonthKey              `json:"month"`
		Category       string                     `json:"category"`
		Items          []projection.Allocation    `json:"items"`
		Groups         []projection.CategoryGroup `json:"groups"`
		Categories     []string                   `json:"categories"`
		CategoryTotals []core.CategoryAmount      `json:"categoryTotals"`
		Total          decimal.Decimal            `json:"total"`
		Fixed          FixedShare                 `json:"fixed"`
	}

	DashboardReport struct {
		Stats          projection.DashboardStats  `json:"stats"`
		Summaries      []core.MonthlySummary      `json:"summaries"`
		LatestGroups   []projection.CategoryGroup `json:"latestGroups"`
		CategoryTotals []core.CategoryAmount      `json:"categoryTotals"`
		Recent         []core.Expense             `json:"recent"`
	}
)

// ReportService serves read-side projections of the ledger. Results are
// memoized per ledger version.
type ReportService struct {
	ledger *ledger.Ledger
	memo   *cache.Memo
	logger *applog.Logger
	now    func() time.Time
}

func NewReportService(l *ledger.Ledger, memo *cache.Memo, logger *applog.Logger) *ReportService {
	return &ReportService{
		ledger: l,
		memo:   memo,
		logger: logger.WithComponent(applog.ComponentReports),
		now:    time.Now,
	}
}

// Snapshot exposes the records and version the reports are computed from.
func (s *ReportService) Snapshot() ([]core.Expense, uint64) {
	return s.ledger.Snapshot()
}

func (s *ReportService) Version() uint64 {
	return s.ledger.Version()
}

func (s *ReportService) Summaries() ([]core.MonthlySummary, error) {
	records, version := s.ledger.Snapshot()
	return cache.Get(s.memo, version, "summaries", func() ([]core.MonthlySummary, error) {
		return projection.MonthlySummaries(records), nil
	})
}

func (s *ReportService) Years() ([]int, error) {
	records, version := s.ledger.Snapshot()
	now := s.now()
	key := "years/" + strconv.Itoa(now.Year())
	return cache.Get(s.memo, version, key, func() ([]int, error) {
		return projection.AvailableYears(records, now), nil
	})
}

func (s *ReportService) Annual(year int) (AnnualReport, error) {
	if year < 1 || year > core.MaxYear {
		return AnnualReport{}, fmt.Errorf("%w: year %d", core.ErrInvalidDate, year)
	}
	records, version := s.ledger.Snapshot()
	return cache.Get(s.memo, version, "annual/"+strconv.Itoa(year), func() (AnnualReport, error) {
		b := projection.Annual(records, year)
		return AnnualReport{AnnualBreakdown: b, Stats: b.Stats()}, nil
	})
}

func (s *ReportService) Month(month core.MonthKey, category string) (MonthReport, error) {
	if category == "" {
		category = projection.AllCategories
	}
	records, version := s.ledger.Snapshot()
	key := fmt.Sprintf("month/%s/%s", month, category)
	return cache.Get(s.memo, version, key, func() (MonthReport, error) {
		return buildMonthReport(records, month, category), nil
	})
}

func buildMonthReport(records []core.Expense, month core.MonthKey, category string) MonthReport {
	all := projection.MonthDetail(records, month, projection.AllCategories)
	items := all
	if category != projection.AllCategories {
		items = projection.MonthDetail(records, month, category)
	}
	amount, pct := projection.CategoryShare(all, projection.FixedExpensesCategory)

	return MonthReport{
		Month:          month,
		Category:       category,
		Items:          items,
		Groups:         projection.GroupByCategory(items),
		Categories:     projection.MonthCategories(all),
		CategoryTotals: projection.CategoryTotals(all),
		Total:          projection.Total(items),
		Fixed: FixedShare{
			Category: projection.FixedExpensesCategory,
			Amount:   amount,
			Percent:  pct,
		},
	}
}

// Dashboard assembles the landing view. Its parts are independent and are
// computed concurrently.
func (s *ReportService) Dashboard(ctx context.Context) (DashboardReport, error) {
	records, version := s.ledger.Snapshot()
	return cache.Get(s.memo, version, "dashboard", func() (DashboardReport, error) {
		start := time.Now()
		var report DashboardReport
		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			report.Summaries = projection.MonthlySummaries(records)
			report.Stats = projection.Dashboard(report.Summaries)
			return ctx.Err()
		})
		g.Go(func() error {
			latest := latestMonth(records)
			if latest == "" {
				return nil
			}
			items := projection.MonthDetail(records, latest, projection.AllCategories)
			report.LatestGroups = projection.GroupByCategory(items)
			report.CategoryTotals = projection.CategoryTotals(items)
			return ctx.Err()
		})
		g.Go(func() error {
			report.Recent = projection.Recent(records, RecentLimit)
			return ctx.Err()
		})

		if err := g.Wait(); err != nil {
			return DashboardReport{}, fmt.Errorf("build dashboard: %w", err)
		}
		s.logger.DebugContext(ctx, "Dashboard computed",
			applog.FieldVersion, version,
			applog.FieldDuration, time.Since(start).Milliseconds())
		return report, nil
	})
}

func latestMonth(records []core.Expense) core.MonthKey {
	var latest core.MonthKey
	for _, a := range projection.Project(records) {
		if a.Month > latest {
			latest = a.Month
		}
	}
	return latest
}
