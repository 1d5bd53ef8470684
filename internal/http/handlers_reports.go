package http

import (
	"net/http"
	"strconv"

	"smartfinance/internal/core"
	"smartfinance/internal/insights"
	"smartfinance/internal/ledger"
	applog "smartfinance/internal/log"
	"smartfinance/internal/projection"
)

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.reports.Summaries()
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	NewResponse().JSON(summaries).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.reports.Dashboard(r.Context())
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	NewResponse().JSON(d).Write(w)
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	month, err := core.ParseMonthKey(r.PathValue("month"))
	if err != nil {
		BadRequestError("month must be YYYY-MM").Write(w)
		return
	}
	category := sanitizeInput(r.URL.Query().Get("category"))

	report, err := s.reports.Month(month, category)
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	NewResponse().JSON(report).Write(w)
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.reports.Years()
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	NewResponse().JSON(years).Write(w)
}

func (s *Server) handleAnnual(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 || year > core.MaxYear {
		BadRequestError("year must be a number between 1 and 9999").Write(w)
		return
	}

	report, err := s.reports.Annual(year)
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	NewResponse().JSON(report).Write(w)
}

// handleInsights serves the stored insight when it matches the current
// records and generates one otherwise. It always answers 200.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	records, _ := s.reports.Snapshot()
	fp := ledger.Fingerprint(records)

	if s.store != nil {
		stored, ok, err := insights.LoadStored(ctx, s.store, fp)
		if err != nil {
			s.logger.WarnContext(ctx, "Stored insight unreadable", applog.FieldError, err)
		} else if ok {
			NewResponse().JSON(stored).Write(w)
			return
		}
	}

	res := s.insights.Insights(ctx, records, projection.MonthlySummaries(records))
	if s.store != nil {
		if err := insights.SaveStored(ctx, s.store, res); err != nil {
			s.logger.WarnContext(ctx, "Could not store insight", applog.FieldError, err)
		}
	}
	NewResponse().JSON(res).Write(w)
}

func (s *Server) reportError(w http.ResponseWriter, r *http.Request, err error) {
	if core.IsValidationError(err) {
		BadRequestError(err.Error()).Write(w)
		return
	}
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogError(r.Context(), "Report failed", err, applog.ComponentReports, applog.OpRead, nil)
	InternalServerError().Write(w)
}
