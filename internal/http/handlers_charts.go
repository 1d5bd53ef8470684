package http

import (
	"errors"
	"net/http"

	"smartfinance/internal/charts"
	"smartfinance/internal/core"
	applog "smartfinance/internal/log"
)

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.reports.Summaries()
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	png, err := s.charts.MonthlyChart(summaries)
	s.writePNG(w, r, png, err)
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	month, err := core.ParseMonthKey(r.PathValue("month"))
	if err != nil {
		BadRequestError("month must be YYYY-MM").Write(w)
		return
	}
	report, err := s.reports.Month(month, "")
	if err != nil {
		s.reportError(w, r, err)
		return
	}
	png, err := s.charts.CategoryChart(month, report.CategoryTotals)
	s.writePNG(w, r, png, err)
}

func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, png []byte, err error) {
	switch {
	case errors.Is(err, charts.ErrNoData):
		NotFoundError("no data to chart").Write(w)
		return
	case err != nil:
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Chart render failed", err, applog.ComponentCharts, applog.OpRender, nil)
		InternalServerError().Write(w)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
