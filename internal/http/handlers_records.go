package http

import (
	"errors"
	"net/http"

	"smartfinance/internal/core"
	"smartfinance/internal/ledger"
	applog "smartfinance/internal/log"
)

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	f, ok := parseFilter(r.URL.Query(), s.now())
	if !ok {
		BadRequestError("invalid filter: range must be a known preset and start/end YYYY-MM-DD").Write(w)
		return
	}
	NewResponse().JSON(s.records.List(f)).Write(w)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	e, err := s.records.Create(r.Context(), p.ExpenseInput())
	switch {
	case err == nil:
		NewResponse().Status(http.StatusCreated).
			Header("Location", "/api/records/"+e.ID).
			JSON(e).Write(w)
	case core.IsValidationError(err):
		UnprocessableEntityError(err.Error()).Write(w)
	default:
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Record create failed", err, applog.ComponentRecords, applog.OpCreate, nil)
		InternalServerError().Write(w)
	}
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.PathValue("id"))
	err := s.records.Delete(r.Context(), id)
	switch {
	case err == nil:
		NewResponse().Status(http.StatusNoContent).Write(w)
	case errors.Is(err, ledger.ErrNotFound):
		NotFoundError("record not found").Write(w)
	default:
		applog.NewStructuredLogger(applog.FromContext(r.Context())).
			LogError(r.Context(), "Record delete failed", err, applog.ComponentRecords, applog.OpDelete,
				applog.LogFields{applog.FieldRecordID: id})
		InternalServerError().Write(w)
	}
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{"theme": string(s.records.Theme())}).Write(w)
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	theme := ledger.Theme(p.Get("theme"))
	err := s.records.SetTheme(r.Context(), theme)
	switch {
	case err == nil:
		NewResponse().JSON(map[string]string{"theme": string(theme)}).Write(w)
	case errors.Is(err, ledger.ErrInvalidTheme):
		UnprocessableEntityError(err.Error()).Write(w)
	default:
		s.logger.ErrorContext(r.Context(), "Theme update failed", applog.FieldError, err)
		InternalServerError().Write(w)
	}
}
