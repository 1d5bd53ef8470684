// Package http exposes the finance engine as a JSON API with a websocket
// change feed.
package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"smartfinance/internal/charts"
	"smartfinance/internal/insights"
	applog "smartfinance/internal/log"
	"smartfinance/internal/middleware/ratelimit"
	"smartfinance/internal/middleware/security"
	"smartfinance/internal/middleware/trace"
	"smartfinance/internal/services"
	"smartfinance/internal/storage"
)

// Deps are the collaborators the handlers call into.
type Deps struct {
	Records  *services.RecordService
	Reports  *services.ReportService
	Insights *insights.Service
	Store    storage.KeyValueStore
	Charts   *charts.Generator
	Logger   *applog.Logger
}

type Options struct {
	CORSAllowedOrigins []string
	RateLimitPerMinute int
}

type Server struct {
	http.Server

	records  *services.RecordService
	reports  *services.ReportService
	insights *insights.Service
	store    storage.KeyValueStore
	charts   *charts.Generator
	logger   *applog.Logger

	hub      *Hub
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware. The record service is pointed at
// the server's websocket hub.
func NewServer(addr string, deps Deps, opts Options) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.Discard()
	}

	s := &Server{
		records:  deps.Records,
		reports:  deps.Reports,
		insights: deps.Insights,
		store:    deps.Store,
		charts:   deps.Charts,
		logger:   logger.WithComponent(applog.ComponentHTTP),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(logger),
		tracer:   trace.NewMiddleware(),
		now:      time.Now,
	}
	s.hub = NewHub(deps.Reports.Version, logger)
	s.records.SetNotifier(s.hub)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)

	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("POST /api/records", s.handleCreateRecord)
	mux.HandleFunc("DELETE /api/records/{id}", s.handleDeleteRecord)

	mux.HandleFunc("GET /api/summaries", s.handleSummaries)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/months/{month}", s.handleMonth)
	mux.HandleFunc("GET /api/years", s.handleYears)
	mux.HandleFunc("GET /api/annual/{year}", s.handleAnnual)

	mux.HandleFunc("GET /api/theme", s.handleGetTheme)
	mux.HandleFunc("PUT /api/theme", s.handleSetTheme)
	mux.HandleFunc("GET /api/insights", s.handleInsights)

	mux.HandleFunc("GET /api/charts/monthly.png", s.handleMonthlyChart)
	mux.HandleFunc("GET /api/charts/months/{month}/categories.png", s.handleCategoryChart)

	mux.Handle("GET /ws", s.hub)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(s.middleware(mux, opts), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// middleware builds trace → log → security headers → detector → rate
// limit → cors → mux, outermost first.
func (s *Server) middleware(mux http.Handler, opts Options) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", trace.HeaderRequestID},
		ExposedHeaders: []string{trace.HeaderRequestID, "Retry-After"},
		MaxAge:         600,
	})

	onLimit := func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			applog.FieldClientIP, s.detector.ExtractClientIP(r),
			applog.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
	}

	var h http.Handler = c.Handler(mux)
	h = s.limiter.Middleware(s.detector.ExtractClientIP, onLimit)(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.AccessLog(s.detector.ExtractClientIP)(h)
	h = applog.RequestIDMiddleware(trace.FromRequest)(h)
	h = applog.Middleware(s.logger)(h)
	return s.tracer.Middleware(h)
}

// Shutdown stops accepting requests, then closes websocket sessions and
// the limiter janitor.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
		if err := s.hub.Close(); err != nil {
			shutdownErr = errors.Join(shutdownErr, err)
		}
		s.limiter.Stop()
	})
	return shutdownErr
}

// Hub exposes the change feed for wiring and tests.
func (s *Server) Hub() *Hub {
	return s.hub
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{"status": "ok"}).Write(w)
}
