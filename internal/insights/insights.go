// Package insights produces human-readable financial tips from the record
// set and its monthly summaries. The generator behind it is pluggable, and
// every failure degrades to a fixed fallback message.
package insights

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"smartfinance/internal/core"
	"smartfinance/internal/ledger"
	applog "smartfinance/internal/log"
)

const FallbackMessage = "Não foi possível gerar insights no momento. Verifique sua conexão ou tente novamente mais tarde."

// Generator turns records and summaries into advice text.
type Generator interface {
	Generate(ctx context.Context, records []core.Expense, summaries []core.MonthlySummary) (string, error)
}

// Result is what callers show. Fallback marks the static message.
type Result struct {
	Text        string    `json:"text"`
	Fallback    bool      `json:"fallback"`
	Fingerprint string    `json:"fingerprint"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type Service struct {
	gen     Generator
	timeout time.Duration
	logger  *applog.Logger
	now     func() time.Time
	group   singleflight.Group
}

// NewService accepts a nil generator, in which case every call returns the
// fallback.
func NewService(gen Generator, timeout time.Duration, logger *applog.Logger) *Service {
	return &Service{
		gen:     gen,
		timeout: timeout,
		logger:  logger.WithComponent(applog.ComponentInsights),
		now:     time.Now,
	}
}

// Insights never fails. Concurrent calls for the same record set share one
// generator call, which is bounded by the service timeout only: one caller
// going away must not turn the shared result into the fallback.
func (s *Service) Insights(ctx context.Context, records []core.Expense, summaries []core.MonthlySummary) Result {
	fp := ledger.Fingerprint(records)
	v, _, _ := s.group.Do(fp, func() (any, error) {
		return s.generate(context.WithoutCancel(ctx), fp, records, summaries), nil
	})
	return v.(Result)
}

func (s *Service) generate(ctx context.Context, fp string, records []core.Expense, summaries []core.MonthlySummary) Result {
	res := Result{Fingerprint: fp, GeneratedAt: s.now()}
	if s.gen == nil {
		s.logger.WarnContext(ctx, "Insight generator not configured, using fallback")
		res.Text, res.Fallback = FallbackMessage, true
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.Generate(ctx, records, summaries)
	if err != nil || text == "" {
		fields := applog.NewFields().WithError(err).WithOperation(applog.OpGenerate)
		if ctx.Err() != nil {
			fields.WithErrorType(applog.ErrorTypeTimeout)
		}
		s.logger.WarnContext(ctx, "Insight generation failed, using fallback", fields.ToSlice()...)
		res.Text, res.Fallback = FallbackMessage, true
		return res
	}
	res.Text = text
	return res
}
