// Package worker consumes record change events and keeps the stored
// financial insight in step with the record set.
package worker

import (
	"context"
	"errors"
	"fmt"

	"smartfinance/internal/amqp"
	"smartfinance/internal/insights"
	"smartfinance/internal/ledger"
	applog "smartfinance/internal/log"
	"smartfinance/internal/projection"
	"smartfinance/internal/storage"
)

// ErrGenerationFailed is returned when only the fallback text could be
// produced; the event is worth one more attempt.
var ErrGenerationFailed = errors.New("insight generation failed")

type InsightsWorker struct {
	store    storage.KeyValueStore
	insights *insights.Service
	logger   *applog.Logger
}

func NewInsightsWorker(store storage.KeyValueStore, svc *insights.Service, logger *applog.Logger) *InsightsWorker {
	return &InsightsWorker{
		store:    store,
		insights: svc,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleRecordEvent processes one change notification. Events carry no
// payload, so the current records are reloaded from storage.
func (w *InsightsWorker) HandleRecordEvent(ctx context.Context, evt *amqp.RecordEvent) error {
	w.logger.InfoContext(ctx, "Processing record event",
		applog.FieldEventType, string(evt.Type),
		applog.FieldRecordID, evt.RecordID,
		applog.FieldVersion, evt.Version)

	return w.Refresh(ctx)
}

// Refresh regenerates the stored insight unless it already matches the
// stored records. Also run once on startup to catch events missed while
// the worker was down.
func (w *InsightsWorker) Refresh(ctx context.Context) error {
	records, err := ledger.LoadRecords(ctx, w.store)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	fp := ledger.Fingerprint(records)
	if _, ok, err := insights.LoadStored(ctx, w.store, fp); err != nil {
		w.logger.WarnContext(ctx, "Could not read stored insight, regenerating", applog.FieldError, err)
	} else if ok {
		w.logger.DebugContext(ctx, "Stored insight is current", applog.FieldFingerprint, fp)
		return nil
	}

	res := w.insights.Insights(ctx, records, projection.MonthlySummaries(records))
	if res.Fallback {
		return ErrGenerationFailed
	}
	if err := insights.SaveStored(ctx, w.store, res); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Insight stored",
		applog.FieldFingerprint, fp,
		"records", len(records))
	return nil
}
