package services

import (
	"context"
	"fmt"
	"time"

	"smartfinance/internal/amqp"
	"smartfinance/internal/core"
	"smartfinance/internal/ledger"
	applog "smartfinance/internal/log"
	"smartfinance/internal/projection"
)

//go:generate mockgen -source=record_service.go -destination=mock_ports.go -package=services

// EventPublisher announces record changes to other processes.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, evt *amqp.RecordEvent) error
}

// ChangeNotifier tells connected clients that the record set moved on.
type ChangeNotifier interface {
	NotifyChange(version uint64)
}

// RecordView is a record as the list view shows it.
type RecordView struct {
	core.Expense
	Progress *projection.InstallmentProgress `json:"progress,omitempty"`
}

// RecordService orchestrates record mutations across the ledger, the event
// bus and live clients.
type RecordService struct {
	ledger    *ledger.Ledger
	publisher EventPublisher
	notifier  ChangeNotifier
	logger    *applog.Logger
	now       func() time.Time
}

// NewRecordService accepts a nil publisher when no broker is configured.
func NewRecordService(l *ledger.Ledger, publisher EventPublisher, logger *applog.Logger) *RecordService {
	return &RecordService{
		ledger:    l,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentRecords),
		now:       time.Now,
	}
}

func (s *RecordService) SetNotifier(n ChangeNotifier) {
	s.notifier = n
}

// Create validates in, stores the record and announces it.
func (s *RecordService) Create(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	e, err := core.NewExpense(in, s.now())
	if err != nil {
		return core.Expense{}, err
	}

	version, err := s.ledger.Add(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("add record: %w", err)
	}

	s.logger.InfoContext(ctx, "Record created", applog.NewFields().
		WithOperation(applog.OpCreate).
		WithRecord(e.ID, e.Description, e.Amount, e.Category, string(e.Mode), e.InstallmentCount).
		WithVersion(version).ToSlice()...)

	s.changed(ctx, amqp.EventRecordAdded, e.ID, version)
	return e, nil
}

// Delete removes the record with id. Unknown ids yield ledger.ErrNotFound.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	version, err := s.ledger.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Record deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldRecordID, id,
		applog.FieldVersion, version)

	s.changed(ctx, amqp.EventRecordDeleted, id, version)
	return nil
}

// List returns the records matching f in store order, with installment
// progress attached.
func (s *RecordService) List(f projection.Filter) []RecordView {
	records, _ := s.ledger.Snapshot()
	filtered := projection.FilterRecords(records, f)
	now := s.now()

	out := make([]RecordView, 0, len(filtered))
	for _, r := range filtered {
		v := RecordView{Expense: r}
		if p, ok := projection.Progress(r, now); ok {
			v.Progress = &p
		}
		out = append(out, v)
	}
	return out
}

func (s *RecordService) Theme() ledger.Theme {
	return s.ledger.Theme()
}

func (s *RecordService) SetTheme(ctx context.Context, t ledger.Theme) error {
	return s.ledger.SetTheme(ctx, t)
}

// changed fans a committed mutation out. Failures here never undo the
// mutation.
func (s *RecordService) changed(ctx context.Context, kind amqp.EventType, id string, version uint64) {
	if s.notifier != nil {
		s.notifier.NotifyChange(version)
	}

	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not available, skipping record event")
		return
	}
	if err := s.publisher.PublishRecordEvent(ctx, amqp.NewRecordEvent(kind, id, version)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish record event", applog.NewFields().
			WithOperation(applog.OpPublish).
			WithError(err).
			WithErrorType(applog.ErrorTypeNetwork).ToSlice()...)
	}
}
