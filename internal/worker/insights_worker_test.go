package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"smartfinance/internal/amqp"
	"smartfinance/internal/core"
	"smartfinance/internal/insights"
	"smartfinance/internal/ledger"
	applog "smartfinance/internal/log"
	"smartfinance/internal/storage"
	"smartfinance/internal/storage/memory"
)

type countingGenerator struct {
	text  string
	err   error
	calls int
}

func (g *countingGenerator) Generate(context.Context, []core.Expense, []core.MonthlySummary) (string, error) {
	g.calls++
	return g.text, g.err
}

func seed(t *testing.T, store storage.KeyValueWriter) []core.Expense {
	t.Helper()
	records := []core.Expense{{
		ID:               "1",
		Description:      "Aluguel",
		Amount:           decimal.NewFromInt(1500),
		Date:             core.NewDate(2026, 1, 5),
		Mode:             core.Cash,
		InstallmentCount: 1,
		Category:         "Gastos Fixos",
	}}
	raw, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), storage.KeyRecords, raw))
	return records
}

func newWorker(store storage.KeyValueStore, gen insights.Generator) *InsightsWorker {
	svc := insights.NewService(gen, time.Second, applog.Discard())
	return NewInsightsWorker(store, svc, applog.Discard())
}

func TestHandleRecordEventStoresInsight(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	records := seed(t, store)
	gen := &countingGenerator{text: "Reduza gastos fixos."}
	w := newWorker(store, gen)

	err := w.HandleRecordEvent(ctx, amqp.NewRecordEvent(amqp.EventRecordAdded, "1", 1))
	require.NoError(t, err)

	got, ok, err := insights.LoadStored(ctx, store, ledger.Fingerprint(records))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Reduza gastos fixos.", got.Text)

	// a second event for the same record set reuses the stored insight
	require.NoError(t, w.HandleRecordEvent(ctx, amqp.NewRecordEvent(amqp.EventRecordAdded, "1", 1)))
	assert.Equal(t, 1, gen.calls)
}

func TestHandleRecordEventGenerationFailure(t *testing.T) {
	store := memory.New()
	seed(t, store)
	w := newWorker(store, &countingGenerator{err: errors.New("quota")})

	err := w.HandleRecordEvent(context.Background(), amqp.NewRecordEvent(amqp.EventRecordDeleted, "1", 2))
	assert.ErrorIs(t, err, ErrGenerationFailed)
	_, getErr := store.Get(context.Background(), storage.KeyInsights)
	assert.ErrorIs(t, getErr, storage.ErrNotFound)
}

func TestRefreshStorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := storage.NewMockKeyValueStore(ctrl)
	store.EXPECT().Get(gomock.Any(), storage.KeyRecords).Return(nil, errors.New("disk"))

	w := newWorker(store, &countingGenerator{text: "x"})
	err := w.Refresh(context.Background())
	assert.ErrorContains(t, err, "load records")
}
