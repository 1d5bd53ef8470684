package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"smartfinance/internal/amqp"
	"smartfinance/internal/core"
	"smartfinance/internal/ledger"
	applog "smartfinance/internal/log"
	"smartfinance/internal/projection"
	"smartfinance/internal/storage/memory"
)

var fixedNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(context.Background(), memory.New())
	require.NoError(t, err)
	return l
}

func newRecordService(t *testing.T, pub EventPublisher) *RecordService {
	t.Helper()
	s := NewRecordService(newLedger(t), pub, applog.Discard())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestRecordServiceCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockEventPublisher(ctrl)
	notifier := NewMockChangeNotifier(ctrl)

	s := newRecordService(t, pub)
	s.SetNotifier(notifier)

	notifier.EXPECT().NotifyChange(uint64(1))
	pub.EXPECT().PublishRecordEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt *amqp.RecordEvent) error {
			assert.Equal(t, amqp.EventRecordAdded, evt.Type)
			assert.Equal(t, uint64(1), evt.Version)
			return nil
		})

	e, err := s.Create(context.Background(), core.ExpenseInput{
		Description:      "Geladeira",
		Amount:           "3000,00",
		Mode:             core.Installment,
		InstallmentCount: 10,
		Category:         "Casa",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "2026-02-10", e.Date.String())
	assert.True(t, e.Amount.Equal(decimal.NewFromInt(3000)))
}

func TestRecordServiceCreateValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockEventPublisher(ctrl)
	s := newRecordService(t, pub)

	_, err := s.Create(context.Background(), core.ExpenseInput{Description: "", Amount: "10"})
	require.Error(t, err)
	assert.True(t, core.IsValidationError(err))

	_, err = s.Create(context.Background(), core.ExpenseInput{Description: "x", Amount: "10", Mode: core.Installment, InstallmentCount: 1})
	assert.ErrorIs(t, err, core.ErrInvalidInstallments)

	records, version := s.ledger.Snapshot()
	assert.Empty(t, records)
	assert.Zero(t, version)
}

func TestRecordServicePublishFailureKeepsRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := NewMockEventPublisher(ctrl)
	s := newRecordService(t, pub)

	pub.EXPECT().PublishRecordEvent(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	_, err := s.Create(context.Background(), core.ExpenseInput{Description: "Café", Amount: "8.5"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s.ledger.Version())
}

func TestRecordServiceDelete(t *testing.T) {
	s := newRecordService(t, nil)
	ctx := context.Background()

	e, err := s.Create(ctx, core.ExpenseInput{Description: "Luz", Amount: "120", Category: "Gastos Fixos"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, e.ID))
	assert.Empty(t, s.List(projection.Filter{}))

	err = s.Delete(ctx, e.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestRecordServiceListAttachesProgress(t *testing.T) {
	s := newRecordService(t, nil)
	ctx := context.Background()

	_, err := s.Create(ctx, core.ExpenseInput{Description: "TV", Amount: "300", Date: "2026-01-15", Mode: core.Installment, InstallmentCount: 3, Category: "Casa"})
	require.NoError(t, err)
	_, err = s.Create(ctx, core.ExpenseInput{Description: "Pão", Amount: "12", Date: "2026-02-01"})
	require.NoError(t, err)

	all := s.List(projection.Filter{})
	require.Len(t, all, 2)
	assert.Equal(t, "Pão", all[0].Description)
	assert.Nil(t, all[0].Progress)
	require.NotNil(t, all[1].Progress)
	assert.Equal(t, 2, all[1].Progress.Current)
	assert.Equal(t, 1, all[1].Progress.Remaining)

	casa := s.List(projection.Filter{Category: "Casa"})
	require.Len(t, casa, 1)
	assert.Equal(t, "TV", casa[0].Description)
}

func TestRecordServiceTheme(t *testing.T) {
	s := newRecordService(t, nil)

	assert.Equal(t, ledger.ThemeDark, s.Theme())
	require.NoError(t, s.SetTheme(context.Background(), ledger.ThemeLight))
	assert.Equal(t, ledger.ThemeLight, s.Theme())
	assert.ErrorIs(t, s.SetTheme(context.Background(), "blue"), ledger.ErrInvalidTheme)
}
