package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"smartfinance/internal/core"
	"smartfinance/internal/storage"
	"smartfinance/internal/storage/memory"
)

func record(id string) core.Expense {
	return core.Expense{
		ID:               id,
		Description:      "item " + id,
		Amount:           decimal.NewFromInt(10),
		Date:             core.NewDate(2026, 1, 15),
		Mode:             core.Cash,
		InstallmentCount: 1,
		Category:         core.DefaultCategory,
	}
}

func TestOpenEmpty(t *testing.T) {
	l, err := Open(context.Background(), memory.New())
	require.NoError(t, err)

	records, version := l.Snapshot()
	assert.Empty(t, records)
	assert.NotNil(t, records)
	assert.Zero(t, version)
	assert.Equal(t, ThemeDark, l.Theme())
}

func TestAddPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	l, err := Open(ctx, store)
	require.NoError(t, err)

	_, err = l.Add(ctx, record("a"))
	require.NoError(t, err)
	v, err := l.Add(ctx, record("b"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	records, _ := l.Snapshot()
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)

	reopened, err := Open(ctx, store)
	require.NoError(t, err)
	persisted, _ := reopened.Snapshot()
	require.Len(t, persisted, 2)
	assert.Equal(t, "b", persisted[0].ID)
	assert.True(t, persisted[1].Amount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "2026-01-15", persisted[1].Date.String())

	_, err = l.Add(ctx, record("a"))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, memory.New())
	require.NoError(t, err)
	for _, id := range []string{"a", "b", "c"} {
		_, err := l.Add(ctx, record(id))
		require.NoError(t, err)
	}

	_, err = l.Delete(ctx, "b")
	require.NoError(t, err)
	records, version := l.Snapshot()
	assert.Equal(t, uint64(4), version)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "a", records[1].ID)

	_, err = l.Delete(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, memory.New())
	require.NoError(t, err)
	_, err = l.Add(ctx, record("a"))
	require.NoError(t, err)

	records, _ := l.Snapshot()
	records[0].Description = "changed"

	again, _ := l.Snapshot()
	assert.Equal(t, "item a", again[0].Description)
}

func TestAddRollsBackOnPersistFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := storage.NewMockKeyValueStore(ctrl)
	ctx := context.Background()

	store.EXPECT().Get(gomock.Any(), storage.KeyRecords).Return(nil, storage.ErrNotFound)
	store.EXPECT().Get(gomock.Any(), storage.KeyTheme).Return([]byte("light"), nil)
	store.EXPECT().Put(gomock.Any(), storage.KeyRecords, gomock.Any()).Return(errors.New("disk full"))

	l, err := Open(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, l.Theme())

	_, err = l.Add(ctx, record("a"))
	require.Error(t, err)

	records, version := l.Snapshot()
	assert.Empty(t, records)
	assert.Zero(t, version)
}

func TestOpenCorruptBlob(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Put(ctx, storage.KeyRecords, []byte("{not json")))

	_, err := Open(ctx, store)
	assert.Error(t, err)
}

func TestSetTheme(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	l, err := Open(ctx, store)
	require.NoError(t, err)

	require.NoError(t, l.SetTheme(ctx, ThemeLight))
	raw, err := store.Get(ctx, storage.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "light", string(raw))

	assert.ErrorIs(t, l.SetTheme(ctx, "sepia"), ErrInvalidTheme)
	assert.Equal(t, ThemeLight, l.Theme())
}

func TestFingerprint(t *testing.T) {
	a := []core.Expense{record("a"), record("b")}
	b := []core.Expense{record("a"), record("b")}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(a[:1]))
}
