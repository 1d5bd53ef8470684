// Package ledger owns the application state: the ordered expense records
// (newest first) and the display theme. Every mutation is applied under a
// lock and persisted before it becomes visible to readers.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"smartfinance/internal/core"
	"smartfinance/internal/storage"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidTheme = errors.New("theme must be dark or light")
	ErrDuplicateID  = errors.New("record id already exists")
)

func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

type Ledger struct {
	store storage.KeyValueStore

	mu      sync.RWMutex
	records []core.Expense
	theme   Theme
	version uint64
}

// Open loads persisted state. Missing keys start an empty ledger with the
// dark theme.
func Open(ctx context.Context, store storage.KeyValueStore) (*Ledger, error) {
	records, err := LoadRecords(ctx, store)
	if err != nil {
		return nil, err
	}

	theme := ThemeDark
	raw, err := store.Get(ctx, storage.KeyTheme)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load theme: %w", err)
	case Theme(raw) == ThemeLight:
		theme = ThemeLight
	}

	slog.InfoContext(ctx, "Ledger loaded", "records", len(records), "theme", theme)
	return &Ledger{store: store, records: records, theme: theme}, nil
}

// LoadRecords reads the persisted record blob without building a ledger.
func LoadRecords(ctx context.Context, store storage.KeyValueReader) ([]core.Expense, error) {
	raw, err := store.Get(ctx, storage.KeyRecords)
	if errors.Is(err, storage.ErrNotFound) {
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	var records []core.Expense
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []core.Expense{}
	}
	return records, nil
}

// Snapshot returns a copy of the records and the version it reflects.
func (l *Ledger) Snapshot() ([]core.Expense, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]core.Expense, len(l.records))
	copy(out, l.records)
	return out, l.version
}

func (l *Ledger) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Add prepends e and persists. On a persistence failure the ledger is left
// unchanged.
func (l *Ledger) Add(ctx context.Context, e core.Expense) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.records {
		if r.ID == e.ID {
			return l.version, ErrDuplicateID
		}
	}

	next := make([]core.Expense, 0, len(l.records)+1)
	next = append(next, e)
	next = append(next, l.records...)
	if err := l.persist(ctx, next); err != nil {
		return l.version, err
	}
	l.records = next
	l.version++
	return l.version, nil
}

// Delete removes the record with id and persists.
func (l *Ledger) Delete(ctx context.Context, id string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, r := range l.records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return l.version, ErrNotFound
	}

	next := make([]core.Expense, 0, len(l.records)-1)
	next = append(next, l.records[:idx]...)
	next = append(next, l.records[idx+1:]...)
	if err := l.persist(ctx, next); err != nil {
		return l.version, err
	}
	l.records = next
	l.version++
	return l.version, nil
}

func (l *Ledger) Theme() Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

func (l *Ledger) SetTheme(ctx context.Context, t Theme) error {
	if !t.Valid() {
		return ErrInvalidTheme
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Put(ctx, storage.KeyTheme, []byte(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	l.theme = t
	return nil
}

func (l *Ledger) persist(ctx context.Context, records []core.Expense) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := l.store.Put(ctx, storage.KeyRecords, raw); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}

// Fingerprint identifies a record set by content, stable across processes.
func Fingerprint(records []core.Expense) string {
	raw, _ := json.Marshal(records)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
