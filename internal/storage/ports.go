//go:generate mockgen -source=ports.go -destination=mock_store.go -package=storage

package storage

import (
	"context"
	"errors"
	"io"
)

// Stable keys of the persisted blobs.
const (
	KeyRecords  = "smart_finance_txs"
	KeyTheme    = "smart_finance_theme"
	KeyInsights = "smart_finance_insights"
)

var ErrNotFound = errors.New("key not found")

// Ports for persistence adapters. Values are opaque blobs.
type (
	KeyValueReader interface {
		// Get returns ErrNotFound when key has never been written.
		Get(ctx context.Context, key string) ([]byte, error)
	}

	KeyValueWriter interface {
		Put(ctx context.Context, key string, value []byte) error
		Delete(ctx context.Context, key string) error
	}

	KeyValueStore interface {
		KeyValueReader
		KeyValueWriter
		io.Closer
	}
)
