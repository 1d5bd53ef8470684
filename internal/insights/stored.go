package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"smartfinance/internal/storage"
)

// LoadStored returns the persisted insight if it was generated for the
// record set identified by fingerprint.
func LoadStored(ctx context.Context, kv storage.KeyValueReader, fingerprint string) (Result, bool, error) {
	raw, err := kv.Get(ctx, storage.KeyInsights)
	if errors.Is(err, storage.ErrNotFound) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, fmt.Errorf("load insights: %w", err)
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, false, fmt.Errorf("decode insights: %w", err)
	}
	if res.Fingerprint != fingerprint {
		return Result{}, false, nil
	}
	return res, true, nil
}

// SaveStored persists res. Fallback results are not worth keeping.
func SaveStored(ctx context.Context, kv storage.KeyValueWriter, res Result) error {
	if res.Fallback {
		return nil
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}
	if err := kv.Put(ctx, storage.KeyInsights, raw); err != nil {
		return fmt.Errorf("save insights: %w", err)
	}
	return nil
}
