package cache

import (
	"fmt"
	"sync"
)

// Memo caches derived values per record-set version. Entries computed for
// an older version are never served; the first lookup at a new version
// purges the backing cache.
type Memo struct {
	mu      sync.Mutex
	version uint64
	cache   Cache[any]
}

func NewMemo(c Cache[any]) *Memo {
	return &Memo{cache: c}
}

// Get returns the value cached under (version, key), computing it with fn
// on a miss. Errors are not cached.
func Get[T any](m *Memo, version uint64, key string, fn func() (T, error)) (T, error) {
	m.mu.Lock()
	if version != m.version {
		m.cache.Purge()
		m.version = version
	}
	m.mu.Unlock()

	full := fmt.Sprintf("v%d/%s", version, key)
	if v, ok := m.cache.Get(full); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	m.cache.Set(full, v)
	return v, nil
}
