package mstore

import (
	"context"
	"sync"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

// bucket holds the values of one storage.
type bucket struct {
	mu     sync.Mutex
	values map[string]any
}

type backendImpl struct {
	store.Base
	buckets *xsync.MapOf[string, *bucket]
}

// NewMemoryBackend creates a new, empty in-memory backend.
// Nothing is persisted; every storage name gets its own map.
func NewMemoryBackend() store.IBackend {
	return &backendImpl{
		buckets: xsync.NewMapOf[string, *bucket](),
	}
}

// NewMemoryBackendWithData creates an in-memory backend seeded with data, simulating
// values that were persisted before the process started. data maps a storage name
// (empty for the default storage) to its key-value pairs. Values are normalized with
// store.Normalize; unsupported types are rejected.
func NewMemoryBackendWithData(data map[string]map[string]any) (store.IBackend, error) {
	b := &backendImpl{
		buckets: xsync.NewMapOf[string, *bucket](),
	}
	for storageName, values := range data {
		bkt := b.bucket(storageName)
		for key, value := range values {
			n, err := store.Normalize(value)
			if err != nil {
				return nil, err
			}
			bkt.values[key] = n
		}
	}
	return b, nil
}

// bucket returns the bucket for a storage name, creating it if needed.
//
// Thread-safety: LoadOrCompute guarantees a single bucket per storage name.
func (b *backendImpl) bucket(storageName string) *bucket {
	bkt, _ := b.buckets.LoadOrCompute(storageName, func() *bucket {
		return &bucket{values: make(map[string]any)}
	})
	return bkt
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (b *backendImpl) Remove(_ context.Context, storageName, key string) (bool, error) {
	bkt, ok := b.buckets.Load(storageName)
	if !ok {
		return true, nil
	}
	bkt.mu.Lock()
	delete(bkt.values, key)
	bkt.mu.Unlock()
	return true, nil
}

func (b *backendImpl) SetValue(_ context.Context, storageName string, valueType store.ValueType, key string, value any) (bool, error) {
	if err := valueType.Check(value); err != nil {
		return false, err
	}
	if list, ok := value.([]string); ok {
		value = append(make([]string, 0, len(list)), list...)
	}
	bkt := b.bucket(storageName)
	bkt.mu.Lock()
	bkt.values[key] = value
	bkt.mu.Unlock()
	return true, nil
}

func (b *backendImpl) Clear(_ context.Context, storageName string) (bool, error) {
	bkt, ok := b.buckets.Load(storageName)
	if !ok {
		return true, nil
	}
	bkt.mu.Lock()
	clear(bkt.values)
	bkt.mu.Unlock()
	return true, nil
}

func (b *backendImpl) GetAll(_ context.Context, storageName string) (map[string]any, error) {
	bkt, ok := b.buckets.Load(storageName)
	if !ok {
		return map[string]any{}, nil
	}
	bkt.mu.Lock()
	defer bkt.mu.Unlock()
	values := make(map[string]any, len(bkt.values))
	for k, v := range bkt.values {
		values[k] = copyValue(v)
	}
	return values, nil
}

// copyValue copies list values so that callers cannot alias the stored slices.
func copyValue(v any) any {
	switch x := v.(type) {
	case []string:
		return append(make([]string, 0, len(x)), x...)
	case []any:
		return append(make([]any, 0, len(x)), x...)
	default:
		return v
	}
}
