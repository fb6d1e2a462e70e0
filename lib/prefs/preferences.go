package prefs

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/lib/util"
)

// Preferences is the cached view of one storage.
//
// Reads are served from the cache. Writes update the cache before they return and are
// forwarded to the backend in the background; the returned future reports the backend's
// answer. A failed write is not rolled back, so the cache is an optimistic projection of
// the backend rather than a transactional mirror. Reload re-synchronizes it.
//
// The typed getters assume the caller knows the type stored under a key. Reading a value
// through the getter of another type is a programming error and panics with a *store.Error
// (code store.RetCTypeMismatch).
type Preferences struct {
	registry    *Registry
	storageName string

	// mu makes every cache access atomic. It is never held during a backend call.
	mu    sync.RWMutex
	cache map[string]any
}

func newPreferences(r *Registry, storageName string, values map[string]any) *Preferences {
	if values == nil {
		values = make(map[string]any)
	}
	return &Preferences{
		registry:    r,
		storageName: storageName,
		cache:       values,
	}
}

// StorageName returns the name of the storage, empty for the default storage.
func (p *Preferences) StorageName() string {
	return p.storageName
}

// --------------------------------------------------------------------------
// Reads
// --------------------------------------------------------------------------

// Get returns the raw cached value of key. Lists are returned as copies.
func (p *Preferences) Get(key string) (value any, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.cache[key]
	if !ok {
		return nil, false
	}
	switch x := v.(type) {
	case []string:
		return append(make([]string, 0, len(x)), x...), true
	case []any:
		return append(make([]any, 0, len(x)), x...), true
	default:
		return v, true
	}
}

// GetBool returns the bool stored under key.
func (p *Preferences) GetBool(key string) (value bool, ok bool) {
	return getTyped[bool](p, key, store.TypeBool)
}

// GetInt returns the integer stored under key.
func (p *Preferences) GetInt(key string) (value int64, ok bool) {
	return getTyped[int64](p, key, store.TypeInt)
}

// GetDouble returns the double stored under key.
func (p *Preferences) GetDouble(key string) (value float64, ok bool) {
	return getTyped[float64](p, key, store.TypeDouble)
}

// GetString returns the string stored under key.
func (p *Preferences) GetString(key string) (value string, ok bool) {
	return getTyped[string](p, key, store.TypeString)
}

// GetStringList returns a copy of the string list stored under key.
// A generic list coming from the backend is converted to []string on first access and
// the cache entry is replaced by the converted list.
func (p *Preferences) GetStringList(key string) (value []string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	v, ok := p.cache[key]
	if !ok {
		return nil, false
	}

	list, isList := v.([]string)
	if !isList {
		if _, generic := v.([]any); !generic {
			panic(typeMismatch(key, v, store.TypeStringList))
		}
		converted, err := store.StringList(v)
		if err != nil {
			panic(store.NewError(store.RetCTypeMismatch, fmt.Sprintf("key %q: %v", key, err)))
		}
		p.cache[key] = converted
		list = converted
	}
	return append(make([]string, 0, len(list)), list...), true
}

// GetKeys returns a sorted snapshot of all cached keys.
func (p *Preferences) GetKeys() []string {
	p.mu.RLock()
	keys := make([]string, 0, len(p.cache))
	for k := range p.cache {
		keys = append(keys, k)
	}
	p.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// ContainsKey reports whether key is cached.
func (p *Preferences) ContainsKey(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.cache[key]
	return ok
}

// --------------------------------------------------------------------------
// Writes
// --------------------------------------------------------------------------

// SetBool stores a bool under key.
func (p *Preferences) SetBool(ctx context.Context, key string, value bool) *util.Future[bool] {
	return p.setValue(ctx, store.TypeBool, key, value)
}

// SetInt stores an integer under key.
func (p *Preferences) SetInt(ctx context.Context, key string, value int64) *util.Future[bool] {
	return p.setValue(ctx, store.TypeInt, key, value)
}

// SetDouble stores a double under key.
func (p *Preferences) SetDouble(ctx context.Context, key string, value float64) *util.Future[bool] {
	return p.setValue(ctx, store.TypeDouble, key, value)
}

// SetString stores a string under key.
func (p *Preferences) SetString(ctx context.Context, key string, value string) *util.Future[bool] {
	return p.setValue(ctx, store.TypeString, key, value)
}

// SetStringList stores a copy of value under key. Later changes to value do not affect
// the stored list.
func (p *Preferences) SetStringList(ctx context.Context, key string, value []string) *util.Future[bool] {
	if value == nil {
		value = []string{}
	}
	return p.setValue(ctx, store.TypeStringList, key, value)
}

// Remove deletes key from the cache and then from the backend.
func (p *Preferences) Remove(ctx context.Context, key string) *util.Future[bool] {
	p.mu.Lock()
	delete(p.cache, key)
	p.mu.Unlock()

	backend := p.registry.Backend()
	return p.forward("remove", func() (bool, error) {
		return backend.Remove(ctx, p.storageName, key)
	})
}

// Clear empties the cache and then the storage in the backend.
func (p *Preferences) Clear(ctx context.Context) *util.Future[bool] {
	p.mu.Lock()
	clear(p.cache)
	p.mu.Unlock()

	backend := p.registry.Backend()
	return p.forward("clear", func() (bool, error) {
		return backend.Clear(ctx, p.storageName)
	})
}

// Reload replaces the whole cache by the values currently persisted in the backend.
// Cached values the backend does not know about are dropped. On error the cache is left
// unchanged.
func (p *Preferences) Reload(ctx context.Context) error {
	p.registry.counter("kvprefs_reloads_total", p.storageName).Inc()

	values, err := p.registry.Backend().GetAll(ctx, p.storageName)
	if err != nil {
		log.Warningf("failed to reload storage %q: %v", p.storageName, err)
		return err
	}
	if values == nil {
		values = make(map[string]any)
	}

	p.mu.Lock()
	p.cache = values
	p.mu.Unlock()

	log.Debugf("reloaded storage %q with %d keys", p.storageName, len(values))
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// setValue is the single write path of all typed setters.
func (p *Preferences) setValue(ctx context.Context, valueType store.ValueType, key string, value any) *util.Future[bool] {
	cached, forwarded := value, value
	if list, ok := value.([]string); ok {
		cached = append(make([]string, 0, len(list)), list...)
		forwarded = append(make([]string, 0, len(list)), list...)
	}

	p.mu.Lock()
	p.cache[key] = cached
	p.mu.Unlock()

	backend := p.registry.Backend()
	return p.forward("set "+valueType.String(), func() (bool, error) {
		return backend.SetValue(ctx, p.storageName, valueType, key, forwarded)
	})
}

// forward runs a backend call in the background and accounts for its outcome.
func (p *Preferences) forward(op string, call func() (bool, error)) *util.Future[bool] {
	p.registry.counter("kvprefs_writes_total", p.storageName).Inc()
	return util.Go(func() (bool, error) {
		ok, err := call()
		if err != nil || !ok {
			p.registry.counter("kvprefs_write_errors_total", p.storageName).Inc()
			log.Warningf("%s on storage %q not applied by backend (ok=%t): %v", op, p.storageName, ok, err)
		}
		return ok, err
	})
}

// getTyped reads key and asserts its type.
func getTyped[T any](p *Preferences, key string, valueType store.ValueType) (T, bool) {
	p.mu.RLock()
	v, ok := p.cache[key]
	p.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}
	typed, isT := v.(T)
	if !isT {
		panic(typeMismatch(key, v, valueType))
	}
	return typed, true
}

func typeMismatch(key string, v any, expected store.ValueType) *store.Error {
	return store.NewError(store.RetCTypeMismatch, fmt.Sprintf("key %q holds a %T, not a %s", key, v, expected))
}
