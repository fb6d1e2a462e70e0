package prefs

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/lib/store/mstore"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/singleflight"
)

var log = logger.GetLogger("prefs")

// Option configures a Registry.
type Option func(*Registry)

// WithMetricsSet registers the registry's counters in the given set instead of a private one.
func WithMetricsSet(set *metrics.Set) Option {
	return func(r *Registry) {
		r.metrics = set
	}
}

// Registry owns the backend selection and one Preferences instance per storage name.
// Instances are loaded at most once: concurrent GetInstance calls for the same storage
// share a single GetAll on the backend, and a loaded instance is returned from then on.
// A failed load is not remembered, the next call tries again.
type Registry struct {
	// mu guards backend and generation. It is never held during a backend call.
	mu         sync.RWMutex
	backend    store.IBackend
	generation uint64

	loads     singleflight.Group
	instances *xsync.MapOf[string, *Preferences]
	metrics   *metrics.Set
}

// NewRegistry creates a registry using the given backend.
// The backend must pass store.Verify.
func NewRegistry(backend store.IBackend, opts ...Option) (*Registry, error) {
	if err := store.Verify(backend); err != nil {
		return nil, err
	}
	r := &Registry{
		backend:   backend,
		instances: xsync.NewMapOf[string, *Preferences](),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metrics.NewSet()
	}
	return r, nil
}

// Backend returns the currently installed backend.
func (r *Registry) Backend() store.IBackend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.backend
}

// SetBackend installs another backend. Already loaded instances keep their caches and
// forward future writes to the new backend.
func (r *Registry) SetBackend(backend store.IBackend) error {
	if err := store.Verify(backend); err != nil {
		return err
	}
	r.mu.Lock()
	r.backend = backend
	r.mu.Unlock()
	return nil
}

// GetInstance returns the Preferences of a storage, loading them on first use.
// The empty storage name selects the default storage.
//
// If a load for the storage is already in flight the call joins it instead of issuing
// a second GetAll. Cancelling ctx stops waiting but not the load itself, which keeps
// serving the other callers. The core imposes no timeout on a hung backend.
func (r *Registry) GetInstance(ctx context.Context, storageName string) (*Preferences, error) {
	if p, ok := r.instances.Load(storageName); ok {
		return p, nil
	}

	ch := r.loads.DoChan(storageName, func() (any, error) {
		// a load that finished between the lookup above and DoChan already published its instance
		if p, ok := r.instances.Load(storageName); ok {
			return p, nil
		}
		return r.load(context.WithoutCancel(ctx), storageName)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Preferences), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SetMockInitialValues replaces the backend by a fresh in-memory backend seeded with
// values for storageName, and forgets the instance of that storage so that the next
// GetInstance loads it from the new backend. It is meant for tests.
func (r *Registry) SetMockInitialValues(values map[string]any, storageName string) error {
	backend, err := mstore.NewMemoryBackendWithData(map[string]map[string]any{storageName: values})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.backend = backend
	r.generation++
	r.instances.Delete(storageName)
	r.loads.Forget(storageName)
	r.mu.Unlock()

	r.counter("kvprefs_mock_overrides_total", storageName).Inc()
	log.Infof("installed mock backend with %d values for storage %q", len(values), storageName)
	return nil
}

// WritePrometheus writes the registry's counters in Prometheus text format.
func (r *Registry) WritePrometheus(w io.Writer) {
	r.metrics.WritePrometheus(w)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// load reads all values of a storage from the current backend and publishes the instance.
// The instance is only published if no mock override happened while the backend was read.
func (r *Registry) load(ctx context.Context, storageName string) (*Preferences, error) {
	r.mu.RLock()
	backend, generation := r.backend, r.generation
	r.mu.RUnlock()

	log.Debugf("loading storage %q", storageName)
	r.counter("kvprefs_loads_total", storageName).Inc()

	values, err := backend.GetAll(ctx, storageName)
	if err != nil {
		r.counter("kvprefs_load_errors_total", storageName).Inc()
		log.Warningf("failed to load storage %q: %v", storageName, err)
		return nil, err
	}

	p := newPreferences(r, storageName, values)

	r.mu.RLock()
	if generation == r.generation {
		r.instances.Store(storageName, p)
	}
	r.mu.RUnlock()

	log.Infof("loaded storage %q with %d keys", storageName, len(p.cache))
	return p, nil
}

// counter returns a counter labelled with the storage name.
func (r *Registry) counter(name, storageName string) *metrics.Counter {
	return r.metrics.GetOrCreateCounter(fmt.Sprintf("%s{storage=%q}", name, storageName))
}
