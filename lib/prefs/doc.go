// Package prefs is the typed preference facade of kvprefs. It keeps an in-process cache
// of every storage and mirrors writes to a store.IBackend.
//
// Key Components:
//
//   - Registry: holds the backend selection (dependency injected through NewRegistry and
//     SetBackend, both checked with store.Verify) and one Preferences instance per
//     storage name. Each storage moves through Uninitialized -> Loading -> Ready. A load
//     is a single GetAll on the backend and is shared by every concurrent caller through
//     a singleflight group; Ready instances live in an xsync.MapOf for the life of the
//     registry. A failed load leaves the storage Uninitialized so that the next call
//     retries.
//
//   - Preferences: the cache of one storage with typed accessors (bool, int64, float64,
//     string, []string). Writes update the cache synchronously and return a
//     util.Future[bool] for the backend's answer. Failures are never rolled back.
//     Reload replaces the cache by the backend's current content.
//
//   - Mock override: Registry.SetMockInitialValues installs a seeded in-memory backend and
//     forgets the instance of one storage, so tests can start from known values.
//
// Consistency:
//
//	The cache is not guaranteed to equal the persisted state. A write is visible to reads
//	as soon as the setter returns, even if the backend later rejects it. Writes to the
//	backend may complete in any order; only the cache reflects issue order. Cache reads
//	and the cache part of a write are atomic with respect to each other.
//
// Metrics:
//
//	Every registry counts loads, load errors, writes, write errors, reloads and mock
//	overrides per storage in a VictoriaMetrics set (see WithMetricsSet and
//	WritePrometheus).
//
// Usage Example:
//
//	registry, err := prefs.NewRegistry(backend)
//	p, err := registry.GetInstance(ctx, "")
//	p.SetInt(ctx, "launches", 3)            // fire and forget
//	ok, err := p.SetBool(ctx, "onboarded", true).Wait(ctx)
//	launches, found := p.GetInt("launches")
package prefs
