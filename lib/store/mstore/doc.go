// Package mstore implements an in-memory backend based on the store.IBackend interface.
// It is the reference implementation of the backend contract: every storage name maps to
// its own key-value map and every operation completes before it returns.
// Data is not persisted between process restarts.
//
// Key Features:
//   - Pure in-memory storage without persistence
//   - Consistent partitioning by storage name for every operation
//   - Seeding of pre-existing values with NewMemoryBackendWithData
//   - Thread-safe operations for concurrent access
//
// Implementation Details:
//
//   - Buckets: storage names are mapped to buckets in an xsync.MapOf. A bucket is created
//     lazily by the first write and guarded by its own mutex, so operations on different
//     storages never contend.
//
//   - Copies: list values are copied when written and when returned by GetAll, so neither
//     the caller of SetValue nor the caller of GetAll can alias the stored slices.
//
//   - Normalization: seeded values go through store.Normalize. Generic sequences ([]any)
//     are kept as they are to mirror backends that return untyped lists; the prefs
//     facade normalizes them to []string on first access.
//
// Usage Example:
//
//	backend, err := mstore.NewMemoryBackendWithData(map[string]map[string]any{
//	    "": {"onboarded": true, "launches": 3},
//	})
//	registry, err := prefs.NewRegistry(backend)
//
// Suitable Use Cases:
//
//	- Unit tests of code using the prefs package
//	- The backend installed by prefs.Registry.SetMockInitialValues
//	- The host side of `kvprefs serve --backend memory`
package mstore
