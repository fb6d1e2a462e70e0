// Package testing provides standardised tests and benchmarks for
// backend implementations that satisfy the store.IBackend interface.
//
// The package contains:
//   - testing: A test suite validating conformance to the IBackend contract (typed
//     round trips, storage partitioning, idempotent removal, caller owned results)
//   - benchmark: Performance tests for the write and load paths of a backend
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() store.IBackend {
//		return NewMyBackend()
//	}
//
//	// Running the standard test suite
//	testing.RunBackendTests(t, "MyBackend", factory)
//
//	// Running performance benchmarks
//	testing.RunBackendBenchmarks(b, "MyBackend", factory)
package testing
