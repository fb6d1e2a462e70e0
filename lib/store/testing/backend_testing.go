package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// RunBackendTests runs the contract test suite for an IBackend implementation.
// Every subtest gets a fresh backend from the factory.
func RunBackendTests(t *testing.T, name string, factory store.BackendFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Verified", func(t *testing.T) {
			testVerified(t, factory())
		})

		t.Run("SetValue&GetAll", func(t *testing.T) {
			testSetGetAll(t, factory())
		})

		t.Run("TypedRoundTrip", func(t *testing.T) {
			testTypedRoundTrip(t, factory())
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("UnknownStorage", func(t *testing.T) {
			testUnknownStorage(t, factory())
		})

		t.Run("StoragePartitioning", func(t *testing.T) {
			testStoragePartitioning(t, factory())
		})

		t.Run("CallerOwnsResult", func(t *testing.T) {
			testCallerOwnsResult(t, factory())
		})

		t.Run("TypeMismatch", func(t *testing.T) {
			testTypeMismatch(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("ConcurrentWrites", func(t *testing.T) {
			testConcurrentWrites(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func mustSet(t testing.TB, backend store.IBackend, storageName string, valueType store.ValueType, key string, value any) {
	t.Helper()
	ok, err := backend.SetValue(context.Background(), storageName, valueType, key, value)
	if err != nil {
		t.Fatalf("SetValue(%q, %q) failed: %v", storageName, key, err)
	}
	if !ok {
		t.Fatalf("SetValue(%q, %q) was not applied", storageName, key)
	}
}

func mustGetAll(t testing.TB, backend store.IBackend, storageName string) map[string]any {
	t.Helper()
	values, err := backend.GetAll(context.Background(), storageName)
	if err != nil {
		t.Fatalf("GetAll(%q) failed: %v", storageName, err)
	}
	return values
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testVerified(t *testing.T, backend store.IBackend) {
	if err := store.Verify(backend); err != nil {
		t.Errorf("Backend should pass verification: %v", err)
	}
	if store.IsMock(backend) {
		t.Errorf("A production backend must not be flagged as mock")
	}
}

func testSetGetAll(t *testing.T, backend store.IBackend) {
	mustSet(t, backend, "", store.TypeInt, "x", int64(5))
	mustSet(t, backend, "", store.TypeString, "y", "hi")

	values := mustGetAll(t, backend, "")
	expected := map[string]any{"x": int64(5), "y": "hi"}
	if diff := cmp.Diff(expected, values); diff != "" {
		t.Errorf("GetAll mismatch (-want +got):\n%s", diff)
	}
}

func testTypedRoundTrip(t *testing.T, backend store.IBackend) {
	expected := map[string]any{
		"bool":         true,
		"int":          int64(-9007199254740993),
		"double":       float64(2),
		"double-frac":  3.25,
		"string":       "text",
		"list":         []string{"a", "b", "c"},
		"empty-string": "",
	}
	types := map[string]store.ValueType{
		"bool":         store.TypeBool,
		"int":          store.TypeInt,
		"double":       store.TypeDouble,
		"double-frac":  store.TypeDouble,
		"string":       store.TypeString,
		"list":         store.TypeStringList,
		"empty-string": store.TypeString,
	}

	for key, value := range expected {
		mustSet(t, backend, "typed", types[key], key, value)
	}

	values := mustGetAll(t, backend, "typed")
	if diff := cmp.Diff(expected, values); diff != "" {
		t.Errorf("Typed values changed on round trip (-want +got):\n%s", diff)
	}
}

func testOverwrite(t *testing.T, backend store.IBackend) {
	mustSet(t, backend, "", store.TypeString, "k", "first")
	mustSet(t, backend, "", store.TypeString, "k", "second")
	mustSet(t, backend, "", store.TypeInt, "other", int64(1))
	// the type of a key may change
	mustSet(t, backend, "", store.TypeBool, "other", false)

	values := mustGetAll(t, backend, "")
	if diff := cmp.Diff(map[string]any{"k": "second", "other": false}, values); diff != "" {
		t.Errorf("Overwrite mismatch (-want +got):\n%s", diff)
	}
}

func testRemove(t *testing.T, backend store.IBackend) {
	ctx := context.Background()
	mustSet(t, backend, "", store.TypeBool, "a", true)
	mustSet(t, backend, "", store.TypeBool, "b", true)

	ok, err := backend.Remove(ctx, "", "a")
	if err != nil || !ok {
		t.Fatalf("Remove failed: ok=%t err=%v", ok, err)
	}

	values := mustGetAll(t, backend, "")
	if _, exists := values["a"]; exists {
		t.Errorf("Expected key a to be removed")
	}
	if _, exists := values["b"]; !exists {
		t.Errorf("Expected key b to survive")
	}

	// removing an absent key is not an error
	ok, err = backend.Remove(ctx, "", "never-set")
	if err != nil || !ok {
		t.Errorf("Remove of an absent key should succeed: ok=%t err=%v", ok, err)
	}
	ok, err = backend.Remove(ctx, "never-used-storage", "k")
	if err != nil || !ok {
		t.Errorf("Remove on an unknown storage should succeed: ok=%t err=%v", ok, err)
	}
}

func testClear(t *testing.T, backend store.IBackend) {
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		mustSet(t, backend, "c", store.TypeInt, fmt.Sprintf("k%d", i), int64(i))
	}

	ok, err := backend.Clear(ctx, "c")
	if err != nil || !ok {
		t.Fatalf("Clear failed: ok=%t err=%v", ok, err)
	}
	if values := mustGetAll(t, backend, "c"); len(values) != 0 {
		t.Errorf("Expected no values after Clear, got %v", values)
	}

	// the storage stays usable
	mustSet(t, backend, "c", store.TypeString, "again", "v")
	if values := mustGetAll(t, backend, "c"); len(values) != 1 {
		t.Errorf("Expected 1 value after Clear and Set, got %v", values)
	}

	ok, err = backend.Clear(ctx, "never-used-storage")
	if err != nil || !ok {
		t.Errorf("Clear on an unknown storage should succeed: ok=%t err=%v", ok, err)
	}
}

func testUnknownStorage(t *testing.T, backend store.IBackend) {
	values := mustGetAll(t, backend, "does-not-exist")
	if len(values) != 0 {
		t.Errorf("Expected an empty map for an unknown storage, got %v", values)
	}
}

func testStoragePartitioning(t *testing.T, backend store.IBackend) {
	mustSet(t, backend, "", store.TypeString, "k", "default")
	mustSet(t, backend, "a", store.TypeString, "k", "a")
	mustSet(t, backend, "b", store.TypeString, "k", "b")

	for storageName, expected := range map[string]string{"": "default", "a": "a", "b": "b"} {
		values := mustGetAll(t, backend, storageName)
		if diff := cmp.Diff(map[string]any{"k": expected}, values); diff != "" {
			t.Errorf("Storage %q mismatch (-want +got):\n%s", storageName, diff)
		}
	}

	if _, err := backend.Clear(context.Background(), "a"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if values := mustGetAll(t, backend, "b"); len(values) != 1 {
		t.Errorf("Clearing storage a must not affect storage b, got %v", values)
	}
}

func testCallerOwnsResult(t *testing.T, backend store.IBackend) {
	input := []string{"a", "b"}
	mustSet(t, backend, "", store.TypeStringList, "list", input)
	input[0] = "mutated-input"

	first := mustGetAll(t, backend, "")
	list, ok := first["list"].([]string)
	if !ok {
		t.Fatalf("Expected []string, got %T", first["list"])
	}
	list[1] = "mutated-result"
	first["injected"] = "value"

	second := mustGetAll(t, backend, "")
	if diff := cmp.Diff(map[string]any{"list": []string{"a", "b"}}, second); diff != "" {
		t.Errorf("Backend state changed through caller owned data (-want +got):\n%s", diff)
	}
}

func testTypeMismatch(t *testing.T, backend store.IBackend) {
	ok, err := backend.SetValue(context.Background(), "", store.TypeInt, "k", "not-an-int")
	if err == nil && ok {
		t.Errorf("SetValue with a mismatched value should be rejected")
	}
	if values := mustGetAll(t, backend, ""); len(values) != 0 {
		t.Errorf("A rejected write must not be persisted, got %v", values)
	}
}

func testEdgeCases(t *testing.T, backend store.IBackend) {
	cases := []struct {
		name      string
		storage   string
		key       string
		valueType store.ValueType
		value     any
	}{
		{"EmptyKey", "", "", store.TypeString, "empty key"},
		{"EmptyList", "", "empty-list", store.TypeStringList, []string{}},
		{"UnicodeKey", "", "schlüssel-🔑", store.TypeString, "wert ✓"},
		{"UnicodeStorage", "名前/with slash", "k", store.TypeBool, true},
		{"LargeString", "", "large", store.TypeString, string(make([]byte, 1<<16))},
		{"Zero", "", "zero", store.TypeDouble, float64(0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mustSet(t, backend, tc.storage, tc.valueType, tc.key, tc.value)
			values := mustGetAll(t, backend, tc.storage)
			got, exists := values[tc.key]
			if !exists {
				t.Fatalf("Expected key %q to exist", tc.key)
			}
			if diff := cmp.Diff(tc.value, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func testConcurrentWrites(t *testing.T, backend store.IBackend) {
	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("w%d-k%d", w, i)
				if _, err := backend.SetValue(context.Background(), "concurrent", store.TypeInt, key, int64(i)); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent SetValue failed: %v", err)
	}
	if values := mustGetAll(t, backend, "concurrent"); len(values) != workers*perWorker {
		t.Errorf("Expected %d values, got %d", workers*perWorker, len(values))
	}
}
