package testing

import (
	"context"
	"fmt"
	"testing"

	"github.com/ValentinKolb/kvprefs/lib/store"
)

// RunBackendBenchmarks runs the benchmarks for an IBackend implementation.
func RunBackendBenchmarks(b *testing.B, name string, factory store.BackendFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("SetValue", func(b *testing.B) {
			benchmarkSetValue(b, factory())
		})

		b.Run("SetValueParallel", func(b *testing.B) {
			benchmarkSetValueParallel(b, factory())
		})

		b.Run("GetAll(100)", func(b *testing.B) {
			benchmarkGetAll(b, factory(), 100)
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkSetValue(b *testing.B, backend store.IBackend) {
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.SetValue(ctx, "", store.TypeInt, fmt.Sprintf("key-%d", i%1000), int64(i))
	}
}

func benchmarkSetValueParallel(b *testing.B, backend store.IBackend) {
	ctx := context.Background()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			backend.SetValue(ctx, "", store.TypeString, fmt.Sprintf("key-%d", counter%1000), "value")
			counter++
		}
	})
}

func benchmarkGetAll(b *testing.B, backend store.IBackend, size int) {
	ctx := context.Background()
	for i := 0; i < size; i++ {
		backend.SetValue(ctx, "", store.TypeString, fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.GetAll(ctx, "")
	}
}

// Mix of 70% writes, 20% removes and 10% loads
func benchmarkMixedUsage(b *testing.B, backend store.IBackend) {
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key-%d", i%100)
		switch op := i % 10; {
		case op < 7:
			backend.SetValue(ctx, "", store.TypeStringList, key, []string{"a", "b"})
		case op < 9:
			backend.Remove(ctx, "", key)
		default:
			backend.GetAll(ctx, "")
		}
	}
}
