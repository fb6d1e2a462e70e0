package fstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/kvprefs/lib/store"
	storetesting "github.com/ValentinKolb/kvprefs/lib/store/testing"
	"github.com/google/go-cmp/cmp"
)

func factory(t testing.TB, compress bool) store.BackendFactory {
	return func() store.IBackend {
		backend, err := NewFileBackend(Options{Dir: t.TempDir(), Compress: compress})
		if err != nil {
			panic(err)
		}
		return backend
	}
}

func TestFileBackend(t *testing.T) {
	storetesting.RunBackendTests(t, "FileBackend", factory(t, false))
	storetesting.RunBackendTests(t, "FileBackend(zstd)", factory(t, true))
}

func BenchmarkFileBackend(b *testing.B) {
	storetesting.RunBackendBenchmarks(b, "FileBackend", factory(b, false))
	storetesting.RunBackendBenchmarks(b, "FileBackend(zstd)", factory(b, true))
}

func TestFileBackendPersists(t *testing.T) {
	for _, compress := range []bool{false, true} {
		dir := t.TempDir()
		ctx := context.Background()

		first, err := NewFileBackend(Options{Dir: dir, Compress: compress})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := first.SetValue(ctx, "app", store.TypeDouble, "d", float64(1)); err != nil {
			t.Fatal(err)
		}
		if _, err := first.SetValue(ctx, "app", store.TypeStringList, "l", []string{"x"}); err != nil {
			t.Fatal(err)
		}

		// a second backend on the same directory simulates a restart
		second, err := NewFileBackend(Options{Dir: dir, Compress: compress})
		if err != nil {
			t.Fatal(err)
		}
		values, err := second.GetAll(ctx, "app")
		if err != nil {
			t.Fatal(err)
		}
		expected := map[string]any{"d": float64(1), "l": []string{"x"}}
		if diff := cmp.Diff(expected, values); diff != "" {
			t.Errorf("compress=%t: persisted values mismatch (-want +got):\n%s", compress, diff)
		}
	}
}

func TestFileBackendLayout(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(Options{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	backend.SetValue(ctx, "", store.TypeBool, "k", true)
	backend.SetValue(ctx, "../escape", store.TypeBool, "k", true)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 2 {
		t.Fatalf("Expected 2 files, got %v", names)
	}

	data, err := os.ReadFile(filepath.Join(dir, "default.prefs.json"))
	if err != nil {
		t.Fatalf("Default storage file missing: %v", err)
	}
	if !strings.Contains(string(data), `"type":"bool"`) {
		t.Errorf("Expected tagged values in file, got %s", data)
	}
	for _, name := range names {
		if strings.Contains(name, "..") || strings.Contains(name, "/") {
			t.Errorf("Storage name leaked into file name %q", name)
		}
	}
}

func TestFileBackendCorruptFile(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(Options{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "default.prefs.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err = backend.GetAll(context.Background(), "")
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.RetCInternalError {
		t.Errorf("Expected an internal error for a corrupt file, got %v", err)
	}
}

func TestFileBackendNoDir(t *testing.T) {
	if _, err := NewFileBackend(Options{}); err == nil {
		t.Error("Expected an error without directory")
	}
}
