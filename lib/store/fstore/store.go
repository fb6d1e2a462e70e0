package fstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/klauspost/compress/zstd"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var log = logger.GetLogger("store")

const (
	defaultFileName = "default"
	fileExt         = ".prefs.json"
	compressedExt   = ".zst"
)

// Options configures the file backend.
type Options struct {
	// Dir is the directory holding one file per storage name. It is created if missing.
	Dir string
	// Compress enables zstd compression of the files.
	Compress bool
}

type backendImpl struct {
	store.Base
	dir     string
	locks   *xsync.MapOf[string, *sync.Mutex]
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewFileBackend creates a backend that persists every storage in a flat preferences file.
func NewFileBackend(opts Options) (store.IBackend, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("file backend: no directory configured")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", opts.Dir, err)
	}

	b := &backendImpl{
		dir:   opts.Dir,
		locks: xsync.NewMapOf[string, *sync.Mutex](),
	}

	if opts.Compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("failed to create compressor: %w", err)
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create decompressor: %w", err)
		}
		b.encoder = enc
		b.decoder = dec
	}

	return b, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (b *backendImpl) Remove(_ context.Context, storageName, key string) (bool, error) {
	err := b.update(storageName, func(values map[string]store.Value) bool {
		if _, ok := values[key]; !ok {
			return false
		}
		delete(values, key)
		return true
	})
	return err == nil, err
}

func (b *backendImpl) SetValue(_ context.Context, storageName string, valueType store.ValueType, key string, value any) (bool, error) {
	v, err := store.NewValue(valueType, value)
	if err != nil {
		return false, err
	}
	err = b.update(storageName, func(values map[string]store.Value) bool {
		values[key] = v
		return true
	})
	return err == nil, err
}

func (b *backendImpl) Clear(_ context.Context, storageName string) (bool, error) {
	mu := b.lock(storageName)
	mu.Lock()
	defer mu.Unlock()

	if err := os.Remove(b.path(storageName)); err != nil && !os.IsNotExist(err) {
		return false, store.NewError(store.RetCInternalError, fmt.Sprintf("failed to clear storage %q: %v", storageName, err))
	}
	return true, nil
}

func (b *backendImpl) GetAll(_ context.Context, storageName string) (map[string]any, error) {
	mu := b.lock(storageName)
	mu.Lock()
	defer mu.Unlock()

	values, err := b.read(storageName)
	if err != nil {
		return nil, err
	}
	result := make(map[string]any, len(values))
	for k, v := range values {
		result[k] = v.Any()
	}
	return result, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// lock returns the mutex serializing access to the file of a storage.
func (b *backendImpl) lock(storageName string) *sync.Mutex {
	mu, _ := b.locks.LoadOrCompute(storageName, func() *sync.Mutex { return &sync.Mutex{} })
	return mu
}

// update reads the file of a storage, applies fn and writes the file back if fn reports a change.
func (b *backendImpl) update(storageName string, fn func(values map[string]store.Value) bool) error {
	mu := b.lock(storageName)
	mu.Lock()
	defer mu.Unlock()

	values, err := b.read(storageName)
	if err != nil {
		return err
	}
	if !fn(values) {
		return nil
	}
	return b.write(storageName, values)
}

// path returns the file path for a storage name.
// Named storages are base64url encoded so that any name maps to a valid file name.
func (b *backendImpl) path(storageName string) string {
	name := defaultFileName
	if storageName != "" {
		name = "n-" + base64.RawURLEncoding.EncodeToString([]byte(storageName))
	}
	name += fileExt
	if b.encoder != nil {
		name += compressedExt
	}
	return filepath.Join(b.dir, name)
}

// read loads the values of a storage. A missing file is an empty storage.
func (b *backendImpl) read(storageName string) (map[string]store.Value, error) {
	data, err := os.ReadFile(b.path(storageName))
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]store.Value), nil
		}
		return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("failed to read storage %q: %v", storageName, err))
	}

	if b.decoder != nil {
		if data, err = b.decoder.DecodeAll(data, nil); err != nil {
			return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("failed to decompress storage %q: %v", storageName, err))
		}
	}

	values := make(map[string]store.Value)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("corrupt storage file for %q: %v", storageName, err))
	}
	return values, nil
}

// write persists the values of a storage atomically (temp file + rename).
func (b *backendImpl) write(storageName string, values map[string]store.Value) error {
	data, err := json.Marshal(values)
	if err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("failed to encode storage %q: %v", storageName, err))
	}
	if b.encoder != nil {
		data = b.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	}

	path := b.path(storageName)
	tmp, err := os.CreateTemp(b.dir, ".tmp-*")
	if err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("failed to write storage %q: %v", storageName, err))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return store.NewError(store.RetCInternalError, fmt.Sprintf("failed to write storage %q: %v", storageName, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return store.NewError(store.RetCInternalError, fmt.Sprintf("failed to write storage %q: %v", storageName, err))
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return store.NewError(store.RetCInternalError, fmt.Sprintf("failed to write storage %q: %v", storageName, err))
	}

	log.Debugf("wrote %d keys to %s", len(values), path)
	return nil
}
