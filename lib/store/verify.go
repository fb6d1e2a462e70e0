package store

import (
	"errors"
	"fmt"
)

// ErrUnverifiedBackend is returned by Verify for backends that neither embed Base nor MockBase.
var ErrUnverifiedBackend = errors.New("backend is not verified: embed store.Base or store.MockBase")

// --------------------------------------------------------------------------
// Verification Capability
// --------------------------------------------------------------------------

// Base must be embedded by every backend that may be installed into a prefs.Registry.
// Implementing IBackend alone is not enough: the registry refuses backends that were not
// built on top of this type, so that arbitrary values cannot masquerade as a backend.
type Base struct{}

func (Base) verifiedBackend() {}

// MockBase is embedded by test doubles. It opts a backend into being installed
// without embedding Base.
type MockBase struct{}

func (MockBase) mockBackend() {}

type verified interface{ verifiedBackend() }

type mocked interface{ mockBackend() }

// Verify checks the verification capability of a backend.
func Verify(b IBackend) error {
	if b == nil {
		return fmt.Errorf("%w: backend is nil", ErrUnverifiedBackend)
	}
	if _, ok := b.(mocked); ok {
		return nil
	}
	if _, ok := b.(verified); ok {
		return nil
	}
	return fmt.Errorf("%w (got %T)", ErrUnverifiedBackend, b)
}

// IsMock reports whether the backend opted in as a test double.
func IsMock(b IBackend) bool {
	_, ok := b.(mocked)
	return ok
}
