package store

import (
	"context"
	"errors"
	"testing"
)

type nopBackend struct{}

func (nopBackend) Remove(context.Context, string, string) (bool, error) { return true, nil }
func (nopBackend) SetValue(context.Context, string, ValueType, string, any) (bool, error) {
	return true, nil
}
func (nopBackend) Clear(context.Context, string) (bool, error) { return true, nil }
func (nopBackend) GetAll(context.Context, string) (map[string]any, error) {
	return map[string]any{}, nil
}

type baseBackend struct {
	Base
	nopBackend
}

type mockBackend struct {
	MockBase
	nopBackend
}

func TestVerify(t *testing.T) {
	if err := Verify(baseBackend{}); err != nil {
		t.Errorf("Backend embedding Base should verify: %v", err)
	}
	if err := Verify(mockBackend{}); err != nil {
		t.Errorf("Backend embedding MockBase should verify: %v", err)
	}
	if err := Verify(nopBackend{}); !errors.Is(err, ErrUnverifiedBackend) {
		t.Errorf("Plain backend should be rejected, got %v", err)
	}
	if err := Verify(nil); !errors.Is(err, ErrUnverifiedBackend) {
		t.Errorf("Nil backend should be rejected, got %v", err)
	}
}

func TestIsMock(t *testing.T) {
	if IsMock(baseBackend{}) {
		t.Error("Base backend is not a mock")
	}
	if !IsMock(mockBackend{}) {
		t.Error("MockBase backend is a mock")
	}
}
