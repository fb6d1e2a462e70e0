package store

import (
	"context"
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// BackendFactory is a function type that creates a new backend.
// This is used to abstract the creation of the backend from the components using it.
type BackendFactory func() IBackend

// IBackend is the port every persistence mechanism for preferences implements.
// All operations are scoped by a storage name, the empty string selects the default storage.
// Absence of a key is never an error: Remove on a missing key succeeds and GetAll on an
// unknown storage returns an empty map.
//
// The boolean return values report whether the backend applied the operation.
type IBackend interface {
	// Remove removes the key from the given storage.
	Remove(ctx context.Context, storageName, key string) (ok bool, err error)
	// SetValue persists value under key. The valueType tells the backend how the value is
	// meant to be encoded; value must hold the Go type matching valueType (see ValueType.Check).
	SetValue(ctx context.Context, storageName string, valueType ValueType, key string, value any) (ok bool, err error)
	// Clear removes every key of the given storage.
	Clear(ctx context.Context, storageName string) (ok bool, err error)
	// GetAll returns every key currently persisted for the given storage.
	// The returned map is owned by the caller.
	GetAll(ctx context.Context, storageName string) (values map[string]any, err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("KVPrefsError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is a *Error with the same code.
// This allows errors.Is(err, &store.Error{Code: store.RetCContractViolation}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the backend.
	RetCInvalidOperation                    // 3: Invalid operation.
	RetCContractViolation                   // 4: The other side of a channel broke the reply contract.
	RetCTypeMismatch                        // 5: A value does not match its declared type.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCContractViolation:
		return "ContractViolation"
	case RetCTypeMismatch:
		return "TypeMismatch"
	default:
		return "Unknown"
	}
}
