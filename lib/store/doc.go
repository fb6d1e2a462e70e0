// Package store defines the persistence port for preferences and the value model shared by
// every layer of kvprefs. It serves as the abstraction between the preference facade
// (package prefs) and the concrete mechanism that stores the values, whether that is a map
// in memory, a flat file, or a host process reached over the RPC channel.
//
// The package focuses on:
//   - A unified interface (IBackend) for preference persistence across different backends
//   - A tagged value type (Value, ValueType) for crossing untyped boundaries losslessly
//   - Unified error reporting through Error and RetCode
//   - A verification capability that restricts which backends may be installed
//
// Key Components:
//
//   - IBackend Interface: The four operations every backend offers (Remove, SetValue,
//     Clear, GetAll), each scoped by a storage name. The empty storage name selects the
//     default storage. A missing key is a normal, successful outcome.
//
//   - Value System: Preferences are one of bool, int64, float64, string or []string.
//     ValueType tags a value with its semantic type so that backends can choose an
//     encoding; Value carries type and payload together through serializers.
//     Normalize maps other Go integer and float kinds onto the canonical ones.
//
//   - Error System: A structured error reporting mechanism using typed error codes
//     and descriptive messages. RetCContractViolation marks replies that break the
//     channel contract and is never turned into a soft false.
//
//   - Verification: backends embed Base (or MockBase for test doubles). Verify is used by
//     prefs.Registry before a backend is installed.
//
// Implementations:
//
//	- Memory Backend (mstore): maps keyed by storage name. Used in tests and as the
//	  backend installed by prefs.Registry.SetMockInitialValues.
//	  Available in the "github.com/ValentinKolb/kvprefs/lib/store/mstore" package.
//
//	- File Backend (fstore): one flat preferences file per storage name, optionally
//	  zstd compressed. Used by the host side of the channel.
//	  Available in the "github.com/ValentinKolb/kvprefs/lib/store/fstore" package.
//
//	- RPC Backend (rpc/client): forwards every operation to a host over a transport.
//	  Available in the "github.com/ValentinKolb/kvprefs/rpc/client" package.
package store
