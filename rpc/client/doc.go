// Package client implements the bridged backend of kvprefs: a store.IBackend that
// forwards every operation as a named request over a channel and awaits the reply.
//
// The package focuses on:
//   - Transparent access to a backend living on the other side of a channel
//   - Integration with the transport and serialization layers
//   - Strict checking of the reply contract
//
// Request Table:
//
//	Operation        Request         Arguments                  Reply
//	Remove           remove          key, storageName?          bool (required)
//	SetValue(bool)   setBool         key, value, storageName?   bool (required)
//	SetValue(int)    setInt          key, value, storageName?   bool (required)
//	SetValue(double) setDouble       key, value, storageName?   bool (required)
//	SetValue(string) setString       key, value, storageName?   bool (required)
//	SetValue(list)   setStringList   key, value, storageName?   bool (required)
//	Clear            clear           storageName?               bool (required)
//	GetAll           getAll          storageName?               map or absent
//
//	storageName is left out of the request for the default storage. An absent map
//	in a getAll reply is an empty storage.
//
// Errors:
//
//   - A reply without its bool, of the wrong type, or that cannot be decoded is a
//     broken contract and returned as *store.Error with code RetCContractViolation.
//     It is never turned into a false result.
//   - An error reply becomes a *store.Error with code RetCInternalError.
//   - Transport errors (including a done context) are returned unchanged.
//
// Usage Example:
//
//	config := common.ClientConfig{
//		TimeoutSecond: 5,
//		Transport: common.ClientTransportConfig{
//			Endpoints:  []string{"/run/kvprefs.sock"},
//			RetryCount: 3,
//		},
//	}
//
//	backend, err := client.NewRPCBackend(common.DefaultChannel, config,
//		unix.NewUnixClientTransport(), serializer.NewBinarySerializer())
//	registry, err := prefs.NewRegistry(backend)
//
// Thread Safety:
//
//	The backend is safe for concurrent use; concurrency is bounded by the transport.
package client
