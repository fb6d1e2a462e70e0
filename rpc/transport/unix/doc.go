// Package unix implements the transport of the kvprefs channel over Unix domain
// sockets. This is the natural transport between an application and a preference host
// running on the same machine.
//
// This package extends the base transport layer with Unix socket specific connectors
// while inheriting all core functionality like connection pooling, request routing,
// and error handling from the base package.
//
// Key Components:
//
//   - clientConnector: Establishes connections using Unix domain sockets
//
//   - serverConnector: Creates Unix socket listeners (removing a stale socket file
//     first) and accepts connections
//
// The default buffer size is 64 KB, preference payloads are small.
package unix
