// Package rpc provides the bridge between preference facades and a preference
// host running in another process. It acts as the communication layer that lets
// a store.IBackend live on the other side of a channel.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, channel ids, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, HTTP).
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: The bridged backend, a store.IBackend forwarding every operation as
//     a request on a channel.
//
//   - server: The preference host that serves one backend per channel and answers
//     the requests of bridged backends.
package rpc
