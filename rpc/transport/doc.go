// Package transport holds the contracts between the bridged backend and the
// preference host at the byte level. Messages are opaque here; the serializer
// package turns them into bytes before they reach a transport.
//
// Every request travels on a channel, identified by the 64 bit id returned by
// common.ChannelID. The host routes a request to the backend registered for its
// channel, which lets one host serve several independent preference channels.
//
// Contracts:
//
//   - IRPCClientTransport: Connect once, then Send any number of requests
//     concurrently. Send honors the context it is given; a done context ends the
//     call with the context's error.
//
//   - IRPCServerTransport: RegisterHandler before Listen. Listen blocks until Close.
//     The handler (ServerHandleFunc) receives a context bounded by the request timeout.
//
// Implementations live in the sub packages: base (framed stream sockets) with tcp and
// unix connectors, and http.
package transport
