// Package http implements an HTTP-based transport layer for the kvprefs channel.
// It provides concrete implementations of the transport interfaces defined in the parent
// package, enabling communication between clients and a preference host over HTTP.
//
// The package focuses on:
//   - Client-side HTTP transport for sending requests to a host
//   - Server-side HTTP transport for receiving and handling requests
//   - Round-robin load balancing across multiple server endpoints
//   - Request routing based on channel IDs
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport interface, managing
//     connections to server endpoints, handling request routing, and implementing
//     retry mechanisms with jittered backoff. It uses round-robin selection for load
//     balancing across multiple server endpoints.
//
//   - httpServerTransport: Implements IRPCServerTransport interface, setting up
//     an HTTP server that routes incoming requests to the handler. Routes:
//
//     POST /{channelID}   request body in, response body out
//     GET  /metrics       Prometheus metrics (VictoriaMetrics default set and process metrics)
//
// Thread Safety:
//
//	The client transport is thread-safe and can be used concurrently. It uses
//	atomic operations for the round-robin counter to ensure thread safety when
//	selecting server endpoints.
package http
