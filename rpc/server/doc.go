// Package server implements the host side of bridged preference backends.
// It serves one store.IBackend per channel and answers the requests sent by
// rpc/client backends over any transport.
//
// The package focuses on:
//   - Routing requests by channel id to the backend registered for the channel
//   - Translating requests to store.IBackend calls through an adapter
//   - Request metrics for monitoring and periodic logging
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a store.IBackend.
//
//   - NewIBackendServerAdapter: Factory function creating the adapter for preference
//     requests. Requests without a storage name are served from the configured
//     DefaultStorageName. Backend errors and malformed requests become error replies.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms. Backends can be registered with
//     RegisterChannel; every channel of the config without a registered backend gets
//     a memory or file backend (one directory per channel below DataDir) on Serve.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Channels:      []string{common.DefaultChannel},
//	  Backend:       common.BackendTypeFile,
//	  DataDir:       "/var/lib/kvprefs",
//	  TimeoutSecond: 5,
//	  Transport:     common.ServerTransportConfig{Endpoint: "0.0.0.0:8080"},
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	// Start the server
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Metrics:
//
//	Every request is counted in the default VictoriaMetrics set as
//	kvprefs_rpc_requests_total{channel,type} and, if it failed, kvprefs_rpc_errors_total.
//	The http transport exposes the set on GET /metrics. Latencies are kept in
//	go-metrics timers per channel and request type and logged every MetricsInterval.
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent requests
//	across multiple connections. Each request is processed independently.
//	Serve should be called only once.
package server
