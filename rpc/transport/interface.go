package transport

import (
	"context"

	"github.com/ValentinKolb/kvprefs/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes the id of the channel the request was sent on and the request as parameters
// and returns a response. ctx is cancelled when the request times out.
type ServerHandleFunc func(ctx context.Context, channelID uint64, req []byte) (resp []byte)

// IRPCServerTransport is the interface for the RPC transport layer
// It must accept a ServerConfig as a parameter
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and listens for incoming requests.
	// It blocks until Close is called (returning nil) or the listener fails.
	Listen(config common.ServerConfig) error
	// Close stops listening. Requests that are being handled are finished first.
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request on a channel and returns the response.
	// Send gives up when ctx is done.
	Send(ctx context.Context, channelID uint64, req []byte) (resp []byte, err error)
	// Close closes the transport connection
	Close() error
}
