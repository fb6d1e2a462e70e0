package server

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/lib/store/fstore"
	"github.com/ValentinKolb/kvprefs/lib/store/mstore"
	"github.com/ValentinKolb/kvprefs/rpc/common"
	"github.com/ValentinKolb/kvprefs/rpc/serializer"
	"github.com/ValentinKolb/kvprefs/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
)

var Logger = logger.GetLogger("rpc")

// serverChannel is a struct that represents a channel served by the RPC server
// It contains the channel name, the backend it encapsulates and the adapter
// that handles requests for the backend
type serverChannel struct {
	Name    string
	Backend store.IBackend
	Adapter IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		unix.NewUnixDefaultServerTransport(),
//		serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		channels:   xsync.NewMapOf[uint64, serverChannel](),
		timers:     gometrics.NewRegistry(),
		stop:       make(chan struct{}),
	}
}

// RPCServer hosts one backend per channel and answers the requests of bridged backends
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	channels   *xsync.MapOf[uint64, serverChannel]
	timers     gometrics.Registry

	stop     chan struct{}
	stopOnce sync.Once
}

// RegisterChannel serves the given backend on a channel.
// Channels listed in the config without a registered backend get one created on Serve.
func (s *RPCServer) RegisterChannel(name string, backend store.IBackend) error {
	if err := store.Verify(backend); err != nil {
		return err
	}

	id := common.ChannelID(name)
	ch := serverChannel{
		Name:    name,
		Backend: backend,
		Adapter: NewIBackendServerAdapter(s.config.DefaultStorageName),
	}
	if existing, loaded := s.channels.LoadOrStore(id, ch); loaded {
		return fmt.Errorf("channel %q already registered (id %d is used by %q)", name, id, existing.Name)
	}

	Logger.Infof("registered channel %q (id %d)", name, id)
	return nil
}

// Serve starts the RPC server
// This function will also create the backends of the configured channels and start the transport layer
// It blocks until Close is called
func (s *RPCServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}

	if s.config.MetricsInterval > 0 {
		go s.logMetrics(s.config.MetricsInterval)
	}

	return s.transport.Listen(s.config)
}

// Close stops the transport and the metrics logging
func (s *RPCServer) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return s.transport.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *RPCServer) init() error {
	for _, name := range s.config.Channels {
		if _, ok := s.channels.Load(common.ChannelID(name)); ok {
			continue
		}

		backend, err := newChannelBackend(s.config, name)
		if err != nil {
			return fmt.Errorf("failed to create backend for channel %q: %w", name, err)
		}
		if err := s.RegisterChannel(name, backend); err != nil {
			return err
		}
	}

	if s.channels.Size() == 0 {
		return fmt.Errorf("no channels configured")
	}

	Logger.Infof("kvprefs setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

func (s *RPCServer) registerTransportHandler() {
	s.transport.RegisterHandler(s.handle)
}

// handle decodes a request, passes it to the adapter of its channel and encodes the reply
func (s *RPCServer) handle(ctx context.Context, channelID uint64, req []byte) []byte {
	start := time.Now()
	var respMsg *common.Message

	// Get appropriate channel
	ch, ok := s.channels.Load(channelID)

	// Case channel does not exist -> error
	if !ok {
		respMsg = common.NewErrorResponse(fmt.Sprintf("channel %d not found", channelID))
		countRequest("unknown", common.MsgTUnknown, true)
	} else {
		// Decode the request
		var msg common.Message
		err := s.serializer.Deserialize(req, &msg)

		if err != nil {
			respMsg = common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
		} else {
			// Let the adapter handle the request
			respMsg = ch.Adapter.Handle(ctx, &msg, ch.Backend)
		}

		failed := respMsg.MsgType == common.MsgTError || respMsg.Err != ""
		if failed {
			Logger.Warningf("%s on channel %q failed: %s", msg.MsgType, ch.Name, respMsg.Err)
		}
		countRequest(ch.Name, msg.MsgType, failed)
		s.timer(ch.Name, msg.MsgType).UpdateSince(start)
	}

	// Return result
	val, err := s.serializer.Serialize(*respMsg)
	if err != nil {
		Logger.Errorf("failed to serialize response: %v", err)
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
	}
	return val
}

// newChannelBackend creates the backend of a channel as configured
func newChannelBackend(config common.ServerConfig, channel string) (store.IBackend, error) {
	switch config.Backend {
	case common.BackendTypeMemory:
		return mstore.NewMemoryBackend(), nil
	case common.BackendTypeFile, "":
		if config.DataDir == "" {
			return nil, fmt.Errorf("file backend needs a data directory")
		}
		return fstore.NewFileBackend(fstore.Options{
			Dir:      filepath.Join(config.DataDir, url.PathEscape(channel)),
			Compress: config.Compress,
		})
	default:
		return nil, fmt.Errorf("invalid backend type: %s", config.Backend)
	}
}
