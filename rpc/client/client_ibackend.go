package client

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/rpc/common"
	"github.com/ValentinKolb/kvprefs/rpc/serializer"
	"github.com/ValentinKolb/kvprefs/rpc/transport"
)

// NewRPCBackend creates a backend that forwards every operation over a channel
// The function takes a channel name, a config, a transport and a serializer as parameters
// It connects the transport and returns a store.IBackend and an error
func NewRPCBackend(
	channel string,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (store.IBackend, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	return newRPCBackend(channel, config, transport, serializer), nil
}

// newRPCBackend creates the backend on an already connected transport
func newRPCBackend(
	channel string,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) *rpcBackend {
	return &rpcBackend{
		rpcClientAdapter: rpcClientAdapter{
			channel:    channel,
			channelID:  common.ChannelID(channel),
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}
}

type rpcBackend struct {
	store.Base
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (b *rpcBackend) Remove(ctx context.Context, storageName, key string) (ok bool, err error) {
	req := common.NewRemoveRequest(storageName, key)
	return b.invokeBool(ctx, req)
}

func (b *rpcBackend) SetValue(ctx context.Context, storageName string, valueType store.ValueType, key string, value any) (ok bool, err error) {
	req, err := common.NewSetRequest(storageName, valueType, key, value)
	if err != nil {
		return false, err
	}
	return b.invokeBool(ctx, req)
}

func (b *rpcBackend) Clear(ctx context.Context, storageName string) (ok bool, err error) {
	req := common.NewClearRequest(storageName)
	return b.invokeBool(ctx, req)
}

func (b *rpcBackend) GetAll(ctx context.Context, storageName string) (values map[string]any, err error) {
	req := common.NewGetAllRequest(storageName)
	resp, err := b.invoke(ctx, req)
	if err != nil {
		return nil, err
	}

	// an absent map means an empty storage
	values = make(map[string]any, len(resp.Values))
	for k, v := range resp.Values {
		values[k] = v.Any()
	}
	return values, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// invokeBool sends a request whose reply must carry a bool
func (b *rpcBackend) invokeBool(ctx context.Context, req *common.Message) (bool, error) {
	resp, err := b.invoke(ctx, req)
	if err != nil {
		return false, err
	}
	if resp.Ok == nil {
		return false, store.NewError(store.RetCContractViolation,
			fmt.Sprintf("reply to %s on channel %s carried no bool", req.MsgType, b.channel))
	}
	return *resp.Ok, nil
}
