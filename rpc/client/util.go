package client

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/rpc/common"
	"github.com/ValentinKolb/kvprefs/rpc/serializer"
	"github.com/ValentinKolb/kvprefs/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
// Used by the rpcBackend with composition pattern
type rpcClientAdapter struct {
	channel    string
	channelID  uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invoke sends a request on the adapter's channel and waits for the reply
// It returns the reply message and an error if any occurs
// This method also checks if the reply is an error reply and if the type of the reply is the expected type
func (a *rpcClientAdapter) invoke(ctx context.Context, req *common.Message) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := a.serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	// Send the request
	respBytes, err := a.transport.Send(ctx, a.channelID, reqBytes)
	if err != nil {
		Logger.Debugf("%s on channel %s failed: %v", req.MsgType, a.channel, err)
		return nil, err
	}

	// Deserialize the response
	resp := &common.Message{}
	if err := a.serializer.Deserialize(respBytes, resp); err != nil {
		return nil, store.NewError(store.RetCContractViolation,
			fmt.Sprintf("undecodable reply to %s on channel %s: %v", req.MsgType, a.channel, err))
	}

	// Check if the response is an error response
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		return nil, store.NewError(store.RetCInternalError,
			fmt.Sprintf("%s on channel %s: %s", req.MsgType, a.channel, resp.Err))
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType {
		return nil, store.NewError(store.RetCContractViolation,
			fmt.Sprintf("unexpected reply type %s to %s on channel %s", resp.MsgType, req.MsgType, a.channel))
	}

	// Return the response
	return resp, nil
}
