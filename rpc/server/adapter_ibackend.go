package server

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/rpc/common"
)

// NewIBackendServerAdapter creates the adapter answering the requests of a preference channel.
// Requests without a storage name are served from defaultStorageName.
func NewIBackendServerAdapter(defaultStorageName string) IRPCServerAdapter {
	return &iBackendServerAdapterImpl{defaultStorageName: defaultStorageName}
}

type iBackendServerAdapterImpl struct {
	defaultStorageName string
}

func (adapter *iBackendServerAdapterImpl) Handle(ctx context.Context, req *common.Message, backend store.IBackend) *common.Message {
	// Check for nil backend
	if backend == nil {
		return common.NewErrorResponse("handler: backend is nil")
	}

	storageName := req.StorageName
	if storageName == "" {
		storageName = adapter.defaultStorageName
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTRemove:
		ok, err := backend.Remove(ctx, storageName, req.Key)
		return common.NewBoolResponse(req.MsgType, ok, err)
	case common.MsgTSetBool, common.MsgTSetInt, common.MsgTSetDouble, common.MsgTSetString, common.MsgTSetStringList:
		if req.Value == nil {
			return common.NewErrorResponse(fmt.Sprintf("%s request without value", req.MsgType))
		}
		if req.Value.Type != req.MsgType.ValueType() {
			return common.NewErrorResponse(
				fmt.Sprintf("%s request carries a %s value", req.MsgType, req.Value.Type),
			)
		}
		ok, err := backend.SetValue(ctx, storageName, req.Value.Type, req.Key, req.Value.Any())
		return common.NewBoolResponse(req.MsgType, ok, err)
	case common.MsgTClear:
		ok, err := backend.Clear(ctx, storageName)
		return common.NewBoolResponse(req.MsgType, ok, err)
	case common.MsgTGetAll:
		values, err := backend.GetAll(ctx, storageName)
		return common.NewGetAllResponse(values, err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("unsupported message type: %s", req.MsgType),
		)
	}
}
