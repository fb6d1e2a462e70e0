package client

import (
	"context"
	"errors"
	"testing"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/rpc/common"
	"github.com/ValentinKolb/kvprefs/rpc/serializer"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// fakeTransport answers every request with the result of reply
type fakeTransport struct {
	ser       serializer.IRPCSerializer
	reply     func(req *common.Message) *common.Message
	sendErr   error
	requests  []*common.Message
	channelID uint64
}

func (f *fakeTransport) Connect(config common.ClientConfig) error { return nil }

func (f *fakeTransport) Send(ctx context.Context, channelID uint64, req []byte) ([]byte, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.channelID = channelID
	msg := &common.Message{}
	if err := f.ser.Deserialize(req, msg); err != nil {
		return nil, err
	}
	f.requests = append(f.requests, msg)
	return f.ser.Serialize(*f.reply(msg))
}

func (f *fakeTransport) Close() error { return nil }

var testSerializers = map[string]func() serializer.IRPCSerializer{
	"json":   serializer.NewJSONSerializer,
	"gob":    serializer.NewGOBSerializer,
	"binary": serializer.NewBinarySerializer,
}

func newTestBackend(t *testing.T, ser serializer.IRPCSerializer, reply func(req *common.Message) *common.Message) (store.IBackend, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{ser: ser, reply: reply}
	b, err := NewRPCBackend(common.DefaultChannel, common.ClientConfig{}, ft, ser)
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	return b, ft
}

func boolReply(ok bool) func(req *common.Message) *common.Message {
	return func(req *common.Message) *common.Message {
		return common.NewBoolResponse(req.MsgType, ok, nil)
	}
}

func isContractViolation(err error) bool {
	var e *store.Error
	return errors.As(err, &e) && e.Code == store.RetCContractViolation
}

func TestRPCBackend(t *testing.T) {
	for name, newSer := range testSerializers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("Verified", func(t *testing.T) {
				b, _ := newTestBackend(t, newSer(), boolReply(true))
				if err := store.Verify(b); err != nil {
					t.Errorf("RPC backend should be verified: %v", err)
				}
			})

			t.Run("Requests", func(t *testing.T) {
				b, ft := newTestBackend(t, newSer(), boolReply(true))

				if ok, err := b.SetValue(ctx, "", store.TypeInt, "launches", int64(3)); err != nil || !ok {
					t.Fatalf("SetValue = (%t, %v), expected (true, nil)", ok, err)
				}
				if ok, err := b.SetValue(ctx, "ui", store.TypeStringList, "tabs", []string{"a", "b"}); err != nil || !ok {
					t.Fatalf("SetValue = (%t, %v), expected (true, nil)", ok, err)
				}
				if ok, err := b.Remove(ctx, "", "launches"); err != nil || !ok {
					t.Fatalf("Remove = (%t, %v), expected (true, nil)", ok, err)
				}
				if ok, err := b.Clear(ctx, "ui"); err != nil || !ok {
					t.Fatalf("Clear = (%t, %v), expected (true, nil)", ok, err)
				}

				if ft.channelID != common.ChannelID(common.DefaultChannel) {
					t.Errorf("Requests sent on channel %d, expected %d", ft.channelID, common.ChannelID(common.DefaultChannel))
				}

				intVal, _ := store.NewValue(store.TypeInt, int64(3))
				listVal, _ := store.NewValue(store.TypeStringList, []string{"a", "b"})
				expected := []*common.Message{
					{MsgType: common.MsgTSetInt, Key: "launches", Value: &intVal},
					{MsgType: common.MsgTSetStringList, StorageName: "ui", Key: "tabs", Value: &listVal},
					{MsgType: common.MsgTRemove, Key: "launches"},
					{MsgType: common.MsgTClear, StorageName: "ui"},
				}
				if diff := cmp.Diff(expected, ft.requests, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("Unexpected requests (-want +got):\n%s", diff)
				}
			})

			t.Run("FalseReply", func(t *testing.T) {
				b, _ := newTestBackend(t, newSer(), boolReply(false))
				ok, err := b.Remove(ctx, "", "missing")
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if ok {
					t.Error("Expected false to be passed through")
				}
			})

			t.Run("MissingBoolIsContractViolation", func(t *testing.T) {
				b, _ := newTestBackend(t, newSer(), func(req *common.Message) *common.Message {
					return &common.Message{MsgType: req.MsgType}
				})
				ok, err := b.SetValue(ctx, "", store.TypeBool, "k", true)
				if !isContractViolation(err) {
					t.Errorf("Expected contract violation, got %v", err)
				}
				if ok {
					t.Error("Expected false on contract violation")
				}
				if _, err := b.Clear(ctx, ""); !isContractViolation(err) {
					t.Errorf("Expected contract violation on clear, got %v", err)
				}
			})

			t.Run("WrongReplyType", func(t *testing.T) {
				b, _ := newTestBackend(t, newSer(), func(req *common.Message) *common.Message {
					return common.NewBoolResponse(common.MsgTClear, true, nil)
				})
				if _, err := b.Remove(ctx, "", "k"); !isContractViolation(err) {
					t.Errorf("Expected contract violation, got %v", err)
				}
			})

			t.Run("GetAll", func(t *testing.T) {
				b, ft := newTestBackend(t, newSer(), func(req *common.Message) *common.Message {
					return common.NewGetAllResponse(map[string]any{
						"flag": true,
						"n":    int64(7),
						"pi":   3.5,
						"name": "x",
						"tabs": []string{"a"},
					}, nil)
				})
				values, err := b.GetAll(ctx, "ui")
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				expected := map[string]any{
					"flag": true,
					"n":    int64(7),
					"pi":   3.5,
					"name": "x",
					"tabs": []string{"a"},
				}
				if diff := cmp.Diff(expected, values); diff != "" {
					t.Errorf("Unexpected values (-want +got):\n%s", diff)
				}
				if ft.requests[0].StorageName != "ui" {
					t.Errorf("Expected storage name ui, got %q", ft.requests[0].StorageName)
				}
			})

			t.Run("GetAllAbsentMapIsEmpty", func(t *testing.T) {
				b, _ := newTestBackend(t, newSer(), func(req *common.Message) *common.Message {
					return &common.Message{MsgType: common.MsgTGetAll}
				})
				values, err := b.GetAll(ctx, "")
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if values == nil || len(values) != 0 {
					t.Errorf("Expected empty non-nil map, got %#v", values)
				}
			})

			t.Run("ErrorReply", func(t *testing.T) {
				b, _ := newTestBackend(t, newSer(), func(req *common.Message) *common.Message {
					return common.NewErrorResponse("disk full")
				})
				_, err := b.GetAll(ctx, "")
				var e *store.Error
				if !errors.As(err, &e) || e.Code != store.RetCInternalError {
					t.Errorf("Expected internal error, got %v", err)
				}
			})

			t.Run("TransportError", func(t *testing.T) {
				b, ft := newTestBackend(t, newSer(), boolReply(true))
				ft.sendErr = context.DeadlineExceeded
				if _, err := b.Remove(ctx, "", "k"); !errors.Is(err, context.DeadlineExceeded) {
					t.Errorf("Expected transport error to be returned unchanged, got %v", err)
				}
			})

			t.Run("InvalidValueIsNotSent", func(t *testing.T) {
				b, ft := newTestBackend(t, newSer(), boolReply(true))
				if _, err := b.SetValue(ctx, "", store.TypeInt, "k", "not an int"); err == nil {
					t.Error("Expected error for mistyped value")
				}
				if len(ft.requests) != 0 {
					t.Errorf("Expected no request to be sent, got %d", len(ft.requests))
				}
			})
		})
	}
}
