package common

import (
	"encoding/json"
	"testing"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/google/go-cmp/cmp"
)

func TestMessageTypeNames(t *testing.T) {
	expected := map[MessageType]string{
		MsgTRemove:        "remove",
		MsgTSetBool:       "setBool",
		MsgTSetInt:        "setInt",
		MsgTSetDouble:     "setDouble",
		MsgTSetString:     "setString",
		MsgTSetStringList: "setStringList",
		MsgTClear:         "clear",
		MsgTGetAll:        "getAll",
		MsgTError:         "error",
	}
	for msgType, name := range expected {
		if msgType.String() != name {
			t.Errorf("Expected %q, got %q", name, msgType.String())
		}
		parsed, err := ParseMessageType(name)
		if err != nil || parsed != msgType {
			t.Errorf("ParseMessageType(%q) = %v, %v", name, parsed, err)
		}
	}
}

func TestNewSetRequest(t *testing.T) {
	cases := []struct {
		valueType store.ValueType
		value     any
		msgType   MessageType
	}{
		{store.TypeBool, true, MsgTSetBool},
		{store.TypeInt, int64(1), MsgTSetInt},
		{store.TypeDouble, float64(1), MsgTSetDouble},
		{store.TypeString, "s", MsgTSetString},
		{store.TypeStringList, []string{"a"}, MsgTSetStringList},
	}
	for _, tc := range cases {
		msg, err := NewSetRequest("", tc.valueType, "k", tc.value)
		if err != nil {
			t.Fatalf("NewSetRequest(%s) failed: %v", tc.valueType, err)
		}
		if msg.MsgType != tc.msgType {
			t.Errorf("Expected %s, got %s", tc.msgType, msg.MsgType)
		}
		if diff := cmp.Diff(tc.value, msg.Value.Any()); diff != "" {
			t.Errorf("Value mismatch (-want +got):\n%s", diff)
		}
	}

	if _, err := NewSetRequest("", store.TypeInt, "k", "no int"); err == nil {
		t.Error("Expected an error for a mismatched value")
	}
	if _, err := NewSetRequest("", store.TypeUnknown, "k", nil); err == nil {
		t.Error("Expected an error for an unknown value type")
	}
}

func TestDefaultStorageNameOmittedInJSON(t *testing.T) {
	data, err := json.Marshal(NewClearRequest(""))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"msg_type":"clear"}` {
		t.Errorf("Expected only the message type, got %s", data)
	}

	data, err = json.Marshal(NewRemoveRequest("app", "k"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"msg_type":"remove","storageName":"app","key":"k"}` {
		t.Errorf("Unexpected encoding %s", data)
	}
}

func TestBoolResponseAlwaysCarriesOk(t *testing.T) {
	msg := NewBoolResponse(MsgTClear, false, nil)
	if msg.Ok == nil || *msg.Ok {
		t.Errorf("Expected an explicit false, got %v", msg.Ok)
	}
}

func TestNewGetAllResponse(t *testing.T) {
	msg := NewGetAllResponse(map[string]any{
		"i":    int64(1),
		"d":    float64(1),
		"list": []any{"a"},
	}, nil)
	if msg.MsgType != MsgTGetAll || msg.Err != "" {
		t.Fatalf("Unexpected response %+v", msg)
	}
	expected := map[string]store.Value{
		"i":    {Type: store.TypeInt, Int: 1},
		"d":    {Type: store.TypeDouble, Double: 1},
		"list": {Type: store.TypeStringList, List: []string{"a"}},
	}
	if diff := cmp.Diff(expected, msg.Values); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}

	bad := NewGetAllResponse(map[string]any{"x": struct{}{}}, nil)
	if bad.MsgType != MsgTError {
		t.Errorf("Expected an error response for an unsupported value, got %s", bad.MsgType)
	}
}

func TestChannelID(t *testing.T) {
	if ChannelID(DefaultChannel) != ChannelID(DefaultChannel) {
		t.Error("ChannelID must be deterministic")
	}
	if ChannelID(DefaultChannel) == ChannelID("other") {
		t.Error("Different channels should have different ids")
	}
}
