package common

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/lib/util"
)

// DefaultChannel is the name of the channel the preference host listens on.
const DefaultChannel = "kvprefs/local_key_value_storage"

// ChannelID maps a channel name to the numeric id carried in every frame.
func ChannelID(name string) uint64 {
	return util.HashString(name, 0)
}

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	StorageName string       `json:"storageName,omitempty"` // Omitted for the default storage
	Key         string       `json:"key,omitempty"`         // Used for: Remove, Set*
	Value       *store.Value `json:"value,omitempty"`       // Used for: Set* (request)

	// Response only fields
	Ok     *bool                  `json:"ok,omitempty"`     // Used for: Remove, Set*, Clear responses. nil if the reply carried no bool
	Values map[string]store.Value `json:"values,omitempty"` // Used for: GetAll responses. nil if the reply carried no map
	Err    string                 `json:"err,omitempty"`    // Empty if no error, otherwise contains the error message
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewRemoveRequest creates a new Remove request
func NewRemoveRequest(storageName, key string) *Message {
	return &Message{
		MsgType:     MsgTRemove,
		StorageName: storageName,
		Key:         key,
	}
}

// NewSetRequest creates the Set request matching the value's type.
// It fails if value does not hold the Go type of valueType.
func NewSetRequest(storageName string, valueType store.ValueType, key string, value any) (*Message, error) {
	msgType, err := SetMessageType(valueType)
	if err != nil {
		return nil, err
	}
	v, err := store.NewValue(valueType, value)
	if err != nil {
		return nil, err
	}
	return &Message{
		MsgType:     msgType,
		StorageName: storageName,
		Key:         key,
		Value:       &v,
	}, nil
}

// NewClearRequest creates a new Clear request
func NewClearRequest(storageName string) *Message {
	return &Message{
		MsgType:     MsgTClear,
		StorageName: storageName,
	}
}

// NewGetAllRequest creates a new GetAll request
func NewGetAllRequest(storageName string) *Message {
	return &Message{
		MsgType:     MsgTGetAll,
		StorageName: storageName,
	}
}

// NewBoolResponse creates the response to a Remove, Set* or Clear request
func NewBoolResponse(msgType MessageType, ok bool, err error) *Message {
	msg := &Message{
		MsgType: msgType,
		Ok:      &ok,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewGetAllResponse creates a new GetAll response.
// Values that cannot be tagged are reported as error.
func NewGetAllResponse(values map[string]any, err error) *Message {
	msg := &Message{
		MsgType: MsgTGetAll,
	}
	if err != nil {
		msg.Err = err.Error()
		return msg
	}
	msg.Values = make(map[string]store.Value, len(values))
	for k, v := range values {
		tagged, err := store.ValueOf(v)
		if err != nil {
			// generic lists from a backend are sent as string lists if possible
			list, listErr := store.StringList(v)
			if listErr != nil {
				return NewErrorResponse(fmt.Sprintf("key %q: %v", k, err))
			}
			tagged = store.Value{Type: store.TypeStringList, List: list}
		}
		msg.Values[k] = tagged
	}
	return msg
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
// The string form is the request name used on the channel.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTRemove:
		return "remove"
	case MsgTSetBool:
		return "setBool"
	case MsgTSetInt:
		return "setInt"
	case MsgTSetDouble:
		return "setDouble"
	case MsgTSetString:
		return "setString"
	case MsgTSetStringList:
		return "setStringList"
	case MsgTClear:
		return "clear"
	case MsgTGetAll:
		return "getAll"
	case MsgTError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseMessageType is the inverse of MessageType.String.
func ParseMessageType(s string) (MessageType, error) {
	switch s {
	case "remove":
		return MsgTRemove, nil
	case "setBool":
		return MsgTSetBool, nil
	case "setInt":
		return MsgTSetInt, nil
	case "setDouble":
		return MsgTSetDouble, nil
	case "setString":
		return MsgTSetString, nil
	case "setStringList":
		return MsgTSetStringList, nil
	case "clear":
		return MsgTClear, nil
	case "getAll":
		return MsgTGetAll, nil
	case "error":
		return MsgTError, nil
	default:
		return MsgTUnknown, fmt.Errorf("unknown message type: %s", s)
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMessageType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// SetMessageType returns the Set request type for a value type.
func SetMessageType(valueType store.ValueType) (MessageType, error) {
	switch valueType {
	case store.TypeBool:
		return MsgTSetBool, nil
	case store.TypeInt:
		return MsgTSetInt, nil
	case store.TypeDouble:
		return MsgTSetDouble, nil
	case store.TypeString:
		return MsgTSetString, nil
	case store.TypeStringList:
		return MsgTSetStringList, nil
	default:
		return MsgTUnknown, store.NewError(store.RetCInvalidOperation, fmt.Sprintf("no set request for value type %s", valueType))
	}
}

// ValueType returns the value type written by a Set request type, or store.TypeUnknown.
func (t MessageType) ValueType() store.ValueType {
	switch t {
	case MsgTSetBool:
		return store.TypeBool
	case MsgTSetInt:
		return store.TypeInt
	case MsgTSetDouble:
		return store.TypeDouble
	case MsgTSetString:
		return store.TypeString
	case MsgTSetStringList:
		return store.TypeStringList
	default:
		return store.TypeUnknown
	}
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTError               // Indicates an error occurred

	// IBackend operations

	MsgTRemove        // Remove a key
	MsgTSetBool       // Set a bool value
	MsgTSetInt        // Set an int value
	MsgTSetDouble     // Set a double value
	MsgTSetString     // Set a string value
	MsgTSetStringList // Set a string list value
	MsgTClear         // Remove all keys of a storage
	MsgTGetAll        // Read all keys of a storage
)
