package serializer

import (
	"bytes"
	"encoding/gob"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/rpc/common"
)

// NewGOBSerializer creates a new serializer using Go's binary gob format
func NewGOBSerializer() IRPCSerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the IRPCSerializer interface using gob encoding
type gobSerializerImpl struct {
}

// gobMessage is the gob wire form of common.Message. Gob drops zero values and empty
// maps, so presence of Ok and Values is encoded explicitly.
type gobMessage struct {
	MsgType     common.MessageType
	StorageName string
	Key         string
	Value       *store.Value
	HasOk       bool
	Ok          bool
	HasValues   bool
	Values      map[string]store.Value
	Err         string
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	wire := gobMessage{
		MsgType:     msg.MsgType,
		StorageName: msg.StorageName,
		Key:         msg.Key,
		Value:       msg.Value,
		HasOk:       msg.Ok != nil,
		HasValues:   msg.Values != nil,
		Values:      msg.Values,
		Err:         msg.Err,
	}
	if msg.Ok != nil {
		wire.Ok = *msg.Ok
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(wire); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	var wire gobMessage
	buf := bytes.NewBuffer(b)
	dec := gob.NewDecoder(buf)
	if err := dec.Decode(&wire); err != nil {
		return err
	}

	*msg = common.Message{
		MsgType:     wire.MsgType,
		StorageName: wire.StorageName,
		Key:         wire.Key,
		Value:       wire.Value,
		Values:      wire.Values,
		Err:         wire.Err,
	}
	if wire.HasOk {
		ok := wire.Ok
		msg.Ok = &ok
	}
	if wire.HasValues && msg.Values == nil {
		msg.Values = make(map[string]store.Value)
	}
	return nil
}
