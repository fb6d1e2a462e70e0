package serializer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasStorageName byte = 1 << 0
	hasKey         byte = 1 << 1
	hasValue       byte = 1 << 2
	hasOk          byte = 1 << 3
	hasValues      byte = 1 << 4
	hasErr         byte = 1 << 5
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// 1 byte for MsgType + 1 byte for flags, the rest is appended
	result := make([]byte, 2, b.sizeHint(msg))
	result[0] = byte(msg.MsgType)

	// Initialize flags byte
	var flags byte = 0

	if msg.StorageName != "" {
		flags |= hasStorageName
		result = appendString(result, msg.StorageName)
	}

	if msg.Key != "" {
		flags |= hasKey
		result = appendString(result, msg.Key)
	}

	if msg.Value != nil {
		flags |= hasValue
		var err error
		if result, err = appendValue(result, *msg.Value); err != nil {
			return nil, err
		}
	}

	if msg.Ok != nil {
		flags |= hasOk
		if *msg.Ok {
			result = append(result, 1)
		} else {
			result = append(result, 0)
		}
	}

	if msg.Values != nil {
		flags |= hasValues
		result = binary.BigEndian.AppendUint32(result, uint32(len(msg.Values)))
		for k, v := range msg.Values {
			result = appendString(result, k)
			var err error
			if result, err = appendValue(result, v); err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
		}
	}

	if msg.Err != "" {
		flags |= hasErr
		result = appendString(result, msg.Err)
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	*msg = common.Message{MsgType: common.MessageType(data[0])}
	flags := data[1]
	r := &reader{data: data, pos: 2}

	var err error
	if flags&hasStorageName != 0 {
		if msg.StorageName, err = r.readString("storage name"); err != nil {
			return err
		}
	}

	if flags&hasKey != 0 {
		if msg.Key, err = r.readString("key"); err != nil {
			return err
		}
	}

	if flags&hasValue != 0 {
		v, err := r.readValue("value")
		if err != nil {
			return err
		}
		msg.Value = &v
	}

	if flags&hasOk != 0 {
		ok, err := r.readByte("ok flag")
		if err != nil {
			return err
		}
		okValue := ok != 0
		msg.Ok = &okValue
	}

	if flags&hasValues != 0 {
		count, err := r.readUint32("values count")
		if err != nil {
			return err
		}
		msg.Values = make(map[string]store.Value, min(int(count), len(data)))
		for i := uint32(0); i < count; i++ {
			k, err := r.readString("values key")
			if err != nil {
				return err
			}
			v, err := r.readValue("values entry")
			if err != nil {
				return err
			}
			msg.Values[k] = v
		}
	}

	if flags&hasErr != 0 {
		if msg.Err, err = r.readString("error"); err != nil {
			return err
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeHint estimates the serialized size to avoid reallocations
func (b binarySerializerImpl) sizeHint(msg common.Message) int {
	size := 2 + 4 + len(msg.StorageName) + 4 + len(msg.Key) + 1 + 4 + len(msg.Err)
	if msg.Value != nil {
		size += valueSizeHint(*msg.Value)
	}
	for k, v := range msg.Values {
		size += 4 + len(k) + valueSizeHint(v)
	}
	return size
}

func valueSizeHint(v store.Value) int {
	size := 1 + 8 + 4 + len(v.String)
	for _, s := range v.List {
		size += 4 + len(s)
	}
	return size
}

// appendString writes a length prefixed string
func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

// appendValue writes the type tag of a value followed by its payload
func appendValue(buf []byte, v store.Value) ([]byte, error) {
	buf = append(buf, byte(v.Type))
	switch v.Type {
	case store.TypeBool:
		if v.Bool {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil
	case store.TypeInt:
		return binary.BigEndian.AppendUint64(buf, uint64(v.Int)), nil
	case store.TypeDouble:
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(v.Double)), nil
	case store.TypeString:
		return appendString(buf, v.String), nil
	case store.TypeStringList:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v.List)))
		for _, s := range v.List {
			buf = appendString(buf, s)
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("cannot encode value of type %s", v.Type)
	}
}

// reader reads length prefixed fields and reports which field was truncated
type reader struct {
	data []byte
	pos  int
}

func (r *reader) need(n int, field string) error {
	if n < 0 || r.pos+n > len(r.data) {
		return fmt.Errorf("data too short for %s", field)
	}
	return nil
}

func (r *reader) readByte(field string) (byte, error) {
	if err := r.need(1, field); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readUint32(field string) (uint32, error) {
	if err := r.need(4, field+" length"); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *reader) readUint64(field string) (uint64, error) {
	if err := r.need(8, field); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) readString(field string) (string, error) {
	n, err := r.readUint32(field)
	if err != nil {
		return "", err
	}
	if err := r.need(int(n), field+" data"); err != nil {
		return "", err
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *reader) readValue(field string) (store.Value, error) {
	tag, err := r.readByte(field + " type")
	if err != nil {
		return store.Value{}, err
	}
	v := store.Value{Type: store.ValueType(tag)}
	switch v.Type {
	case store.TypeBool:
		b, err := r.readByte(field)
		if err != nil {
			return store.Value{}, err
		}
		v.Bool = b != 0
	case store.TypeInt:
		u, err := r.readUint64(field)
		if err != nil {
			return store.Value{}, err
		}
		v.Int = int64(u)
	case store.TypeDouble:
		u, err := r.readUint64(field)
		if err != nil {
			return store.Value{}, err
		}
		v.Double = math.Float64frombits(u)
	case store.TypeString:
		if v.String, err = r.readString(field); err != nil {
			return store.Value{}, err
		}
	case store.TypeStringList:
		count, err := r.readUint32(field)
		if err != nil {
			return store.Value{}, err
		}
		// every element needs at least its 4 byte length
		if err := r.need(int(count)*4, field+" elements"); err != nil {
			return store.Value{}, err
		}
		v.List = make([]string, 0, count)
		for i := uint32(0); i < count; i++ {
			s, err := r.readString(field + " element")
			if err != nil {
				return store.Value{}, err
			}
			v.List = append(v.List, s)
		}
	default:
		return store.Value{}, fmt.Errorf("unknown value type %d in %s", tag, field)
	}
	return v, nil
}
