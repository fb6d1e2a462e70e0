package store

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// --------------------------------------------------------------------------
// Value Types
// --------------------------------------------------------------------------

// ValueType tags a preference value with its semantic type.
type ValueType uint8

const (
	TypeUnknown ValueType = iota
	TypeBool
	TypeInt
	TypeDouble
	TypeString
	TypeStringList
)

// String returns the name used for the type on the wire and in the CLI.
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeStringList:
		return "string-list"
	default:
		return "unknown"
	}
}

// ParseValueType parses the string form returned by ValueType.String.
func ParseValueType(s string) (ValueType, error) {
	switch s {
	case "bool":
		return TypeBool, nil
	case "int":
		return TypeInt, nil
	case "double":
		return TypeDouble, nil
	case "string":
		return TypeString, nil
	case "string-list":
		return TypeStringList, nil
	default:
		return TypeUnknown, fmt.Errorf("unknown value type %q (expected one of bool, int, double, string, string-list)", s)
	}
}

// Check returns an error if v does not hold the Go type for t.
// The Go types are bool, int64, float64, string and []string.
func (t ValueType) Check(v any) error {
	ok := false
	switch t {
	case TypeBool:
		_, ok = v.(bool)
	case TypeInt:
		_, ok = v.(int64)
	case TypeDouble:
		_, ok = v.(float64)
	case TypeString:
		_, ok = v.(string)
	case TypeStringList:
		_, ok = v.([]string)
	}
	if !ok {
		return NewError(RetCTypeMismatch, fmt.Sprintf("value of type %T is not a %s", v, t))
	}
	return nil
}

// TypeOf returns the ValueType of a normalized value, or TypeUnknown.
func TypeOf(v any) ValueType {
	switch v.(type) {
	case bool:
		return TypeBool
	case int64:
		return TypeInt
	case float64:
		return TypeDouble
	case string:
		return TypeString
	case []string:
		return TypeStringList
	default:
		return TypeUnknown
	}
}

// --------------------------------------------------------------------------
// Tagged Value
// --------------------------------------------------------------------------

// Value is the tagged representation of a preference value used at the boundary to
// untyped channels. Only the field selected by Type is meaningful.
type Value struct {
	Type   ValueType
	Bool   bool
	Int    int64
	Double float64
	String string
	List   []string
}

// NewValue builds a tagged value, checking that v matches t.
// Lists are copied.
func NewValue(t ValueType, v any) (Value, error) {
	if err := t.Check(v); err != nil {
		return Value{}, err
	}
	val := Value{Type: t}
	switch t {
	case TypeBool:
		val.Bool = v.(bool)
	case TypeInt:
		val.Int = v.(int64)
	case TypeDouble:
		val.Double = v.(float64)
	case TypeString:
		val.String = v.(string)
	case TypeStringList:
		val.List = append(make([]string, 0, len(v.([]string))), v.([]string)...)
	}
	return val, nil
}

// ValueOf builds a tagged value from any supported Go value (see Normalize).
func ValueOf(v any) (Value, error) {
	n, err := Normalize(v)
	if err != nil {
		return Value{}, err
	}
	return NewValue(TypeOf(n), n)
}

// Any returns the plain Go value. Lists are copied.
func (v Value) Any() any {
	switch v.Type {
	case TypeBool:
		return v.Bool
	case TypeInt:
		return v.Int
	case TypeDouble:
		return v.Double
	case TypeString:
		return v.String
	case TypeStringList:
		return append(make([]string, 0, len(v.List)), v.List...)
	default:
		return nil
	}
}

// jsonValue is the JSON wire form of Value. The type is kept explicit so that
// doubles with integral values survive a round trip.
type jsonValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON implements json.Marshaler.
// NaN and infinite doubles have no JSON number form and are written as the strings
// "NaN", "+Inf" and "-Inf".
func (v Value) MarshalJSON() ([]byte, error) {
	var plain any = v.Any()
	if v.Type == TypeDouble && (math.IsNaN(v.Double) || math.IsInf(v.Double, 0)) {
		plain = strconv.FormatFloat(v.Double, 'g', -1, 64)
	}
	raw, err := json.Marshal(plain)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonValue{Type: v.Type.String(), Value: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	t, err := ParseValueType(jv.Type)
	if err != nil {
		return err
	}
	*v = Value{Type: t}
	switch t {
	case TypeBool:
		return json.Unmarshal(jv.Value, &v.Bool)
	case TypeInt:
		return json.Unmarshal(jv.Value, &v.Int)
	case TypeDouble:
		return unmarshalDouble(jv.Value, &v.Double)
	case TypeString:
		return json.Unmarshal(jv.Value, &v.String)
	default:
		if err := json.Unmarshal(jv.Value, &v.List); err != nil {
			return err
		}
		if v.List == nil {
			v.List = []string{}
		}
		return nil
	}
}

// unmarshalDouble reads a JSON number or one of the strings written for non-finite doubles.
func unmarshalDouble(raw json.RawMessage, d *float64) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return json.Unmarshal(raw, d)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !(math.IsNaN(f) || math.IsInf(f, 0)) {
		return fmt.Errorf("invalid double %q", s)
	}
	*d = f
	return nil
}

// --------------------------------------------------------------------------
// Normalization
// --------------------------------------------------------------------------

// Normalize converts common Go representations into the canonical value types:
// all integer kinds become int64, float32 becomes float64 and lists are copied.
// Generic sequences ([]any) keep their type so that consumers can normalize them
// lazily; all other types are rejected.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case bool, int64, float64, string:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, NewError(RetCTypeMismatch, fmt.Sprintf("integer %d overflows int64", x))
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, NewError(RetCTypeMismatch, fmt.Sprintf("integer %d overflows int64", x))
		}
		return int64(x), nil
	case float32:
		return float64(x), nil
	case []string:
		return append(make([]string, 0, len(x)), x...), nil
	case []any:
		return append(make([]any, 0, len(x)), x...), nil
	default:
		return nil, NewError(RetCTypeMismatch, fmt.Sprintf("unsupported preference value type %T", v))
	}
}

// StringList converts a generic sequence into a []string.
// It returns an error if an element is not a string.
func StringList(v any) ([]string, error) {
	switch x := v.(type) {
	case []string:
		return append(make([]string, 0, len(x)), x...), nil
	case []any:
		list := make([]string, len(x))
		for i, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, NewError(RetCTypeMismatch, fmt.Sprintf("element %d of list is %T, not string", i, e))
			}
			list[i] = s
		}
		return list, nil
	default:
		return nil, NewError(RetCTypeMismatch, fmt.Sprintf("value of type %T is not a list", v))
	}
}
