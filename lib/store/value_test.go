package store

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValueJSONKeepsType(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		json string
	}{
		{"Bool", Value{Type: TypeBool, Bool: true}, `{"type":"bool","value":true}`},
		{"Int", Value{Type: TypeInt, Int: math.MaxInt64}, `{"type":"int","value":9223372036854775807}`},
		{"IntegralDouble", Value{Type: TypeDouble, Double: 1}, `{"type":"double","value":1}`},
		{"String", Value{Type: TypeString, String: "hi"}, `{"type":"string","value":"hi"}`},
		{"List", Value{Type: TypeStringList, List: []string{"a"}}, `{"type":"string-list","value":["a"]}`},
		{"EmptyList", Value{Type: TypeStringList, List: []string{}}, `{"type":"string-list","value":[]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.in)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tc.json {
				t.Errorf("Expected %s, got %s", tc.json, data)
			}

			var out Value
			if err := json.Unmarshal(data, &out); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if diff := cmp.Diff(tc.in.Any(), out.Any()); diff != "" {
				t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValueJSONNonFiniteDoubles(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		json string
	}{
		{"NaN", math.NaN(), `{"type":"double","value":"NaN"}`},
		{"PosInf", math.Inf(1), `{"type":"double","value":"+Inf"}`},
		{"NegInf", math.Inf(-1), `{"type":"double","value":"-Inf"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(Value{Type: TypeDouble, Double: tc.in})
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tc.json {
				t.Errorf("Expected %s, got %s", tc.json, data)
			}

			var out Value
			if err := json.Unmarshal(data, &out); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if out.Type != TypeDouble {
				t.Errorf("Expected double, got %s", out.Type)
			}
			if math.IsNaN(tc.in) {
				if !math.IsNaN(out.Double) {
					t.Errorf("Expected NaN, got %v", out.Double)
				}
			} else if out.Double != tc.in {
				t.Errorf("Expected %v, got %v", tc.in, out.Double)
			}
		})
	}

	// finite doubles are only accepted as numbers
	var v Value
	if err := json.Unmarshal([]byte(`{"type":"double","value":"1.5"}`), &v); err == nil {
		t.Error("Expected an error for a finite double written as string")
	}
}

func TestValueUnmarshalUnknownType(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"type":"map","value":{}}`), &v); err == nil {
		t.Error("Expected an error for an unknown type")
	}
	if err := json.Unmarshal([]byte(`{"type":"int","value":1.5}`), &v); err == nil {
		t.Error("Expected an error for a fractional int")
	}
}

func TestNewValueChecksType(t *testing.T) {
	if _, err := NewValue(TypeInt, 5); err == nil {
		t.Error("int is not int64 and must be rejected by NewValue")
	}

	list := []string{"a"}
	v, err := NewValue(TypeStringList, list)
	if err != nil {
		t.Fatal(err)
	}
	list[0] = "changed"
	if v.List[0] != "a" {
		t.Error("NewValue must copy lists")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in       any
		expected any
	}{
		{int(1), int64(1)},
		{int8(-2), int64(-2)},
		{uint32(3), int64(3)},
		{float32(0.25), float64(0.25)},
		{"s", "s"},
		{true, true},
		{[]any{"a"}, []any{"a"}},
	}
	for _, tc := range cases {
		got, err := Normalize(tc.in)
		if err != nil {
			t.Errorf("Normalize(%#v) failed: %v", tc.in, err)
			continue
		}
		if diff := cmp.Diff(tc.expected, got); diff != "" {
			t.Errorf("Normalize(%#v) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}

	// generic lists are copied
	seed := []any{"a"}
	got, err := Normalize(seed)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	seed[0] = "mutated"
	if diff := cmp.Diff([]any{"a"}, got); diff != "" {
		t.Errorf("Normalized list shares the input's backing array (-want +got):\n%s", diff)
	}

	for _, bad := range []any{uint64(math.MaxUint64), struct{}{}, nil, map[string]any{}} {
		_, err := Normalize(bad)
		var storeErr *Error
		if !errors.As(err, &storeErr) || storeErr.Code != RetCTypeMismatch {
			t.Errorf("Normalize(%#v): expected type mismatch, got %v", bad, err)
		}
	}
}

func TestStringList(t *testing.T) {
	got, err := StringList([]any{"a", "b"})
	if err != nil || !cmp.Equal(got, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v (%v)", got, err)
	}
	if _, err := StringList([]any{"a", 1}); err == nil {
		t.Error("Expected an error for a non-string element")
	}
	if _, err := StringList("a"); err == nil {
		t.Error("Expected an error for a non-list")
	}
}

func TestParseValueType(t *testing.T) {
	for _, vt := range []ValueType{TypeBool, TypeInt, TypeDouble, TypeString, TypeStringList} {
		parsed, err := ParseValueType(vt.String())
		if err != nil || parsed != vt {
			t.Errorf("ParseValueType(%q) = %v, %v", vt.String(), parsed, err)
		}
	}
	if _, err := ParseValueType("float"); err == nil {
		t.Error("Expected an error for an unknown name")
	}
}

func TestErrorIs(t *testing.T) {
	err := error(NewError(RetCContractViolation, "missing reply"))
	if !errors.Is(err, &Error{Code: RetCContractViolation}) {
		t.Error("Errors with the same code should match")
	}
	if errors.Is(err, &Error{Code: RetCInternalError}) {
		t.Error("Errors with different codes should not match")
	}
}
