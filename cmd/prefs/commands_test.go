package prefs

import (
	"context"
	"testing"

	"github.com/ValentinKolb/kvprefs/lib/prefs"
	"github.com/ValentinKolb/kvprefs/lib/store"
	"github.com/ValentinKolb/kvprefs/lib/store/mstore"
	"github.com/google/go-cmp/cmp"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name      string
		valueType store.ValueType
		raw       string
		expected  any
		wantErr   bool
	}{
		{"Bool", store.TypeBool, "true", true, false},
		{"InvalidBool", store.TypeBool, "yes please", nil, true},
		{"Int", store.TypeInt, "-42", int64(-42), false},
		{"InvalidInt", store.TypeInt, "4.2", nil, true},
		{"Double", store.TypeDouble, "2.5", 2.5, false},
		{"String", store.TypeString, "dark mode", "dark mode", false},
		{"CommaList", store.TypeStringList, "a,b,c", []string{"a", "b", "c"}, false},
		{"JSONList", store.TypeStringList, `["a,b", "c"]`, []string{"a,b", "c"}, false},
		{"EmptyList", store.TypeStringList, "", []string{}, false},
		{"InvalidJSONList", store.TypeStringList, `["a"`, nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := parseValue(tc.valueType, tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if v.Type != tc.valueType {
				t.Errorf("Expected type %s, got %s", tc.valueType, v.Type)
			}
			if diff := cmp.Diff(tc.expected, v.Any()); diff != "" {
				t.Errorf("Unexpected value (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseImport(t *testing.T) {
	data := []byte(`{
		"launches": {"type": "int", "value": 3},
		"ratio": {"type": "double", "value": 1.0},
		"tabs": {"type": "string-list", "value": ["home"]}
	}`)

	values, err := parseImport(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := map[string]any{}
	for k, v := range values {
		got[k] = v.Any()
	}
	expected := map[string]any{"launches": int64(3), "ratio": 1.0, "tabs": []string{"home"}}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Unexpected import (-want +got):\n%s", diff)
	}

	if _, err := parseImport([]byte(`{"k": 3}`)); err == nil {
		t.Error("Expected error for untagged value")
	}
}

func TestSetValue(t *testing.T) {
	ctx := context.Background()
	registry, err := prefs.NewRegistry(mstore.NewMemoryBackend())
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	p, err := registry.GetInstance(ctx, "")
	if err != nil {
		t.Fatalf("GetInstance failed: %v", err)
	}

	for _, raw := range []struct {
		key       string
		valueType store.ValueType
		raw       string
	}{
		{"flag", store.TypeBool, "false"},
		{"n", store.TypeInt, "7"},
		{"pi", store.TypeDouble, "3.14"},
		{"name", store.TypeString, "x"},
		{"tabs", store.TypeStringList, "a,b"},
	} {
		v, err := parseValue(raw.valueType, raw.raw)
		if err != nil {
			t.Fatalf("parseValue(%s) failed: %v", raw.key, err)
		}
		ok, err := setValue(ctx, p, raw.key, v).Result()
		if err != nil || !ok {
			t.Fatalf("setValue(%s) = (%t, %v)", raw.key, ok, err)
		}
	}

	values, err := registry.Backend().GetAll(ctx, "")
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	expected := map[string]any{"flag": false, "n": int64(7), "pi": 3.14, "name": "x", "tabs": []string{"a", "b"}}
	if diff := cmp.Diff(expected, values); diff != "" {
		t.Errorf("Unexpected backend state (-want +got):\n%s", diff)
	}

	if _, err := setValue(ctx, p, "bad", store.Value{}).Result(); err == nil {
		t.Error("Expected error for untyped value")
	}
}

func TestFormatValue(t *testing.T) {
	if got := formatValue([]string{"a"}); got != `type=string-list, value=["a"]` {
		t.Errorf("Unexpected format: %s", got)
	}
	if got := formatValue(int64(3)); got != "type=int, value=3" {
		t.Errorf("Unexpected format: %s", got)
	}
}
