package envelope

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{name: "nil", input: nil, want: NullValue()},
		{name: "bool", input: true, want: BoolValue(true)},
		{name: "int", input: 42, want: IntValue(42)},
		{name: "int64", input: int64(-7), want: IntValue(-7)},
		{name: "uint32", input: uint32(9), want: IntValue(9)},
		{name: "float64", input: 2.5, want: FloatValue(2.5)},
		{name: "string", input: "doctrine", want: StringValue("doctrine")},
		{name: "json number int", input: json.Number("12345"), want: IntValue(12345)},
		{name: "json number float", input: json.Number("1.25"), want: FloatValue(1.25)},
		{
			name:  "list",
			input: []any{1, "two", false},
			want:  ListValue(IntValue(1), StringValue("two"), BoolValue(false)),
		},
		{
			name:  "nested map",
			input: map[string]any{"tags": []any{"a", "b"}, "count": 3},
			want: MapValue(map[string]Value{
				"tags":  ListValue(StringValue("a"), StringValue("b")),
				"count": IntValue(3),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.input)
			if err != nil {
				t.Fatalf("FromAny(%v) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("FromAny(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromAnyUnsupported(t *testing.T) {
	if _, err := FromAny(struct{ X int }{X: 1}); err == nil {
		t.Error("FromAny(struct) error = nil, want unsupported type error")
	}
}

func TestValueZeroIsNull(t *testing.T) {
	var v Value
	if v.Kind() != KindNull {
		t.Errorf("zero Value Kind() = %v, want %v", v.Kind(), KindNull)
	}
	if !v.IsNull() {
		t.Error("zero Value IsNull() = false, want true")
	}
	if !v.Equal(NullValue()) {
		t.Error("zero Value should equal NullValue()")
	}
}

func TestValueEqualDistinguishesKinds(t *testing.T) {
	if IntValue(3).Equal(FloatValue(3.0)) {
		t.Error("IntValue(3).Equal(FloatValue(3.0)) = true, want false")
	}
	if StringValue("3").Equal(IntValue(3)) {
		t.Error("StringValue(\"3\").Equal(IntValue(3)) = true, want false")
	}
}

func TestValueConstructorsCopyInputs(t *testing.T) {
	entries := map[string]Value{"a": IntValue(1)}
	v := MapValue(entries)
	entries["b"] = IntValue(2)
	if v.Len() != 1 {
		t.Errorf("MapValue snapshot Len() = %d, want 1", v.Len())
	}

	items := []Value{IntValue(1), IntValue(2)}
	list := ListValue(items...)
	items[0] = IntValue(99)
	got, _ := list.AsList()
	if first, _ := got[0].AsInt(); first != 1 {
		t.Errorf("ListValue snapshot first item = %d, want 1", first)
	}
}

func TestValueAccessorsReturnCopies(t *testing.T) {
	v := MapValue(map[string]Value{"a": IntValue(1)})
	m, ok := v.AsMap()
	if !ok {
		t.Fatal("AsMap() ok = false, want true")
	}
	m["b"] = IntValue(2)
	if v.Len() != 1 {
		t.Errorf("Value mutated through AsMap() copy: Len() = %d, want 1", v.Len())
	}
}

func TestValueKeysSorted(t *testing.T) {
	v := MapValue(map[string]Value{"zeta": NullValue(), "alpha": NullValue(), "mid": NullValue()})
	keys := v.Keys()
	want := []string{"alpha", "mid", "zeta"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value Value
	}{
		{name: "null", value: NullValue()},
		{name: "bool", value: BoolValue(true)},
		{name: "int", value: IntValue(-42)},
		{name: "float", value: FloatValue(2.5)},
		{name: "integral float keeps kind", value: FloatValue(3)},
		{name: "string", value: StringValue("with \"quotes\" and \n newline")},
		{name: "list", value: ListValue(IntValue(1), StringValue("two"), NullValue())},
		{
			name: "nested map",
			value: MapValue(map[string]Value{
				"weight": FloatValue(1),
				"tags":   ListValue(StringValue("a")),
				"inner":  MapValue(map[string]Value{"deep": BoolValue(false)}),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			var got Value
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", data, err)
			}
			if !got.Equal(tt.value) {
				t.Errorf("round trip of %v through %s = %v", tt.value, data, got)
			}
		})
	}
}

func TestValueJSONDeterministic(t *testing.T) {
	v := MapValue(map[string]Value{
		"zeta":  IntValue(1),
		"alpha": IntValue(2),
		"mid":   IntValue(3),
	})
	first, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(next) != string(first) {
			t.Fatalf("Marshal() not deterministic: %s vs %s", first, next)
		}
	}
	want := `{"alpha":2,"mid":3,"zeta":1}`
	if string(first) != want {
		t.Errorf("Marshal() = %s, want %s", first, want)
	}
}

func TestValueYAMLDecodeTyping(t *testing.T) {
	source := `
count: 7
ratio: 0.5
whole: 3.0
name: launch
enabled: true
missing: null
tags:
  - a
  - b
`
	var v Value
	if err := yaml.Unmarshal([]byte(source), &v); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	tests := []struct {
		key  string
		want Kind
	}{
		{key: "count", want: KindInt},
		{key: "ratio", want: KindFloat},
		{key: "whole", want: KindFloat},
		{key: "name", want: KindString},
		{key: "enabled", want: KindBool},
		{key: "missing", want: KindNull},
		{key: "tags", want: KindList},
	}
	for _, tt := range tests {
		entry, ok := v.Get(tt.key)
		if !ok {
			t.Errorf("Get(%q) missing", tt.key)
			continue
		}
		if entry.Kind() != tt.want {
			t.Errorf("Get(%q).Kind() = %v, want %v", tt.key, entry.Kind(), tt.want)
		}
	}
}

func TestValueYAMLRoundTrip(t *testing.T) {
	v := MapValue(map[string]Value{
		"whole":  FloatValue(3),
		"count":  IntValue(7),
		"nested": ListValue(BoolValue(true), NullValue()),
	})
	data, err := yaml.Marshal(v)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	var got Value
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("yaml.Unmarshal(%s) error = %v", data, err)
	}
	if !got.Equal(v) {
		t.Errorf("YAML round trip = %v, want %v", got, v)
	}
}

func TestValueToAny(t *testing.T) {
	v := MapValue(map[string]Value{
		"count": IntValue(7),
		"tags":  ListValue(StringValue("a")),
	})
	raw := v.ToAny()
	m, ok := raw.(map[string]any)
	if !ok {
		t.Fatalf("ToAny() type = %T, want map[string]any", raw)
	}
	if m["count"] != int64(7) {
		t.Errorf("ToAny()[count] = %v, want int64(7)", m["count"])
	}
}
