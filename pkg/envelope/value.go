package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind represents the type of a payload value. Payloads carry loosely
// structured business data, but the type is always explicit; there is no
// automatic coercion between kinds.
type Kind string

const (
	KindNull   Kind = "null"
	KindBool   Kind = "boolean"
	KindInt    Kind = "integer"
	KindFloat  Kind = "float"
	KindString Kind = "string"
	KindList   Kind = "list"
	KindMap    Kind = "map"
)

// Value is a tagged union over the payload kinds. Values are immutable:
// constructors copy their inputs and accessors return copies, so a Value
// can be shared between envelope copies without aliasing surprises.
//
// The zero Value is the null value.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

// NullValue returns the null value.
func NullValue() Value {
	return Value{kind: KindNull}
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// IntValue returns an integer value.
func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// FloatValue returns a float value.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// StringValue returns a string value.
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// ListValue returns a list value holding copies of the given items.
func ListValue(items ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), items...)}
}

// MapValue returns a map value holding copies of the given entries.
func MapValue(entries map[string]Value) Value {
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Value{kind: KindMap, m: m}
}

// FromAny converts a plain Go value into a Value. It accepts the types
// produced by JSON and YAML decoding plus the common Go numerics; anything
// else is an error.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return x, nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return IntValue(int64(x)), nil
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("unsigned value %d overflows the integer payload kind", x)
		}
		return IntValue(int64(x)), nil
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	case string:
		return StringValue(x), nil
	case time.Time:
		return StringValue(x.Format(time.RFC3339Nano)), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("number %q is not representable as a payload value", x.String())
		}
		return FloatValue(f), nil
	case []Value:
		return ListValue(x...), nil
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = converted
		}
		return Value{kind: KindList, list: items}, nil
	case map[string]Value:
		return MapValue(x), nil
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, item := range x {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			m[k] = converted
		}
		return Value{kind: KindMap, m: m}, nil
	default:
		return Value{}, fmt.Errorf("unsupported payload type %T", v)
	}
}

// Kind returns the kind of the value. The zero Value reports KindNull.
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.Kind() == KindNull
}

// AsBool returns the boolean content. The second result is false when the
// value is not a boolean.
func (v Value) AsBool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.b, true
}

// AsInt returns the integer content.
func (v Value) AsInt() (int64, bool) {
	if v.Kind() != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the float content.
func (v Value) AsFloat() (float64, bool) {
	if v.Kind() != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsString returns the string content.
func (v Value) AsString() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.s, true
}

// AsList returns a copy of the list content.
func (v Value) AsList() ([]Value, bool) {
	if v.Kind() != KindList {
		return nil, false
	}
	return append([]Value(nil), v.list...), true
}

// AsMap returns a copy of the map content.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.Kind() != KindMap {
		return nil, false
	}
	m := make(map[string]Value, len(v.m))
	for k, item := range v.m {
		m[k] = item
	}
	return m, true
}

// Get returns the entry under key of a map value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind() != KindMap {
		return Value{}, false
	}
	item, ok := v.m[key]
	return item, ok
}

// Keys returns the sorted keys of a map value, or nil for other kinds.
func (v Value) Keys() []string {
	if v.Kind() != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries of a list or map value, 0 otherwise.
func (v Value) Len() int {
	switch v.Kind() {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.m)
	default:
		return 0
	}
}

// Equal reports deep equality. Kinds must match exactly; an integer 3 and
// a float 3.0 are not equal.
func (v Value) Equal(other Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, item := range v.m {
			otherItem, ok := other.m[k]
			if !ok || !item.Equal(otherItem) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ToAny converts the value back into plain Go types: nil, bool, int64,
// float64, string, []any, and map[string]any.
func (v Value) ToAny() any {
	switch v.Kind() {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		items := make([]any, len(v.list))
		for i, item := range v.list {
			items[i] = item.ToAny()
		}
		return items
	case KindMap:
		m := make(map[string]any, len(v.m))
		for k, item := range v.m {
			m[k] = item.ToAny()
		}
		return m
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler. Map keys serialize in sorted
// order, so identical values always produce identical bytes, and integral
// floats keep a fractional part so the float kind survives a decode.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil)
}

func (v Value) appendJSON(dst []byte) ([]byte, error) {
	switch v.Kind() {
	case KindNull:
		return append(dst, "null"...), nil
	case KindBool:
		return strconv.AppendBool(dst, v.b), nil
	case KindInt:
		return strconv.AppendInt(dst, v.i, 10), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("float payload value %v is not representable in JSON", v.f)
		}
		start := len(dst)
		dst = strconv.AppendFloat(dst, v.f, 'g', -1, 64)
		if !bytes.ContainsAny(dst[start:], ".eE") {
			dst = append(dst, '.', '0')
		}
		return dst, nil
	case KindString:
		quoted, err := json.Marshal(v.s)
		if err != nil {
			return nil, err
		}
		return append(dst, quoted...), nil
	case KindList:
		dst = append(dst, '[')
		for i, item := range v.list {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			dst, err = item.appendJSON(dst)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case KindMap:
		dst = append(dst, '{')
		for i, k := range v.Keys() {
			if i > 0 {
				dst = append(dst, ',')
			}
			quoted, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			dst = append(dst, quoted...)
			dst = append(dst, ':')
			dst, err = v.m[k].appendJSON(dst)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	default:
		return nil, fmt.Errorf("unsupported payload kind %q", v.Kind())
	}
}

// UnmarshalJSON implements json.Unmarshaler. Numbers without a fractional
// part decode as integers.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	converted, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = converted
	return nil
}

// MarshalYAML implements yaml.Marshaler. Scalars carry explicit tags so
// integral floats stay floats across a round trip.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.yamlNode()
}

func (v Value) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.ScalarNode}
	switch v.Kind() {
	case KindNull:
		node.Tag = "!!null"
		node.Value = "null"
	case KindBool:
		node.Tag = "!!bool"
		node.Value = strconv.FormatBool(v.b)
	case KindInt:
		node.Tag = "!!int"
		node.Value = strconv.FormatInt(v.i, 10)
	case KindFloat:
		node.Tag = "!!float"
		switch {
		case math.IsNaN(v.f):
			node.Value = ".nan"
		case math.IsInf(v.f, 1):
			node.Value = ".inf"
		case math.IsInf(v.f, -1):
			node.Value = "-.inf"
		default:
			s := strconv.FormatFloat(v.f, 'g', -1, 64)
			if !strings.ContainsAny(s, ".eE") {
				s += ".0"
			}
			node.Value = s
		}
	case KindString:
		node.Tag = "!!str"
		node.Value = v.s
	case KindList:
		node.Kind = yaml.SequenceNode
		node.Tag = "!!seq"
		node.Content = make([]*yaml.Node, len(v.list))
		for i, item := range v.list {
			child, err := item.yamlNode()
			if err != nil {
				return nil, err
			}
			node.Content[i] = child
		}
	case KindMap:
		node.Kind = yaml.MappingNode
		node.Tag = "!!map"
		for _, k := range v.Keys() {
			child, err := v.m[k].yamlNode()
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				child)
		}
	}
	return node, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, preserving the scalar typing
// the YAML source declares.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			*v = NullValue()
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			*v = BoolValue(b)
		case "!!int":
			var i int64
			if err := node.Decode(&i); err != nil {
				return err
			}
			*v = IntValue(i)
		case "!!float":
			var f float64
			if err := node.Decode(&f); err != nil {
				return err
			}
			*v = FloatValue(f)
		default:
			// Strings, timestamps, and any custom scalar tags all land as
			// string payload values.
			*v = StringValue(node.Value)
		}
		return nil

	case yaml.SequenceNode:
		items := make([]Value, len(node.Content))
		for i, child := range node.Content {
			if err := child.Decode(&items[i]); err != nil {
				return err
			}
		}
		*v = Value{kind: KindList, list: items}
		return nil

	case yaml.MappingNode:
		m := make(map[string]Value, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return fmt.Errorf("payload map key at line %d must be a scalar", keyNode.Line)
			}
			var item Value
			if err := valueNode.Decode(&item); err != nil {
				return err
			}
			m[keyNode.Value] = item
		}
		*v = Value{kind: KindMap, m: m}
		return nil

	case yaml.AliasNode:
		return node.Alias.Decode(v)

	default:
		return fmt.Errorf("unsupported payload node kind %d at line %d", node.Kind, node.Line)
	}
}

// String returns a compact display form, mainly for log and error output.
func (v Value) String() string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		data, err := v.MarshalJSON()
		if err != nil {
			return fmt.Sprintf("<%s>", v.Kind())
		}
		return string(data)
	}
}
