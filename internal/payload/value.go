package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is a schema-less JSON value carried by the Build payload.
// The zero Value is null.
type Value struct {
	kind ValueKind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

func Null() Value                          { return Value{} }
func Bool(b bool) Value                    { return Value{kind: KindBool, b: b} }
func Number(n float64) Value               { return Value{kind: KindNumber, n: n} }
func String(s string) Value                { return Value{kind: KindString, s: s} }
func Array(items ...Value) Value           { return Value{kind: KindArray, arr: items} }
func Object(fields map[string]Value) Value { return Value{kind: KindObject, obj: fields} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool)      { return v.b, v.kind == KindBool }
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }
func (v Value) AsString() (string, bool)  { return v.s, v.kind == KindString }
func (v Value) AsArray() ([]Value, bool)  { return v.arr, v.kind == KindArray }
func (v Value) AsObject() (map[string]Value, bool) {
	return v.obj, v.kind == KindObject
}

// Equal compares values structurally.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return equalObjects(v.obj, o.obj)
	}
	return false
}

func equalObjects(a, b map[string]Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	return true
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		items := v.arr
		if items == nil {
			items = []Value{}
		}
		return json.Marshal(items)
	case KindObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(k)
			buf.Write(key)
			buf.WriteByte(':')
			val, err := v.obj[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("payload: unknown value kind %d", v.kind)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = fromAny(raw)
	return nil
}

func fromAny(raw any) Value {
	switch x := raw.(type) {
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case string:
		return String(x)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = fromAny(item)
		}
		return Array(items...)
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, item := range x {
			fields[k] = fromAny(item)
		}
		return Object(fields)
	}
	return Null()
}
