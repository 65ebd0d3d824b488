package apiclient

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Kind identifies which variant a JSONValue holds.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindBoolean
	KindInstant
	KindSequence
	KindMapping
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindInstant:
		return "instant"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// JSONValue is a recursive tagged value unifying JSON-ish data. It is pure
// data: every operation either reads the value or returns a new one.
//
// Opaque exists only as a construction-time fallback for native values that
// match no other variant.
type JSONValue struct {
	kind    Kind
	num     float64
	text    string
	boolean bool
	instant time.Time
	seq     []JSONValue
	mapping map[string]JSONValue
	opaque  any
}

// Null returns the null JSONValue.
func Null() JSONValue { return JSONValue{kind: KindNull} }

// Number builds a numeric JSONValue.
func Number(n float64) JSONValue { return JSONValue{kind: KindNumber, num: n} }

// Text builds a textual JSONValue.
func Text(s string) JSONValue { return JSONValue{kind: KindText, text: s} }

// Boolean builds a boolean JSONValue.
func Boolean(b bool) JSONValue { return JSONValue{kind: KindBoolean, boolean: b} }

// Instant builds a date/time JSONValue.
func Instant(t time.Time) JSONValue { return JSONValue{kind: KindInstant, instant: t} }

// Sequence builds an ordered JSONValue list.
func Sequence(items ...JSONValue) JSONValue {
	seq := make([]JSONValue, len(items))
	copy(seq, items)
	return JSONValue{kind: KindSequence, seq: seq}
}

// Mapping builds a keyed JSONValue. Duplicate keys follow last-write-wins.
func Mapping(entries map[string]JSONValue) JSONValue {
	mapping := make(map[string]JSONValue, len(entries))
	for k, v := range entries {
		mapping[k] = v
	}
	return JSONValue{kind: KindMapping, mapping: mapping}
}

// Construct inspects the runtime shape of native and selects the matching
// variant. All Go numeric kinds become Number, time.Time becomes Instant,
// slices and arrays become Sequence, string-keyed maps become Mapping.
// Anything else falls back to Opaque.
func Construct(native any) JSONValue {
	if native == nil {
		return Null()
	}
	switch v := native.(type) {
	case JSONValue:
		return v
	case string:
		return Text(v)
	case bool:
		return Boolean(v)
	case time.Time:
		return Instant(v)
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int8:
		return Number(float64(v))
	case int16:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint8:
		return Number(float64(v))
	case uint16:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return Number(f)
		}
		return Text(v.String())
	}

	rv := reflect.ValueOf(native)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		seq := make([]JSONValue, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			seq[i] = Construct(rv.Index(i).Interface())
		}
		return JSONValue{kind: KindSequence, seq: seq}
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			mapping := make(map[string]JSONValue, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				mapping[iter.Key().String()] = Construct(iter.Value().Interface())
			}
			return JSONValue{kind: KindMapping, mapping: mapping}
		}
	}
	return JSONValue{kind: KindOpaque, opaque: native}
}

// Kind reports which variant the value holds.
func (v JSONValue) Kind() Kind { return v.kind }

// IsNull reports whether the value is the null variant.
func (v JSONValue) IsNull() bool { return v.kind == KindNull }

// Get looks up key. On a non-mapping value, or for an absent key, it
// returns the null value, never an error.
func (v JSONValue) Get(key string) JSONValue {
	if v.kind != KindMapping {
		return Null()
	}
	entry, ok := v.mapping[key]
	if !ok {
		return Null()
	}
	return entry
}

// Set returns a copy of the value with key set. When the receiver is not a
// mapping the write is silently discarded and the receiver is returned
// unchanged; callers that need a mapping must construct one first.
func (v JSONValue) Set(value JSONValue, key string) JSONValue {
	if v.kind != KindMapping {
		return v
	}
	mapping := make(map[string]JSONValue, len(v.mapping)+1)
	for k, entry := range v.mapping {
		mapping[k] = entry
	}
	mapping[key] = value
	return JSONValue{kind: KindMapping, mapping: mapping}
}

// Unwrap recursively strips the variant tag, returning native Go data.
// The conversion is lossy: null entries unwrap to nothing, and sequences
// and mappings drop any element whose recursive unwrap yields nothing.
// The second return value reports whether the value itself unwrapped to
// anything.
func (v JSONValue) Unwrap() (any, bool) {
	switch v.kind {
	case KindNull:
		return nil, false
	case KindNumber:
		return v.num, true
	case KindText:
		return v.text, true
	case KindBoolean:
		return v.boolean, true
	case KindInstant:
		return v.instant, true
	case KindSequence:
		out := make([]any, 0, len(v.seq))
		for _, item := range v.seq {
			if native, ok := item.Unwrap(); ok {
				out = append(out, native)
			}
		}
		return out, true
	case KindMapping:
		out := make(map[string]any, len(v.mapping))
		for key, entry := range v.mapping {
			if native, ok := entry.Unwrap(); ok {
				out[key] = native
			}
		}
		return out, true
	case KindOpaque:
		return v.opaque, v.opaque != nil
	default:
		return nil, false
	}
}

// AsNumber returns the numeric payload, if the value is a number.
func (v JSONValue) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsText returns the text payload, if the value is text.
func (v JSONValue) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsBool returns the boolean payload, if the value is a boolean.
func (v JSONValue) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBoolean
}

// AsInstant returns the time payload, if the value is an instant.
func (v JSONValue) AsInstant() (time.Time, bool) {
	return v.instant, v.kind == KindInstant
}

// AsSequence returns a copy of the element list, if the value is a sequence.
func (v JSONValue) AsSequence() ([]JSONValue, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	out := make([]JSONValue, len(v.seq))
	copy(out, v.seq)
	return out, true
}

// AsMapping returns a copy of the entry map, if the value is a mapping.
func (v JSONValue) AsMapping() (map[string]JSONValue, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	out := make(map[string]JSONValue, len(v.mapping))
	for k, entry := range v.mapping {
		out[k] = entry
	}
	return out, true
}

// GetAs looks up key via Get and downcasts the unwrapped payload to T.
// It returns the zero T and false on a type mismatch or a null result.
func GetAs[T any](v JSONValue, key string) (T, bool) {
	var zero T
	native, ok := v.Get(key).Unwrap()
	if !ok {
		return zero, false
	}
	typed, ok := native.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// MarshalJSON serializes the value through its unwrapped form, so a
// materialized JSON body reads like plain JSON rather than a tagged tree.
func (v JSONValue) MarshalJSON() ([]byte, error) {
	native, ok := v.Unwrap()
	if !ok {
		return []byte("null"), nil
	}
	return json.Marshal(native)
}
