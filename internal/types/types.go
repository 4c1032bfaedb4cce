// Package types provides domain models shared across tallyboard components.
//
// Zero-dependency design: types.go and errors.go use only encoding/json so the
// value model can be embedded anywhere without pulling transport or storage
// deps. Session ID utilities in ids.go import uuid but are isolated for
// selective inclusion.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// RuleName identifies a rule in the external engine's dependency graph.
// Opaque, namespaced path format with segments joined by NamespaceDelimiter.
// Equality is exact string equality; no normalization is performed.
type RuleName string

// ValueKind discriminates the four NodeValue variants.
type ValueKind int

const (
	ValueEmpty ValueKind = iota
	ValueNum
	ValueStr
	ValueBool
)

// NodeValue is the closed value space for both user answers and engine
// outputs: a number, a string, a boolean, or the explicit empty value.
// The zero NodeValue is Empty, so map lookups degrade safely.
type NodeValue struct {
	kind ValueKind
	num  float64
	str  string
	b    bool
}

// Num constructs a numeric NodeValue.
func Num(v float64) NodeValue { return NodeValue{kind: ValueNum, num: v} }

// Str constructs a string NodeValue.
func Str(v string) NodeValue { return NodeValue{kind: ValueStr, str: v} }

// Boolean constructs a boolean NodeValue.
func Boolean(v bool) NodeValue { return NodeValue{kind: ValueBool, b: v} }

// Empty constructs the explicit empty value.
func Empty() NodeValue { return NodeValue{} }

// Kind returns the variant tag.
func (v NodeValue) Kind() ValueKind { return v.kind }

// IsEmpty reports whether v is the empty variant.
func (v NodeValue) IsEmpty() bool { return v.kind == ValueEmpty }

// AsNumber returns the numeric payload. ok is false for non-numeric variants.
func (v NodeValue) AsNumber() (f float64, ok bool) {
	return v.num, v.kind == ValueNum
}

// AsString returns the string payload. ok is false for non-string variants.
func (v NodeValue) AsString() (s string, ok bool) {
	return v.str, v.kind == ValueStr
}

// AsBool returns the boolean payload. ok is false for non-boolean variants.
func (v NodeValue) AsBool() (b bool, ok bool) {
	return v.b, v.kind == ValueBool
}

// Equal compares both variant tag and payload.
func (v NodeValue) Equal(other NodeValue) bool { return v == other }

// String renders a debugging representation. Presentation formatting
// (locale decimals, oui/non) lives in internal/form.
func (v NodeValue) String() string {
	switch v.kind {
	case ValueNum:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueStr:
		return v.str
	case ValueBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Wire encoding is a self-describing tagged envelope so the four variants
// survive JSON round-trips without type sniffing:
//
//	{"type":"number","number":42}
//	{"type":"string","string":"velo"}
//	{"type":"boolean","boolean":true}
//	{"type":"empty"}
type nodeValueJSON struct {
	Type    string   `json:"type"`
	Number  *float64 `json:"number,omitempty"`
	String  *string  `json:"string,omitempty"`
	Boolean *bool    `json:"boolean,omitempty"`
}

const (
	tagNumber  = "number"
	tagString  = "string"
	tagBoolean = "boolean"
	tagEmpty   = "empty"
)

// MarshalJSON implements json.Marshaler using the tagged envelope.
func (v NodeValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNum:
		n := v.num
		return json.Marshal(nodeValueJSON{Type: tagNumber, Number: &n})
	case ValueStr:
		s := v.str
		return json.Marshal(nodeValueJSON{Type: tagString, String: &s})
	case ValueBool:
		b := v.b
		return json.Marshal(nodeValueJSON{Type: tagBoolean, Boolean: &b})
	default:
		return json.Marshal(nodeValueJSON{Type: tagEmpty})
	}
}

// UnmarshalJSON implements json.Unmarshaler. A missing payload for a tagged
// variant or an unknown tag is a decode error, not a silent Empty.
func (v *NodeValue) UnmarshalJSON(data []byte) error {
	var wire nodeValueJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeValue, err)
	}

	switch wire.Type {
	case tagNumber:
		if wire.Number == nil {
			return fmt.Errorf("%w: number variant without number payload", ErrDecodeValue)
		}
		*v = Num(*wire.Number)
	case tagString:
		if wire.String == nil {
			return fmt.Errorf("%w: string variant without string payload", ErrDecodeValue)
		}
		*v = Str(*wire.String)
	case tagBoolean:
		if wire.Boolean == nil {
			return fmt.Errorf("%w: boolean variant without boolean payload", ErrDecodeValue)
		}
		*v = Boolean(*wire.Boolean)
	case tagEmpty:
		*v = Empty()
	default:
		return fmt.Errorf("%w: unknown value type %q", ErrDecodeValue, wire.Type)
	}
	return nil
}
