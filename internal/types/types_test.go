package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNodeValue_Constructors(t *testing.T) {
	if got := Num(42).Kind(); got != ValueNum {
		t.Errorf("Num(42).Kind() = %v, want ValueNum", got)
	}
	if got := Str("velo").Kind(); got != ValueStr {
		t.Errorf("Str(velo).Kind() = %v, want ValueStr", got)
	}
	if got := Boolean(true).Kind(); got != ValueBool {
		t.Errorf("Boolean(true).Kind() = %v, want ValueBool", got)
	}
	if !Empty().IsEmpty() {
		t.Error("Empty().IsEmpty() = false, want true")
	}

	var zero NodeValue
	if !zero.IsEmpty() {
		t.Error("zero NodeValue must be Empty")
	}
}

func TestNodeValue_Accessors(t *testing.T) {
	if v, ok := Num(1.5).AsNumber(); !ok || v != 1.5 {
		t.Errorf("AsNumber() = %v, %v, want 1.5, true", v, ok)
	}
	if _, ok := Num(1.5).AsString(); ok {
		t.Error("Num.AsString() ok = true, want false")
	}
	if s, ok := Str("a").AsString(); !ok || s != "a" {
		t.Errorf("AsString() = %v, %v, want a, true", s, ok)
	}
	if b, ok := Boolean(true).AsBool(); !ok || !b {
		t.Errorf("AsBool() = %v, %v, want true, true", b, ok)
	}
	if _, ok := Empty().AsNumber(); ok {
		t.Error("Empty.AsNumber() ok = true, want false")
	}
}

func TestNodeValue_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value NodeValue
		wire  string
	}{
		{"number", Num(42), `{"type":"number","number":42}`},
		{"negative number", Num(-0.5), `{"type":"number","number":-0.5}`},
		{"string", Str("velo"), `{"type":"string","string":"velo"}`},
		{"boolean true", Boolean(true), `{"type":"boolean","boolean":true}`},
		{"boolean false", Boolean(false), `{"type":"boolean","boolean":false}`},
		{"empty", Empty(), `{"type":"empty"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.wire {
				t.Errorf("Marshal() = %s, want %s", data, tt.wire)
			}

			var decoded NodeValue
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !decoded.Equal(tt.value) {
				t.Errorf("round-trip = %v, want %v", decoded, tt.value)
			}
		})
	}
}

func TestNodeValue_UnmarshalRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown tag", `{"type":"date","number":1}`},
		{"number without payload", `{"type":"number"}`},
		{"string without payload", `{"type":"string"}`},
		{"boolean without payload", `{"type":"boolean"}`},
		{"bare scalar", `42`},
		{"malformed", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v NodeValue
			err := json.Unmarshal([]byte(tt.data), &v)
			if err == nil {
				t.Fatal("Unmarshal() error = nil, want decode error")
			}
			if !errors.Is(err, ErrDecodeValue) {
				t.Errorf("Unmarshal() error = %v, want ErrDecodeValue", err)
			}
		})
	}
}

// Property-based test: every variant survives the wire encoding.
func TestNodeValue_PropertyRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("tagged encoding round-trips", prop.ForAll(
		func(kind int, f float64, s string, b bool) bool {
			var value NodeValue
			switch kind {
			case 0:
				value = Empty()
			case 1:
				value = Num(f)
			case 2:
				value = Str(s)
			default:
				value = Boolean(b)
			}

			data, err := json.Marshal(value)
			if err != nil {
				return false
			}
			var decoded NodeValue
			if err := json.Unmarshal(data, &decoded); err != nil {
				return false
			}
			return decoded.Equal(value)
		},
		gen.IntRange(0, 3),
		gen.Float64Range(-1e12, 1e12),
		gen.AnyString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestEvaluation_JSONShape(t *testing.T) {
	eval := Evaluation{
		NodeValue:        Num(3250),
		MissingVariables: []RuleName{"transport . voiture . km"},
		IsNullable:       true,
	}

	data, err := json.Marshal(eval)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded Evaluation
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !decoded.NodeValue.Equal(eval.NodeValue) {
		t.Errorf("NodeValue = %v, want %v", decoded.NodeValue, eval.NodeValue)
	}
	if len(decoded.MissingVariables) != 1 || decoded.MissingVariables[0] != "transport . voiture . km" {
		t.Errorf("MissingVariables = %v", decoded.MissingVariables)
	}
	if !decoded.IsNullable {
		t.Error("IsNullable = false, want true")
	}
}
