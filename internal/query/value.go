package query

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Kind enumerates the closed set of cell types a row can carry.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a single result cell. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	float   float64
	isFloat bool
	text    string
	object  any
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

func Int(i int64) Value { return Value{kind: KindNumber, integer: i} }

func Float(f float64) Value {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return Int(int64(f))
	}
	return Value{kind: KindNumber, float: f, isFloat: true}
}

func String(s string) Value { return Value{kind: KindString, text: s} }

// Object wraps a structured value (map, slice) decoded from a JSON column.
func Object(v any) Value {
	if v == nil {
		return Null()
	}
	return Value{kind: KindObject, object: v}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool { return v.boolean }

// Number returns the numeric value as float64.
func (v Value) Number() float64 {
	if v.isFloat {
		return v.float
	}
	return float64(v.integer)
}

// Int64 returns the numeric value truncated to an integer. Non-numbers
// parse their text form and yield 0 on failure.
func (v Value) Int64() int64 {
	switch v.kind {
	case KindNumber:
		if v.isFloat {
			return int64(v.float)
		}
		return v.integer
	case KindString:
		i, _ := strconv.ParseInt(v.text, 10, 64)
		return i
	case KindBool:
		if v.boolean {
			return 1
		}
	}
	return 0
}

// IsInteger reports whether a number value carries no fractional part.
func (v Value) IsInteger() bool { return v.kind == KindNumber && !v.isFloat }

// Text returns the string payload; empty for non-strings.
func (v Value) Text() string { return v.text }

func (v Value) Object() any { return v.object }

// String renders the value in its natural form. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindNumber:
		if v.isFloat {
			return formatFloat(v.float)
		}
		return strconv.FormatInt(v.integer, 10)
	case KindString:
		return v.text
	case KindObject:
		encoded, err := json.Marshal(v.object)
		if err != nil {
			return fmt.Sprint(v.object)
		}
		return string(encoded)
	default:
		return ""
	}
}

// Any returns the Go representation used when a value is bound back as a parameter.
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		if v.isFloat {
			return v.float
		}
		return v.integer
	case KindString:
		return v.text
	case KindObject:
		return v.object
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.text)
	case KindObject:
		return json.Marshal(v.object)
	case KindNumber:
		if !v.IsFinite() {
			// JSON has no NaN or Infinity tokens
			return json.Marshal(v.String())
		}
		return []byte(v.String()), nil
	default:
		return []byte(v.String()), nil
	}
}

// IsFinite reports false only for NaN and infinite floats.
func (v Value) IsFinite() bool {
	return !v.isFloat || !(math.IsNaN(v.float) || math.IsInf(v.float, 0))
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return err
	}

	converted, err := FromParameter(raw)
	if err != nil {
		*v = Object(raw)
		return nil
	}
	*v = converted
	return nil
}

// FromParameter converts a decoded JSON parameter into a scalar Value.
// Structured parameters are rejected: statements only accept scalars.
func FromParameter(raw any) (Value, error) {
	switch p := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(p), nil
	case string:
		return String(p), nil
	case json.Number:
		if i, err := p.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := p.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q", p.String())
		}
		return Float(f), nil
	case float64:
		return Float(p), nil
	case int:
		return Int(int64(p)), nil
	case int64:
		return Int(p), nil
	default:
		return Value{}, fmt.Errorf("parameter of type %T is not a scalar", raw)
	}
}

// fromDriver converts a value produced by database/sql scanning into a Value.
// databaseType is the driver's column type name (e.g. JSONB, NUMERIC, TEXT).
func fromDriver(raw any, databaseType string) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case int64:
		return Int(t)
	case int32:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int:
		return Int(int64(t))
	case uint64:
		if t > math.MaxInt64 {
			return Float(float64(t))
		}
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case float64:
		return Float(t)
	case float32:
		return Float(float64(t))
	case time.Time:
		return String(t.UTC().Format(time.RFC3339Nano))
	case []byte:
		return fromText(string(t), databaseType)
	case string:
		return fromText(t, databaseType)
	default:
		return Object(t)
	}
}

func fromText(text, databaseType string) Value {
	switch databaseType {
	case "JSON", "JSONB":
		var decoded any
		if err := json.Unmarshal([]byte(text), &decoded); err == nil {
			return Object(decoded)
		}
	case "NUMERIC", "DECIMAL":
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return Float(f)
		}
	case "BOOL", "BOOLEAN":
		if b, err := strconv.ParseBool(text); err == nil {
			return Bool(b)
		}
	}
	return String(text)
}
