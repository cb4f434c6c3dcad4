// FILE: lixenwraith/libconfig/value.go
package libconfig

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the type tag of a setting.
type Kind int

// Kinds are numbered after the C library's type tags.
const (
	KindNone Kind = iota
	KindGroup
	KindInt32
	KindInt64
	KindFloat64
	KindString
	KindBool
	KindArray
	KindList
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindList:
		return "list"
	default:
		return "none"
	}
}

// IsScalar reports whether the kind carries a Value.
func (k Kind) IsScalar() bool {
	switch k {
	case KindInt32, KindInt64, KindFloat64, KindString, KindBool:
		return true
	}
	return false
}

// IsAggregate reports whether the kind carries children.
func (k Kind) IsAggregate() bool {
	return k == KindGroup || k == KindArray || k == KindList
}

// IsNumber reports whether the kind is numeric.
func (k Kind) IsNumber() bool {
	return k == KindInt32 || k == KindInt64 || k == KindFloat64
}

// Format is the display format of an integer setting.
type Format int

const (
	// FormatDefault renders integers in decimal, or in the document default format.
	FormatDefault Format = iota
	// FormatHex renders integers in hexadecimal.
	FormatHex
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatHex {
		return "hex"
	}
	return "default"
}

// Value is an immutable scalar payload: exactly one of int32, int64, float64, bool or string.
// The zero Value has KindNone.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
}

// Int32Value returns a 32-bit integer Value.
func Int32Value(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }

// Int64Value returns a 64-bit integer Value.
func Int64Value(v int64) Value { return Value{kind: KindInt64, i: v} }

// Float64Value returns a float Value.
func Float64Value(v float64) Value { return Value{kind: KindFloat64, f: v} }

// BoolValue returns a boolean Value.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// StringValue returns a string Value.
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// Kind returns the scalar kind, KindNone for the zero Value.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether v is the zero Value.
func (v Value) IsZero() bool { return v.kind == KindNone }

// Int32 returns the payload if v holds an int32.
func (v Value) Int32() (int32, bool) {
	if v.kind != KindInt32 {
		return 0, false
	}
	return int32(v.i), true
}

// Int64 returns the payload if v holds an int64.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindInt64 {
		return 0, false
	}
	return v.i, true
}

// Float64 returns the payload if v holds a float64.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindFloat64 {
		return 0, false
	}
	return v.f, true
}

// Bool returns the payload if v holds a bool.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Str returns the payload if v holds a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Interface returns the payload as int32, int64, float64, bool, string or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt32:
		return int32(v.i)
	case KindInt64:
		return v.i
	case KindFloat64:
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	}
	return nil
}

// String renders the payload for diagnostics; it is not the serialized form.
func (v Value) String() string {
	switch v.kind {
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	}
	return "<none>"
}

// convert returns v as kind k. Only numeric kinds convert; int32 targets are range checked.
func (v Value) convert(k Kind) (Value, bool) {
	if v.kind == k {
		return v, true
	}
	if !v.kind.IsNumber() || !k.IsNumber() {
		return Value{}, false
	}
	switch k {
	case KindFloat64:
		return Float64Value(float64(v.i)), true
	case KindInt64:
		if v.kind == KindFloat64 {
			if math.IsNaN(v.f) || v.f < math.MinInt64 || v.f >= math.MaxInt64 {
				return Value{}, false
			}
			return Int64Value(int64(v.f)), true
		}
		return Int64Value(v.i), true
	case KindInt32:
		n := v.i
		if v.kind == KindFloat64 {
			if math.IsNaN(v.f) || v.f < math.MinInt32 || v.f > math.MaxInt32 {
				return Value{}, false
			}
			n = int64(v.f)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return Value{}, false
		}
		return Int32Value(int32(n)), true
	}
	return Value{}, false
}

// ValueOf builds a Value from a Go scalar. Plain ints become int32 when they fit, int64 otherwise.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case int32:
		return Int32Value(v), nil
	case int64:
		return Int64Value(v), nil
	case int:
		return intValue(int64(v)), nil
	case int8:
		return Int32Value(int32(v)), nil
	case int16:
		return Int32Value(int32(v)), nil
	case uint8:
		return Int32Value(int32(v)), nil
	case uint16:
		return Int32Value(int32(v)), nil
	case uint32:
		return intValue(int64(v)), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: %d overflows int64", ErrTypeMismatch, v)
		}
		return intValue(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: %d overflows int64", ErrTypeMismatch, v)
		}
		return intValue(int64(v)), nil
	case float32:
		return Float64Value(float64(v)), nil
	case float64:
		return Float64Value(v), nil
	case bool:
		return BoolValue(v), nil
	case string:
		return StringValue(v), nil
	case fmt.Stringer:
		return StringValue(v.String()), nil
	}
	return Value{}, fmt.Errorf("%w: cannot store %T as a scalar", ErrTypeMismatch, x)
}

// intValue picks the narrowest integer kind holding n.
func intValue(n int64) Value {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return Int32Value(int32(n))
	}
	return Int64Value(n)
}
