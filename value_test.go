// FILE: lixenwraith/libconfig/value_test.go
package libconfig

import (
	"math"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAccessors(t *testing.T) {
	t.Run("ExactlyOnePayload", func(t *testing.T) {
		v := Int64Value(100000002)
		assert.Equal(t, KindInt64, v.Kind())

		n, ok := v.Int64()
		assert.True(t, ok)
		assert.Equal(t, int64(100000002), n)

		_, ok = v.Int32()
		assert.False(t, ok)
		_, ok = v.Str()
		assert.False(t, ok)
	})

	t.Run("ZeroValue", func(t *testing.T) {
		var v Value
		assert.True(t, v.IsZero())
		assert.Equal(t, KindNone, v.Kind())
		assert.Nil(t, v.Interface())
		assert.Equal(t, "<none>", v.String())
	})

	t.Run("Interface", func(t *testing.T) {
		assert.Equal(t, int32(-12), Int32Value(-12).Interface())
		assert.Equal(t, 0.5, Float64Value(0.5).Interface())
		assert.Equal(t, true, BoolValue(true).Interface())
		assert.Equal(t, "x", StringValue("x").Interface())
	})

	t.Run("Comparable", func(t *testing.T) {
		assert.Equal(t, StringValue("a"), StringValue("a"))
		assert.NotEqual(t, Int32Value(1), Int64Value(1))
	})
}

func TestKindPredicates(t *testing.T) {
	for _, k := range []Kind{KindInt32, KindInt64, KindFloat64, KindString, KindBool} {
		assert.True(t, k.IsScalar(), k.String())
		assert.False(t, k.IsAggregate(), k.String())
	}
	for _, k := range []Kind{KindGroup, KindArray, KindList} {
		assert.True(t, k.IsAggregate(), k.String())
		assert.False(t, k.IsScalar(), k.String())
	}
	assert.False(t, KindNone.IsScalar())
	assert.True(t, KindFloat64.IsNumber())
	assert.False(t, KindString.IsNumber())
	assert.Equal(t, "hex", FormatHex.String())
}

func TestValueConvert(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		to   Kind
		want Value
		ok   bool
	}{
		{"Int32ToInt64", Int32Value(7), KindInt64, Int64Value(7), true},
		{"Int32ToFloat", Int32Value(7), KindFloat64, Float64Value(7), true},
		{"Int64ToInt32InRange", Int64Value(-5), KindInt32, Int32Value(-5), true},
		{"Int64ToInt32Overflow", Int64Value(math.MaxInt32 + 1), KindInt32, Value{}, false},
		{"FloatToInt32Truncates", Float64Value(2.9), KindInt32, Int32Value(2), true},
		{"FloatToInt32Overflow", Float64Value(1e10), KindInt32, Value{}, false},
		{"NaNToInt64", Float64Value(math.NaN()), KindInt64, Value{}, false},
		{"StringToInt", StringValue("5"), KindInt32, Value{}, false},
		{"BoolToFloat", BoolValue(true), KindFloat64, Value{}, false},
		{"Identity", StringValue("s"), KindString, StringValue("s"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.in.convert(tt.to)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		in   any
		want Value
	}{
		{int32(3), Int32Value(3)},
		{int64(3), Int64Value(3)},
		{42, Int32Value(42)},
		{int(math.MaxInt32) + 1, Int64Value(math.MaxInt32 + 1)},
		{uint16(9), Int32Value(9)},
		{uint32(math.MaxUint32), Int64Value(math.MaxUint32)},
		{float32(0.5), Float64Value(0.5)},
		{true, BoolValue(true)},
		{"s", StringValue("s")},
		{StringValue("v"), StringValue("v")},
		{net.IPv4(10, 0, 0, 1), StringValue("10.0.0.1")},
	}
	for _, tt := range tests {
		got, err := ValueOf(tt.in)
		require.NoError(t, err, "%T", tt.in)
		assert.Equal(t, tt.want, got, "%T", tt.in)
	}

	_, err := ValueOf(uint64(math.MaxUint64))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = ValueOf([]int{1})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}
