package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleece-format/fleece/format"
	"github.com/fleece-format/fleece/internal/wire"
)

// buildRoot appends standalone to data (which may be empty) and returns a
// buffer whose root is a pointer to standalone, suitable for Root().
func buildRoot(standalone []byte) []byte {
	data := append([]byte{}, standalone...)
	if len(data)%2 != 0 {
		data = append(data, 0)
	}
	valuePos := 0
	rootSlot := wire.PackPointer(uint32(len(data)-valuePos)/2, false)
	return append(data, rootSlot...)
}

func TestRoot_ShortInt(t *testing.T) {
	buf := buildRoot(wire.PackShortInt(42))
	v, err := Root(buf)
	require.NoError(t, err)
	assert.Equal(t, format.ValueNumber, v.Type())
	assert.Equal(t, int64(42), v.AsInt())
}

func TestRoot_NegativeShortInt(t *testing.T) {
	buf := buildRoot(wire.PackShortInt(-17))
	v, err := Root(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(-17), v.AsInt())
}

func TestRoot_Special(t *testing.T) {
	for _, tc := range []struct {
		special  format.SpecialValue
		wantType format.ValueType
		wantBool bool
	}{
		{format.SpecialNull, format.ValueNull, false},
		{format.SpecialFalse, format.ValueBool, false},
		{format.SpecialTrue, format.ValueBool, true},
	} {
		buf := buildRoot(wire.PackSpecial(tc.special))
		v, err := Root(buf)
		require.NoError(t, err)
		assert.Equal(t, tc.wantType, v.Type())
		assert.Equal(t, tc.wantBool, v.AsBool())
	}
}

func TestRoot_Int(t *testing.T) {
	buf := buildRoot(wire.PackInt(100000, false))
	v, err := Root(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), v.AsInt())
}

func TestRoot_Float(t *testing.T) {
	buf := buildRoot(wire.PackFloat64(3.25))
	v, err := Root(buf)
	require.NoError(t, err)
	assert.InDelta(t, 3.25, v.AsFloat64(), 0.0001)
}

func TestRoot_String(t *testing.T) {
	buf := buildRoot(wire.PackString("hello world"))
	v, err := Root(buf)
	require.NoError(t, err)
	assert.Equal(t, format.ValueString, v.Type())
	assert.Equal(t, "hello world", v.AsString())
}

func TestRoot_EmptyString(t *testing.T) {
	buf := buildRoot(wire.PackString(""))
	v, err := Root(buf)
	require.NoError(t, err)
	assert.Equal(t, "", v.AsString())
}

func TestRoot_Binary(t *testing.T) {
	buf := buildRoot(wire.PackBinary([]byte{1, 2, 3, 4, 5}))
	v, err := Root(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, v.AsData())
}

func TestRoot_EmptyArray(t *testing.T) {
	buf := buildRoot(wire.PackContainerHeader(format.TagArray, 0, false))
	v, err := Root(buf)
	require.NoError(t, err)
	arr, ok := v.AsArray()
	require.True(t, ok)
	assert.Equal(t, 0, arr.Count())
	assert.True(t, arr.IsEmpty())
}

func TestRoot_InvalidLength(t *testing.T) {
	_, err := Root([]byte{1})
	assert.Error(t, err)
}

func TestValue_TypeCoercion(t *testing.T) {
	buf := buildRoot(wire.PackFloat64(7))
	v, _ := Root(buf)
	assert.Equal(t, int64(7), v.AsInt())
	assert.True(t, v.AsBool())
}

func TestUndefined(t *testing.T) {
	assert.False(t, Undefined.IsValid())
	assert.Equal(t, format.ValueUndefined, Undefined.Type())
	assert.False(t, Undefined.AsBool())
}
