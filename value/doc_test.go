package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleece-format/fleece/format"
	"github.com/fleece-format/fleece/internal/wire"
)

func TestValidatedRoot_Valid(t *testing.T) {
	buf := buildArrayOfShortInts([]int64{1, 2, 3})
	v, err := ValidatedRoot(buf)
	require.NoError(t, err)
	arr, ok := v.AsArray()
	require.True(t, ok)
	assert.Equal(t, 3, arr.Count())
}

func TestValidatedRoot_TruncatedString(t *testing.T) {
	// A string header claims length 10 but no payload follows.
	data := []byte{byte(format.TagString)<<4 | 10, 0}
	data = append(data, wire.PackPointer(1, false)...)
	_, err := ValidatedRoot(data)
	assert.Error(t, err)
}

func TestValidatedRoot_PointerNotBackward(t *testing.T) {
	// A pointer with offsetWords 0 is always invalid.
	buf := wire.PackPointer(0, false)
	_, err := ValidatedRoot(buf)
	assert.Error(t, err)
}

func TestValidatedRoot_UnsortedDictAllowed(t *testing.T) {
	// Validation must not reject a dict whose keys are not in sorted order;
	// sortedness is a contract GetUnsorted doesn't depend on, not a
	// structural invariant.
	var data []byte
	dictPos := len(data)
	data = append(data, wire.PackContainerHeader(format.TagDict, 2, false)...)
	data = append(data, wire.PackString("z")...)
	data = append(data, wire.PackShortInt(1)...)
	data = append(data, wire.PackString("a")...)
	data = append(data, wire.PackShortInt(2)...)
	rootSlot := wire.PackPointer(uint32(len(data)-dictPos)/2, false)
	data = append(data, rootSlot...)

	_, err := ValidatedRoot(data)
	assert.NoError(t, err)
}
