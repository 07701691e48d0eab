package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleece-format/fleece/encoder"
	"github.com/fleece-format/fleece/format"
	"github.com/fleece-format/fleece/value"
)

func buildDocument(t *testing.T) []byte {
	e, err := encoder.New()
	require.NoError(t, err)

	require.NoError(t, e.BeginArray(0))
	for i := 0; i < 64; i++ {
		require.NoError(t, e.WriteString("a repeated string value for compression testing"))
	}
	require.NoError(t, e.EndArray())

	buf, err := e.Finish()
	require.NoError(t, err)
	return buf
}

func TestPackUnpack_AllAlgorithms(t *testing.T) {
	doc := buildDocument(t)

	algos := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, algo := range algos {
		t.Run(algo.String(), func(t *testing.T) {
			framed, err := Pack(doc, algo)
			require.NoError(t, err)

			gotAlgo, err := Algorithm(framed)
			require.NoError(t, err)
			assert.Equal(t, algo, gotAlgo)

			gotLen, err := UncompressedLength(framed)
			require.NoError(t, err)
			assert.Equal(t, len(doc), gotLen)

			unpacked, err := Unpack(framed)
			require.NoError(t, err)
			assert.Equal(t, doc, unpacked)

			v, err := value.ValidatedRoot(unpacked)
			require.NoError(t, err)
			arr, ok := v.AsArray()
			require.True(t, ok)
			assert.Equal(t, 64, arr.Count())
		})
	}
}

func TestPack_ShrinksCompressibleData(t *testing.T) {
	doc := buildDocument(t)

	framed, err := Pack(doc, format.CompressionZstd)
	require.NoError(t, err)

	assert.Less(t, len(framed), len(doc))
}

func TestUnpack_TruncatedFrame(t *testing.T) {
	_, err := Unpack([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestUnpack_UnsupportedAlgorithm(t *testing.T) {
	framed := []byte{0xFF, 0, 0, 0, 0}
	_, err := Unpack(framed)
	assert.Error(t, err)
}

func TestPack_UnsupportedAlgorithm(t *testing.T) {
	_, err := Pack([]byte{1, 2}, format.CompressionType(0xFF))
	assert.Error(t, err)
}
