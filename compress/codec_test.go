package compress

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleece-format/fleece/encoder"
	"github.com/fleece-format/fleece/format"
	"github.com/fleece-format/fleece/value"
)

var allAlgorithms = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

func TestGetCodec_AllAlgorithms(t *testing.T) {
	for _, algo := range allAlgorithms {
		t.Run(algo.String(), func(t *testing.T) {
			codec, err := GetCodec(algo)
			require.NoError(t, err)
			assert.NotNil(t, codec)
		})
	}
}

func TestGetCodec_UnsupportedAlgorithm(t *testing.T) {
	_, err := GetCodec(format.CompressionType(0xFF))
	assert.Error(t, err)
}

// buildRepeatedDocument builds a Fleece buffer whose contents repeat enough
// to be genuinely compressible, unlike a random byte blob.
func buildRepeatedDocument(t *testing.T, count int) []byte {
	t.Helper()

	e, err := encoder.New()
	require.NoError(t, err)

	require.NoError(t, e.BeginDict(count))
	for i := 0; i < count; i++ {
		require.NoError(t, e.WriteKey(fmt.Sprintf("repeated-metric-name-%d", i)))
		require.NoError(t, e.WriteString("a repeated string value shared across many entries"))
	}
	require.NoError(t, e.EndDict())

	buf, err := e.Finish()
	require.NoError(t, err)
	return buf
}

func TestCodecs_RoundTripFleeceBuffer(t *testing.T) {
	doc := buildRepeatedDocument(t, 32)

	for _, algo := range allAlgorithms {
		t.Run(algo.String(), func(t *testing.T) {
			codec, err := GetCodec(algo)
			require.NoError(t, err)

			compressed, err := codec.Compress(doc)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, doc, decompressed)

			v, err := value.ValidatedRoot(decompressed)
			require.NoError(t, err)
			d, ok := v.AsDict()
			require.True(t, ok)
			assert.Equal(t, 32, d.Count())
		})
	}
}

func TestCodecs_RealCodecsShrinkRepeatedBuffer(t *testing.T) {
	doc := buildRepeatedDocument(t, 64)

	for _, algo := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(algo.String(), func(t *testing.T) {
			codec, err := GetCodec(algo)
			require.NoError(t, err)

			compressed, err := codec.Compress(doc)
			require.NoError(t, err)
			assert.Less(t, len(compressed), len(doc))
		})
	}
}

func TestNoOpCompressor_PassesInputThrough(t *testing.T) {
	doc := buildRepeatedDocument(t, 4)

	codec := NewNoOpCompressor()
	compressed, err := codec.Compress(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, compressed)

	decompressed, err := codec.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, doc, decompressed)
}
