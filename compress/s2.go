package compress

import "github.com/klauspost/compress/s2"

// S2Compressor compresses a Fleece buffer with S2, a Snappy-compatible
// format from klauspost/compress tuned for speed over ratio.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor returns an S2Compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
