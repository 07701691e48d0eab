package varint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendRead(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<64 - 1}
	for _, v := range cases {
		buf := Append(nil, v)
		got, n := Read(buf)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
		assert.Equal(t, Len(v), len(buf))
	}
}

func TestReadIncomplete(t *testing.T) {
	_, n := Read([]byte{0x80, 0x80})
	assert.Equal(t, 0, n)
}
