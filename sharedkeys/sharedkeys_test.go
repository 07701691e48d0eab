package sharedkeys

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligible(t *testing.T) {
	assert.True(t, Eligible("name"))
	assert.True(t, Eligible("user_id"))
	assert.True(t, Eligible("a.b-c"))
	assert.False(t, Eligible(""))
	assert.False(t, Eligible("1abc"))
	assert.False(t, Eligible("this_key_is_far_too_long_to_share"))
	assert.False(t, Eligible("has space"))
}

func TestEncodeAssignsStableIDs(t *testing.T) {
	sk := New()

	id1, ok := sk.Encode("name")
	require.True(t, ok)
	assert.Equal(t, 0, id1)

	id2, ok := sk.Encode("age")
	require.True(t, ok)
	assert.Equal(t, 1, id2)

	idAgain, ok := sk.Encode("name")
	require.True(t, ok)
	assert.Equal(t, id1, idAgain, "re-encoding the same key returns the same id")

	assert.Equal(t, 2, sk.Count())
}

func TestEncodeIneligible(t *testing.T) {
	sk := New()
	_, ok := sk.Encode("1-starts-with-digit")
	assert.False(t, ok)
	assert.Equal(t, 0, sk.Count())
}

func TestDecodeRoundTrip(t *testing.T) {
	sk := New()
	id, _ := sk.Encode("status")

	key, err := sk.Decode(id)
	require.NoError(t, err)
	assert.Equal(t, "status", key)
}

func TestDecodeUnassigned(t *testing.T) {
	sk := New()
	_, err := sk.Decode(5)
	assert.Error(t, err)
}

func TestLookupDoesNotAllocate(t *testing.T) {
	sk := New()

	_, ok := sk.Lookup("name")
	assert.False(t, ok)
	assert.Equal(t, 0, sk.Count(), "Lookup must not assign an id to an unseen key")

	id, ok := sk.Encode("name")
	require.True(t, ok)

	got, ok := sk.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestEncodeCapacityExhausted(t *testing.T) {
	sk := New()
	for i := 0; i < MaxCount; i++ {
		key := fmt.Sprintf("k%d", i)
		_, ok := sk.Encode(key)
		require.True(t, ok)
	}
	_, ok := sk.Encode("onemore")
	assert.False(t, ok)
}
