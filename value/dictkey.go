package value

import (
	"unsafe"

	"github.com/fleece-format/fleece/sharedkeys"
)

// DictKey caches the outcome of a previous dict lookup so repeated access to
// the same key, typical of scanning many documents sharing a schema, costs
// one comparison instead of a full binary search.
//
// A DictKey is not safe for concurrent use: it is caller-owned mutable state.
// Callers performing concurrent lookups must use one DictKey per goroutine.
type DictKey struct {
	key string
	sk  *sharedkeys.SharedKeys

	cachedData *byte // identity of the buffer the cached slot was found in
	cachedLen  int
	cachedIdx  int
	cachedWide bool
	hasCache   bool
}

// NewDictKey returns a reusable key object for repeated lookups of key.
func NewDictKey(key string, sk *sharedkeys.SharedKeys) *DictKey {
	return &DictKey{key: key, sk: sk}
}

func bufferIdentity(data []byte) (*byte, int) {
	if len(data) == 0 {
		return nil, 0
	}
	return unsafe.SliceData(data), len(data)
}

// Get looks up dk's key in d, first checking the cached slot from the last
// lookup against this exact buffer. On a cache miss it falls back to a full
// binary search and updates the cache.
func (dk *DictKey) Get(d Dict) (Value, bool) {
	ptr, n := bufferIdentity(d.data)

	if dk.hasCache && dk.cachedData == ptr && dk.cachedLen == n && dk.cachedWide == d.wide &&
		dk.cachedIdx < d.count {
		if orderOf(d.keyAt(dk.cachedIdx)) == queryOrder(dk.key, dk.sk) {
			return d.valueAt(dk.cachedIdx), true
		}
	}

	target := queryOrder(dk.key, dk.sk)
	lo, hi := 0, d.count
	for lo < hi {
		mid := (lo + hi) / 2
		cmp := compareKeyOrder(orderOf(d.keyAt(mid)), target)
		switch {
		case cmp == 0:
			dk.cachedData, dk.cachedLen, dk.cachedIdx, dk.cachedWide, dk.hasCache = ptr, n, mid, d.wide, true
			return d.valueAt(mid), true
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}

	dk.hasCache = false
	return Undefined, false
}
