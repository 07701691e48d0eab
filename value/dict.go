package value

import (
	"iter"
	"strings"

	"github.com/fleece-format/fleece/format"
	"github.com/fleece-format/fleece/sharedkeys"
)

// Dict is a zero-copy view of a dict's key/value slot pairs.
type Dict struct {
	data     []byte
	slotsPos int
	count    int
	wide     bool
}

// Count returns the number of entries in the dict.
func (d Dict) Count() int {
	return d.count
}

// IsEmpty reports whether the dict has no entries.
func (d Dict) IsEmpty() bool {
	return d.count == 0
}

func (d Dict) keyAt(i int) Value {
	return fromSlot(d.data, d.slotsPos+(2*i)*slotWidth(d.wide), d.wide)
}

func (d Dict) valueAt(i int) Value {
	return fromSlot(d.data, d.slotsPos+(2*i+1)*slotWidth(d.wide), d.wide)
}

// All returns an iterator over (key, value) pairs in slot order.
func (d Dict) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for i := 0; i < d.count; i++ {
			if !yield(d.keyAt(i), d.valueAt(i)) {
				return
			}
		}
	}
}

// keyOrder is the canonical comparison key for a dict entry: integer keys
// (shared-keys integers) sort before string keys; within a kind, compare by
// value.
type keyOrder struct {
	isInt bool
	i     int64
	s     string
}

func orderOf(v Value) keyOrder {
	switch v.tag() {
	case format.TagShortInt, format.TagInt:
		return keyOrder{isInt: true, i: v.AsInt()}
	default:
		return keyOrder{s: v.AsString()}
	}
}

func compareKeyOrder(a, b keyOrder) int {
	if a.isInt != b.isInt {
		if a.isInt {
			return -1
		}
		return 1
	}
	if a.isInt {
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.s, b.s)
}

// queryOrder is on the read path, so it must only ever consult sk, never
// assign it a new integer: two readers racing to look up the same absent
// key would otherwise both hit SharedKeys.Encode's mutating branch and
// perform unsynchronized writes to the same map.
func queryOrder(key string, sk *sharedkeys.SharedKeys) keyOrder {
	if sk != nil {
		if id, ok := sk.Lookup(key); ok {
			return keyOrder{isInt: true, i: int64(id)}
		}
	}
	return keyOrder{s: key}
}

// Get performs a binary-search lookup for key, assuming the dict was encoded
// with sorted keys. sk may be nil if the dict uses no shared keys.
func (d Dict) Get(key string, sk *sharedkeys.SharedKeys) (Value, bool) {
	target := queryOrder(key, sk)

	lo, hi := 0, d.count
	for lo < hi {
		mid := (lo + hi) / 2
		cmp := compareKeyOrder(orderOf(d.keyAt(mid)), target)
		switch {
		case cmp == 0:
			return d.valueAt(mid), true
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}

	return Undefined, false
}

// GetUnsorted performs a linear scan for key. It returns correct results
// regardless of whether the dict's keys are sorted, and is the only lookup
// path that is guaranteed correct for a dict encoded with sortKeys disabled.
func (d Dict) GetUnsorted(key string, sk *sharedkeys.SharedKeys) (Value, bool) {
	target := queryOrder(key, sk)
	for i := 0; i < d.count; i++ {
		if compareKeyOrder(orderOf(d.keyAt(i)), target) == 0 {
			return d.valueAt(i), true
		}
	}
	return Undefined, false
}

// GetBatch looks up every key in sortedKeys (which must itself be sorted the
// same way dict keys are) in a single merge pass over the dict's slots,
// answering N lookups in O(N+M) instead of O(N log M).
func (d Dict) GetBatch(sortedKeys []string, sk *sharedkeys.SharedKeys) []Value {
	out := make([]Value, len(sortedKeys))
	i := 0
	for qi, key := range sortedKeys {
		target := queryOrder(key, sk)
		for i < d.count && compareKeyOrder(orderOf(d.keyAt(i)), target) < 0 {
			i++
		}
		if i < d.count && compareKeyOrder(orderOf(d.keyAt(i)), target) == 0 {
			out[qi] = d.valueAt(i)
		} else {
			out[qi] = Undefined
		}
	}
	return out
}
