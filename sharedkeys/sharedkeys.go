// Package sharedkeys implements the SharedKeys collaborator: a bidirectional
// mapping between short dictionary-key strings and small integers, so that
// dict keys that recur across many documents can be stored as a 2-byte
// short-int instead of a pointer to a string. The mapping is an external
// collaborator, not part of any buffer — callers pass it explicitly to both
// the encoder and the reader, mirroring the original implementation's
// FLSharedKeys parameter on every key-aware operation.
package sharedkeys

import (
	"fmt"

	"github.com/fleece-format/fleece/errs"
)

// MaxCount is the number of distinct integers a SharedKeys mapping can hand
// out. The wire format's short-int key slot has room for values 0..2047.
const MaxCount = 2048

// MaxKeyLength is the longest string Eligible will ever accept.
const MaxKeyLength = 16

// SharedKeys maps short, identifier-shaped dictionary keys to small integers
// and back. It is logically append-only: once a string has been assigned an
// integer, that mapping never changes for the lifetime of the SharedKeys
// instance. It is not safe for concurrent use without external
// synchronization — callers sharing one SharedKeys across goroutines must
// serialize access themselves, the same way the original implementation
// requires external transaction discipline around shared-keys mutation.
type SharedKeys struct {
	byString map[string]int
	byInt    []string
}

// New returns an empty SharedKeys mapping.
func New() *SharedKeys {
	return &SharedKeys{
		byString: make(map[string]int),
	}
}

// Eligible reports whether key is short and identifier-shaped enough to be
// worth assigning an integer: 1 to MaxKeyLength ASCII bytes, letters/digits/
// '_'/'-'/'.' only, and not starting with a digit. This mirrors Couchbase
// Lite's real shared-keys eligibility rule for dictionary property names; it
// is a heuristic, not a format requirement, so different implementations may
// choose differently without producing incompatible buffers — the wire
// format does not record whether a key was shared.
func Eligible(key string) bool {
	n := len(key)
	if n == 0 || n > MaxKeyLength {
		return false
	}
	if key[0] >= '0' && key[0] <= '9' {
		return false
	}
	for i := 0; i < n; i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_' || c == '-' || c == '.':
		default:
			return false
		}
	}
	return true
}

// Encode returns the integer assigned to key, allocating a new one if key is
// eligible and has not been seen before. ok is false if key is ineligible or
// the mapping's capacity (MaxCount) has been exhausted; callers must fall
// back to encoding the key as a plain string in that case.
//
// Encode mutates sk and is meant for the encode path, which owns its
// SharedKeys exclusively. Readers sharing a SharedKeys across concurrent
// lookups must use Lookup instead.
func (sk *SharedKeys) Encode(key string) (id int, ok bool) {
	if id, ok := sk.byString[key]; ok {
		return id, true
	}

	if !Eligible(key) || len(sk.byInt) >= MaxCount {
		return 0, false
	}

	id = len(sk.byInt)
	sk.byInt = append(sk.byInt, key)
	sk.byString[key] = id

	return id, true
}

// Lookup reports the integer already assigned to key, without allocating a
// new one. Unlike Encode, it only reads sk and is safe for unbounded
// concurrent callers, the same way the rest of the decode path is safe over
// an immutable buffer.
func (sk *SharedKeys) Lookup(key string) (id int, ok bool) {
	id, ok = sk.byString[key]
	return id, ok
}

// Decode returns the key string previously assigned to id.
func (sk *SharedKeys) Decode(id int) (string, error) {
	if id < 0 || id >= len(sk.byInt) {
		return "", fmt.Errorf("shared key id %d not assigned: %w", id, errs.ErrSharedKeysState)
	}

	return sk.byInt[id], nil
}

// Count returns the number of strings currently assigned an integer.
func (sk *SharedKeys) Count() int {
	return len(sk.byInt)
}

// Keys returns every string assigned an integer so far, ordered by id. The
// returned slice is a copy; mutating it does not affect sk.
func (sk *SharedKeys) Keys() []string {
	out := make([]string, len(sk.byInt))
	copy(out, sk.byInt)
	return out
}
