// Package encoder implements the Fleece encoder: a pushdown machine that
// stages the children of each open array or dict in memory, then commits a
// container to the output only once its children's final positions are
// known, so pointer widths and offsets can be computed correctly.
package encoder

import (
	"fmt"
	"math"
	"sort"

	"github.com/fleece-format/fleece/errs"
	"github.com/fleece-format/fleece/format"
	"github.com/fleece-format/fleece/internal/wire"
	"github.com/fleece-format/fleece/sharedkeys"
	"github.com/fleece-format/fleece/writer"
)

// MinSharedStringSize and MaxSharedStringSize bound which strings the
// encoder bothers deduplicating through its string table: shorter strings
// cost more as a pointer indirection than as a fresh inline copy, and very
// long strings are assumed unlikely to recur, so tracking them would only
// grow the table for no benefit.
const (
	MinSharedStringSize = 2
	MaxSharedStringSize = 99
)

// encItem is a staged value awaiting emission into its parent container's
// slot: either small enough to inline directly, or already written
// out-of-line (for scalars larger than a slot, or for a finished child
// container) and referenced by a pointer.
type encItem struct {
	inline        []byte
	outOfLineOffset int
	isOutOfLine   bool
}

// frame stages the children of one open array or dict.
type frame struct {
	isDict bool

	// array
	items []encItem

	// dict
	keys          []encItem
	keyOrders     []keyOrder
	values        []encItem
	awaitingValue bool
}

// Encoder is a single-owner, non-reentrant state machine. It is not safe for
// concurrent use.
type Encoder struct {
	w    *writer.Writer
	base []byte

	uniqueStrings    bool
	sortKeys         bool
	reuseBaseStrings bool
	sk               *sharedkeys.SharedKeys

	stringTable map[string]int

	stack   []*frame
	root    encItem
	rootSet bool

	err error
}

// New returns a ready-to-use Encoder configured by opts.
func New(opts ...Option) (*Encoder, error) {
	cfg := &config{sortKeys: true, uniqueStrings: true}
	if err := applyOptions(cfg, opts); err != nil {
		return nil, err
	}

	if cfg.base != nil && (len(cfg.base) < 2 || len(cfg.base)%2 != 0) {
		return nil, fmt.Errorf("base buffer must have a positive even length: %w", errs.ErrInvalidData)
	}

	e := &Encoder{
		w:                writer.New(),
		base:             cfg.base,
		uniqueStrings:    cfg.uniqueStrings,
		sortKeys:         cfg.sortKeys,
		reuseBaseStrings: cfg.reuseBaseStrings,
		sk:               cfg.sharedKeys,
		stringTable:      make(map[string]int),
	}

	if cfg.reuseBaseStrings && len(cfg.base) > 0 {
		e.stringTable = collectBaseStrings(cfg.base, MinSharedStringSize, MaxSharedStringSize)
	}

	return e, nil
}

func (e *Encoder) setErr(err error) error {
	if e.err == nil {
		e.err = err
	}
	return e.err
}

// virtualPos is the logical offset of the next byte to be written, counting
// from the start of base (if any) through the end of the delta buffer
// written so far. Pointer arithmetic is always done in this virtual space so
// that offsets into base and offsets into the new buffer are computed
// identically.
func (e *Encoder) virtualPos() int {
	return len(e.base) + e.w.Length()
}

// reduceItem stages standalone (a complete tag-byte-prefixed value encoding):
// inline if it fits in a narrow slot, otherwise written out-of-line
// immediately and referenced by offset.
func (e *Encoder) reduceItem(standalone []byte) encItem {
	if len(standalone) <= wire.NarrowWidth {
		return encItem{inline: standalone}
	}

	offset := e.virtualPos()
	_, _ = e.w.Write(standalone)
	e.w.Pad()

	return encItem{outOfLineOffset: offset, isOutOfLine: true}
}

func (e *Encoder) peekCanAcceptValue() error {
	if len(e.stack) == 0 {
		if e.rootSet {
			return fmt.Errorf("a root value has already been written: %w", errs.ErrEncode)
		}
		return nil
	}

	top := e.stack[len(e.stack)-1]
	if top.isDict && !top.awaitingValue {
		return fmt.Errorf("expected a dict key, not a value: %w", errs.ErrEncode)
	}

	return nil
}

func (e *Encoder) pushItem(item encItem) error {
	if e.err != nil {
		return e.err
	}

	if len(e.stack) == 0 {
		if e.rootSet {
			return e.setErr(fmt.Errorf("a root value has already been written: %w", errs.ErrEncode))
		}
		e.root = item
		e.rootSet = true
		return nil
	}

	top := e.stack[len(e.stack)-1]
	if top.isDict {
		if !top.awaitingValue {
			return e.setErr(fmt.Errorf("expected a dict key, not a value: %w", errs.ErrEncode))
		}
		top.values = append(top.values, item)
		top.awaitingValue = false
		return nil
	}

	top.items = append(top.items, item)

	return nil
}

func (e *Encoder) addValue(standalone []byte) error {
	if e.err != nil {
		return e.err
	}
	if err := e.peekCanAcceptValue(); err != nil {
		return e.setErr(err)
	}

	return e.pushItem(e.reduceItem(standalone))
}

// WriteNull writes a null value.
func (e *Encoder) WriteNull() error {
	return e.addValue(wire.PackSpecial(format.SpecialNull))
}

// WriteBool writes a boolean value.
func (e *Encoder) WriteBool(b bool) error {
	s := format.SpecialFalse
	if b {
		s = format.SpecialTrue
	}
	return e.addValue(wire.PackSpecial(s))
}

func (e *Encoder) writeIntValue(v int64, unsigned bool) error {
	if (!unsigned && v >= -2048 && v <= 2047) || (unsigned && v >= 0 && v <= 2047) {
		return e.addValue(wire.PackShortInt(v))
	}
	return e.addValue(wire.PackInt(v, unsigned))
}

// WriteInt writes a signed integer value, choosing the narrowest
// representation that holds it.
func (e *Encoder) WriteInt(v int64) error {
	return e.writeIntValue(v, false)
}

// WriteUint writes an unsigned integer value, choosing the narrowest
// representation that holds it.
func (e *Encoder) WriteUint(v uint64) error {
	return e.writeIntValue(int64(v), true)
}

// WriteFloat64 writes a double value, downgrading it to a float32 or an
// integer representation first if doing so loses no precision.
func (e *Encoder) WriteFloat64(f float64) error {
	if e.err != nil {
		return e.err
	}

	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f &&
		f >= -9223372036854775808.0 && f < 9223372036854775808.0 {
		return e.writeIntValue(int64(f), false)
	}

	if float64(float32(f)) == f {
		return e.addValue(wire.PackFloat32(float32(f)))
	}

	return e.addValue(wire.PackFloat64(f))
}

// WriteFloat32 writes a float32 value via WriteFloat64's downgrade logic.
func (e *Encoder) WriteFloat32(f float32) error {
	return e.WriteFloat64(float64(f))
}

// reduceString stages a string's standalone encoding through the same
// dedup table for both values and dict keys: a hit reuses the prior
// occurrence's offset as a pointer target, a miss writes the string fresh
// and, if eligible, records it for reuse by a later string or key with the
// same bytes.
func (e *Encoder) reduceString(s string) encItem {
	eligible := e.uniqueStrings && len(s) >= MinSharedStringSize && len(s) <= MaxSharedStringSize
	if eligible {
		if offset, ok := e.stringTable[s]; ok {
			return encItem{outOfLineOffset: offset, isOutOfLine: true}
		}
	}

	item := e.reduceItem(wire.PackString(s))
	if eligible && item.isOutOfLine {
		e.stringTable[s] = item.outOfLineOffset
	}

	return item
}

// WriteString writes a UTF-8 string value, deduplicating it against
// previously written strings and dict keys (including strings inherited
// from a base buffer via WithReuseBaseStrings) when UniqueStrings is
// enabled and the string's length falls within [MinSharedStringSize,
// MaxSharedStringSize].
func (e *Encoder) WriteString(s string) error {
	if e.err != nil {
		return e.err
	}
	if err := e.peekCanAcceptValue(); err != nil {
		return e.setErr(err)
	}

	return e.pushItem(e.reduceString(s))
}

// WriteData writes a binary blob value.
func (e *Encoder) WriteData(b []byte) error {
	return e.addValue(wire.PackBinary(b))
}

// BeginArray opens a new array. reserveHint pre-sizes the staging slice and
// has no effect on the output.
func (e *Encoder) BeginArray(reserveHint int) error {
	if e.err != nil {
		return e.err
	}
	if err := e.peekCanAcceptValue(); err != nil {
		return e.setErr(err)
	}

	e.stack = append(e.stack, &frame{items: make([]encItem, 0, reserveHint)})
	return nil
}

// EndArray closes the most recently opened array and stages it as a value in
// its parent container (or as the document root).
func (e *Encoder) EndArray() error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) == 0 || e.stack[len(e.stack)-1].isDict {
		return e.setErr(fmt.Errorf("endArray without a matching beginArray: %w", errs.ErrEncode))
	}

	f := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]

	item, err := e.finalizeContainer(f)
	if err != nil {
		return e.setErr(err)
	}

	return e.pushItem(item)
}

// BeginDict opens a new dict. reserveHint pre-sizes the staging slices and
// has no effect on the output.
func (e *Encoder) BeginDict(reserveHint int) error {
	if e.err != nil {
		return e.err
	}
	if err := e.peekCanAcceptValue(); err != nil {
		return e.setErr(err)
	}

	e.stack = append(e.stack, &frame{
		isDict:        true,
		keys:          make([]encItem, 0, reserveHint),
		keyOrders:     make([]keyOrder, 0, reserveHint),
		values:        make([]encItem, 0, reserveHint),
		awaitingValue: false,
	})
	return nil
}

// WriteKey writes the key of the next dict entry. It must be called exactly
// once before each value inside an open dict. If a SharedKeys collaborator
// was configured and key is eligible, the key is stored as a small integer
// instead of a string; otherwise it goes through the same string dedup
// table as WriteString, so a key and a value (or two keys) sharing the same
// bytes are written only once.
func (e *Encoder) WriteKey(key string) error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) == 0 || !e.stack[len(e.stack)-1].isDict || e.stack[len(e.stack)-1].awaitingValue {
		return e.setErr(fmt.Errorf("writeKey not expected in the current state: %w", errs.ErrEncode))
	}

	top := e.stack[len(e.stack)-1]

	var item encItem
	var order keyOrder

	if e.sk != nil {
		if id, ok := e.sk.Encode(key); ok {
			item = encItem{inline: wire.PackShortInt(int64(id))}
			order = keyOrder{isInt: true, i: int64(id)}
		}
	}

	if item.inline == nil && !item.isOutOfLine {
		item = e.reduceString(key)
		order = keyOrder{s: key}
	}

	top.keys = append(top.keys, item)
	top.keyOrders = append(top.keyOrders, order)
	top.awaitingValue = true

	return nil
}

// EndDict closes the most recently opened dict and stages it as a value in
// its parent container (or as the document root).
func (e *Encoder) EndDict() error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) == 0 || !e.stack[len(e.stack)-1].isDict {
		return e.setErr(fmt.Errorf("endDict without a matching beginDict: %w", errs.ErrEncode))
	}

	f := e.stack[len(e.stack)-1]
	if f.awaitingValue {
		return e.setErr(fmt.Errorf("endDict while awaiting a value for the last key: %w", errs.ErrEncode))
	}

	e.stack = e.stack[:len(e.stack)-1]

	item, err := e.finalizeContainer(f)
	if err != nil {
		return e.setErr(err)
	}

	return e.pushItem(item)
}

// finalizeContainer sorts (if configured), width-promotes, and emits a
// staged container's header and slots, returning a reference item for the
// parent.
func (e *Encoder) finalizeContainer(f *frame) (encItem, error) {
	tag := format.TagArray
	slotsPerEntry := 1
	count := len(f.items)

	if f.isDict {
		tag = format.TagDict
		slotsPerEntry = 2
		count = len(f.values)

		if e.sortKeys && count > 1 {
			idx := make([]int, count)
			for i := range idx {
				idx[i] = i
			}
			sort.Slice(idx, func(a, b int) bool {
				return compareKeyOrder(f.keyOrders[idx[a]], f.keyOrders[idx[b]]) < 0
			})

			newKeys := make([]encItem, count)
			newVals := make([]encItem, count)
			newOrders := make([]keyOrder, count)
			for i, j := range idx {
				newKeys[i] = f.keys[j]
				newVals[i] = f.values[j]
				newOrders[i] = f.keyOrders[j]
			}
			for i := 1; i < count; i++ {
				if compareKeyOrder(newOrders[i-1], newOrders[i]) == 0 {
					return encItem{}, fmt.Errorf("%w: %w", errs.ErrDuplicateKey, errs.ErrInvalidData)
				}
			}
			f.keys, f.values, f.keyOrders = newKeys, newVals, newOrders
		}
	}

	if count == 0 {
		header := wire.PackContainerHeader(tag, 0, false)
		return e.reduceItem(header), nil
	}

	headerPos := e.virtualPos()
	narrowHeader := wire.PackContainerHeader(tag, count, false)
	headerLen := len(narrowHeader)
	if headerLen%2 != 0 {
		headerLen++ // header is padded to an even length before the slots start
	}
	slotsPos := headerPos + headerLen
	totalSlots := count * slotsPerEntry

	entryAt := func(slotIndex int) encItem {
		if f.isDict {
			if slotIndex%2 == 0 {
				return f.keys[slotIndex/2]
			}
			return f.values[slotIndex/2]
		}
		return f.items[slotIndex]
	}

	wide := false
	for i := 0; i < totalSlots; i++ {
		item := entryAt(i)
		if !item.isOutOfLine {
			continue
		}
		slotPos := slotsPos + i*wire.NarrowWidth
		offsetWords := (slotPos - item.outOfLineOffset) / 2
		if offsetWords <= 0 || offsetWords > wire.MaxNarrowOffsetWords {
			wide = true
			break
		}
	}

	header := wire.PackContainerHeader(tag, count, wide)
	if _, err := e.w.Write(header); err != nil {
		return encItem{}, err
	}
	e.w.Pad() // slots must start at an even offset; a long-count header can be odd-length

	width := wire.SlotWidth(wide)
	for i := 0; i < totalSlots; i++ {
		item := entryAt(i)
		slotPos := e.virtualPos()

		if item.isOutOfLine {
			offsetWords := (slotPos - item.outOfLineOffset) / 2
			maxOffset := wire.MaxNarrowOffsetWords
			if wide {
				maxOffset = wire.MaxWideOffsetWords
			}
			if offsetWords <= 0 || offsetWords > maxOffset {
				return encItem{}, fmt.Errorf("pointer offset out of range: %w", errs.ErrOutOfRange)
			}
			if _, err := e.w.Write(wire.PackPointer(uint32(offsetWords), wide)); err != nil {
				return encItem{}, err
			}
			continue
		}

		padded := make([]byte, width)
		copy(padded, item.inline)
		if _, err := e.w.Write(padded); err != nil {
			return encItem{}, err
		}
	}

	e.w.Pad()

	return encItem{outOfLineOffset: headerPos, isOutOfLine: true}, nil
}

// Finish validates that exactly one root value is pending and no container
// is left open, writes the root pointer, and returns the finished buffer.
// The Encoder must not be used again afterward except via Reset.
func (e *Encoder) Finish() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.stack) != 0 {
		return nil, e.setErr(fmt.Errorf("finish with %d container(s) still open: %w", len(e.stack), errs.ErrEncode))
	}
	if !e.rootSet {
		return nil, e.setErr(fmt.Errorf("finish with no value written: %w", errs.ErrEncode))
	}

	rootSlotPos := e.virtualPos()
	var rootBytes []byte

	if e.root.isOutOfLine {
		offsetWords := (rootSlotPos - e.root.outOfLineOffset) / 2
		if offsetWords <= 0 || offsetWords > wire.MaxNarrowOffsetWords {
			return nil, e.setErr(fmt.Errorf("root value is too far from the end of the buffer for a narrow pointer: %w", errs.ErrOutOfRange))
		}
		rootBytes = wire.PackPointer(uint32(offsetWords), false)
	} else {
		rootBytes = make([]byte, wire.NarrowWidth)
		copy(rootBytes, e.root.inline)
	}

	if _, err := e.w.Write(rootBytes); err != nil {
		return nil, err
	}

	return e.w.Extract(), nil
}

// Reset returns the encoder to a reusable empty state, preserving its
// configuration (UniqueStrings, SortKeys, SharedKeys) but clearing any base
// buffer and pending document state.
func (e *Encoder) Reset() {
	e.w.Reset()
	e.stack = e.stack[:0]
	e.root = encItem{}
	e.rootSet = false
	e.err = nil
	e.base = nil

	for k := range e.stringTable {
		delete(e.stringTable, k)
	}
}
