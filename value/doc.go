package value

import (
	"fmt"

	"github.com/fleece-format/fleece/errs"
	"github.com/fleece-format/fleece/format"
	"github.com/fleece-format/fleece/internal/wire"
)

// Root resolves the root value of a buffer without validating the rest of
// the document (trusted mode): assumes data was produced by this module's
// own encoder, or by another implementation known to be well-formed.
func Root(data []byte) (Value, error) {
	if len(data) < 2 || len(data)%2 != 0 {
		return Undefined, fmt.Errorf("buffer length %d is not a positive even number: %w", len(data), errs.ErrInvalidData)
	}

	return fromSlot(data, len(data)-2, false), nil
}

// ValidatedRoot resolves the root value of a buffer in untrusted mode: it
// walks the entire value graph reachable from the root, bounds-checking
// every pointer and length before returning, and rejects the buffer on any
// violation. Use this for data received from outside the process.
func ValidatedRoot(data []byte) (Value, error) {
	if len(data) < 2 || len(data)%2 != 0 {
		return Undefined, fmt.Errorf("buffer length %d is not a positive even number: %w", len(data), errs.ErrInvalidData)
	}

	if err := validateSlot(data, len(data)-2, false); err != nil {
		return Undefined, err
	}

	return fromSlot(data, len(data)-2, false), nil
}

// validateSlot checks that the slot at slotPos is well-formed: in range, and
// if it is a pointer, that its offset is non-zero and strictly backward, per
// invariant #3 (every pointer resolves to an offset strictly less than the
// pointer's own offset). It then validates whatever value the slot
// designates.
func validateSlot(data []byte, slotPos int, wide bool) error {
	width := wire.SlotWidth(wide)
	if slotPos < 0 || slotPos+width > len(data) {
		return fmt.Errorf("slot at %d out of range: %w", slotPos, errs.ErrInvalidData)
	}

	slot := data[slotPos : slotPos+width]
	_, isPointer := wire.SlotTag(slot)
	if !isPointer {
		return validateValue(data, slotPos)
	}

	offsetWords := wire.SlotPointerOffset(slot, wide)
	if offsetWords == 0 {
		return fmt.Errorf("pointer at %d has zero offset: %w", slotPos, errs.ErrNullPointerTarget)
	}

	target := slotPos - int(offsetWords)*2
	if target < 0 || target >= slotPos {
		return fmt.Errorf("pointer at %d targets non-backward offset %d: %w", slotPos, target, errs.ErrInvalidData)
	}

	return validateValue(data, target)
}

// validateValue checks that the standalone value at pos fits within data and
// recursively validates any children it references.
func validateValue(data []byte, pos int) error {
	if pos >= len(data) {
		return fmt.Errorf("value offset %d past end of buffer: %w", pos, errs.ErrInvalidData)
	}

	tag := format.Tag(data[pos] >> 4)

	switch tag {
	case format.TagShortInt, format.TagSpecial:
		if pos+2 > len(data) {
			return errs.ErrInvalidData
		}
	case format.TagInt:
		n := int(data[pos]&0x07) + 1
		if pos+1+n > len(data) {
			return fmt.Errorf("truncated int value at %d: %w", pos, errs.ErrInvalidData)
		}
	case format.TagFloat:
		n := 4
		if data[pos]&0x08 != 0 {
			n = 8
		}
		if pos+1+n > len(data) {
			return fmt.Errorf("truncated float value at %d: %w", pos, errs.ErrInvalidData)
		}
	case format.TagString, format.TagBinary:
		length, off := wire.UnpackLength(data[pos:])
		if pos+off+length > len(data) {
			return fmt.Errorf("truncated string/binary value at %d: %w", pos, errs.ErrInvalidData)
		}
	case format.TagArray:
		return validateContainer(data, pos, false)
	case format.TagDict:
		return validateContainer(data, pos, true)
	default:
		return fmt.Errorf("tag %v at offset %d: %w", tag, pos, errs.ErrUnknownValue)
	}

	return nil
}

func validateContainer(data []byte, pos int, isDict bool) error {
	if pos+2 > len(data) {
		return errs.ErrInvalidData
	}

	count, wide, slotsOff := wire.UnpackContainerHeader(data[pos:])
	slots := count
	if isDict {
		slots *= 2
	}

	width := wire.SlotWidth(wide)
	end := pos + slotsOff + slots*width
	if end > len(data) {
		return fmt.Errorf("container at %d overruns buffer: %w", pos, errs.ErrInvalidData)
	}

	// Key ordering is a contract the encoder promises the sorted-lookup
	// reader, not a structural invariant this validator enforces: a dict may
	// legitimately be unsorted when encoded with sortKeys off, and
	// GetUnsorted must still work on it.
	for i := 0; i < slots; i++ {
		if err := validateSlot(data, pos+slotsOff+i*width, wide); err != nil {
			return err
		}
	}

	return nil
}
