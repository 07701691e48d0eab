package encoder

import (
	"github.com/fleece-format/fleece/format"
	"github.com/fleece-format/fleece/internal/wire"
)

// collectBaseStrings walks every value reachable from a base buffer's root
// and records the offset of each string whose length falls within
// [minLen, maxLen]. It only records genuinely reachable values (rather than
// scanning raw bytes for tag-shaped patterns), so every offset it returns is
// guaranteed to decode back to the string it was collected under.
func collectBaseStrings(data []byte, minLen, maxLen int) map[string]int {
	out := make(map[string]int)
	if len(data) < 2 || len(data)%2 != 0 {
		return out
	}

	visited := make(map[int]bool)

	var walkValue func(pos int)

	walkSlot := func(pos int, wide bool) {
		width := wire.SlotWidth(wide)
		if pos < 0 || pos+width > len(data) {
			return
		}
		slot := data[pos : pos+width]
		_, isPointer := wire.SlotTag(slot)
		if isPointer {
			offsetWords := wire.SlotPointerOffset(slot, wide)
			if offsetWords == 0 {
				return
			}
			target := pos - int(offsetWords)*2
			walkValue(target)
			return
		}
		walkValue(pos)
	}

	walkValue = func(pos int) {
		if pos < 0 || pos >= len(data) || visited[pos] {
			return
		}
		visited[pos] = true

		tag := format.Tag(data[pos] >> 4)
		switch tag {
		case format.TagString:
			length, off := wire.UnpackLength(data[pos:])
			if pos+off+length <= len(data) {
				s := string(data[pos+off : pos+off+length])
				if len(s) >= minLen && len(s) <= maxLen {
					if _, exists := out[s]; !exists {
						out[s] = pos
					}
				}
			}
		case format.TagArray, format.TagDict:
			count, wide, slotsOff := wire.UnpackContainerHeader(data[pos:])
			slots := count
			if tag == format.TagDict {
				slots *= 2
			}
			width := wire.SlotWidth(wide)
			for i := 0; i < slots; i++ {
				walkSlot(pos+slotsOff+i*width, wide)
			}
		}
	}

	walkSlot(len(data)-2, false)

	return out
}
