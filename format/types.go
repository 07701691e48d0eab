// Package format defines the wire-level constants shared by the writer, encoder,
// and value decoder: value tags, special-value sub-codes, and the compression
// types used when a finished buffer is persisted at rest.
package format

// Tag identifies the kind of a value from the high nibble of its first byte.
type Tag uint8

const (
	TagShortInt Tag = 0x0
	TagInt      Tag = 0x1
	TagFloat    Tag = 0x2
	TagSpecial  Tag = 0x3
	TagString   Tag = 0x4
	TagBinary   Tag = 0x5
	TagArray    Tag = 0x6
	TagDict     Tag = 0x7
	TagPointer  Tag = 0x8 // 0x8..0xF: the top bit of the tag nibble marks a pointer.
)

func (t Tag) String() string {
	switch t {
	case TagShortInt:
		return "ShortInt"
	case TagInt:
		return "Int"
	case TagFloat:
		return "Float"
	case TagSpecial:
		return "Special"
	case TagString:
		return "String"
	case TagBinary:
		return "Binary"
	case TagArray:
		return "Array"
	case TagDict:
		return "Dict"
	default:
		if t&TagPointer != 0 {
			return "Pointer"
		}
		return "Unknown"
	}
}

// IsPointer reports whether the tag's top bit marks a pointer value.
func (t Tag) IsPointer() bool {
	return t&0x8 != 0
}

// SpecialValue is the low-nibble sub-code carried by a TagSpecial value.
type SpecialValue uint8

const (
	SpecialNull      SpecialValue = 0x0
	SpecialUndefined SpecialValue = 0x1
	SpecialFalse     SpecialValue = 0x2
	SpecialTrue      SpecialValue = 0x3
)

func (s SpecialValue) String() string {
	switch s {
	case SpecialNull:
		return "Null"
	case SpecialUndefined:
		return "Undefined"
	case SpecialFalse:
		return "False"
	case SpecialTrue:
		return "True"
	default:
		return "Unknown"
	}
}

// ValueType is the decoder-facing classification of a value, collapsing the
// wire tag and special sub-code into the eight kinds callers reason about.
type ValueType uint8

const (
	ValueUndefined ValueType = iota
	ValueNull
	ValueBool
	ValueNumber
	ValueString
	ValueData
	ValueArray
	ValueDict
)

func (v ValueType) String() string {
	switch v {
	case ValueUndefined:
		return "Undefined"
	case ValueNull:
		return "Null"
	case ValueBool:
		return "Bool"
	case ValueNumber:
		return "Number"
	case ValueString:
		return "String"
	case ValueData:
		return "Data"
	case ValueArray:
		return "Array"
	case ValueDict:
		return "Dict"
	default:
		return "Unknown"
	}
}

// CompressionType selects the algorithm used to compress a finished Fleece
// buffer for storage or transport. It is never part of the Fleece buffer
// itself; it is the framing tag the storage package prepends around one.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1
	CompressionZstd CompressionType = 0x2
	CompressionS2   CompressionType = 0x3
	CompressionLZ4  CompressionType = 0x4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
