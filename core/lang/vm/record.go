package vm

import (
	"encoding/binary"
	"fmt"
)

// Kind is the type tag of a register value or record field.
type Kind byte

const (
	KindNull Kind = iota
	KindString
	KindInt32
	KindRecord
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt32:
		return "int32"
	case KindRecord:
		return "record"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

// Value is a register cell: a tagged scalar or an encoded record.
type Value struct {
	Kind Kind
	Str  string
	Int  int32
	Rec  []byte
}

// StringValue builds a string register value.
func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Int32Value builds an int32 register value.
func Int32Value(n int32) Value {
	return Value{Kind: KindInt32, Int: n}
}

// RecordValue builds a record register value.
func RecordValue(rec []byte) Value {
	return Value{Kind: KindRecord, Rec: rec}
}

// Record encoding: fields back to back, each a type byte followed by its
// payload. Strings are a little-endian uint32 byte length plus the bytes;
// int32 is four little-endian bytes. Field order is fixed by the encoder
// and is part of the layout contract consumers compile against.

// EncodeRecord serializes scalar values into a record.
func EncodeRecord(fields ...Value) ([]byte, error) {
	var out []byte
	for i, f := range fields {
		switch f.Kind {
		case KindString:
			out = append(out, byte(KindString))
			out = binary.LittleEndian.AppendUint32(out, uint32(len(f.Str)))
			out = append(out, f.Str...)
		case KindInt32:
			out = append(out, byte(KindInt32))
			out = binary.LittleEndian.AppendUint32(out, uint32(f.Int))
		default:
			return nil, fmt.Errorf("field %d: cannot encode %s", i, f.Kind)
		}
	}
	return out, nil
}

// DecodeField walks the record and decodes the idx-th field.
func DecodeField(rec []byte, idx int) (Value, error) {
	offset := 0
	for field := 0; ; field++ {
		if offset >= len(rec) {
			return Value{}, fmt.Errorf("record has no field %d", idx)
		}
		kind := Kind(rec[offset])
		offset++
		switch kind {
		case KindString:
			if offset+4 > len(rec) {
				return Value{}, fmt.Errorf("field %d: truncated string header", field)
			}
			n := int(binary.LittleEndian.Uint32(rec[offset:]))
			offset += 4
			if offset+n > len(rec) {
				return Value{}, fmt.Errorf("field %d: truncated string body", field)
			}
			if field == idx {
				return StringValue(string(rec[offset : offset+n])), nil
			}
			offset += n
		case KindInt32:
			if offset+4 > len(rec) {
				return Value{}, fmt.Errorf("field %d: truncated int32", field)
			}
			if field == idx {
				return Int32Value(int32(binary.LittleEndian.Uint32(rec[offset:]))), nil
			}
			offset += 4
		default:
			return Value{}, fmt.Errorf("field %d: unknown field kind %d", field, byte(kind))
		}
	}
}
