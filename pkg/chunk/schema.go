package chunk

import (
	"github.com/pkg/errors"

	"github.com/rawbytedev/ottsav/pkg/cursor"
)

var ErrUnknownFieldType = errors.New("unknown field type")

// FieldType is the low nibble of a schema tag byte. TypeNone never
// names a real field; a raw tag byte of 0 terminates the field list.
type FieldType uint8

const (
	TypeNone FieldType = iota
	TypeInt8
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeStringID
	TypeString
	TypeStruct
)

func (t FieldType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeInt8:
		return "int8"
	case TypeUint8:
		return "uint8"
	case TypeInt16:
		return "int16"
	case TypeUint16:
		return "uint16"
	case TypeInt32:
		return "int32"
	case TypeUint32:
		return "uint32"
	case TypeInt64:
		return "int64"
	case TypeUint64:
		return "uint64"
	case TypeStringID:
		return "stringid"
	case TypeString:
		return "string"
	case TypeStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// StringID is a translation table reference stored as a 4-byte value.
type StringID uint32

const (
	listFlag = 0x10
	typeMask = 0x0F
)

// Field is one schema entry. Sub is non-nil exactly when Type is
// TypeStruct and holds the nested field list.
type Field struct {
	Name   string
	Type   FieldType
	IsList bool
	Sub    *Schema
}

// Schema is the ordered field list of a table chunk. Order defines the
// on-disk field order of every row.
type Schema struct {
	Fields []Field
}

// DecodeSchema parses a header block into a schema. The block must be
// fully self-contained; trailing bytes after the terminator are left
// unread deliberately (the block length already bounded them).
func DecodeSchema(header []byte) (*Schema, error) {
	if len(header) == 0 {
		// zero-length header block: empty schema
		return &Schema{}, nil
	}
	c := cursor.New(header)
	return readSchema(c)
}

// readSchema reads one field list off c. A struct field's nested list
// follows immediately after its declaration, so the parent's remaining
// fields resume once the nested terminator has been consumed.
func readSchema(c *cursor.Cursor) (*Schema, error) {
	sc := &Schema{}
	for {
		pos := c.Pos()
		tag, err := c.ReadU8()
		if err != nil {
			return nil, errors.Wrap(err, "field tag")
		}
		if tag == 0 {
			return sc, nil
		}
		ft := FieldType(tag & typeMask)
		if ft == TypeNone || ft > TypeStruct {
			return nil, errors.Wrapf(ErrUnknownFieldType, "tag 0x%02X at offset %d", tag, pos)
		}
		nameLen, err := c.ReadGamma()
		if err != nil {
			return nil, errors.Wrap(err, "field name length")
		}
		if nameLen == 0 {
			// legacy terminator form
			return sc, nil
		}
		name, err := c.ReadString(int(nameLen))
		if err != nil {
			return nil, errors.Wrap(err, "field name")
		}
		f := Field{Name: name, Type: ft, IsList: tag&listFlag != 0}
		if ft == TypeStruct {
			sub, err := readSchema(c)
			if err != nil {
				return nil, errors.Wrapf(err, "struct field %q", name)
			}
			f.Sub = sub
		}
		sc.Fields = append(sc.Fields, f)
	}
}
