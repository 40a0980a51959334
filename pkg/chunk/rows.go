package chunk

import (
	"github.com/pkg/errors"

	"github.com/rawbytedev/ottsav/pkg/cursor"
)

// FieldValue is one decoded field of a record. Value holds the Go type
// matching the schema: int8..uint64 for the fixed widths, StringID,
// string, Record for structs, and []any for list fields.
type FieldValue struct {
	Name  string
	Value any
}

// Record is an ordered field-name to value mapping, field order
// matching the schema.
type Record struct {
	Fields []FieldValue
}

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Row pairs a record with its row number. Dense tables number rows by
// position; sparse tables carry an explicit gamma index per row.
type Row struct {
	Index  uint32
	Record Record
}

// ErrMalformedTable flags a data block whose rows make no forward
// progress, e.g. records under an empty schema.
var ErrMalformedTable = errors.New("malformed table data")

// decodeRows consumes the data block until exhaustion. Rows are never
// partially returned: a short final record is an error.
func decodeRows(sc *Schema, data []byte, sparse bool) ([]Row, error) {
	c := cursor.New(data)
	var rows []Row
	for c.Remaining() > 0 {
		start := c.Pos()
		idx := uint32(len(rows))
		if sparse {
			var err error
			idx, err = c.ReadGamma()
			if err != nil {
				return nil, errors.Wrapf(err, "row index of row %d", len(rows))
			}
		}
		rec, err := decodeRecord(c, sc)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", len(rows))
		}
		if c.Pos() == start {
			// zero-byte rows would loop forever
			return nil, errors.Wrapf(ErrMalformedTable,
				"row %d at offset %d consumed no bytes, %d left", len(rows), start, c.Remaining())
		}
		rows = append(rows, Row{Index: idx, Record: rec})
	}
	return rows, nil
}

// decodeRecord reads one record in schema field order. Every field is
// mandatory; there is no reordering or omission on the wire.
func decodeRecord(c *cursor.Cursor, sc *Schema) (Record, error) {
	rec := Record{Fields: make([]FieldValue, 0, len(sc.Fields))}
	for _, f := range sc.Fields {
		if f.IsList {
			n, err := c.ReadGamma()
			if err != nil {
				return rec, errors.Wrapf(err, "list length of field %q", f.Name)
			}
			// the count is attacker-controlled; cap the preallocation by
			// what the buffer could possibly hold
			sizeHint := int(n)
			if r := c.Remaining(); sizeHint > r {
				sizeHint = r
			}
			list := make([]any, 0, sizeHint)
			for i := uint32(0); i < n; i++ {
				elemStart := c.Pos()
				v, err := decodeValue(c, f)
				if err != nil {
					return rec, errors.Wrapf(err, "element %d of field %q", i, f.Name)
				}
				if c.Pos() == elemStart {
					return rec, errors.Wrapf(ErrMalformedTable,
						"element %d of field %q consumed no bytes", i, f.Name)
				}
				list = append(list, v)
			}
			rec.Fields = append(rec.Fields, FieldValue{Name: f.Name, Value: list})
			continue
		}
		v, err := decodeValue(c, f)
		if err != nil {
			return rec, errors.Wrapf(err, "field %q", f.Name)
		}
		rec.Fields = append(rec.Fields, FieldValue{Name: f.Name, Value: v})
	}
	return rec, nil
}

func decodeValue(c *cursor.Cursor, f Field) (any, error) {
	switch f.Type {
	case TypeInt8:
		return c.ReadI8()
	case TypeUint8:
		return c.ReadU8()
	case TypeInt16:
		return c.ReadI16()
	case TypeUint16:
		return c.ReadU16()
	case TypeInt32:
		return c.ReadI32()
	case TypeUint32:
		return c.ReadU32()
	case TypeInt64:
		return c.ReadI64()
	case TypeUint64:
		return c.ReadU64()
	case TypeStringID:
		v, err := c.ReadU32()
		return StringID(v), err
	case TypeString:
		n, err := c.ReadGamma()
		if err != nil {
			return nil, err
		}
		return c.ReadString(int(n))
	case TypeStruct:
		return decodeRecord(c, f.Sub)
	default:
		return nil, errors.Wrapf(ErrUnknownFieldType, "type %d", f.Type)
	}
}
