package chunk

import (
	"github.com/pkg/errors"

	"github.com/rawbytedev/ottsav/internal/common"
)

// Minimal re-encoder: the exact inverse of the schema and row decoders,
// enough to rebuild a table chunk byte-for-byte from its decoded form.
// Re-compression of a whole archive is out of scope.

var ErrBadValue = errors.New("value does not match schema")

// AppendSchema appends the header-block encoding of sc, including the
// terminator. Struct sub-schemas follow their declaring field, matching
// the decode order.
func AppendSchema(dst []byte, sc *Schema) []byte {
	for _, f := range sc.Fields {
		tag := byte(f.Type)
		if f.IsList {
			tag |= listFlag
		}
		dst = append(dst, tag)
		dst = common.AppendGamma(dst, uint32(len(f.Name)))
		dst = append(dst, f.Name...)
		if f.Type == TypeStruct {
			dst = AppendSchema(dst, f.Sub)
		}
	}
	return append(dst, 0)
}

// AppendRecord appends the row encoding of rec under sc. The record
// must carry every schema field in order with values of the types the
// decoder produces.
func AppendRecord(dst []byte, sc *Schema, rec Record) ([]byte, error) {
	if len(rec.Fields) != len(sc.Fields) {
		return nil, errors.Wrapf(ErrBadValue, "record has %d fields, schema %d", len(rec.Fields), len(sc.Fields))
	}
	for i, f := range sc.Fields {
		fv := rec.Fields[i]
		if fv.Name != f.Name {
			return nil, errors.Wrapf(ErrBadValue, "field %d is %q, schema says %q", i, fv.Name, f.Name)
		}
		if f.IsList {
			list, ok := fv.Value.([]any)
			if !ok {
				return nil, errors.Wrapf(ErrBadValue, "list field %q holds %T", f.Name, fv.Value)
			}
			dst = common.AppendGamma(dst, uint32(len(list)))
			for _, v := range list {
				var err error
				dst, err = appendValue(dst, f, v)
				if err != nil {
					return nil, err
				}
			}
			continue
		}
		var err error
		dst, err = appendValue(dst, f, fv.Value)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func appendValue(dst []byte, f Field, v any) ([]byte, error) {
	switch f.Type {
	case TypeInt8:
		if x, ok := v.(int8); ok {
			return append(dst, byte(x)), nil
		}
	case TypeUint8:
		if x, ok := v.(uint8); ok {
			return append(dst, x), nil
		}
	case TypeInt16:
		if x, ok := v.(int16); ok {
			return appendU16(dst, uint16(x)), nil
		}
	case TypeUint16:
		if x, ok := v.(uint16); ok {
			return appendU16(dst, x), nil
		}
	case TypeInt32:
		if x, ok := v.(int32); ok {
			return appendU32(dst, uint32(x)), nil
		}
	case TypeUint32:
		if x, ok := v.(uint32); ok {
			return appendU32(dst, x), nil
		}
	case TypeInt64:
		if x, ok := v.(int64); ok {
			return appendU64(dst, uint64(x)), nil
		}
	case TypeUint64:
		if x, ok := v.(uint64); ok {
			return appendU64(dst, x), nil
		}
	case TypeStringID:
		if x, ok := v.(StringID); ok {
			return appendU32(dst, uint32(x)), nil
		}
	case TypeString:
		if x, ok := v.(string); ok {
			dst = common.AppendGamma(dst, uint32(len(x)))
			return append(dst, x...), nil
		}
	case TypeStruct:
		if x, ok := v.(Record); ok {
			return AppendRecord(dst, f.Sub, x)
		}
	}
	return nil, errors.Wrapf(ErrBadValue, "field %q wants %s, holds %T", f.Name, f.Type, v)
}

func appendU16(dst []byte, x uint16) []byte {
	return append(dst, byte(x>>8), byte(x))
}

func appendU32(dst []byte, x uint32) []byte {
	return append(dst, byte(x>>24), byte(x>>16), byte(x>>8), byte(x))
}

func appendU64(dst []byte, x uint64) []byte {
	return append(dst, byte(x>>56), byte(x>>48), byte(x>>40), byte(x>>32),
		byte(x>>24), byte(x>>16), byte(x>>8), byte(x))
}

// AppendChunk appends a framed Table or SparseTable chunk: label, kind
// tag, gamma-sized header block, gamma-sized data block.
func AppendChunk(dst []byte, label string, kind Kind, payload *TablePayload) ([]byte, error) {
	if len(label) != 4 {
		return nil, errors.Wrapf(ErrBadValue, "label %q is not 4 bytes", label)
	}
	if kind != Table && kind != SparseTable {
		return nil, errors.Wrapf(ErrUnsupportedKind, "cannot encode %s chunks", kind)
	}
	header := AppendSchema(nil, payload.Schema)
	var data []byte
	for i, row := range payload.Rows {
		if kind == SparseTable {
			data = common.AppendGamma(data, row.Index)
		}
		var err error
		data, err = AppendRecord(data, payload.Schema, row.Record)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
	}
	dst = append(dst, label...)
	dst = append(dst, byte(kind))
	dst = common.AppendGamma(dst, uint32(len(header)))
	dst = append(dst, header...)
	dst = common.AppendGamma(dst, uint32(len(data)))
	return append(dst, data...), nil
}
