// Package chunk walks the chunk stream inside a decompressed savegame
// body and decodes self-describing table chunks: a gamma-sized header
// block carrying the field schema, then a gamma-sized data block
// carrying the rows. Riff, Array and SparseArray chunks are framed but
// their payload layout is not part of this codec.
package chunk

import (
	"io"

	"github.com/pkg/errors"

	"github.com/rawbytedev/ottsav/pkg/cursor"
)

var (
	ErrUnknownKind     = errors.New("unknown chunk kind")
	ErrUnsupportedKind = errors.New("unsupported chunk kind")
)

// Kind is the 1-byte chunk kind tag following the label.
type Kind uint8

const (
	Riff Kind = iota
	Array
	SparseArray
	Table
	SparseTable
)

func (k Kind) String() string {
	switch k {
	case Riff:
		return "riff"
	case Array:
		return "array"
	case SparseArray:
		return "sparse-array"
	case Table:
		return "table"
	case SparseTable:
		return "sparse-table"
	default:
		return "invalid"
	}
}

// Chunk is one decoded unit of the stream. Label is the 4-byte tag
// read as text; Table is set for Table and SparseTable kinds.
type Chunk struct {
	Label string
	Kind  Kind
	Table *TablePayload
}

// TablePayload is the decoded body of a Table or SparseTable chunk.
type TablePayload struct {
	Schema *Schema
	Rows   []Row
}

// Framer iterates the chunk stream of a decompressed body. Chunk
// boundaries depend on each chunk's declared sizes, so iteration is
// strictly sequential.
type Framer struct {
	c *cursor.Cursor
}

func NewFramer(body []byte) *Framer {
	return &Framer{c: cursor.New(body)}
}

// Next reads the next chunk. It returns io.EOF once no bytes remain
// where a label would start; a truncated label is an error.
func (f *Framer) Next() (*Chunk, error) {
	if f.c.Remaining() == 0 {
		return nil, io.EOF
	}
	start := f.c.Pos()
	label, err := f.c.ReadString(4)
	if err != nil {
		return nil, errors.Wrapf(err, "chunk label at offset %d", start)
	}
	tag, err := f.c.ReadU8()
	if err != nil {
		return nil, errors.Wrapf(err, "kind tag of chunk %q", label)
	}
	if tag > uint8(SparseTable) {
		return nil, errors.Wrapf(ErrUnknownKind, "tag %d in chunk %q at offset %d", tag, label, start)
	}
	kind := Kind(tag)
	switch kind {
	case Table, SparseTable:
		payload, err := f.readTable(kind == SparseTable)
		if err != nil {
			return nil, errors.Wrapf(err, "chunk %q", label)
		}
		return &Chunk{Label: label, Kind: kind, Table: payload}, nil
	default:
		// Riff/Array/SparseArray carry no declared size we can trust, so
		// they cannot even be skipped.
		return nil, errors.Wrapf(ErrUnsupportedKind, "%s chunk %q at offset %d", kind, label, start)
	}
}

func (f *Framer) readTable(sparse bool) (*TablePayload, error) {
	headerSize, err := f.c.ReadGamma()
	if err != nil {
		return nil, errors.Wrap(err, "header block size")
	}
	header, err := f.c.ReadBytes(int(headerSize))
	if err != nil {
		return nil, errors.Wrap(err, "header block")
	}
	schema, err := DecodeSchema(header)
	if err != nil {
		return nil, err
	}
	dataSize, err := f.c.ReadGamma()
	if err != nil {
		return nil, errors.Wrap(err, "data block size")
	}
	data, err := f.c.ReadBytes(int(dataSize))
	if err != nil {
		return nil, errors.Wrap(err, "data block")
	}
	rows, err := decodeRows(schema, data, sparse)
	if err != nil {
		return nil, err
	}
	return &TablePayload{Schema: schema, Rows: rows}, nil
}
