// Package ottsav decodes the savegame container format: a compressed
// archive whose body is a stream of labeled chunks carrying
// self-describing table schemas.
//
// Opening an archive strips the 8-byte header, decompresses the body
// and hands back a Savegame that owns the decompressed bytes:
//
//	sg, err := ottsav.OpenFile("game.sav")
//	if err != nil {
//		// handle error
//	}
//	chunks, err := sg.Chunks()
//
// Saving re-emits the decompressed body verbatim; the original
// compressed representation is not reproduced.
package ottsav

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/rawbytedev/ottsav/pkg/chunk"
	"github.com/rawbytedev/ottsav/pkg/cursor"
)

// Header layout, big-endian: 4-byte compression magic, uint16 format
// version, 2 reserved bytes, then the compressed body.
const headerSize = 8

// Savegame is the decoded container. Body is always the fully
// decompressed byte sequence.
type Savegame struct {
	Version     uint16
	Compression CompressionKind
	Body        []byte
}

// Open parses the header of data and decompresses the body.
func Open(data []byte) (*Savegame, error) {
	c := cursor.New(data)
	magic, err := c.ReadString(4)
	if err != nil {
		return nil, errors.Wrap(err, "header magic")
	}
	kind, err := compressionKind(magic)
	if err != nil {
		return nil, err
	}
	version, err := c.ReadU16()
	if err != nil {
		return nil, errors.Wrap(err, "format version")
	}
	if _, err := c.ReadBytes(2); err != nil { // reserved padding
		return nil, errors.Wrap(err, "reserved bytes")
	}
	body, err := decompress(kind, c.ReadRest())
	if err != nil {
		return nil, err
	}
	return &Savegame{Version: version, Compression: kind, Body: body}, nil
}

// OpenFile reads path fully into memory and opens it. There is no
// streaming mode; decoding always runs over a resident buffer.
func OpenFile(path string) (*Savegame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read savegame %s", path)
	}
	return Open(data)
}

// Save writes the decompressed body verbatim. No header and no
// re-compression: round-tripping through Open and Save reproduces the
// decompressed content, not the original file bytes.
func (s *Savegame) Save(path string) error {
	return errors.Wrapf(os.WriteFile(path, s.Body, 0644), "write savegame %s", path)
}

// WriteTo writes the decompressed body to w.
func (s *Savegame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Body)
	return int64(n), err
}

// Framer starts chunk iteration over the body.
func (s *Savegame) Framer() *chunk.Framer {
	return chunk.NewFramer(s.Body)
}

// Chunks decodes the whole chunk stream. It stops cleanly at end of
// stream and fails on the first undecodable chunk.
func (s *Savegame) Chunks() ([]*chunk.Chunk, error) {
	f := s.Framer()
	var chunks []*chunk.Chunk
	for {
		ch, err := f.Next()
		if err == io.EOF {
			return chunks, nil
		}
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, ch)
	}
}
