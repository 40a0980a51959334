// Package cursor provides a sequential reader over an in-memory byte
// buffer: fixed-width big-endian integers, raw byte runs, UTF-8 strings
// and the gamma variable-length integer used throughout the savegame
// container. A Cursor borrows its buffer; it never copies on read.
package cursor

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var (
	ErrOutOfBounds     = errors.New("read past end of buffer")
	ErrMalformedGamma  = errors.New("malformed gamma prefix")
	ErrInvalidEncoding = errors.New("invalid utf-8 sequence")
)

// Cursor reads through buf from position pos. A failed read leaves the
// cursor in an undefined position; callers must not keep reading after
// an error.
type Cursor struct {
	buf []byte
	pos int
}

func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// take carves out the next n bytes without copying.
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, errors.Wrapf(ErrOutOfBounds,
			"need %d bytes at offset %d, %d left", n, c.pos, len(c.buf)-c.pos)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

func (c *Cursor) ReadI64() (int64, error) {
	v, err := c.ReadU64()
	return int64(v), err
}

// ReadBytes returns the next n bytes. The slice aliases the underlying
// buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	return c.take(n)
}

// ReadRest returns everything from the current position to the end of
// the buffer and exhausts the cursor.
func (c *Cursor) ReadRest() []byte {
	b := c.buf[c.pos:]
	c.pos = len(c.buf)
	return b
}

// ReadString reads n bytes and validates them as UTF-8.
func (c *Cursor) ReadString(n int) (string, error) {
	start := c.pos
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.Wrapf(ErrInvalidEncoding, "%d-byte string at offset %d", n, start)
	}
	return string(b), nil
}

// ReadGamma decodes the variable-length unsigned integer. The unary
// prefix in the first byte's high bits selects a 1..5 byte encoding; a
// fully set 5-bit prefix is malformed.
func (c *Cursor) ReadGamma() (uint32, error) {
	start := c.pos
	b0, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	switch {
	case b0&0x80 == 0:
		return uint32(b0), nil
	case b0&0x40 == 0:
		rest, err := c.take(1)
		if err != nil {
			return 0, err
		}
		return uint32(b0&0x3F)<<8 | uint32(rest[0]), nil
	case b0&0x20 == 0:
		rest, err := c.take(2)
		if err != nil {
			return 0, err
		}
		return uint32(b0&0x1F)<<16 | uint32(rest[0])<<8 | uint32(rest[1]), nil
	case b0&0x10 == 0:
		rest, err := c.take(3)
		if err != nil {
			return 0, err
		}
		return uint32(b0&0x0F)<<24 | uint32(rest[0])<<16 | uint32(rest[1])<<8 | uint32(rest[2]), nil
	case b0&0x08 == 0:
		// 5-byte form: the prefix byte's low bits are discarded and the
		// value is a plain big-endian uint32.
		return c.ReadU32()
	default:
		return 0, errors.Wrapf(ErrMalformedGamma, "leading byte 0x%02X at offset %d", b0, start)
	}
}
