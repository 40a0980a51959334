package ottsav

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

var (
	ErrUnknownFormat     = errors.New("unknown savegame format")
	ErrUnsupportedFormat = errors.New("unsupported compression format")
	ErrDecompression     = errors.New("decompression failed")
)

// CompressionKind identifies the body codec named by the header magic.
// Determined once at header parse time.
type CompressionKind uint8

const (
	CompressionNone CompressionKind = iota
	CompressionZlib
	CompressionLzma
	CompressionZstd
	// CompressionLzo is recognized so the error can say what it found,
	// but LZO decompression is deliberately not implemented.
	CompressionLzo
)

func (k CompressionKind) String() string {
	switch k {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	case CompressionLzma:
		return "lzma"
	case CompressionZstd:
		return "zstd"
	case CompressionLzo:
		return "lzo"
	default:
		return "invalid"
	}
}

// compressionKind maps the 4-byte header magic. OTTS is the patchpack
// zstd variant.
func compressionKind(magic string) (CompressionKind, error) {
	switch magic {
	case "OTTN":
		return CompressionNone, nil
	case "OTTZ":
		return CompressionZlib, nil
	case "OTTX":
		return CompressionLzma, nil
	case "OTTS":
		return CompressionZstd, nil
	case "OTTD":
		return CompressionLzo, errors.Wrap(ErrUnsupportedFormat, "OTTD (lzo)")
	default:
		return 0, errors.Wrapf(ErrUnknownFormat, "magic %q; is this a savegame file?", magic)
	}
}

// decompress expands a body to completion with the codec for kind.
func decompress(kind CompressionKind, data []byte) ([]byte, error) {
	switch kind {
	case CompressionNone:
		return data, nil
	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(ErrDecompression, err.Error())
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, errors.Wrap(ErrDecompression, err.Error())
		}
		return out, nil
	case CompressionLzma:
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(ErrDecompression, err.Error())
		}
		out, err := io.ReadAll(xr)
		if err != nil {
			return nil, errors.Wrap(ErrDecompression, err.Error())
		}
		return out, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(nil)
		if err != nil {
			return nil, errors.Wrap(ErrDecompression, err.Error())
		}
		defer zr.Close()
		out, err := zr.DecodeAll(data, nil)
		if err != nil {
			return nil, errors.Wrap(ErrDecompression, err.Error())
		}
		return out, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", kind)
	}
}
