package common

// Gamma is the container's variable-length unsigned integer code.
// The leading byte carries a unary length prefix in its high bits;
// continuation bytes contribute all 8 bits. The 5-byte form stores a
// plain big-endian uint32 after the prefix byte.
//
// Value ranges per encoded size:
//
//	1 byte  <= 0x7F
//	2 bytes <= 0x3FFF
//	3 bytes <= 0x1FFFFF
//	4 bytes <= 0xFFFFFFF
//	5 bytes <= 0xFFFFFFFF

// AppendGamma appends the shortest gamma encoding of x to dst.
func AppendGamma(dst []byte, x uint32) []byte {
	switch {
	case x < 1<<7:
		return append(dst, byte(x))
	case x < 1<<14:
		return append(dst, 0x80|byte(x>>8), byte(x))
	case x < 1<<21:
		return append(dst, 0xC0|byte(x>>16), byte(x>>8), byte(x))
	case x < 1<<28:
		return append(dst, 0xE0|byte(x>>24), byte(x>>16), byte(x>>8), byte(x))
	default:
		return append(dst, 0xF0, byte(x>>24), byte(x>>16), byte(x>>8), byte(x))
	}
}

// GammaSize returns the encoded byte count for x.
func GammaSize(x uint32) int {
	switch {
	case x < 1<<7:
		return 1
	case x < 1<<14:
		return 2
	case x < 1<<21:
		return 3
	case x < 1<<28:
		return 4
	default:
		return 5
	}
}
