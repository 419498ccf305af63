// Package wireutil holds the small byte-twiddling helpers used by the
// frame codec: big-endian integer conversion, buffer resizing, and frame
// padding.
package wireutil

import (
	"crypto/rand"
	"errors"

	"github.com/valyala/fastrand"
)

// ErrPaddingOutOfRange is returned when a frame claims more padding than
// its payload has room for.
var ErrPaddingOutOfRange = errors.New("wireutil: padding length exceeds payload")

func Uint24ToBytes(b []byte, n uint32) {
	_ = b[2] // bound check hint
	b[0] = byte(n >> 16)
	b[1] = byte(n >> 8)
	b[2] = byte(n)
}

func BytesToUint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func Uint32ToBytes(b []byte, n uint32) {
	_ = b[3]
	b[0] = byte(n >> 24)
	b[1] = byte(n >> 16)
	b[2] = byte(n >> 8)
	b[3] = byte(n)
}

func BytesToUint32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func AppendUint32Bytes(dst []byte, n uint32) []byte {
	return append(dst, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
}

// Resize grows b (reusing its backing array when possible) so that
// len(b) == neededLen.
func Resize(b []byte, neededLen int) []byte {
	b = b[:cap(b)]
	if n := neededLen - len(b); n > 0 {
		b = append(b, make([]byte, n)...)
	}
	return b[:neededLen]
}

// CutPadding strips the one-byte pad length and trailing padding octets
// a PADDED frame carries, per RFC 7540 §6.1.
func CutPadding(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrPaddingOutOfRange
	}

	pad := int(payload[0])
	if pad >= len(payload) {
		return nil, ErrPaddingOutOfRange
	}

	return payload[1 : len(payload)-pad], nil
}

// AddPadding prepends a random pad length (9..255 octets, matching the
// teacher's choice of range) and appends that many random bytes.
func AddPadding(b []byte) []byte {
	n := int(fastrand.Uint32n(256-9)) + 9
	nn := len(b)

	out := make([]byte, 0, nn+n+1)
	out = append(out, byte(n))
	out = append(out, b...)
	out = out[:nn+n+1]

	rand.Read(out[nn+1:])

	return out
}
