// package bit provides the single-bit sample type that flows between blocks.
package bit

import (
	"strings"

	"golang.org/x/exp/constraints"
)

// Bit is one hard bit, stored one per byte. Only the lowest bit is
// meaningful; blocks always write 0 or 1.
type Bit uint8

const (
	Zero Bit = 0
	One  Bit = 1
)

func (b Bit) String() string {
	if b&1 == 1 {
		return "1"
	}
	return "0"
}

// Parity returns 1 if v has an odd number of set bits.
func Parity[T constraints.Unsigned](v T) Bit {
	var p T
	for v != 0 {
		p ^= v & 1
		v >>= 1
	}
	return Bit(p)
}

// FromInts converts a slice of integers into bits, treating anything
// nonzero as a 1.
func FromInts[T constraints.Integer](vs []T) []Bit {
	out := make([]Bit, len(vs))
	for i, v := range vs {
		if v != 0 {
			out[i] = One
		}
	}
	return out
}

// Xor writes a[i]^b[i] into dst. All three slices must be the same
// length; dst may alias a or b.
func Xor(dst, a, b []Bit) {
	if len(a) != len(dst) || len(b) != len(dst) {
		panic("bit: Xor length mismatch")
	}
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// Pack packs src into dst most significant bit first and returns the
// number of bytes written. A trailing partial byte is zero padded.
func Pack(dst []byte, src []Bit) int {
	n := (len(src) + 7) / 8
	if len(dst) < n {
		panic("bit: Pack destination too small")
	}
	for i := range dst[:n] {
		dst[i] = 0
	}
	for i, b := range src {
		dst[i/8] |= byte(b&1) << (7 - uint(i%8))
	}
	return n
}

// Unpack expands src into dst one bit per element, most significant bit
// first. It returns the number of bits written, which is the smaller of
// len(dst) and 8*len(src).
func Unpack(dst []Bit, src []byte) int {
	n := min(len(dst), 8*len(src))
	for i := range dst[:n] {
		dst[i] = Bit(src[i/8]>>(7-uint(i%8))) & 1
	}
	return n
}

// String renders bits as a string of '0' and '1'.
func String(bs []Bit) string {
	var sb strings.Builder
	sb.Grow(len(bs))
	for _, b := range bs {
		sb.WriteByte('0' + byte(b&1))
	}
	return sb.String()
}
