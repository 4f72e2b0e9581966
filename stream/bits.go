package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pfcm/dvbrx/bit"
)

// Format is the on-the-wire representation of a bit stream.
type Format int

const (
	// Unpacked streams carry one bit per byte in the least significant
	// bit, as GNU Radio's unpacked byte streams do.
	Unpacked Format = iota
	// Packed streams carry eight bits per byte, most significant first.
	Packed
)

func (f Format) String() string {
	switch f {
	case Unpacked:
		return "unpacked"
	case Packed:
		return "packed"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Format) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "unpacked":
		*f = Unpacked
	case "packed":
		*f = Packed
	default:
		return fmt.Errorf("unknown format %q", b)
	}
	return nil
}

// bitReader fills dst completely or returns fewer bits along with
// io.EOF (nothing read) or io.ErrUnexpectedEOF, like io.ReadFull.
type bitReader interface {
	ReadBits(dst []bit.Bit) (int, error)
}

// bitWriter writes bits; Flush writes any buffered partial byte.
type bitWriter interface {
	WriteBits(src []bit.Bit) error
	Flush() error
}

func newBitReader(f Format, r io.Reader) bitReader {
	if f == Packed {
		return &packedReader{r: bufio.NewReader(r)}
	}
	return &unpackedReader{r: r}
}

func newBitWriter(f Format, w io.Writer) bitWriter {
	bw := bufio.NewWriter(w)
	if f == Packed {
		return &packedWriter{w: bw}
	}
	return &unpackedWriter{w: bw}
}

type unpackedReader struct {
	r       io.Reader
	scratch []byte
}

func (u *unpackedReader) ReadBits(dst []bit.Bit) (int, error) {
	if cap(u.scratch) < len(dst) {
		u.scratch = make([]byte, len(dst))
	}
	s := u.scratch[:len(dst)]
	n, err := io.ReadFull(u.r, s)
	for i, c := range s[:n] {
		dst[i] = bit.Bit(c & 1)
	}
	return n, err
}

type packedReader struct {
	r    *bufio.Reader
	cur  byte
	left uint
}

func (p *packedReader) ReadBits(dst []bit.Bit) (int, error) {
	for i := range dst {
		if p.left == 0 {
			c, err := p.r.ReadByte()
			if err != nil {
				if errors.Is(err, io.EOF) && i > 0 {
					err = io.ErrUnexpectedEOF
				}
				return i, err
			}
			p.cur, p.left = c, 8
		}
		p.left--
		dst[i] = bit.Bit(p.cur>>p.left) & 1
	}
	return len(dst), nil
}

type unpackedWriter struct {
	w       *bufio.Writer
	scratch []byte
}

func (u *unpackedWriter) WriteBits(src []bit.Bit) error {
	if cap(u.scratch) < len(src) {
		u.scratch = make([]byte, len(src))
	}
	s := u.scratch[:len(src)]
	for i, b := range src {
		s[i] = byte(b & 1)
	}
	_, err := u.w.Write(s)
	return err
}

func (u *unpackedWriter) Flush() error { return u.w.Flush() }

type packedWriter struct {
	w    *bufio.Writer
	cur  byte
	used uint
}

func (p *packedWriter) WriteBits(src []bit.Bit) error {
	for _, b := range src {
		p.cur |= byte(b&1) << (7 - p.used)
		p.used++
		if p.used == 8 {
			if err := p.w.WriteByte(p.cur); err != nil {
				return err
			}
			p.cur, p.used = 0, 0
		}
	}
	return nil
}

// Flush zero pads the last byte.
func (p *packedWriter) Flush() error {
	if p.used > 0 {
		if err := p.w.WriteByte(p.cur); err != nil {
			return err
		}
		p.cur, p.used = 0, 0
	}
	return p.w.Flush()
}
