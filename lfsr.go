package dvbrx

import (
	"fmt"

	"github.com/pfcm/dvbrx/bit"
)

// LFSR is a Fibonacci linear-feedback shift register. Each step outputs
// the parity of the tapped bits, shifts right and feeds that bit back in
// at the top of the register.
type LFSR struct {
	seed  uint16
	state uint16
	taps  uint16
	width uint
}

var _ Block = &LFSR{}

// NewLFSR returns a register of the given width (at most 16 bits)
// starting from seed.
func NewLFSR(seed, taps uint16, width uint) *LFSR {
	if width == 0 || width > 16 {
		panic(fmt.Errorf("LFSR width %d out of range [1, 16]", width))
	}
	mask := uint16(1<<width - 1)
	return &LFSR{
		seed:  seed & mask,
		state: seed & mask,
		taps:  taps & mask,
		width: width,
	}
}

// Next steps the register once and returns the output bit.
func (l *LFSR) Next() bit.Bit {
	b := bit.Parity(l.state & l.taps)
	l.state >>= 1
	l.state |= uint16(b) << (l.width - 1)
	return b
}

// Fill writes the next len(dst) bits of the sequence into dst.
func (l *LFSR) Fill(dst []bit.Bit) {
	for i := range dst {
		dst[i] = l.Next()
	}
}

// Reset puts the register back to its seed.
func (l *LFSR) Reset() { l.state = l.seed }

func (*LFSR) Inputs() int         { return 0 }
func (*LFSR) Outputs() int        { return 1 }
func (*LFSR) OutputMultiple() int { return 1 }

func (l *LFSR) String() string {
	return fmt.Sprintf("LFSR(%#04x, taps %#04x)", l.seed, l.taps)
}

// Tick emits the register's sequence, continuing where the last call
// left off.
func (l *LFSR) Tick(_, out [][]bit.Bit) {
	l.Fill(out[0])
}
