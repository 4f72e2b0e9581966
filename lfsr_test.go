package dvbrx

import (
	"testing"

	"github.com/pfcm/dvbrx/bit"
)

func TestLFSR(t *testing.T) {
	for _, c := range []struct {
		seed, taps uint16
		width      uint
		want       string
	}{
		// DVB-S2 baseband scrambler.
		{0x4A80, 0x3, 15, "00000011111101100000100000110100"},
		// All zero state never leaves zero.
		{0, 0x3, 15, "00000000"},
		// 1+x+x^2 over two bits cycles with period 3.
		{0x1, 0x3, 2, "110110110"},
	} {
		l := NewLFSR(c.seed, c.taps, c.width)
		got := make([]bit.Bit, len(c.want))
		l.Fill(got)
		if s := bit.String(got); s != c.want {
			t.Errorf("%v: got %s, want: %s", l, s, c.want)
		}
		l.Reset()
		if b := l.Next(); b.String() != c.want[:1] {
			t.Errorf("%v: after Reset got %v, want: %s", l, b, c.want[:1])
		}
	}
}

func TestLFSRTickContinues(t *testing.T) {
	l := NewLFSR(0x4A80, 0x3, 15)
	a := make([]bit.Bit, 10)
	b := make([]bit.Bit, 22)
	l.Tick(nil, [][]bit.Bit{a})
	l.Tick(nil, [][]bit.Bit{b})
	if got, want := bit.String(a)+bit.String(b), "00000011111101100000100000110100"; got != want {
		t.Errorf("two ticks = %s, want: %s", got, want)
	}
}
