// package bb undoes the DVB-S2 baseband scrambling of BBFRAMEs.
//
// The transmitter XORs each BBFRAME with the output of the 1+x^14+x^15
// PRBS, restarted at the beginning of every frame. Descrambling applies
// the same sequence again.
package bb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pfcm/dvbrx"
	"github.com/pfcm/dvbrx/bit"
	"github.com/pfcm/dvbrx/dvb"
)

// Register parameters of the baseband scrambler, EN 302 307-1 5.2.2.
const (
	seed  = 0x4A80 // 100101010000000
	taps  = 0x0003
	width = 15
)

// ErrMisaligned is returned when a buffer is not a whole number of
// frames.
var ErrMisaligned = errors.New("misaligned input")

// GenerateSequence returns the first n bits of the scrambling sequence.
func GenerateSequence(n int) []bit.Bit {
	seq := make([]bit.Bit, n)
	dvbrx.NewLFSR(seed, taps, width).Fill(seq)
	return seq
}

var sequence = sync.OnceValue(func() []bit.Bit {
	return GenerateSequence(dvb.MaxKBCH)
})

// Sequence returns the scrambling sequence, long enough for any frame.
// It is generated once and shared; callers must not modify it.
func Sequence() []bit.Bit { return sequence() }

// Descrambler is a Block that descrambles whole BBFRAMEs. Its output
// multiple is the frame length, kbch. It holds no state that changes
// after construction so it is safe to use from several goroutines.
type Descrambler struct {
	cfg  dvb.Config
	kbch int
	seq  []bit.Bit
}

var _ dvbrx.Block = (*Descrambler)(nil)

// NewDescrambler returns a Descrambler for the given parameters. It
// fails with an error wrapping dvb.ErrUnsupported if the code rate is
// not defined for the frame size.
func NewDescrambler(std dvb.Standard, fs dvb.FrameSize, rate dvb.CodeRate) (*Descrambler, error) {
	return New(dvb.Config{Standard: std, FrameSize: fs, CodeRate: rate})
}

// New is NewDescrambler taking a dvb.Config.
func New(cfg dvb.Config) (*Descrambler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bb: %w", err)
	}
	kbch := cfg.KBCH()
	return &Descrambler{
		cfg:  cfg,
		kbch: kbch,
		seq:  Sequence()[:kbch:kbch],
	}, nil
}

// NewScrambler returns the transmit side block. Scrambling and
// descrambling are the same operation.
func NewScrambler(std dvb.Standard, fs dvb.FrameSize, rate dvb.CodeRate) (*Descrambler, error) {
	return NewDescrambler(std, fs, rate)
}

// KBCH returns the number of bits in one frame.
func (d *Descrambler) KBCH() int { return d.kbch }

// Config returns the parameters d was built with.
func (d *Descrambler) Config() dvb.Config { return d.cfg }

func (*Descrambler) Inputs() int           { return 1 }
func (*Descrambler) Outputs() int          { return 1 }
func (d *Descrambler) OutputMultiple() int { return d.kbch }

func (d *Descrambler) String() string {
	return fmt.Sprintf("Descrambler(%v, kbch %d)", d.cfg, d.kbch)
}

// Tick descrambles in[0] into out[0]. The buffers must be the same
// length and a whole number of frames; anything else panics.
func (d *Descrambler) Tick(in, out [][]bit.Bit) {
	if _, err := d.Work(in[0], out[0]); err != nil {
		panic(err)
	}
}

// Work descrambles in into out and returns the number of bits written,
// which is always len(in). in and out must have the same length, a
// multiple of KBCH, and may be the same slice.
func (d *Descrambler) Work(in, out []bit.Bit) (int, error) {
	if len(in) != len(out) {
		return 0, fmt.Errorf("%w: %d input bits but %d output bits", ErrMisaligned, len(in), len(out))
	}
	if len(in)%d.kbch != 0 {
		return 0, fmt.Errorf("%w: %d bits is not a multiple of kbch %d", ErrMisaligned, len(in), d.kbch)
	}
	for i := 0; i < len(in); i += d.kbch {
		bit.Xor(out[i:i+d.kbch], in[i:i+d.kbch], d.seq)
	}
	return len(in), nil
}

// Descramble returns a descrambled copy of in.
func (d *Descrambler) Descramble(in []bit.Bit) ([]bit.Bit, error) {
	out := make([]bit.Bit, len(in))
	if _, err := d.Work(in, out); err != nil {
		return nil, err
	}
	return out, nil
}
