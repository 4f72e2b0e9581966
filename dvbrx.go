// package dvbrx is a small set of streaming blocks for a DVB-S2 receiver.
package dvbrx

import (
	"fmt"
	"strings"

	"github.com/pfcm/dvbrx/bit"
)

// Block is something that processes a stream of bits.
type Block interface {
	// Inputs returns the number of expected input streams.
	Inputs() int
	// Outputs returns the number of expected output streams.
	Outputs() int
	// OutputMultiple is the granularity of the block: the length of
	// every output passed to Tick is a multiple of it.
	OutputMultiple() int
	// Tick processes a chunk of bits. The first dimension of the input
	// slice is always Inputs, and the first dimension of the output
	// slice is always Outputs. Each individual element of both slices
	// is always the same length, a multiple of OutputMultiple. Tick runs
	// to completion before returning and must not keep either slice.
	Tick(input, output [][]bit.Bit)

	fmt.Stringer
}

// Noop is a Block that just copies its inputs to its outputs.
type Noop struct {
	N int
}

var _ Block = Noop{}

func (n Noop) Inputs() int         { return n.N }
func (n Noop) Outputs() int        { return n.N }
func (n Noop) OutputMultiple() int { return 1 }
func (n Noop) String() string      { return fmt.Sprintf("Noop(%d)", n.N) }

func (n Noop) Tick(inputs, outputs [][]bit.Bit) {
	for i := range inputs {
		copy(outputs[i], inputs[i])
	}
}

// Chain is a Block that applies a sequence of Blocks. The inputs and
// outputs all need to line up. A Chain owns intermediate buffers, so
// it must not be ticked from more than one goroutine at a time.
type Chain struct {
	bs              []Block
	inputs, outputs int
	multiple        int
	b1, b2          [][]bit.Bit
}

var _ Block = &Chain{}

// Serially chains the blocks together, feeding the outputs of each to
// the inputs of the next.
func Serially(bs ...Block) (*Chain, error) {
	if len(bs) == 0 {
		return nil, fmt.Errorf("empty chain")
	}
	maxChans := bs[0].Inputs()
	multiple := bs[0].OutputMultiple()
	for i := 1; i < len(bs); i++ {
		if bs[i-1].Outputs() != bs[i].Inputs() {
			return nil, fmt.Errorf(
				"outputs/inputs mismatch:\n%v (%d outputs)\n->\n%v (%d inputs)",
				bs[i-1], bs[i-1].Outputs(), bs[i], bs[i].Inputs())
		}
		maxChans = max(bs[i-1].Outputs(), maxChans)
		maxChans = max(bs[i].Inputs(), maxChans)
		multiple = lcm(multiple, bs[i].OutputMultiple())
	}
	maxChans = max(bs[len(bs)-1].Outputs(), maxChans)
	return &Chain{
		bs:       bs,
		inputs:   bs[0].Inputs(),
		outputs:  bs[len(bs)-1].Outputs(),
		multiple: multiple,
		b1:       make([][]bit.Bit, maxChans),
		b2:       make([][]bit.Bit, maxChans),
	}, nil
}

func (c *Chain) Inputs() int         { return c.inputs }
func (c *Chain) Outputs() int        { return c.outputs }
func (c *Chain) OutputMultiple() int { return c.multiple }

func (c *Chain) String() string {
	s := make([]string, len(c.bs))
	for i, b := range c.bs {
		s[i] = b.String()
	}
	return fmt.Sprintf("Chain(%s)", strings.Join(s, " -> "))
}

func (c *Chain) Tick(input, output [][]bit.Bit) {
	n := len(output[0])
	grow(c.b1, n)
	grow(c.b2, n)
	in, out := c.b1, c.b2
	for i := range input {
		copy(in[i], input[i])
	}
	in = in[:len(input)]
	for _, b := range c.bs {
		out = out[:b.Outputs()]
		b.Tick(in, out)
		in, out = out, in[:cap(in)]
	}
	for i := range output {
		copy(output[i], in[i])
	}
}

// grow makes every buffer in bufs exactly n long, reallocating only
// when the capacity is too small.
func grow(bufs [][]bit.Bit, n int) {
	for i := range bufs {
		if cap(bufs[i]) < n {
			bufs[i] = make([]bit.Bit, n)
		}
		bufs[i] = bufs[i][:n]
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}
