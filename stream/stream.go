// package stream runs a Block over a bit stream read from an io.Reader,
// writing the result to an io.Writer.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/pfcm/dvbrx"
	"github.com/pfcm/dvbrx/bit"
	"github.com/pfcm/dvbrx/internal/buffer"
)

// DefaultFrames is the number of frames handed to the block per Tick
// when Options.Frames is zero.
const DefaultFrames = 16

// ErrPartialFrame is returned when the input ends part way through a
// frame.
var ErrPartialFrame = errors.New("partial frame at end of stream")

// Options control Run.
type Options struct {
	Format Format
	// Frames per Tick. Zero means DefaultFrames.
	Frames int
	// DropPartial discards a trailing partial frame instead of failing.
	DropPartial bool
}

// Stats describes a completed Run.
type Stats struct {
	Frames  int64 // whole frames written
	Bits    int64 // bits written
	Dropped int   // bits of a trailing partial frame that were discarded
}

// Run reads bits from r, passes them through b in chunks of whole
// frames (b.OutputMultiple bits each) and writes the output to w. b
// must have exactly one input and one output.
//
// Reading, processing and writing run concurrently. Run returns when r
// is exhausted, on the first error, or when ctx is cancelled.
func Run(ctx context.Context, b dvbrx.Block, r io.Reader, w io.Writer, opts Options) (Stats, error) {
	if b.Inputs() != 1 || b.Outputs() != 1 {
		return Stats{}, fmt.Errorf("stream: %v has %d inputs and %d outputs, want 1 and 1", b, b.Inputs(), b.Outputs())
	}
	frameLen := b.OutputMultiple()
	if frameLen <= 0 {
		return Stats{}, fmt.Errorf("stream: %v has output multiple %d", b, frameLen)
	}
	frames := opts.Frames
	if frames <= 0 {
		frames = DefaultFrames
	}

	var (
		pool    = buffer.NewPool(frameLen, frames)
		filled  = make(chan []bit.Bit, 2)
		done    = make(chan []bit.Bit, 2)
		stats   Stats
		dropped int
	)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(filled)
		br := newBitReader(opts.Format, r)
		for {
			buf := pool.Get()
			n, err := br.ReadBits(buf)
			switch {
			case err == nil:
			case errors.Is(err, io.EOF):
				pool.Put(buf)
				return nil
			case errors.Is(err, io.ErrUnexpectedEOF):
				whole := n - n%frameLen
				if rem := n - whole; rem > 0 && !padding(opts.Format, rem) {
					if !opts.DropPartial {
						pool.Put(buf)
						return fmt.Errorf("%w: %d bits after %d whole frames in the last chunk", ErrPartialFrame, rem, whole/frameLen)
					}
					dropped = rem
				}
				if whole == 0 {
					pool.Put(buf)
					return nil
				}
				buf = buf[:whole]
			default:
				pool.Put(buf)
				return fmt.Errorf("stream: reading: %w", err)
			}
			select {
			case filled <- buf:
			case <-ctx.Done():
				pool.Put(buf)
				return ctx.Err()
			}
			if len(buf) < pool.Size() {
				return nil
			}
		}
	})

	g.Go(func() error {
		defer close(done)
		for in := range filled {
			out := pool.Get()[:len(in)]
			b.Tick([][]bit.Bit{in}, [][]bit.Bit{out})
			pool.Put(in)
			select {
			case done <- out:
			case <-ctx.Done():
				pool.Put(out)
				return ctx.Err()
			}
		}
		return nil
	})

	g.Go(func() error {
		bw := newBitWriter(opts.Format, w)
		for out := range done {
			if err := bw.WriteBits(out); err != nil {
				return fmt.Errorf("stream: writing: %w", err)
			}
			stats.Bits += int64(len(out))
			stats.Frames += int64(len(out) / frameLen)
			pool.Put(out)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("stream: writing: %w", err)
		}
		return nil
	})

	err := g.Wait()
	stats.Dropped = dropped
	return stats, err
}

// padding reports whether rem leftover bits are the zero padding of the
// final byte of a packed stream.
func padding(f Format, rem int) bool {
	return f == Packed && rem < 8
}
