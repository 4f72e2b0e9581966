// package buffer provides pooled bit buffers sized in whole frames.
package buffer

import (
	"fmt"
	"sync"

	"github.com/pfcm/dvbrx/bit"
)

// Pool hands out buffers of exactly Size bits.
type Pool struct {
	size int
	pool sync.Pool
}

// NewPool returns a pool of buffers holding frames frames of frameLen
// bits each.
func NewPool(frameLen, frames int) *Pool {
	if frameLen <= 0 || frames <= 0 {
		panic(fmt.Errorf("buffer: bad pool shape %d x %d", frames, frameLen))
	}
	p := &Pool{size: frameLen * frames}
	p.pool.New = func() any {
		b := make([]bit.Bit, p.size)
		return &b
	}
	return p
}

// Size is the length of every buffer from Get.
func (p *Pool) Size() int { return p.size }

// Get returns a buffer of Size bits. Its contents are undefined.
func (p *Pool) Get() []bit.Bit {
	return (*(p.pool.Get().(*[]bit.Bit)))[:p.size]
}

// Put returns b to the pool. b must have come from Get.
func (p *Pool) Put(b []bit.Bit) {
	if cap(b) < p.size {
		panic(fmt.Errorf("buffer: put %d bits into a pool of %d", cap(b), p.size))
	}
	b = b[:p.size]
	p.pool.Put(&b)
}
