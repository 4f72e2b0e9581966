package bb

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pfcm/dvbrx/bit"
	"github.com/pfcm/dvbrx/dvb"
)

func mustDescrambler(t *testing.T, fs dvb.FrameSize, rate dvb.CodeRate) *Descrambler {
	t.Helper()
	d, err := NewDescrambler(dvb.DVBS2, fs, rate)
	if err != nil {
		t.Fatalf("NewDescrambler(%v, %v): %v", fs, rate, err)
	}
	return d
}

func randomBits(r *rand.Rand, n int) []bit.Bit {
	bs := make([]bit.Bit, n)
	for i := range bs {
		bs[i] = bit.Bit(r.Intn(2))
	}
	return bs
}

func equal(a, b []bit.Bit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSequencePrefix(t *testing.T) {
	const want = "0000001111110110000010000011010000110000101110001010001110010011"
	if got := bit.String(Sequence()[:len(want)]); got != want {
		t.Errorf("Sequence()[:%d] = %s, want: %s", len(want), got, want)
	}
}

func TestSequenceDeterministic(t *testing.T) {
	a := GenerateSequence(dvb.MaxKBCH)
	b := GenerateSequence(dvb.MaxKBCH)
	shared := Sequence()
	if len(shared) != dvb.MaxKBCH {
		t.Fatalf("len(Sequence()) = %d, want: %d", len(shared), dvb.MaxKBCH)
	}
	for i := range a {
		if a[i] != b[i] || a[i] != shared[i] {
			t.Fatalf("sequences differ at %d: %v, %v, %v", i, a[i], b[i], shared[i])
		}
		if a[i] > 1 {
			t.Fatalf("sequence[%d] = %d, want a single bit", i, a[i])
		}
	}
}

func TestSequencePeriod(t *testing.T) {
	// 1+x^14+x^15 is primitive, so the sequence repeats every 2^15-1 bits.
	const period = 1<<15 - 1
	seq := Sequence()
	for i := 0; i+period < len(seq); i++ {
		if seq[i] != seq[i+period] {
			t.Fatalf("seq[%d] = %v but seq[%d] = %v", i, seq[i], i+period, seq[i+period])
		}
	}
}

func TestNewDescramblerUnsupported(t *testing.T) {
	for _, c := range []struct {
		fs   dvb.FrameSize
		rate dvb.CodeRate
	}{
		{dvb.Medium, dvb.C1_2},
		{dvb.Short, dvb.C9_10},
		{dvb.Normal, dvb.C1_3_MEDIUM},
	} {
		d, err := NewDescrambler(dvb.DVBS2X, c.fs, c.rate)
		if !errors.Is(err, dvb.ErrUnsupported) {
			t.Errorf("NewDescrambler(%v, %v) = %v, %v, want ErrUnsupported", c.fs, c.rate, d, err)
		}
	}
}

func TestKBCH(t *testing.T) {
	for _, c := range []struct {
		fs   dvb.FrameSize
		rate dvb.CodeRate
		want int
	}{
		{dvb.Normal, dvb.C1_4, 16008},
		{dvb.Short, dvb.C1_4, 3072},
		{dvb.Medium, dvb.C1_5_MEDIUM, 5660},
	} {
		d := mustDescrambler(t, c.fs, c.rate)
		if got := d.KBCH(); got != c.want {
			t.Errorf("%v KBCH() = %d, want: %d", d, got, c.want)
		}
		if got := d.OutputMultiple(); got != c.want {
			t.Errorf("%v OutputMultiple() = %d, want: %d", d, got, c.want)
		}
	}
}

func TestZeroFramesYieldSequence(t *testing.T) {
	d := mustDescrambler(t, dvb.Short, dvb.C1_2)
	if d.KBCH() != 7032 {
		t.Fatalf("KBCH() = %d, want: 7032", d.KBCH())
	}
	in := make([]bit.Bit, 14064)
	out := make([]bit.Bit, len(in))
	n, err := d.Work(in, out)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(in) {
		t.Errorf("Work() = %d, want: %d", n, len(in))
	}
	seq := Sequence()[:7032]
	if !equal(out[:7032], seq) {
		t.Error("first frame is not the sequence")
	}
	if !equal(out[7032:], seq) {
		t.Error("second frame is not the sequence")
	}
}

func TestSequenceFrameYieldsZeros(t *testing.T) {
	d := mustDescrambler(t, dvb.Short, dvb.C1_2)
	in := append([]bit.Bit(nil), Sequence()[:7032]...)
	out, err := d.Descramble(in)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range out {
		if b != 0 {
			t.Fatalf("out[%d] = %v, want: 0", i, b)
		}
	}
}

func TestInvolution(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, c := range []struct {
		fs   dvb.FrameSize
		rate dvb.CodeRate
	}{
		{dvb.Normal, dvb.C9_10},
		{dvb.Normal, dvb.C2_9_VLSNR},
		{dvb.Short, dvb.C1_5_VLSNR_SF2},
		{dvb.Medium, dvb.C1_3_MEDIUM},
	} {
		d := mustDescrambler(t, c.fs, c.rate)
		in := randomBits(r, 2*d.KBCH())
		once, err := d.Descramble(in)
		if err != nil {
			t.Fatal(err)
		}
		if equal(once, in) {
			t.Errorf("%v: descrambling did not change the input", d)
		}
		twice, err := d.Descramble(once)
		if err != nil {
			t.Fatal(err)
		}
		if !equal(twice, in) {
			t.Errorf("%v: descramble(descramble(x)) != x", d)
		}
	}
}

func TestScramblerRoundTrip(t *testing.T) {
	s, err := NewScrambler(dvb.DVBS2, dvb.Medium, dvb.C11_45_MEDIUM)
	if err != nil {
		t.Fatal(err)
	}
	d := mustDescrambler(t, dvb.Medium, dvb.C11_45_MEDIUM)
	in := randomBits(rand.New(rand.NewSource(2)), 3*d.KBCH())
	tx, err := s.Descramble(in)
	if err != nil {
		t.Fatal(err)
	}
	rx, err := d.Descramble(tx)
	if err != nil {
		t.Fatal(err)
	}
	if !equal(rx, in) {
		t.Error("scramble then descramble did not round trip")
	}
}

func TestFrameIndependence(t *testing.T) {
	d := mustDescrambler(t, dvb.Short, dvb.C3_4)
	k := d.KBCH()
	r := rand.New(rand.NewSource(3))

	in := make([]bit.Bit, 3*k)
	for i := k; i < 2*k; i++ {
		in[i] = 1
	}
	copy(in[2*k:], randomBits(r, k))

	before, err := d.Descramble(in)
	if err != nil {
		t.Fatal(err)
	}
	copy(in[k:2*k], randomBits(r, k))
	after, err := d.Descramble(in)
	if err != nil {
		t.Fatal(err)
	}
	if !equal(before[:k], after[:k]) {
		t.Error("changing frame 1 changed frame 0")
	}
	if !equal(before[2*k:], after[2*k:]) {
		t.Error("changing frame 1 changed frame 2")
	}

	seq := Sequence()
	for j := 0; j < k; j++ {
		if after[j] != seq[j] {
			t.Fatalf("frame 0 bit %d = %v, want: %v", j, after[j], seq[j])
		}
		if after[k+j] != in[k+j]^seq[j] {
			t.Fatalf("frame 1 bit %d = %v, want: %v", j, after[k+j], in[k+j]^seq[j])
		}
		if after[2*k+j] != in[2*k+j]^seq[j] {
			t.Fatalf("frame 2 bit %d = %v, want: %v", j, after[2*k+j], in[2*k+j]^seq[j])
		}
	}
}

func TestWorkMisaligned(t *testing.T) {
	d := mustDescrambler(t, dvb.Medium, dvb.C1_5_MEDIUM)
	for _, c := range []struct {
		in, out int
	}{
		{d.KBCH() + 1, d.KBCH() + 1},
		{d.KBCH() - 1, d.KBCH() - 1},
		{d.KBCH(), 2 * d.KBCH()},
	} {
		n, err := d.Work(make([]bit.Bit, c.in), make([]bit.Bit, c.out))
		if !errors.Is(err, ErrMisaligned) {
			t.Errorf("Work(%d, %d) = %d, %v, want ErrMisaligned", c.in, c.out, n, err)
		}
	}
	if n, err := d.Work(nil, nil); n != 0 || err != nil {
		t.Errorf("Work(nil, nil) = %d, %v, want: 0, nil", n, err)
	}
}

func TestTickInPlace(t *testing.T) {
	d := mustDescrambler(t, dvb.Short, dvb.C1_4)
	buf := make([]bit.Bit, 4*d.KBCH())
	d.Tick([][]bit.Bit{buf}, [][]bit.Bit{buf})
	seq := Sequence()[:d.KBCH()]
	for f := 0; f < 4; f++ {
		if !equal(buf[f*d.KBCH():(f+1)*d.KBCH()], seq) {
			t.Errorf("frame %d is not the sequence", f)
		}
	}
}

func TestTickPanicsOnMisaligned(t *testing.T) {
	d := mustDescrambler(t, dvb.Short, dvb.C1_4)
	defer func() {
		if r := recover(); r == nil {
			t.Error("Tick with a partial frame did not panic")
		}
	}()
	buf := make([]bit.Bit, d.KBCH()+8)
	d.Tick([][]bit.Bit{buf}, [][]bit.Bit{buf})
}
