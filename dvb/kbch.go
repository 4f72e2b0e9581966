package dvb

import (
	"errors"
	"fmt"
	"sort"
)

const (
	// FECFrameNormal is the length in bits of a normal FEC frame.
	FECFrameNormal = 64800
	// MaxKBCH bounds every frame length returned by KBCH. It is the
	// length of the baseband scrambling sequence.
	MaxKBCH = FECFrameNormal
)

// ErrUnsupported is returned for a frame size and code rate that have no
// BCH frame length.
var ErrUnsupported = errors.New("unsupported frame size and code rate")

// Uncoded BCH frame lengths (kbch) per frame size, EN 302 307-1 and
// EN 302 307-2.
var (
	normalKBCH = map[CodeRate]int{
		C1_4:       16008,
		C1_3:       21408,
		C2_5:       25728,
		C1_2:       32208,
		C3_5:       38688,
		C2_3:       43040,
		C3_4:       48408,
		C4_5:       51648,
		C5_6:       53840,
		C8_9:       57472,
		C9_10:      58192,
		C2_9_VLSNR: 14208,
		C13_45:     18528,
		C9_20:      28968,
		C90_180:    32208,
		C96_180:    34368,
		C11_20:     35448,
		C100_180:   35808,
		C104_180:   37248,
		C26_45:     37248,
		C18_30:     38688,
		C28_45:     40128,
		C23_36:     41208,
		C116_180:   41568,
		C20_30:     43008,
		C124_180:   44448,
		C25_36:     44808,
		C128_180:   45888,
		C13_18:     46608,
		C132_180:   47328,
		C22_30:     47328,
		C135_180:   48408,
		C140_180:   50208,
		C7_9:       50208,
		C154_180:   55248,
	}

	shortKBCH = map[CodeRate]int{
		C1_4:             3072,
		C1_3:             5232,
		C2_5:             6312,
		C1_2:             7032,
		C3_5:             9552,
		C2_3:             10632,
		C3_4:             11712,
		C4_5:             12432,
		C5_6:             13152,
		C8_9:             14232,
		C11_45:           3792,
		C4_15:            4152,
		C14_45:           4872,
		C7_15:            7392,
		C8_15:            8472,
		C26_45:           9192,
		C32_45:           11352,
		C1_5_VLSNR_SF2:   2512,
		C11_45_VLSNR_SF2: 3792,
		C1_5_VLSNR:       3072,
		C4_15_VLSNR:      4152,
		C1_3_VLSNR:       5232,
	}

	mediumKBCH = map[CodeRate]int{
		C1_5_MEDIUM:   5660,
		C11_45_MEDIUM: 7740,
		C1_3_MEDIUM:   10620,
	}
)

func table(fs FrameSize) map[CodeRate]int {
	switch fs {
	case Normal:
		return normalKBCH
	case Short:
		return shortKBCH
	case Medium:
		return mediumKBCH
	}
	return nil
}

// KBCH returns the number of bits in a BCH frame for the given
// parameters, or 0 if the code rate is not defined for the frame size.
//
// Both standards share the same tables, so std does not change the
// result.
func KBCH(std Standard, fs FrameSize, rate CodeRate) int {
	return table(fs)[rate]
}

// Rates returns the code rates defined for fs, shortest frame first.
// Rates with equal frame lengths keep declaration order.
func Rates(fs FrameSize) []CodeRate {
	t := table(fs)
	rs := make([]CodeRate, 0, len(t))
	for r := range t {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool {
		if t[rs[i]] != t[rs[j]] {
			return t[rs[i]] < t[rs[j]]
		}
		return rs[i] < rs[j]
	})
	return rs
}

// Config is a complete set of transmission parameters.
type Config struct {
	Standard  Standard  `yaml:"standard"`
	FrameSize FrameSize `yaml:"framesize"`
	CodeRate  CodeRate  `yaml:"rate"`
}

func (c Config) String() string {
	return fmt.Sprintf("%v %v %v", c.Standard, c.FrameSize, c.CodeRate)
}

// KBCH returns the BCH frame length for c, 0 if unsupported.
func (c Config) KBCH() int { return KBCH(c.Standard, c.FrameSize, c.CodeRate) }

// Validate returns an error wrapping ErrUnsupported if c has no BCH
// frame length.
func (c Config) Validate() error {
	if c.KBCH() == 0 {
		return fmt.Errorf("%v: %w", c, ErrUnsupported)
	}
	return nil
}
