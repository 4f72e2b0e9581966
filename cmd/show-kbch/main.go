// show-kbch shows the BCH frame lengths for each frame size and code
// rate, mostly for checking configurations against the standard.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pfcm/dvbrx/bb"
	"github.com/pfcm/dvbrx/bit"
	"github.com/pfcm/dvbrx/dvb"
)

var (
	sizesFlag = flag.String("sizes", "", "comma separated list of frame `sizes` to show (normal, short, medium). Leave empty to show all")
	seqFlag   = flag.Int("seq", 0, "also print the first `n` bits of the scrambling sequence")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), help)
		fmt.Fprintln(flag.CommandLine.Output(), "\nOptional arguments:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 1 {
		fail("Need at most one argument.")
	}
	sizes, err := parseSizes(*sizesFlag)
	if err != nil {
		fail(err.Error())
	}
	if *seqFlag < 0 || *seqFlag > dvb.MaxKBCH {
		fail(fmt.Sprintf("-seq must be in [0, %d]", dvb.MaxKBCH))
	}

	w := tabwriter.NewWriter(os.Stdout, 8, 1, 2, ' ', 0)
	if flag.NArg() == 1 {
		rate, err := dvb.ParseCodeRate(flag.Arg(0))
		if err != nil {
			fail(err.Error())
		}
		showRate(w, sizes, rate)
	} else {
		showTable(w, sizes)
	}
	if err := w.Flush(); err != nil {
		fail(err.Error())
	}

	if *seqFlag > 0 {
		fmt.Println(bit.String(bb.Sequence()[:*seqFlag]))
	}
}

func parseSizes(s string) ([]dvb.FrameSize, error) {
	if s == "" {
		return []dvb.FrameSize{dvb.Normal, dvb.Short, dvb.Medium}, nil
	}
	var sizes []dvb.FrameSize
	for _, n := range strings.Split(s, ",") {
		fs, err := dvb.ParseFrameSize(n)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, fs)
	}
	return sizes, nil
}

func showTable(w io.Writer, sizes []dvb.FrameSize) {
	fmt.Fprintln(w, "size\trate\tkbch\tseq%\t")
	for _, fs := range sizes {
		for _, r := range dvb.Rates(fs) {
			k := dvb.KBCH(dvb.DVBS2, fs, r)
			fmt.Fprintf(w, "%v\t%v\t%d\t%.1f\t\n", fs, r, k, 100*float64(k)/dvb.MaxKBCH)
		}
	}
}

func showRate(w io.Writer, sizes []dvb.FrameSize, rate dvb.CodeRate) {
	fmt.Fprintln(w, "size\trate\tkbch\t")
	for _, fs := range sizes {
		k := dvb.KBCH(dvb.DVBS2, fs, rate)
		if k == 0 {
			fmt.Fprintf(w, "%v\t%v\tunsupported\t\n", fs, rate)
			continue
		}
		fmt.Fprintf(w, "%v\t%v\t%d\t\n", fs, rate, k)
	}
}

func fail(reason string) {
	fmt.Fprintln(os.Stderr, reason)
	fmt.Fprint(os.Stderr, help+"\n")
	os.Exit(1)
}

const help = `show-kbch shows the BCH frame length (kbch) of each frame size and
code rate. The lengths are the same for DVB-S2 and DVB-S2X.
Usage:
	show-kbch [-sizes] [-seq n] [rate]

Where rate is a code rate such as 3/4 or C2_9_VLSNR. Without a rate the
whole table is shown.
`
