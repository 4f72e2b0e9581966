// bbdescramble descrambles a stream of DVB-S2 BBFRAMEs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/pfcm/dvbrx/bb"
	"github.com/pfcm/dvbrx/dvb"
	"github.com/pfcm/dvbrx/stream"
)

type flags struct {
	config      string
	standard    dvb.Standard
	frameSize   dvb.FrameSize
	rate        dvb.CodeRate
	input       string
	output      string
	format      stream.Format
	frames      int
	dropPartial bool
}

func registerFlags(fs *flag.FlagSet) *flags {
	def := defaultConfig()
	f := new(flags)
	fs.StringVar(&f.config, "config", "", "`path` to a YAML config file. Flags override its values")
	fs.TextVar(&f.standard, "standard", def.Standard, "broadcast `standard`: dvb-s2 or dvb-s2x")
	fs.TextVar(&f.frameSize, "framesize", def.FrameSize, "FEC frame `size`: normal, short or medium")
	fs.TextVar(&f.rate, "rate", def.CodeRate, "code `rate`, e.g. 3/4 or 2/9-vlsnr")
	fs.StringVar(&f.input, "in", "", "input `file`. Defaults to stdin")
	fs.StringVar(&f.output, "out", "", "output `file`. Defaults to stdout")
	fs.TextVar(&f.format, "format", def.Format, "stream `format`: unpacked (one bit per byte) or packed")
	fs.IntVar(&f.frames, "frames", def.Frames, "number of frames to process at a time")
	fs.BoolVar(&f.dropPartial, "drop-partial", false, "discard a trailing partial frame instead of failing")
	return f
}

func main() {
	f := registerFlags(flag.CommandLine)
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("bbdescramble: ")

	cfg, err := loadConfig(f.config)
	if err != nil {
		log.Fatal(err)
	}
	applyFlags(flag.CommandLine, &cfg, f)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config) error {
	d, err := bb.New(cfg.Config)
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if cfg.Input != "" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var w io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	stats, err := stream.Run(ctx, d, r, w, stream.Options{
		Format:      cfg.Format,
		Frames:      cfg.Frames,
		DropPartial: cfg.DropPartial,
	})
	if err != nil {
		return fmt.Errorf("%v: %w", d, err)
	}
	log.Printf("%v: %d frames (%d bits)", d, stats.Frames, stats.Bits)
	if stats.Dropped > 0 {
		log.Printf("Dropped %d bits of a partial frame", stats.Dropped)
	}
	return nil
}
