package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pfcm/dvbrx/dvb"
	"github.com/pfcm/dvbrx/stream"
)

// config is everything needed for one run. It can be read from a YAML
// file such as:
//
//	standard: dvb-s2x
//	framesize: short
//	rate: 1/2
//	input: bbframes.bin
//	format: packed
type config struct {
	dvb.Config  `yaml:",inline"`
	Input       string        `yaml:"input"`
	Output      string        `yaml:"output"`
	Format      stream.Format `yaml:"format"`
	Frames      int           `yaml:"frames"`
	DropPartial bool          `yaml:"drop_partial"`
}

func defaultConfig() config {
	return config{
		Config: dvb.Config{
			Standard:  dvb.DVBS2,
			FrameSize: dvb.Normal,
			CodeRate:  dvb.C1_2,
		},
		Format: stream.Unpacked,
		Frames: stream.DefaultFrames,
	}
}

// parseConfig decodes YAML on top of the defaults. Unknown keys are an
// error so typos don't silently fall back to a default.
func parseConfig(b []byte) (config, error) {
	cfg := defaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func loadConfig(path string) (config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return config{}, err
	}
	cfg, err := parseConfig(b)
	if err != nil {
		return config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags copies the values of flags that were set on the command
// line over cfg.
func applyFlags(fs *flag.FlagSet, cfg *config, f *flags) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "standard":
			cfg.Standard = f.standard
		case "framesize":
			cfg.FrameSize = f.frameSize
		case "rate":
			cfg.CodeRate = f.rate
		case "in":
			cfg.Input = f.input
		case "out":
			cfg.Output = f.output
		case "format":
			cfg.Format = f.format
		case "frames":
			cfg.Frames = f.frames
		case "drop-partial":
			cfg.DropPartial = f.dropPartial
		}
	})
}
