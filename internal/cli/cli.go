package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/maax3v3/edgeseg/internal/config"
)

// Version is reported by -version.
const Version = "0.1.0"

// ErrVersion is returned by Parse when -version was given.
var ErrVersion = errors.New("version requested")

// Parse parses CLI arguments (without the program name), layers them over the
// optional -config file and returns a resolved, validated Config.
// Usage and flag errors are written to output.
func Parse(args []string, output io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("edgeseg", flag.ContinueOnError)
	fs.SetOutput(output)

	var f config.Flags
	configPath := fs.String("config", "", "Path to a JSON config file; flags override its values")
	fs.StringVar(&f.InPath, "in", "", "Path to input image (required, supports PNG, JPEG, GIF, WEBP, BMP, TIFF, TGA)")
	fs.StringVar(&f.OutDir, "out-dir", "", "Directory for the three output images (default: next to the input)")
	fs.Float64Var(&f.SegmentEpsilon, "epsilon", 0, fmt.Sprintf("RGB distance below which neighboring edge pixels are merged (default %d)", config.DefaultSegmentEpsilon))
	fs.IntVar(&f.FloodEpsilon, "flood-epsilon", 0, fmt.Sprintf("Brightness threshold for flood-fill regions, 1-127 (default %d)", config.DefaultFloodEpsilon))
	fs.IntVar(&f.MinComponentSize, "min-size", 0, fmt.Sprintf("Components with fewer pixels get the small color (default %d)", config.DefaultMinComponentSize))
	fs.StringVar(&f.SmallColor, "small-color", "", "Hex color of suppressed components (default "+config.DefaultSmallColor+")")
	fs.StringVar(&f.SizeMode, "size-mode", "", "Component size accounting: exact or single-pass (default exact)")
	fs.Int64Var(&f.Seed, "seed", 0, "Random seed for output colors (0 = time-based)")
	fs.Float64Var(&f.PreBlur, "blur", 0, "Gaussian blur sigma applied before edge detection (0 = off)")
	fs.BoolVar(&f.Quiet, "quiet", false, "Suppress progress output")
	version := fs.Bool("version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(output, "Usage: edgeseg [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nExample:\n  edgeseg --in=palm.png --out-dir=out --epsilon=50 --flood-epsilon=20 --seed=1\n")
	}

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	if *version {
		return config.Config{}, ErrVersion
	}
	if fs.NArg() > 0 {
		return config.Config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var cfg config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return config.Config{}, err
		}
	}
	cfg.Resolve(f)

	if cfg.InPath == "" {
		return config.Config{}, fmt.Errorf("--in is required")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
