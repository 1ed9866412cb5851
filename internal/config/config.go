package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maax3v3/edgeseg/internal/color"
	"github.com/maax3v3/edgeseg/internal/imaging"
	"github.com/maax3v3/edgeseg/internal/segment"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Default settings.
const (
	DefaultSegmentEpsilon   = 50
	DefaultFloodEpsilon     = 20
	DefaultMinComponentSize = 3
	DefaultSmallColor       = "#000000"
	DefaultEdgeName         = "edges.png"
	DefaultComponentsName   = "components.png"
	DefaultRegionsName      = "regions.png"
)

// Config holds the input path, output layout and segmentation settings.
type Config struct {
	// Paths
	InPath         string `json:"in"`
	OutDir         string `json:"out_dir"`
	EdgeName       string `json:"edge_name"`
	ComponentsName string `json:"components_name"`
	RegionsName    string `json:"regions_name"`

	// Segmentation settings
	SegmentEpsilon      float64 `json:"segment_epsilon"`
	FloodEpsilon        int     `json:"flood_epsilon"`
	MinComponentSize    int     `json:"min_component_size"` // 1 disables suppression
	SmallComponentColor string  `json:"small_component_color"`
	SizeMode            string  `json:"size_mode"`
	Seed                int64   `json:"seed"` // 0 picks a time-based seed
	PreBlur             float64 `json:"pre_blur"`

	Quiet bool `json:"quiet"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InPath           string
	OutDir           string
	SegmentEpsilon   float64
	FloodEpsilon     int
	MinComponentSize int
	SmallColor       string
	SizeMode         string
	Seed             int64
	PreBlur          float64
	Quiet            bool
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies flag overrides and fills every empty field with its default.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.InPath != "" {
		c.InPath = flags.InPath
	}
	if flags.OutDir != "" {
		c.OutDir = flags.OutDir
	}
	if flags.SegmentEpsilon != 0 {
		c.SegmentEpsilon = flags.SegmentEpsilon
	}
	if flags.FloodEpsilon != 0 {
		c.FloodEpsilon = flags.FloodEpsilon
	}
	if flags.MinComponentSize != 0 {
		c.MinComponentSize = flags.MinComponentSize
	}
	if flags.SmallColor != "" {
		c.SmallComponentColor = flags.SmallColor
	}
	if flags.SizeMode != "" {
		c.SizeMode = flags.SizeMode
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.PreBlur != 0 {
		c.PreBlur = flags.PreBlur
	}
	if flags.Quiet {
		c.Quiet = true
	}

	// Outputs land next to the input unless told otherwise
	if c.OutDir == "" && c.InPath != "" {
		c.OutDir = filepath.Dir(c.InPath)
	}
	if c.EdgeName == "" {
		c.EdgeName = DefaultEdgeName
	}
	if c.ComponentsName == "" {
		c.ComponentsName = DefaultComponentsName
	}
	if c.RegionsName == "" {
		c.RegionsName = DefaultRegionsName
	}

	if c.SegmentEpsilon == 0 {
		c.SegmentEpsilon = DefaultSegmentEpsilon
	}
	if c.FloodEpsilon == 0 {
		c.FloodEpsilon = DefaultFloodEpsilon
	}
	if c.MinComponentSize == 0 {
		c.MinComponentSize = DefaultMinComponentSize
	}
	if c.SmallComponentColor == "" {
		c.SmallComponentColor = DefaultSmallColor
	}
	if c.SizeMode == "" {
		c.SizeMode = segment.SizeExact.String()
	}
}

// Validate checks a resolved config.
func (c *Config) Validate() error {
	if c.InPath == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalid)
	}
	if err := c.ValidateSettings(); err != nil {
		return err
	}
	for _, p := range []string{c.EdgePath(), c.ComponentsPath(), c.RegionsPath()} {
		if err := imaging.CheckSaveFormat(p); err != nil {
			return fmt.Errorf("%w: output %s: %v", ErrInvalid, filepath.Base(p), err)
		}
	}
	return nil
}

// ValidateSettings checks the segmentation settings only, for runs that
// neither read nor write files.
func (c *Config) ValidateSettings() error {
	if c.SegmentEpsilon <= 0 {
		return fmt.Errorf("%w: segment epsilon must be > 0, got %g", ErrInvalid, c.SegmentEpsilon)
	}
	if c.FloodEpsilon < 1 || c.FloodEpsilon > 127 {
		return fmt.Errorf("%w: flood epsilon must be between 1 and 127, got %d", ErrInvalid, c.FloodEpsilon)
	}
	if c.MinComponentSize < 0 {
		return fmt.Errorf("%w: min component size must be >= 0, got %d", ErrInvalid, c.MinComponentSize)
	}
	if c.PreBlur < 0 {
		return fmt.Errorf("%w: pre-blur sigma must be >= 0, got %g", ErrInvalid, c.PreBlur)
	}
	if _, err := c.SmallColor(); err != nil {
		return fmt.Errorf("%w: small component color: %v", ErrInvalid, err)
	}
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// SmallColor parses SmallComponentColor.
func (c *Config) SmallColor() (color.RGBA, error) {
	return color.ParseHex(c.SmallComponentColor)
}

// Mode parses SizeMode.
func (c *Config) Mode() (segment.SizeMode, error) {
	return segment.ParseSizeMode(c.SizeMode)
}

// EdgePath is where the edge-magnitude image is written.
func (c *Config) EdgePath() string { return c.outPath(c.EdgeName) }

// ComponentsPath is where the component-colored image is written.
func (c *Config) ComponentsPath() string { return c.outPath(c.ComponentsName) }

// RegionsPath is where the flood-filled image is written.
func (c *Config) RegionsPath() string { return c.outPath(c.RegionsName) }

func (c *Config) outPath(name string) string {
	if filepath.IsAbs(name) || c.OutDir == "" {
		return name
	}
	return filepath.Join(c.OutDir, name)
}
