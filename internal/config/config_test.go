package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maax3v3/edgeseg/internal/color"
	"github.com/maax3v3/edgeseg/internal/segment"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "edgeseg.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"in": "palm.png",
		"out_dir": "out",
		"segment_epsilon": 35.5,
		"flood_epsilon": 12,
		"small_component_color": "#fff",
		"size_mode": "single-pass",
		"seed": 99
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "palm.png", cfg.InPath)
	assert.Equal(t, "out", cfg.OutDir)
	assert.Equal(t, 35.5, cfg.SegmentEpsilon)
	assert.Equal(t, 12, cfg.FloodEpsilon)
	assert.Equal(t, "#fff", cfg.SmallComponentColor)
	assert.Equal(t, "single-pass", cfg.SizeMode)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Zero(t, cfg.MinComponentSize, "unset fields keep zero values")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, `{"in": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestResolve_Defaults(t *testing.T) {
	cfg := Config{InPath: filepath.Join("photos", "palm.png")}
	cfg.Resolve(Flags{})

	assert.Equal(t, "photos", cfg.OutDir)
	assert.Equal(t, float64(DefaultSegmentEpsilon), cfg.SegmentEpsilon)
	assert.Equal(t, DefaultFloodEpsilon, cfg.FloodEpsilon)
	assert.Equal(t, DefaultMinComponentSize, cfg.MinComponentSize)
	assert.Equal(t, DefaultSmallColor, cfg.SmallComponentColor)
	assert.Equal(t, "exact", cfg.SizeMode)
	assert.Equal(t, filepath.Join("photos", "edges.png"), cfg.EdgePath())
	assert.Equal(t, filepath.Join("photos", "components.png"), cfg.ComponentsPath())
	assert.Equal(t, filepath.Join("photos", "regions.png"), cfg.RegionsPath())
	require.NoError(t, cfg.Validate())
}

func TestResolve_FlagsOverrideFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"in": "a.png", "out_dir": "file-out", "flood_epsilon": 12, "seed": 5}`))
	require.NoError(t, err)

	cfg.Resolve(Flags{
		OutDir:         "flag-out",
		SegmentEpsilon: 20,
		Seed:           7,
		SizeMode:       "single-pass",
		Quiet:          true,
	})

	assert.Equal(t, "a.png", cfg.InPath)
	assert.Equal(t, "flag-out", cfg.OutDir)
	assert.Equal(t, 20.0, cfg.SegmentEpsilon)
	assert.Equal(t, 12, cfg.FloodEpsilon, "file value survives an unset flag")
	assert.Equal(t, int64(7), cfg.Seed)
	assert.True(t, cfg.Quiet)

	mode, err := cfg.Mode()
	require.NoError(t, err)
	assert.Equal(t, segment.SizeSinglePass, mode)
}

func TestOutPath_AbsoluteNameKept(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "e.webp")
	cfg := Config{InPath: "a.png", EdgeName: abs}
	cfg.Resolve(Flags{})
	assert.Equal(t, abs, cfg.EdgePath())
}

func TestSmallColor(t *testing.T) {
	cfg := Config{SmallComponentColor: "#FF0000"}
	c, err := cfg.SmallColor()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, c)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing input", func(c *Config) { c.InPath = "" }},
		{"negative segment epsilon", func(c *Config) { c.SegmentEpsilon = -1 }},
		{"flood epsilon too low", func(c *Config) { c.FloodEpsilon = -3 }},
		{"flood epsilon too high", func(c *Config) { c.FloodEpsilon = 128 }},
		{"negative min size", func(c *Config) { c.MinComponentSize = -1 }},
		{"negative blur", func(c *Config) { c.PreBlur = -0.5 }},
		{"bad color", func(c *Config) { c.SmallComponentColor = "#12" }},
		{"bad size mode", func(c *Config) { c.SizeMode = "fast" }},
		{"unsupported output", func(c *Config) { c.RegionsName = "regions.tga" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{InPath: "in.png"}
			cfg.Resolve(Flags{})
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestResolve_NegativeFlagsReachValidate(t *testing.T) {
	for name, flags := range map[string]Flags{
		"segment epsilon": {SegmentEpsilon: -1},
		"min size":        {MinComponentSize: -1},
		"pre-blur":        {PreBlur: -1},
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Config{InPath: "in.png"}
			cfg.Resolve(flags)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestValidateSettings_NoPaths(t *testing.T) {
	cfg := Config{}
	cfg.Resolve(Flags{})
	require.NoError(t, cfg.ValidateSettings(), "settings alone need no input path")
	require.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg.MinComponentSize = -4
	assert.ErrorIs(t, cfg.ValidateSettings(), ErrInvalid)
}
