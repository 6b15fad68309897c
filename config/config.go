// Package config - run configuration for the icon sharpening tool.
//
// Every field has a default reproducing the tool's tuned behaviour, so a run
// without a config file or flags processes the working directory with the
// standard enhancement factors.
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-iconsharp/images"
)

const (
	// DefaultOutputDir is the subdirectory enhanced files are written to.
	DefaultOutputDir = "output"
	// DefaultScaleFactor is the supersampling factor.
	DefaultScaleFactor = 16
	// DefaultMaxPixels caps the supersampled image area (about 1 GiB of NRGBA).
	DefaultMaxPixels = 1 << 28
	// DefaultDebounce is the quiet period before a watched file is processed.
	DefaultDebounce = 500 * time.Millisecond
)

// Config represents the application configuration
type Config struct {
	// InputDir is the directory scanned for images (non-recursive).
	InputDir string `yaml:"input_dir"`
	// OutputDir receives the enhanced files. Relative paths resolve against InputDir.
	OutputDir string `yaml:"output_dir"`
	// ScaleFactor is the supersampling multiplier applied to both dimensions.
	ScaleFactor int `yaml:"scale_factor"`
	// UpscaleFilter is the resample filter used to grow the image.
	UpscaleFilter string `yaml:"upscale_filter"`
	// DownscaleFilter is the resample filter used to shrink it back.
	DownscaleFilter string `yaml:"downscale_filter"`
	// MaxPixels bounds width*height of the supersampled image.
	MaxPixels int `yaml:"max_pixels"`
	// Exclude lists file names that are never processed.
	Exclude []string `yaml:"exclude"`
	// Alpha holds the high-resolution alpha shaping factors.
	Alpha AlphaConfig `yaml:"alpha"`
	// TouchUp holds the final low-resolution alpha factors.
	TouchUp TouchUpConfig `yaml:"touchup"`
	// Watch configures watch mode.
	Watch WatchConfig `yaml:"watch"`
}

// AlphaConfig configures Stage 2, applied to the supersampled alpha plane.
type AlphaConfig struct {
	Sharpen    float64 `yaml:"sharpen"`
	BlurRadius float64 `yaml:"blur_radius"`
	Contrast   float64 `yaml:"contrast"`
	Resharpen  float64 `yaml:"resharpen"`
}

// TouchUpConfig configures Stage 3, applied after downscaling.
type TouchUpConfig struct {
	Sharpen  float64 `yaml:"sharpen"`
	Contrast float64 `yaml:"contrast"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		InputDir:        ".",
		OutputDir:       DefaultOutputDir,
		ScaleFactor:     DefaultScaleFactor,
		UpscaleFilter:   string(images.BicubicFilter),
		DownscaleFilter: string(images.LanczosFilter),
		MaxPixels:       DefaultMaxPixels,
		Alpha: AlphaConfig{
			Sharpen:    3.5,
			BlurRadius: 0.8,
			Contrast:   1.3,
			Resharpen:  3.5,
		},
		TouchUp: TouchUpConfig{
			Sharpen:  1.5,
			Contrast: 1.1,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result. Keys not
// known to Config are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputDir) == "" {
		return errors.New("input_dir is required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output_dir is required")
	}
	if c.ScaleFactor < 1 {
		return errors.Errorf("scale_factor must be >= 1, got %d", c.ScaleFactor)
	}
	if c.MaxPixels <= 0 {
		return errors.Errorf("max_pixels must be positive, got %d", c.MaxPixels)
	}
	if _, err := images.ParseFilter(c.UpscaleFilter); err != nil {
		return errors.Wrap(err, "upscale_filter")
	}
	if _, err := images.ParseFilter(c.DownscaleFilter); err != nil {
		return errors.Wrap(err, "downscale_filter")
	}

	factors := map[string]float64{
		"alpha.sharpen":     c.Alpha.Sharpen,
		"alpha.blur_radius": c.Alpha.BlurRadius,
		"alpha.contrast":    c.Alpha.Contrast,
		"alpha.resharpen":   c.Alpha.Resharpen,
		"touchup.sharpen":   c.TouchUp.Sharpen,
		"touchup.contrast":  c.TouchUp.Contrast,
	}
	for name, v := range factors {
		if v < 0 {
			return errors.Errorf("%s must be >= 0, got %g", name, v)
		}
	}

	if c.Watch.Debounce < 0 {
		return errors.Errorf("watch.debounce must be >= 0, got %s", c.Watch.Debounce)
	}
	return nil
}
