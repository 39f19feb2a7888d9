package config

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/playback"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/sorter"
)

const (
	DefaultAlgorithm         = "insertion"
	DefaultSize              = 40
	DefaultShape             = "random"
	DefaultFPS               = 60
	DefaultSpeed             = 1.0
	DefaultStepInterval      = 0.05
	DefaultSwapDuration      = 0.2
	DefaultHighlightDuration = 0.25
	DefaultSweepInterval     = 0.02
	DefaultLogLevel          = "info"

	// DemoShape selects the fixed ten-element demo array instead of a
	// generated one.
	DemoShape = "demo"
)

type Config struct {
	Algorithm string        `yaml:"algorithm"`
	Size      int           `yaml:"size"`
	Seed      int64         `yaml:"seed"`
	Shape     string        `yaml:"shape"`
	FPS       int           `yaml:"fps"`
	Speed     float64       `yaml:"speed"`
	Timing    TimingConfig  `yaml:"timing"`
	Heap      HeapConfig    `yaml:"heap"`
	Palette   PaletteConfig `yaml:"palette"`
	Sound     bool          `yaml:"sound"`
	LogLevel  string        `yaml:"log_level"`
	LogFile   string        `yaml:"log_file"`
}

type TimingConfig struct {
	StepInterval      float64 `yaml:"step_interval"`
	SwapDuration      float64 `yaml:"swap_duration"`
	HighlightDuration float64 `yaml:"highlight_duration"`
	SweepInterval     float64 `yaml:"sweep_interval"`
}

type HeapConfig struct {
	Instrumented bool `yaml:"instrumented"`
}

type PaletteConfig struct {
	Background string `yaml:"background"`
	Bar        string `yaml:"bar"`
	Outline    string `yaml:"outline"`
	CompareA   string `yaml:"compare_a"`
	CompareB   string `yaml:"compare_b"`
	Swapping   string `yaml:"swapping"`
	Sorted     string `yaml:"sorted"`
	Final      string `yaml:"final"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm: DefaultAlgorithm,
		Size:      DefaultSize,
		Shape:     DefaultShape,
		FPS:       DefaultFPS,
		Speed:     DefaultSpeed,
		Timing: TimingConfig{
			StepInterval:      DefaultStepInterval,
			SwapDuration:      DefaultSwapDuration,
			HighlightDuration: DefaultHighlightDuration,
			SweepInterval:     DefaultSweepInterval,
		},
		Palette: PaletteConfig{
			Background: "#0a0a3c",
			Bar:        "#c8c8c8",
			Outline:    "#14143c",
			CompareA:   "#ff5050",
			CompareB:   "#50a0ff",
			Swapping:   "#ffd24a",
			Sorted:     "#4ad27a",
			Final:      "#ffffff",
		},
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Size < 0 || c.Size > session.MaxLength {
		return fmt.Errorf("config: size %d outside [0, %d]", c.Size, session.MaxLength)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("config: speed must be positive, got %g", c.Speed)
	}
	durations := map[string]float64{
		"step_interval":      c.Timing.StepInterval,
		"swap_duration":      c.Timing.SwapDuration,
		"highlight_duration": c.Timing.HighlightDuration,
		"sweep_interval":     c.Timing.SweepInterval,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("config: timing.%s must be positive, got %g", name, d)
		}
	}
	if _, err := sorter.ParseAlgorithm(c.Algorithm); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Shape != DemoShape {
		if _, err := dataset.ParseShape(c.Shape); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if _, err := c.PlaybackPalette(); err != nil {
		return err
	}
	return nil
}

func (c *Config) PlaybackTiming() playback.Timing {
	return playback.Timing{
		StepInterval:      c.Timing.StepInterval,
		SwapDuration:      c.Timing.SwapDuration,
		HighlightDuration: c.Timing.HighlightDuration,
		SweepInterval:     c.Timing.SweepInterval,
	}
}

func (c *Config) PlaybackPalette() (playback.Palette, error) {
	var p playback.Palette
	fields := []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"background", c.Palette.Background, &p.Background},
		{"bar", c.Palette.Bar, &p.Bar},
		{"outline", c.Palette.Outline, &p.Outline},
		{"compare_a", c.Palette.CompareA, &p.CompareA},
		{"compare_b", c.Palette.CompareB, &p.CompareB},
		{"swapping", c.Palette.Swapping, &p.Swapping},
		{"sorted", c.Palette.Sorted, &p.Sorted},
		{"final", c.Palette.Final, &p.Final},
	}
	for _, f := range fields {
		rgba, err := ParseColor(f.hex)
		if err != nil {
			return playback.Palette{}, fmt.Errorf("config: palette.%s: %w", f.name, err)
		}
		*f.dst = rgba
	}
	return p, nil
}

// ParseColor reads a "#rrggbb" hex string into an opaque RGBA color.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Session builds the session settings described by the config.
func (c *Config) Session() (session.Config, error) {
	palette, err := c.PlaybackPalette()
	if err != nil {
		return session.Config{}, err
	}
	return session.Config{
		Sorter:  sorter.Options{InstrumentHeap: c.Heap.Instrumented},
		Timing:  c.PlaybackTiming(),
		Palette: palette,
		Layout:  playback.DefaultLayout(),
	}, nil
}

// ResolvedSeed returns the configured seed, or a time-based one when unset.
func (c *Config) ResolvedSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

// Input builds the array to sort from shape, size and seed.
func (c *Config) Input(seed int64) ([]int, error) {
	if c.Shape == DemoShape {
		return dataset.Demo(), nil
	}
	shape, err := dataset.ParseShape(c.Shape)
	if err != nil {
		return nil, err
	}
	return dataset.Generate(shape, c.Size, seed)
}
