// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML settings used by the audwave command.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ik5/audwave/render"
	"github.com/ik5/audwave/waveform"
)

var (
	// ErrInvalidColor is returned for colours that are not #rrggbb or #rrggbbaa.
	ErrInvalidColor = errors.New("invalid colour")

	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the root of the YAML document.
type Config struct {
	Extraction Extraction `yaml:"extraction"`
	Drawing    Drawing    `yaml:"drawing"`
}

// Extraction holds the profile knobs.
type Extraction struct {
	// Samples is the profile length; 0 means one sample per pixel column.
	Samples int `yaml:"samples"`
	// NoiseFloor in dBFS.
	NoiseFloor float32 `yaml:"noise_floor"`
	// Mixdown folds every channel into one before extraction.
	Mixdown bool `yaml:"mixdown"`
}

// Drawing mirrors render.Config with YAML friendly types.
type Drawing struct {
	Width      float64     `yaml:"width"`
	Height     float64     `yaml:"height"`
	Scale      float64     `yaml:"scale"`
	Color      string      `yaml:"color"`
	Background string      `yaml:"background"`
	Style      string      `yaml:"style"`
	Position   string      `yaml:"position"`
	Padding    float64     `yaml:"padding,omitempty"`
	Border     *Border     `yaml:"border,omitempty"`
	CenterLine *CenterLine `yaml:"center_line,omitempty"`
}

type Border struct {
	Width float64 `yaml:"width"`
	Color string  `yaml:"color,omitempty"`
}

// CenterLine is drawn whenever the section is present.
type CenterLine struct {
	Width float64 `yaml:"width,omitempty"`
	Color string  `yaml:"color,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Extraction: Extraction{
			NoiseFloor: waveform.DefaultNoiseFloor,
		},
		Drawing: Drawing{
			Width:      800,
			Height:     120,
			Scale:      1,
			Color:      "#3399ff",
			Background: "#ffffff",
			Style:      "filled",
			Position:   "middle",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return data, nil
}

// Validate checks every field without building anything.
func (c *Config) Validate() error {
	if c.Extraction.Samples < 0 {
		return fmt.Errorf("%w: samples %d is negative", ErrInvalidConfig, c.Extraction.Samples)
	}
	if nf := c.Extraction.NoiseFloor; !(nf < 0) {
		return fmt.Errorf("%w: noise_floor %v must be negative", ErrInvalidConfig, nf)
	}

	if _, err := c.Drawing.RenderConfig(); err != nil {
		return err
	}
	return nil
}

// RenderConfig converts the drawing section into a render.Config.
func (d Drawing) RenderConfig() (render.Config, error) {
	var rc render.Config

	if !(d.Width > 0) || !(d.Height > 0) {
		return rc, fmt.Errorf("%w: size %vx%v", ErrInvalidConfig, d.Width, d.Height)
	}
	if d.Scale < 0 || d.Padding < 0 {
		return rc, fmt.Errorf("%w: scale and padding must not be negative", ErrInvalidConfig)
	}

	fg, err := ParseColor(d.Color)
	if err != nil {
		return rc, fmt.Errorf("%w: color: %w", ErrInvalidConfig, err)
	}
	bg, err := ParseColor(d.Background)
	if err != nil {
		return rc, fmt.Errorf("%w: background: %w", ErrInvalidConfig, err)
	}
	style, err := render.ParseStyle(d.Style)
	if err != nil {
		return rc, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	pos, err := render.ParsePosition(d.Position)
	if err != nil {
		return rc, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	rc = render.Config{
		Size:            render.Size{Width: d.Width, Height: d.Height},
		Color:           fg,
		BackgroundColor: bg,
		Style:           style,
		Position:        pos,
		Scale:           d.Scale,
		PaddingFactor:   d.Padding,
	}

	if b := d.Border; b != nil && b.Width > 0 {
		c, err := optionalColor(b.Color, fg)
		if err != nil {
			return render.Config{}, fmt.Errorf("%w: border: %w", ErrInvalidConfig, err)
		}
		rc.Border = &render.Border{Width: b.Width, Color: c}
	}

	if cl := d.CenterLine; cl != nil {
		c, err := optionalColor(cl.Color, fg)
		if err != nil {
			return render.Config{}, fmt.Errorf("%w: center_line: %w", ErrInvalidConfig, err)
		}
		rc.CenterLine = render.CenterLine{Enabled: true, Width: cl.Width, Color: c}
	}

	return rc, nil
}

func optionalColor(s string, fallback color.Color) (color.Color, error) {
	if s == "" {
		return fallback, nil
	}
	return ParseColor(s)
}

// ParseColor parses #rrggbb or #rrggbbaa; the leading # is optional.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}

	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
