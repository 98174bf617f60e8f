// SPDX-License-Identifier: EPL-2.0

package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Size is a canvas size in points.
type Size struct {
	Width  float64
	Height float64
}

// Position anchors the waveform vertically. The zero value is Middle.
type Position int

const (
	Middle Position = iota
	Top
	Bottom
)

func (p Position) String() string {
	switch p {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "middle"
	}
}

// offset moves the centre line by half the canvas height.
func (p Position) offset() float64 {
	switch p {
	case Top:
		return -1
	case Bottom:
		return 1
	default:
		return 0
	}
}

func (p Position) defaultPadding() float64 {
	if p == Middle {
		return 2.5
	}
	return 1.5
}

// ParsePosition accepts "top", "middle" or "bottom".
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "middle":
		return Middle, nil
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	}
	return Middle, fmt.Errorf("%w: %q", ErrUnknownPosition, s)
}

// Style selects how segments are painted: Filled, Gradient or Striped.
type Style interface {
	fmt.Stringer
	isStyle()
}

// Filled strokes every segment in the primary colour.
type Filled struct{}

// Gradient paints the segments with a vertical gradient from the primary
// colour to a brighter variant of it.
type Gradient struct{}

// Striped strokes only the segments whose x position, in points, is a
// multiple of Period. A Period below 1 behaves as 1.
type Striped struct {
	Period int
}

func (Filled) isStyle()   {}
func (Gradient) isStyle() {}
func (Striped) isStyle()  {}

func (Filled) String() string   { return "filled" }
func (Gradient) String() string { return "gradient" }
func (s Striped) String() string {
	return "striped:" + strconv.Itoa(s.period())
}

func (s Striped) period() int {
	return max(1, s.Period)
}

// ParseStyle accepts "filled", "gradient", "striped" and "striped:<period>".
func ParseStyle(s string) (Style, error) {
	name, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")

	switch name {
	case "", "filled":
		if !hasArg {
			return Filled{}, nil
		}
	case "gradient":
		if !hasArg {
			return Gradient{}, nil
		}
	case "striped":
		if !hasArg {
			return Striped{Period: 1}, nil
		}
		period, err := strconv.Atoi(arg)
		if err != nil || period < 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStripePeriod, arg)
		}
		return Striped{Period: period}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, s)
}

// Border is an outline stroked around the whole canvas.
type Border struct {
	Width float64
	Color color.Color
}

// CenterLine is a vertical cursor line drawn near the middle of the canvas.
type CenterLine struct {
	Enabled bool
	Width   float64
	Color   color.Color
}

// Config describes how a profile is drawn. Lengths are in points; the output
// bitmap is Size multiplied by Scale.
type Config struct {
	Size            Size
	Color           color.Color
	BackgroundColor color.Color
	Style           Style
	Position        Position
	Scale           float64
	Border          *Border
	// PaddingFactor divides the height to get the tallest segment. Zero picks
	// 2.5 for Middle and 1.5 for Top and Bottom.
	PaddingFactor float64
	CenterLine    CenterLine
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Color == nil {
		c.Color = color.Black
	}
	if c.BackgroundColor == nil {
		c.BackgroundColor = color.Transparent
	}
	if c.Style == nil {
		c.Style = Filled{}
	}
	if !(c.Scale > 0) {
		c.Scale = 1
	}
	if !(c.PaddingFactor > 0) {
		c.PaddingFactor = c.Position.defaultPadding()
	}
	if c.CenterLine.Width <= 0 {
		c.CenterLine.Width = 1
	}
	if c.CenterLine.Color == nil {
		c.CenterLine.Color = c.Color
	}
	if c.Border != nil && c.Border.Color == nil {
		b := *c.Border
		b.Color = c.Color
		c.Border = &b
	}
	return c
}

// Columns is the width of the output bitmap in pixels, which is also the
// number of samples Render can place. It is 0 when Render would return nil.
func (c Config) Columns() int {
	c = c.withDefaults()
	w, _, ok := pixelSize(c.Size, c.Scale)
	if !ok {
		return 0
	}
	return w
}
