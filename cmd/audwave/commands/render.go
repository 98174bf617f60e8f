// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"bytes"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/audwave"
	"github.com/ik5/audwave/internal/config"
	"github.com/ik5/audwave/waveform"
)

// drawFlags override the drawing section of the configuration.
type drawFlags struct {
	width      float64
	height     float64
	scale      float64
	style      string
	position   string
	color      string
	background string
	border     float64
	centerLine bool
}

func (f *drawFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.width, "width", 0, "image width in points")
	fs.Float64Var(&f.height, "height", 0, "image height in points")
	fs.Float64Var(&f.scale, "scale", 0, "pixels per point")
	fs.StringVar(&f.style, "style", "", "filled, gradient or striped[:period]")
	fs.StringVar(&f.position, "position", "", "top, middle or bottom")
	fs.StringVar(&f.color, "color", "", "waveform colour (#rrggbb or #rrggbbaa)")
	fs.StringVar(&f.background, "background", "", "background colour (#rrggbb or #rrggbbaa)")
	fs.Float64Var(&f.border, "border", 0, "border width in points (0 = none)")
	fs.BoolVar(&f.centerLine, "center-line", false, "draw a centre cursor line")
}

func (f *drawFlags) apply(cmd *cobra.Command, d *config.Drawing) {
	fs := cmd.Flags()
	if fs.Changed("width") {
		d.Width = f.width
	}
	if fs.Changed("height") {
		d.Height = f.height
	}
	if fs.Changed("scale") {
		d.Scale = f.scale
	}
	if fs.Changed("style") {
		d.Style = f.style
	}
	if fs.Changed("position") {
		d.Position = f.position
	}
	if fs.Changed("color") {
		d.Color = f.color
	}
	if fs.Changed("background") {
		d.Background = f.background
	}
	if fs.Changed("border") {
		d.Border = &config.Border{Width: f.border}
	}
	if fs.Changed("center-line") {
		d.CenterLine = nil
		if f.centerLine {
			d.CenterLine = &config.CenterLine{}
		}
	}
}

func newRenderCommand(a *app) *cobra.Command {
	var (
		extract extractFlags
		draw    drawFlags
		output  string
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Draw the waveform of an audio file into a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.cfg
			if err := extract.apply(cmd, &cfg.Extraction); err != nil {
				return err
			}
			draw.apply(cmd, &cfg.Drawing)

			rc, err := cfg.Drawing.RenderConfig()
			if err != nil {
				return err
			}

			track, err := a.openTrack(args[0], cfg.Extraction)
			if err != nil {
				return err
			}

			req := waveform.NewRequest(track, cfg.Extraction.Samples)
			req.Range = extract.timeRange()
			req.NoiseFloor = cfg.Extraction.NoiseFloor

			im, p, err := audwave.Generate(cmd.Context(), a.extractor(), req, rc)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", args[0], err)
			}

			var buf bytes.Buffer
			if err := png.Encode(&buf, im); err != nil {
				return fmt.Errorf("encode png: %w", err)
			}

			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
			}
			if err := writeOutput(cmd, output, buf.Bytes()); err != nil {
				return err
			}

			a.logger.Info("waveform written",
				"output", output,
				"width", im.Bounds().Dx(),
				"height", im.Bounds().Dy(),
				"samples", p.Len(),
				"peak_dbfs", p.Peak(),
			)
			return nil
		},
	}

	extract.register(cmd)
	draw.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file to write, - for stdout (default: input name with .png)")

	return cmd
}
