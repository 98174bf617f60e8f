// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/formats/aiff"
	"github.com/ik5/audwave/formats/mp3"
	"github.com/ik5/audwave/formats/vorbis"
	"github.com/ik5/audwave/formats/wav"
	"github.com/ik5/audwave/internal/config"
	"github.com/ik5/audwave/waveform"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg      *config.Config
	logger   *slog.Logger
	registry *audio.Registry
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	a := &app{registry: newRegistry()}

	root := &cobra.Command{
		Use:   "audwave",
		Short: "Waveform profiles and images from audio files",
		Long: `audwave - extract amplitude profiles from audio files and draw them.

Supported input formats: ` + strings.Join(a.registry.Formats(), ", ") + `

Settings come from an optional YAML file (--config); flags override it.

Examples:
  # Print a 200 sample profile of the first minute
  audwave profile --samples 200 --duration 1m song.mp3

  # Draw a striped waveform
  audwave render --style striped:3 --width 600 --height 80 -o song.png song.ogg`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newProfileCommand(a))
	root.AddCommand(newRenderCommand(a))
	root.AddCommand(newConfigCommand(a))

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if a.verbose {
		logLevel = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	return nil
}

func newRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	return reg
}

// extractFlags are shared by the profile and render commands.
type extractFlags struct {
	samples    int
	start      time.Duration
	duration   time.Duration
	noiseFloor float32
	mono       bool
}

func (f *extractFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.samples, "samples", "n", 0, "profile length (default: config, or one per pixel column)")
	fs.DurationVar(&f.start, "start", 0, "offset of the first sample")
	fs.DurationVar(&f.duration, "duration", 0, "length to read (0 = to the end)")
	fs.Float32Var(&f.noiseFloor, "noise-floor", 0, "noise floor in dBFS (default: config)")
	fs.BoolVar(&f.mono, "mono", false, "mix all channels down before extraction")
}

// apply copies the flags the user set over the configuration.
func (f *extractFlags) apply(cmd *cobra.Command, ex *config.Extraction) error {
	fs := cmd.Flags()
	if fs.Changed("samples") {
		ex.Samples = f.samples
	}
	if fs.Changed("noise-floor") {
		ex.NoiseFloor = f.noiseFloor
	}
	if fs.Changed("mono") {
		ex.Mixdown = f.mono
	}

	if ex.Samples < 0 {
		return fmt.Errorf("--samples must not be negative")
	}
	if !(ex.NoiseFloor < 0) {
		return fmt.Errorf("--noise-floor must be negative")
	}
	return nil
}

func (f *extractFlags) timeRange() *audio.TimeRange {
	if f.start == 0 && f.duration == 0 {
		return nil
	}
	return &audio.TimeRange{Start: f.start, Duration: f.duration}
}

// openTrack opens path with the decoder registered for its extension.
func (a *app) openTrack(path string, ex config.Extraction) (*audio.SourceTrack, error) {
	dec, ok := a.registry.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported format %q (supported: %s)",
			path, strings.Join(a.registry.Formats(), ", "))
	}

	var opts []audio.TrackOption
	if ex.Mixdown {
		opts = append(opts, audio.WithMixdown())
	}

	track, err := audio.OpenFile(path, dec, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	a.logger.Debug("track opened",
		"path", path,
		"channels", track.Channels(),
		"sample_rate", track.SampleRate(),
		"duration", track.Duration(),
	)
	return track, nil
}

func (a *app) extractor() *waveform.Extractor {
	return waveform.New(waveform.WithLogger(a.logger))
}

// writeOutput writes data to path, or to the command's stdout when path is "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
