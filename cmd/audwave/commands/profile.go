// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/ik5/audwave/waveform"
)

const defaultProfileSamples = 100

type profileOutput struct {
	Path    string    `yaml:"path"`
	Peak    float32   `yaml:"peak_dbfs"`
	Samples []float32 `yaml:"samples"`
}

func newProfileCommand(a *app) *cobra.Command {
	var (
		flags  extractFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "profile <file>",
		Short: "Print the amplitude profile of an audio file",
		Long: `Print the normalised amplitude profile of an audio file.

Values run from 0 (full scale) to 1 (at or below the noise floor). The peak
is the loudest window in dBFS.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex := a.cfg.Extraction
			if err := flags.apply(cmd, &ex); err != nil {
				return err
			}
			if ex.Samples == 0 {
				ex.Samples = defaultProfileSamples
			}

			track, err := a.openTrack(args[0], ex)
			if err != nil {
				return err
			}

			req := waveform.NewRequest(track, ex.Samples)
			req.Range = flags.timeRange()
			req.NoiseFloor = ex.NoiseFloor

			p, err := a.extractor().Extract(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("extracting %s: %w", args[0], err)
			}

			out := profileOutput{Path: args[0], Peak: p.Peak(), Samples: p.Samples()}

			var data []byte
			switch format {
			case "text":
				data = formatText(out)
			case "yaml":
				data, err = yaml.Marshal(out)
				if err != nil {
					return fmt.Errorf("marshal profile: %w", err)
				}
			default:
				return fmt.Errorf("unknown format %q (text, yaml)", format)
			}

			return writeOutput(cmd, output, data)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")

	return cmd
}

// formatText writes a comment header followed by one value per line.
func formatText(out profileOutput) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", out.Path)
	fmt.Fprintf(&buf, "# peak %.2f dBFS, %d samples\n", out.Peak, len(out.Samples))
	for _, v := range out.Samples {
		buf.WriteString(strconv.FormatFloat(float64(v), 'f', 4, 32))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
