// SPDX-License-Identifier: EPL-2.0

package audwave

import (
	"context"
	"errors"
	"fmt"

	"github.com/ik5/audwave/render"
	"github.com/ik5/audwave/waveform"
)

// ErrNoImage is returned by Generate when cfg cannot produce a bitmap.
var ErrNoImage = errors.New("drawing configuration yields no image")

// Generate extracts req with ex and draws the profile with cfg. A nil ex uses
// a fresh Extractor. When req.SampleCount is zero it is set to the number of
// pixel columns of cfg, so every column gets one sample.
//
// The profile is returned together with the image so callers can keep it.
func Generate(ctx context.Context, ex *waveform.Extractor, req waveform.Request, cfg render.Config) (*render.Image, *waveform.Profile, error) {
	columns := cfg.Columns()
	if columns == 0 {
		return nil, nil, ErrNoImage
	}

	if req.SampleCount == 0 {
		req.SampleCount = columns
	}
	if ex == nil {
		ex = waveform.New()
	}

	p, err := ex.Extract(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("extracting waveform: %w", err)
	}

	im := render.Render(p.Samples(), p.Peak(), cfg)
	if im == nil {
		return nil, p, ErrNoImage
	}

	return im, p, nil
}
