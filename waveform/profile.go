// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"slices"

	"github.com/google/uuid"
	"github.com/ik5/audwave/audio"
)

// Request describes one extraction.
type Request struct {
	// Track is borrowed for the duration of the extraction and never modified.
	Track audio.Track
	// Range limits extraction to part of the track; nil means the whole track.
	Range *audio.TimeRange
	// SampleCount is the target profile length. The result may differ by a
	// few samples because windows are whole numbers of raw samples.
	SampleCount int
	// ID correlates the request with Cancel and log lines. Optional.
	ID string
	// NoiseFloor in dBFS; zero means "use NoiseFloor() when the extraction starts".
	NoiseFloor float32
}

// NewRequest builds a request over the whole track with a fresh ID and the
// current process-wide noise floor.
func NewRequest(track audio.Track, sampleCount int) Request {
	return Request{
		Track:       track,
		SampleCount: sampleCount,
		ID:          uuid.NewString(),
		NoiseFloor:  NoiseFloor(),
	}
}

// Profile is a normalised amplitude profile. Values are in [0, 1]: 0 is a
// full-scale window, 1 a window at or below the noise floor.
type Profile struct {
	samples []float32
	peak    float32
}

// NewProfile copies samples into a Profile, e.g. when restoring a cached one.
func NewProfile(samples []float32, peak float32) *Profile {
	return &Profile{samples: slices.Clone(samples), peak: peak}
}

func (p *Profile) Len() int { return len(p.samples) }

func (p *Profile) At(i int) float32 { return p.samples[i] }

// Samples returns a copy of the normalised values.
func (p *Profile) Samples() []float32 { return slices.Clone(p.samples) }

// Peak is the loudest window before normalisation, in dBFS. It lies between
// the request's noise floor and 0 and is not a linear magnitude: full scale
// reports 0 and pure digital silence reports the noise floor.
func (p *Profile) Peak() float32 { return p.peak }
