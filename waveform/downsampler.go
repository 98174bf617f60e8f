// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"github.com/ik5/audwave/utils"
)

// fullScale is the 0 dB reference for 16-bit PCM.
const fullScale = 32768.0

// downsampler turns a stream of interleaved PCM16 into one dB value per
// window of raw samples. It holds one chunk of converted samples and the
// running sum of the open window, never a whole window.
type downsampler struct {
	noiseFloor float64
	mean       *utils.WindowMean

	work []float64
	out  []float64
	peak float64
}

func newDownsampler(window int, noiseFloor float32) *downsampler {
	return &downsampler{
		noiseFloor: float64(noiseFloor),
		mean:       utils.NewWindowMean(window),
		peak:       float64(noiseFloor),
	}
}

// write runs the dB chain over chunk and appends a value for every window it completes.
func (d *downsampler) write(chunk []int16) {
	d.work = utils.Int16ToFloat64(d.work, chunk)
	utils.Abs(d.work)
	utils.AmplitudeToDB(d.work, fullScale)
	utils.Clip(d.work, d.noiseFloor, 0)

	start := len(d.out)
	d.out = d.mean.Add(d.out, d.work)
	d.peak = utils.Max(d.out[start:], d.peak)
}

// finish flushes the trailing partial window, averaged over exactly the
// samples it holds, and returns the normalised profile.
func (d *downsampler) finish() *Profile {
	start := len(d.out)
	d.out = d.mean.Flush(d.out)
	d.peak = utils.Max(d.out[start:], d.peak)

	utils.Scale(1/d.noiseFloor, d.out)

	samples := make([]float32, len(d.out))
	for i, v := range d.out {
		samples[i] = float32(v)
	}

	return &Profile{samples: samples, peak: float32(d.peak)}
}
