// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"math"
	"sync/atomic"
)

// DefaultNoiseFloor is the process default, in dBFS.
const DefaultNoiseFloor float32 = -50

var noiseFloorBits = func() *atomic.Uint32 {
	v := new(atomic.Uint32)
	v.Store(math.Float32bits(DefaultNoiseFloor))
	return v
}()

// NoiseFloor returns the current process-wide noise floor in dBFS.
func NoiseFloor() float32 {
	return math.Float32frombits(noiseFloorBits.Load())
}

// SetNoiseFloor changes the process-wide noise floor. Requests snapshot the
// floor when they are built, so extractions already running are unaffected.
func SetNoiseFloor(db float32) error {
	if !validNoiseFloor(db) {
		return ErrInvalidNoiseFloor
	}
	noiseFloorBits.Store(math.Float32bits(db))
	return nil
}

func validNoiseFloor(db float32) bool {
	f := float64(db)
	return f < 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
