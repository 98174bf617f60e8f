// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// pcm16Scale maps full-scale float samples onto signed 16-bit PCM.
const pcm16Scale = 32768.0

// Float32ToInt16 converts a sample in [-1,1] to 16-bit PCM, clamping out of range input.
// It is the exact inverse of Int16ToFloat32 for every int16 value.
func Float32ToInt16(x float32) int16 {
	v := math.Round(float64(x) * pcm16Scale)
	if v > math.MaxInt16 {
		return math.MaxInt16
	} else if v < math.MinInt16 {
		return math.MinInt16
	}

	return int16(v)
}

// Int16ToFloat32 converts 16-bit PCM to a float sample in [-1,1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / pcm16Scale
}
