// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes 16-bit PCM AIFF audio through github.com/go-audio/aiff.
//
// go-audio needs an io.ReadSeeker; plain readers are buffered in memory
// first. The COMM chunk declares the frame count, so sources always know
// their length.
//
//	f, _ := os.Open("audio.aiff")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrUnsupportedBitDepth) {
//	    // 8, 24 and 32-bit files are rejected
//	}
package aiff
