// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile is returned when the FORM header is missing or not AIFF.
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedBitDepth is returned for anything other than 16-bit samples.
	ErrUnsupportedBitDepth = errors.New("unsupported AIFF bit depth")

	// ErrNoChannels is returned when the COMM chunk declares no channels.
	ErrNoChannels = errors.New("AIFF declares no channels")
)
