// SPDX-License-Identifier: EPL-2.0

package render

import "errors"

var (
	// ErrUnknownStyle is returned by ParseStyle for an unrecognised style name.
	ErrUnknownStyle = errors.New("unknown waveform style")

	// ErrUnknownPosition is returned by ParsePosition for an unrecognised anchor.
	ErrUnknownPosition = errors.New("unknown waveform position")

	// ErrInvalidStripePeriod is returned by ParseStyle for a non-positive stripe period.
	ErrInvalidStripePeriod = errors.New("stripe period must be a positive integer")
)
