// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	// ErrNoChannels is returned when a source reports zero channels.
	ErrNoChannels = errors.New("source has no channels")

	// ErrUnknownLength is returned when the length of a source cannot be determined.
	ErrUnknownLength = errors.New("source length unknown")

	// ErrInvalidTimeRange is returned for negative or out of bounds time ranges.
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrTrackUnavailable is returned when the stream behind a track cannot be opened.
	ErrTrackUnavailable = errors.New("track unavailable")

	// ErrReaderClosed is returned by ReadChunk after Close.
	ErrReaderClosed = errors.New("reader closed")
)
