// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"errors"
	"fmt"

	"github.com/ik5/audwave/audio"
)

var (
	// ErrTrackNotFound indicates the track could not be opened.
	ErrTrackNotFound = errors.New("track not found")

	// ErrAudioChannelNotFound indicates the track has no decodable audio channel.
	ErrAudioChannelNotFound = errors.New("audio channel not found")

	// ErrMediaTypeMismatch indicates the track does not carry audio.
	ErrMediaTypeMismatch = errors.New("media type mismatch")

	// ErrReadingFailed matches every *ReadingFailedError.
	ErrReadingFailed = errors.New("reading failed")

	// ErrExtractionFailed covers invalid requests and missing format or timing metadata.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrDuplicateRequest is returned when a request ID is already in flight.
	ErrDuplicateRequest = errors.New("request id already in flight")

	// ErrInvalidNoiseFloor is returned for a noise floor that is not a finite negative number.
	ErrInvalidNoiseFloor = errors.New("noise floor must be a finite negative number")
)

// ReadingFailedError reports a reader that stopped in a failed, cancelled or
// unknown state.
type ReadingFailedError struct {
	Status audio.Status
	Err    error
}

func (e *ReadingFailedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("reading failed: reader %s", e.Status)
	}
	return fmt.Sprintf("reading failed: reader %s: %v", e.Status, e.Err)
}

func (e *ReadingFailedError) Unwrap() error { return e.Err }

func (e *ReadingFailedError) Is(target error) bool {
	return target == ErrReadingFailed
}
