// SPDX-License-Identifier: EPL-2.0

// Package waveform extracts normalised amplitude profiles from audio tracks.
//
// An extraction streams a time range of an audio.Track as 16-bit PCM and
// reduces it to roughly Request.SampleCount values without holding the
// decoded track in memory. Every window of
//
//	max(1, channels*frames/SampleCount)
//
// raw samples becomes one value: samples are rectified, converted to dBFS
// against 32768, clipped to [NoiseFloor, 0] and averaged. The final window
// averages whatever samples are left, so trailing audio is never dropped.
// The sequence is then divided by the noise floor, which maps it into
// [0, 1] with 0 meaning full scale.
//
// # Running extractions
//
//	ex := waveform.New(waveform.WithLogger(logger))
//	req := waveform.NewRequest(track, 512)
//
//	// Blocking
//	profile, err := ex.Extract(ctx, req)
//
//	// Future
//	res := <-ex.ExtractAsync(ctx, req)
//
//	// Callbacks; exactly one fires, on a background goroutine
//	ex.ExtractFunc(ctx, req, onProfile, onError)
//
// A request with an ID can be aborted with Extractor.Cancel; cancelling its
// context has the same effect. Either way the reader is closed and the
// failure is a *ReadingFailedError with status cancelled.
//
// # Noise floor
//
// NoiseFloor and SetNoiseFloor manage a process-wide default (-50 dB).
// Requests capture it when built by NewRequest, or when the extraction
// starts if Request.NoiseFloor is zero, so changing it never affects work
// already running.
//
// # Errors
//
// Failures wrap one of ErrTrackNotFound, ErrAudioChannelNotFound,
// ErrMediaTypeMismatch, ErrReadingFailed or ErrExtractionFailed; test them
// with errors.Is. No partial profile is ever returned.
package waveform
