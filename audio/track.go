// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

// MediaType identifies the kind of data a track carries.
type MediaType int

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeAudio
	MediaTypeVideo
)

func (m MediaType) String() string {
	switch m {
	case MediaTypeAudio:
		return "audio"
	case MediaTypeVideo:
		return "video"
	default:
		return "unknown"
	}
}

// TimeRange selects a window of a track. A zero Duration means "until the end".
type TimeRange struct {
	Start    time.Duration
	Duration time.Duration
}

// Track is a read-only handle to decodable PCM.
//
// Every call to NewReader opens an independent stream, so several readers
// over the same track can run concurrently. A nil range reads the whole track.
type Track interface {
	MediaType() MediaType
	Channels() int
	SampleRate() int
	Duration() time.Duration
	NewReader(ctx context.Context, tr *TimeRange) (Reader, error)
}

// OpenFunc opens a fresh Source positioned at the start of the stream.
type OpenFunc func() (Source, error)

// SourceTrack is a Track backed by a re-openable Source.
type SourceTrack struct {
	open       OpenFunc
	mixdown    bool
	channels   int
	sampleRate int
	frames     int64
}

// TrackOption configures a SourceTrack.
type TrackOption func(*SourceTrack)

// WithMixdown folds every channel into one through a MonoMixer before reading.
func WithMixdown() TrackOption {
	return func(t *SourceTrack) {
		t.mixdown = true
	}
}

// NewSourceTrack probes the stream returned by open once to learn its format and length.
// When the source does not declare its length the stream is read through and counted.
func NewSourceTrack(open OpenFunc, opts ...TrackOption) (*SourceTrack, error) {
	t := &SourceTrack{open: open}
	for _, opt := range opts {
		opt(t)
	}

	src, err := t.openSource()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	t.channels = src.Channels()
	t.sampleRate = src.SampleRate()
	if t.channels <= 0 {
		return nil, ErrNoChannels
	}

	t.frames = FramesOf(src)
	if t.frames < 0 {
		t.frames, err = countFrames(src)
		if err != nil {
			return nil, err
		}
	}

	return t, nil
}

// OpenFile builds a track over the file at path, decoded with dec.
func OpenFile(path string, dec Decoder, opts ...TrackOption) (*SourceTrack, error) {
	return NewSourceTrack(func() (Source, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		src, err := dec.Decode(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}

		return &closerSource{Source: src, c: f}, nil
	}, opts...)
}

func (t *SourceTrack) MediaType() MediaType { return MediaTypeAudio }
func (t *SourceTrack) Channels() int        { return t.channels }
func (t *SourceTrack) SampleRate() int      { return t.sampleRate }
func (t *SourceTrack) Frames() int64        { return t.frames }

func (t *SourceTrack) Duration() time.Duration {
	if t.sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(t.frames) / float64(t.sampleRate) * float64(time.Second))
}

func (t *SourceTrack) NewReader(ctx context.Context, tr *TimeRange) (Reader, error) {
	start, count, err := t.frameSpan(tr)
	if err != nil {
		return nil, err
	}

	src, err := t.openSource()
	if err != nil {
		return nil, err
	}

	return newPCMReader(ctx, src, start, count), nil
}

// frameSpan converts tr into a first frame and a frame count within the track.
func (t *SourceTrack) frameSpan(tr *TimeRange) (int64, int64, error) {
	if tr == nil {
		return 0, t.frames, nil
	}
	if tr.Start < 0 || tr.Duration < 0 {
		return 0, 0, ErrInvalidTimeRange
	}

	start := durationToFrames(tr.Start, t.sampleRate)
	if start > t.frames {
		return 0, 0, fmt.Errorf("%w: start %v beyond %v", ErrInvalidTimeRange, tr.Start, t.Duration())
	}

	count := t.frames - start
	if tr.Duration > 0 {
		count = min(count, durationToFrames(tr.Duration, t.sampleRate))
	}

	return start, count, nil
}

func (t *SourceTrack) openSource() (Source, error) {
	src, err := t.open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTrackUnavailable, err)
	}
	if t.mixdown {
		return NewMonoMixer(src), nil
	}
	return src, nil
}

func durationToFrames(d time.Duration, rate int) int64 {
	return int64(math.Round(d.Seconds() * float64(rate)))
}

func countFrames(src Source) (int64, error) {
	channels := src.Channels()
	buf := make([]float32, 4096*channels)
	var samples int64

	for empty := 0; ; {
		n, err := src.ReadSamples(buf)
		samples += int64(n)

		if errors.Is(err, io.EOF) {
			return samples / int64(channels), nil
		}
		if err != nil {
			return 0, fmt.Errorf("%w: counting frames: %w", ErrUnknownLength, err)
		}

		if n > 0 {
			empty = 0
			continue
		}
		if empty++; empty >= maxEmptyReads {
			return 0, fmt.Errorf("%w: counting frames: %w", ErrUnknownLength, io.ErrNoProgress)
		}
	}
}

// closerSource closes the underlying file together with the decoder.
type closerSource struct {
	Source
	c io.Closer
}

func (s *closerSource) Frames() int64 { return FramesOf(s.Source) }

func (s *closerSource) Close() error {
	err := s.Source.Close()
	if cerr := s.c.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
