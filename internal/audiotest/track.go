// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"context"
	"io"
	"time"

	"github.com/ik5/audwave/audio"
)

// Track is an audio.Track whose reader is produced by a hook, for exercising
// failure paths that real decoders cannot reach.
type Track struct {
	Media  audio.MediaType
	Chans  int
	Rate   int
	Length time.Duration
	Open   func(ctx context.Context, tr *audio.TimeRange) (audio.Reader, error)
}

func (t *Track) MediaType() audio.MediaType { return t.Media }
func (t *Track) Channels() int              { return t.Chans }
func (t *Track) SampleRate() int            { return t.Rate }
func (t *Track) Duration() time.Duration    { return t.Length }

func (t *Track) NewReader(ctx context.Context, tr *audio.TimeRange) (audio.Reader, error) {
	return t.Open(ctx, tr)
}

// Reader replays Chunks, then either completes or stops with Err and
// EndStatus.
type Reader struct {
	Chans      int
	Rate       int
	FrameCount int64
	Chunks     [][]int16
	Err        error
	EndStatus  audio.Status

	next   int
	status audio.Status
	closed bool
}

func (r *Reader) Channels() int   { return r.Chans }
func (r *Reader) SampleRate() int { return r.Rate }
func (r *Reader) Frames() int64   { return r.FrameCount }
func (r *Reader) Closed() bool    { return r.closed }

func (r *Reader) Status() audio.Status {
	if r.status == audio.StatusUnknown && r.next < len(r.Chunks) {
		return audio.StatusReading
	}
	return r.status
}

func (r *Reader) ReadChunk() ([]int16, error) {
	if r.next < len(r.Chunks) {
		c := r.Chunks[r.next]
		r.next++
		return c, nil
	}

	r.status = r.EndStatus
	if r.Err != nil {
		return nil, r.Err
	}
	if r.status == audio.StatusUnknown {
		r.status = audio.StatusCompleted
	}
	return nil, io.EOF
}

func (r *Reader) Close() error {
	r.closed = true
	return nil
}
