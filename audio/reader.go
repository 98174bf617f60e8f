// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ik5/audwave/utils"
)

// Status reports where a Reader is in its lifecycle.
type Status int

const (
	StatusUnknown Status = iota
	StatusReading
	StatusCompleted
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusReading:
		return "reading"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Reader streams a time range of a track as interleaved 16-bit PCM.
type Reader interface {
	Channels() int
	SampleRate() int
	// Frames is the number of frames the reader will deliver for its range.
	Frames() int64
	// ReadChunk returns the next block of interleaved samples. The slice is only
	// valid until the next call. At the end of the range it returns io.EOF.
	ReadChunk() ([]int16, error)
	Status() Status
	Close() error
}

// maxEmptyReads is how many reads in a row may return no samples before a
// source is treated as stalled, as bufio does for its readers.
const maxEmptyReads = 100

type pcmReader struct {
	ctx        context.Context
	src        Source
	channels   int
	sampleRate int
	frames     int64

	skip      int64 // samples still to discard before the range starts
	remaining int64 // samples left inside the range

	fbuf  []float32
	chunk []int16
	eof   bool

	mtx    sync.Mutex
	status Status
	err    error
}

func newPCMReader(ctx context.Context, src Source, startFrame, frames int64) *pcmReader {
	channels := src.Channels()

	size := src.BufSize()
	if size < channels {
		size = 4096
	}
	size -= size % channels

	return &pcmReader{
		ctx:        ctx,
		src:        src,
		channels:   channels,
		sampleRate: src.SampleRate(),
		frames:     frames,
		skip:       startFrame * int64(channels),
		remaining:  frames * int64(channels),
		fbuf:       make([]float32, size),
		chunk:      make([]int16, size),
		status:     StatusReading,
	}
}

func (r *pcmReader) Channels() int   { return r.channels }
func (r *pcmReader) SampleRate() int { return r.sampleRate }
func (r *pcmReader) Frames() int64   { return r.frames }

func (r *pcmReader) Status() Status {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.status
}

func (r *pcmReader) setStatus(s Status, err error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.status = s
	r.err = err
}

func (r *pcmReader) terminal() (bool, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	switch r.status {
	case StatusCompleted:
		return true, io.EOF
	case StatusFailed, StatusCancelled:
		return true, r.err
	}
	return false, nil
}

func (r *pcmReader) ReadChunk() ([]int16, error) {
	if done, err := r.terminal(); done {
		return nil, err
	}

	if err := r.ctx.Err(); err != nil {
		r.setStatus(StatusCancelled, err)
		return nil, err
	}

	if err := r.discardLeading(); err != nil {
		return nil, err
	}

	empty := 0
	for {
		if r.remaining == 0 || r.eof {
			r.setStatus(StatusCompleted, nil)
			return nil, io.EOF
		}

		want := min(int64(len(r.fbuf)), r.remaining)
		n, err := r.src.ReadSamples(r.fbuf[:want])
		if err != nil && !errors.Is(err, io.EOF) {
			err = fmt.Errorf("reading samples: %w", err)
			r.setStatus(StatusFailed, err)
			return nil, err
		}
		if errors.Is(err, io.EOF) {
			r.eof = true
		}

		n = min(n, int(want))
		if n == 0 {
			if !r.eof {
				if err := r.idle(&empty); err != nil {
					return nil, err
				}
			}
			continue
		}
		empty = 0

		r.remaining -= int64(n)
		for i, v := range r.fbuf[:n] {
			r.chunk[i] = utils.Float32ToInt16(v)
		}

		return r.chunk[:n], nil
	}
}

func (r *pcmReader) discardLeading() error {
	empty := 0
	for r.skip > 0 && !r.eof {
		if err := r.ctx.Err(); err != nil {
			r.setStatus(StatusCancelled, err)
			return err
		}

		want := min(int64(len(r.fbuf)), r.skip)
		n, err := r.src.ReadSamples(r.fbuf[:want])
		r.skip -= int64(min(n, int(want)))

		switch {
		case errors.Is(err, io.EOF):
			r.eof = true
		case err != nil:
			err = fmt.Errorf("seeking to range start: %w", err)
			r.setStatus(StatusFailed, err)
			return err
		case n == 0:
			if err := r.idle(&empty); err != nil {
				return err
			}
		default:
			empty = 0
		}
	}
	return nil
}

// idle accounts for a read that returned no samples. The reader is cancelled
// when its context is done and failed with io.ErrNoProgress once the source
// has stalled for maxEmptyReads reads in a row.
func (r *pcmReader) idle(empty *int) error {
	if err := r.ctx.Err(); err != nil {
		r.setStatus(StatusCancelled, err)
		return err
	}

	*empty++
	if *empty >= maxEmptyReads {
		err := fmt.Errorf("reading samples: %w", io.ErrNoProgress)
		r.setStatus(StatusFailed, err)
		return err
	}
	return nil
}

func (r *pcmReader) Close() error {
	r.mtx.Lock()
	if r.status == StatusReading {
		r.status = StatusCancelled
		r.err = ErrReaderClosed
	}
	r.mtx.Unlock()

	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
