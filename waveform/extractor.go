// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ik5/audwave/audio"
)

// Result is delivered once per ExtractAsync call.
type Result struct {
	ID      string
	Profile *Profile
	Err     error
}

// Extractor runs extractions. It holds no per-request buffers, so one
// Extractor serves any number of concurrent requests.
type Extractor struct {
	logger *slog.Logger

	mtx      sync.Mutex
	inflight map[string]context.CancelFunc
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for request lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger:   slog.Default(),
		inflight: make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs req to completion on the calling goroutine.
func (e *Extractor) Extract(ctx context.Context, req Request) (*Profile, error) {
	ctx, release, err := e.begin(ctx, &req)
	if err != nil {
		return nil, err
	}
	defer release()

	return e.run(ctx, req)
}

// ExtractAsync starts req on a new goroutine. The returned channel yields
// exactly one Result and is then closed.
func (e *Extractor) ExtractAsync(ctx context.Context, req Request) <-chan Result {
	ch := make(chan Result, 1)

	ctx, release, err := e.begin(ctx, &req)
	if err != nil {
		ch <- Result{ID: req.ID, Err: err}
		close(ch)
		return ch
	}

	go func() {
		defer close(ch)

		p, err := e.run(ctx, req)
		release()
		ch <- Result{ID: req.ID, Profile: p, Err: err}
	}()

	return ch
}

// ExtractFunc starts req and calls exactly one of onSuccess or onFailure.
// Callbacks run on the extraction goroutine; callers that need another
// context must hand the result over themselves.
func (e *Extractor) ExtractFunc(ctx context.Context, req Request, onSuccess func(*Profile), onFailure func(error)) {
	ch := e.ExtractAsync(ctx, req)

	go func() {
		res := <-ch
		if res.Err != nil {
			if onFailure != nil {
				onFailure(res.Err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(res.Profile)
		}
	}()
}

// Cancel aborts the in-flight request with the given ID. It reports whether
// such a request was found.
func (e *Extractor) Cancel(id string) bool {
	e.mtx.Lock()
	cancel, ok := e.inflight[id]
	e.mtx.Unlock()

	if ok {
		cancel()
	}
	return ok
}

// begin validates req, snapshots its noise floor and registers its ID.
func (e *Extractor) begin(ctx context.Context, req *Request) (context.Context, func(), error) {
	if req.NoiseFloor == 0 {
		req.NoiseFloor = NoiseFloor()
	}

	if err := validate(req); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	if req.ID == "" {
		return ctx, cancel, nil
	}

	e.mtx.Lock()
	defer e.mtx.Unlock()

	if _, dup := e.inflight[req.ID]; dup {
		cancel()
		return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateRequest, req.ID)
	}
	e.inflight[req.ID] = cancel

	return ctx, func() {
		e.mtx.Lock()
		delete(e.inflight, req.ID)
		e.mtx.Unlock()
		cancel()
	}, nil
}

func validate(req *Request) error {
	if req.Track == nil {
		return ErrTrackNotFound
	}
	if mt := req.Track.MediaType(); mt != audio.MediaTypeAudio {
		return fmt.Errorf("%w: track carries %s", ErrMediaTypeMismatch, mt)
	}
	if req.Track.Channels() < 1 {
		return ErrAudioChannelNotFound
	}
	if req.SampleCount < 1 {
		return fmt.Errorf("%w: sample count %d", ErrExtractionFailed, req.SampleCount)
	}
	if !validNoiseFloor(req.NoiseFloor) {
		return fmt.Errorf("%w: %w", ErrExtractionFailed, ErrInvalidNoiseFloor)
	}
	return nil
}

func (e *Extractor) run(ctx context.Context, req Request) (*Profile, error) {
	logger := e.logger.With("id", req.ID)

	reader, err := req.Track.NewReader(ctx, req.Range)
	if err != nil {
		logger.Debug("open reader failed", "err", err)
		if errors.Is(err, audio.ErrInvalidTimeRange) {
			return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTrackNotFound, err)
	}
	defer reader.Close()

	channels := reader.Channels()
	frames := reader.Frames()
	if channels < 1 {
		return nil, ErrAudioChannelNotFound
	}
	if frames < 0 {
		return nil, fmt.Errorf("%w: stream length unknown", ErrExtractionFailed)
	}

	window := max(1, int(int64(channels)*frames/int64(req.SampleCount)))
	logger.Debug("extraction started",
		"channels", channels,
		"frames", frames,
		"samples_per_window", window,
		"noise_floor", req.NoiseFloor,
	)

	ds := newDownsampler(window, req.NoiseFloor)

	for {
		if err := ctx.Err(); err != nil {
			logger.Debug("extraction cancelled")
			return nil, &ReadingFailedError{Status: audio.StatusCancelled, Err: err}
		}

		chunk, err := reader.ReadChunk()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Debug("extraction failed", "status", reader.Status(), "err", err)
			return nil, &ReadingFailedError{Status: reader.Status(), Err: err}
		}

		ds.write(chunk)
	}

	if status := reader.Status(); status != audio.StatusCompleted {
		return nil, &ReadingFailedError{Status: status}
	}

	p := ds.finish()
	logger.Debug("extraction finished", "samples", p.Len(), "peak", p.Peak())

	return p, nil
}
