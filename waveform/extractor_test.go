// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"context"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/internal/audiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceTrack(t *testing.T, newSource func() audio.Source) *audio.SourceTrack {
	t.Helper()

	track, err := audio.NewSourceTrack(func() (audio.Source, error) {
		return newSource(), nil
	})
	require.NoError(t, err)
	return track
}

func pcmTrack(t *testing.T, rate, channels int, samples []int16) *audio.SourceTrack {
	t.Helper()

	return sourceTrack(t, func() audio.Source {
		return audiotest.NewPCMSource(rate, channels, samples)
	})
}

func request(track audio.Track, count int) Request {
	return Request{Track: track, SampleCount: count, NoiseFloor: DefaultNoiseFloor}
}

func dbfs(v int16) float64 {
	return 20 * math.Log10(math.Abs(float64(v))/32768)
}

func TestExtract_TenSecondsMono(t *testing.T) {
	t.Parallel()

	track := sourceTrack(t, func() audio.Source {
		return audiotest.NewSineSource(44100, 1, 10*44100, 440)
	})

	p, err := New().Extract(context.Background(), request(track, 100))
	require.NoError(t, err)

	assert.InDelta(t, 100, p.Len(), 1)
	for i := range p.Len() {
		v := p.At(i)
		assert.GreaterOrEqual(t, v, float32(0), "sample %d", i)
		assert.LessOrEqual(t, v, float32(1), "sample %d", i)
	}
	assert.LessOrEqual(t, p.Peak(), float32(0))
	assert.Greater(t, p.Peak(), DefaultNoiseFloor)
}

func TestExtract_Silence(t *testing.T) {
	t.Parallel()

	track := sourceTrack(t, func() audio.Source {
		return audiotest.NewSilentSource(8000, 2, 8000)
	})

	p, err := New().Extract(context.Background(), request(track, 50))
	require.NoError(t, err)

	require.Equal(t, 50, p.Len())
	for _, v := range p.Samples() {
		assert.InDelta(t, 1, v, 1e-6)
	}
	assert.InDelta(t, DefaultNoiseFloor, p.Peak(), 1e-4)
}

func TestExtract_FullScale(t *testing.T) {
	t.Parallel()

	track := sourceTrack(t, func() audio.Source {
		return audiotest.NewConstantSource(8000, 1, 4000, -1)
	})

	p, err := New().Extract(context.Background(), request(track, 40))
	require.NoError(t, err)

	require.Equal(t, 40, p.Len())
	for _, v := range p.Samples() {
		assert.InDelta(t, 0, v, 1e-7)
	}
	assert.InDelta(t, 0, p.Peak(), 1e-7)
}

func TestExtract_DecibelMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value int16
		floor float32
	}{
		{name: "-20 dB at default floor", value: 3277, floor: -50},
		{name: "-6 dB at default floor", value: 16384, floor: -50},
		{name: "-20 dB at -80 floor", value: -3277, floor: -80},
		{name: "below floor clips", value: 10, floor: -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			samples := make([]int16, 1000)
			for i := range samples {
				samples[i] = tt.value
			}
			track := pcmTrack(t, 8000, 1, samples)

			req := request(track, 10)
			req.NoiseFloor = tt.floor
			p, err := New().Extract(context.Background(), req)
			require.NoError(t, err)

			db := math.Max(dbfs(tt.value), float64(tt.floor))
			require.Equal(t, 10, p.Len())
			for _, v := range p.Samples() {
				assert.InDelta(t, db/float64(tt.floor), v, 1e-5)
			}
			assert.InDelta(t, db, p.Peak(), 1e-4)
		})
	}
}

func TestExtract_WindowAveragesDecibels(t *testing.T) {
	t.Parallel()

	// One window of two samples: 0 dB and silence (clipped to -50) average to -25.
	track := pcmTrack(t, 8000, 1, []int16{-32768, 0, -32768, 0})

	p, err := New().Extract(context.Background(), request(track, 2))
	require.NoError(t, err)

	require.Equal(t, 2, p.Len())
	assert.InDelta(t, 0.5, p.At(0), 1e-6)
	assert.InDelta(t, 0.5, p.At(1), 1e-6)
	assert.InDelta(t, -25, p.Peak(), 1e-5)
}

func TestExtract_TrailingWindowUsesRemainder(t *testing.T) {
	t.Parallel()

	// 11 frames / 3 samples gives a window of 3, so three full windows and a
	// trailing window of two samples averaged over two, not three.
	samples := []int16{
		-32768, -32768, -32768,
		3277, 3277, 3277,
		0, 0, 0,
		-32768, 0,
	}
	track := pcmTrack(t, 8000, 1, samples)

	p, err := New().Extract(context.Background(), request(track, 3))
	require.NoError(t, err)

	require.Equal(t, 4, p.Len())
	assert.InDelta(t, 0, p.At(0), 1e-6)
	assert.InDelta(t, dbfs(3277)/-50, p.At(1), 1e-5)
	assert.InDelta(t, 1, p.At(2), 1e-6)
	assert.InDelta(t, 0.5, p.At(3), 1e-6)
	assert.InDelta(t, 0, p.Peak(), 1e-6)
}

func TestExtract_LengthBound(t *testing.T) {
	t.Parallel()

	for _, channels := range []int{1, 2, 3} {
		for _, desired := range []int{1, 7, 100, 333} {
			track := sourceTrack(t, func() audio.Source {
				return audiotest.NewSineSource(22050, channels, 10*22050+17, 220)
			})

			p, err := New().Extract(context.Background(), request(track, desired))
			require.NoError(t, err)
			assert.InDelta(t, desired, p.Len(), float64(channels),
				"channels=%d desired=%d", channels, desired)
		}
	}
}

func TestExtract_PeakIsMaximum(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 6000)
	for i := range samples {
		samples[i] = int16((i % 600) * 50)
	}
	track := pcmTrack(t, 8000, 1, samples)

	p, err := New().Extract(context.Background(), request(track, 60))
	require.NoError(t, err)

	// Normalised 0 is loudest, so the smallest value maps back to the peak.
	smallest := float32(math.MaxFloat32)
	for _, v := range p.Samples() {
		smallest = min(smallest, v)
	}
	assert.InDelta(t, smallest*DefaultNoiseFloor, p.Peak(), 1e-4)
}

func TestExtract_TimeRange(t *testing.T) {
	t.Parallel()

	// One silent second followed by one full-scale second.
	samples := make([]int16, 2*8000)
	for i := 8000; i < len(samples); i++ {
		samples[i] = -32768
	}
	track := pcmTrack(t, 8000, 1, samples)

	tests := []struct {
		name string
		tr   *audio.TimeRange
		want float32
	}{
		{name: "silent half", tr: &audio.TimeRange{Duration: 500 * time.Millisecond}, want: 1},
		{name: "loud half", tr: &audio.TimeRange{Start: 1200 * time.Millisecond, Duration: 500 * time.Millisecond}, want: 0},
		{name: "loud to end", tr: &audio.TimeRange{Start: time.Second}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := request(track, 20)
			req.Range = tt.tr
			p, err := New().Extract(context.Background(), req)
			require.NoError(t, err)

			require.Equal(t, 20, p.Len())
			for _, v := range p.Samples() {
				assert.InDelta(t, tt.want, v, 1e-6)
			}
		})
	}
}

func TestExtract_EmptyRange(t *testing.T) {
	t.Parallel()

	track := pcmTrack(t, 8000, 1, make([]int16, 8000))
	req := request(track, 10)
	req.Range = &audio.TimeRange{Start: time.Second}

	p, err := New().Extract(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, DefaultNoiseFloor, p.Peak())
}

func TestExtract_Errors(t *testing.T) {
	t.Parallel()

	good := pcmTrack(t, 8000, 1, make([]int16, 800))
	readerTrack := func(r *audiotest.Reader) *audiotest.Track {
		return &audiotest.Track{
			Media: audio.MediaTypeAudio,
			Chans: 1,
			Rate:  8000,
			Open: func(context.Context, *audio.TimeRange) (audio.Reader, error) {
				return r, nil
			},
		}
	}

	tests := []struct {
		name   string
		req    Request
		want   error
		status audio.Status
	}{
		{
			name: "nil track",
			req:  request(nil, 10),
			want: ErrTrackNotFound,
		},
		{
			name: "video track",
			req:  request(&audiotest.Track{Media: audio.MediaTypeVideo, Chans: 1}, 10),
			want: ErrMediaTypeMismatch,
		},
		{
			name: "no channels",
			req:  request(&audiotest.Track{Media: audio.MediaTypeAudio}, 10),
			want: ErrAudioChannelNotFound,
		},
		{
			name: "zero sample count",
			req:  request(good, 0),
			want: ErrExtractionFailed,
		},
		{
			name: "positive noise floor",
			req:  Request{Track: good, SampleCount: 10, NoiseFloor: 3},
			want: ErrExtractionFailed,
		},
		{
			name: "range past the end",
			req:  Request{Track: good, SampleCount: 10, Range: &audio.TimeRange{Start: time.Hour}},
			want: ErrExtractionFailed,
		},
		{
			name: "reader cannot open",
			req: request(&audiotest.Track{
				Media: audio.MediaTypeAudio,
				Chans: 1,
				Open: func(context.Context, *audio.TimeRange) (audio.Reader, error) {
					return nil, audio.ErrTrackUnavailable
				},
			}, 10),
			want: ErrTrackNotFound,
		},
		{
			name: "unknown length",
			req:  request(readerTrack(&audiotest.Reader{Chans: 1, FrameCount: -1}), 10),
			want: ErrExtractionFailed,
		},
		{
			name: "reader fails mid stream",
			req: request(readerTrack(&audiotest.Reader{
				Chans:      1,
				FrameCount: 100,
				Chunks:     [][]int16{make([]int16, 40)},
				Err:        io.ErrUnexpectedEOF,
				EndStatus:  audio.StatusFailed,
			}), 10),
			want:   ErrReadingFailed,
			status: audio.StatusFailed,
		},
		{
			name: "reader ends cancelled",
			req: request(readerTrack(&audiotest.Reader{
				Chans:      1,
				FrameCount: 100,
				EndStatus:  audio.StatusCancelled,
			}), 10),
			want:   ErrReadingFailed,
			status: audio.StatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := New().Extract(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.want)

			if tt.status != audio.StatusUnknown {
				var rf *ReadingFailedError
				require.ErrorAs(t, err, &rf)
				assert.Equal(t, tt.status, rf.Status)
			}
		})
	}
}

func TestExtract_ClosesReader(t *testing.T) {
	t.Parallel()

	r := &audiotest.Reader{Chans: 1, FrameCount: 4, Chunks: [][]int16{{1, 2, 3, 4}}}
	track := &audiotest.Track{
		Media: audio.MediaTypeAudio,
		Chans: 1,
		Open: func(context.Context, *audio.TimeRange) (audio.Reader, error) {
			return r, nil
		},
	}

	_, err := New().Extract(context.Background(), request(track, 2))
	require.NoError(t, err)
	assert.True(t, r.Closed())
}

func TestExtractAsync_SingleResult(t *testing.T) {
	t.Parallel()

	track := pcmTrack(t, 8000, 1, make([]int16, 8000))
	req := request(track, 16)
	req.ID = "async"

	ch := New().ExtractAsync(context.Background(), req)

	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, "async", res.ID)
	assert.Equal(t, 16, res.Profile.Len())

	_, ok = <-ch
	assert.False(t, ok, "channel must be closed after the result")
}

func TestExtractAsync_ValidationFailure(t *testing.T) {
	t.Parallel()

	res := <-New().ExtractAsync(context.Background(), request(nil, 16))
	assert.ErrorIs(t, res.Err, ErrTrackNotFound)
	assert.Nil(t, res.Profile)
}

func TestExtractFunc_ExactlyOnce(t *testing.T) {
	t.Parallel()

	good := pcmTrack(t, 8000, 1, make([]int16, 8000))

	tests := []struct {
		name    string
		req     Request
		success bool
	}{
		{name: "success", req: request(good, 8), success: true},
		{name: "failure", req: request(good, -1), success: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var successes, failures atomic.Int32
			var wg sync.WaitGroup
			wg.Add(1)

			New().ExtractFunc(context.Background(), tt.req,
				func(p *Profile) {
					successes.Add(1)
					wg.Done()
				},
				func(err error) {
					failures.Add(1)
					wg.Done()
				},
			)
			wg.Wait()

			// Give a stray second callback a chance to show up.
			time.Sleep(20 * time.Millisecond)

			if tt.success {
				assert.Equal(t, int32(1), successes.Load())
				assert.Equal(t, int32(0), failures.Load())
			} else {
				assert.Equal(t, int32(0), successes.Load())
				assert.Equal(t, int32(1), failures.Load())
			}
		})
	}
}

// blockingReader never produces data; it waits for its context.
type blockingReader struct {
	ctx     context.Context
	started chan struct{}
	once    sync.Once
	status  atomic.Int32
}

func (r *blockingReader) Channels() int   { return 1 }
func (r *blockingReader) SampleRate() int { return 8000 }
func (r *blockingReader) Frames() int64   { return 8000 }
func (r *blockingReader) Close() error    { return nil }

func (r *blockingReader) Status() audio.Status { return audio.Status(r.status.Load()) }

func (r *blockingReader) ReadChunk() ([]int16, error) {
	r.once.Do(func() { close(r.started) })
	<-r.ctx.Done()
	r.status.Store(int32(audio.StatusCancelled))
	return nil, r.ctx.Err()
}

func TestExtractor_Cancel(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	track := &audiotest.Track{
		Media: audio.MediaTypeAudio,
		Chans: 1,
		Open: func(ctx context.Context, _ *audio.TimeRange) (audio.Reader, error) {
			return &blockingReader{ctx: ctx, started: started}, nil
		},
	}

	ex := New()
	req := request(track, 10)
	req.ID = "long"

	ch := ex.ExtractAsync(context.Background(), req)
	<-started

	dup := <-ex.ExtractAsync(context.Background(), req)
	assert.ErrorIs(t, dup.Err, ErrDuplicateRequest)

	assert.True(t, ex.Cancel("long"))

	res := <-ch
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, ErrReadingFailed)
	assert.ErrorIs(t, res.Err, context.Canceled)

	var rf *ReadingFailedError
	require.ErrorAs(t, res.Err, &rf)
	assert.Equal(t, audio.StatusCancelled, rf.Status)

	assert.False(t, ex.Cancel("long"), "finished requests are forgotten")
}

func stalledTrack(t *testing.T, onRead func(int)) *audio.SourceTrack {
	t.Helper()

	return sourceTrack(t, func() audio.Source {
		return &audiotest.StalledSource{Rate: 8000, Chans: 1, Length: 8000, OnRead: onRead}
	})
}

func TestExtract_StalledSource(t *testing.T) {
	t.Parallel()

	ch := New().ExtractAsync(context.Background(), request(stalledTrack(t, nil), 10))

	select {
	case res := <-ch:
		assert.ErrorIs(t, res.Err, ErrReadingFailed)
		assert.ErrorIs(t, res.Err, io.ErrNoProgress)

		var rf *ReadingFailedError
		require.ErrorAs(t, res.Err, &rf)
		assert.Equal(t, audio.StatusFailed, rf.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("extraction over a stalled source never finished")
	}
}

func TestExtractor_CancelStalled(t *testing.T) {
	t.Parallel()

	ex := New()
	cancelled := make(chan bool, 1)
	track := stalledTrack(t, func(read int) {
		if read == 3 {
			cancelled <- ex.Cancel("stalled")
		}
	})

	req := request(track, 10)
	req.ID = "stalled"

	select {
	case res := <-ex.ExtractAsync(context.Background(), req):
		assert.True(t, <-cancelled)
		assert.ErrorIs(t, res.Err, context.Canceled)

		var rf *ReadingFailedError
		require.ErrorAs(t, res.Err, &rf)
		assert.Equal(t, audio.StatusCancelled, rf.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("Cancel did not stop an extraction over a stalled source")
	}
}

func TestExtract_ContextCancelled(t *testing.T) {
	t.Parallel()

	track := pcmTrack(t, 8000, 1, make([]int16, 8000))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Extract(ctx, request(track, 10))
	assert.ErrorIs(t, err, ErrReadingFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtract_ConcurrentRequests(t *testing.T) {
	t.Parallel()

	loud := sourceTrack(t, func() audio.Source {
		return audiotest.NewConstantSource(8000, 1, 8000, -1)
	})
	quiet := sourceTrack(t, func() audio.Source {
		return audiotest.NewSilentSource(8000, 1, 8000)
	})

	ex := New()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			track, want := audio.Track(loud), float32(0)
			if i%2 == 1 {
				track, want = quiet, 1
			}
			p, err := ex.Extract(context.Background(), request(track, 32))
			if !assert.NoError(t, err) {
				return
			}
			for _, v := range p.Samples() {
				assert.InDelta(t, want, v, 1e-6)
			}
		}()
	}
	wg.Wait()
}

func TestNoiseFloor_SnapshotAtRequest(t *testing.T) {
	// Mutates the process-wide default, so not parallel.
	t.Cleanup(func() { _ = SetNoiseFloor(DefaultNoiseFloor) })

	track := pcmTrack(t, 8000, 1, make([]int16, 800))

	require.NoError(t, SetNoiseFloor(-80))
	req := NewRequest(track, 8)
	assert.Equal(t, float32(-80), req.NoiseFloor)
	assert.NotEmpty(t, req.ID)

	require.NoError(t, SetNoiseFloor(-30))
	p, err := New().Extract(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, -80, p.Peak(), 1e-4, "extraction must use the floor captured by the request")

	zero := request(track, 8)
	zero.NoiseFloor = 0
	p, err = New().Extract(context.Background(), zero)
	require.NoError(t, err)
	assert.InDelta(t, -30, p.Peak(), 1e-4)

	assert.ErrorIs(t, SetNoiseFloor(0), ErrInvalidNoiseFloor)
	assert.ErrorIs(t, SetNoiseFloor(float32(math.Inf(-1))), ErrInvalidNoiseFloor)
	assert.Equal(t, float32(-30), NoiseFloor())
}

func TestProfile_Immutable(t *testing.T) {
	t.Parallel()

	src := []float32{0.1, 0.2}
	p := NewProfile(src, -3)
	src[0] = 9

	out := p.Samples()
	out[1] = 9

	assert.Equal(t, float32(0.1), p.At(0))
	assert.Equal(t, float32(0.2), p.At(1))
	assert.Equal(t, float32(-3), p.Peak())
}
