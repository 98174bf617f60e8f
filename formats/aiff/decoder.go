// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/utils"
)

const defaultBufSize = 4096

// frameDecoder is what pcmSource needs from aiff.Decoder.
type frameDecoder interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// pcmSource exposes the SSND chunk of a 16-bit AIFF as an audio.Source.
type pcmSource struct {
	dec        frameDecoder
	sampleRate int
	channels   int
	frames     int64
	buf        *goaudio.IntBuffer
}

func (s *pcmSource) SampleRate() int { return s.sampleRate }
func (s *pcmSource) Channels() int   { return s.channels }
func (s *pcmSource) Frames() int64   { return s.frames }
func (s *pcmSource) Close() error    { return nil }

func (s *pcmSource) BufSize() int {
	if s.buf == nil {
		return defaultBufSize
	}
	return cap(s.buf.Data)
}

// intBuffer returns a buffer of exactly n samples, reusing the previous one when it is large enough.
func (s *pcmSource) intBuffer(n int) *goaudio.IntBuffer {
	if s.buf != nil && cap(s.buf.Data) >= n {
		s.buf.Data = s.buf.Data[:n]
		return s.buf
	}

	s.buf = &goaudio.IntBuffer{
		Data:           make([]int, n),
		Format:         s.dec.Format(),
		SourceBitDepth: 16,
	}
	return s.buf
}

func (s *pcmSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	buf := s.intBuffer(len(dst))
	n, err := s.dec.PCMBuffer(buf)
	switch {
	case err != nil && !errors.Is(err, io.EOF):
		return 0, fmt.Errorf("reading SSND chunk: %w", err)
	case n == 0:
		return 0, io.EOF
	}

	for i, v := range buf.Data[:n] {
		dst[i] = utils.Int16ToFloat32(int16(v))
	}

	// go-audio reports the end of the sound data as a short read.
	if err != nil || n < len(dst) {
		return n, io.EOF
	}
	return n, nil
}

// Decoder decodes 16-bit PCM AIFF files.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		// aiff.NewDecoder seeks between chunks.
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("buffering AIFF input: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()
	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	f := dec.Format()
	if f == nil || f.NumChannels < 1 {
		return nil, ErrNoChannels
	}

	return &pcmSource{
		dec:        dec,
		sampleRate: f.SampleRate,
		channels:   f.NumChannels,
		frames:     int64(dec.NumSampleFrames),
	}, nil
}
