// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/utils"
)

const (
	formatPCM     = 1
	canonicalSize = 44
)

// streamSource reads a canonical 44-byte header WAV from a plain io.Reader.
type streamSource struct {
	r          io.Reader
	sampleRate int
	channels   int
	frames     int64
	buf        []byte
}

func (s *streamSource) SampleRate() int { return s.sampleRate }
func (s *streamSource) Channels() int   { return s.channels }
func (s *streamSource) Frames() int64   { return s.frames }
func (s *streamSource) BufSize() int    { return cap(s.buf) / 2 }
func (s *streamSource) Close() error    { return nil }

func (s *streamSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if cap(s.buf) < len(dst)*2 {
		s.buf = make([]byte, len(dst)*2)
	}
	s.buf = s.buf[:len(dst)*2]

	n, err := io.ReadFull(s.r, s.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("%w", err)
	}

	samples := n / 2
	for i := range samples {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}

	if err != nil {
		return samples, io.EOF
	}
	return samples, nil
}

// pcmReader is the part of go-audio's wav.Decoder used by chunkSource.
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// chunkSource reads any RIFF chunk layout through go-audio/wav.
type chunkSource struct {
	dec        pcmReader
	sampleRate int
	channels   int
	frames     int64
	intBuf     *goaudio.IntBuffer
}

func (s *chunkSource) SampleRate() int { return s.sampleRate }
func (s *chunkSource) Channels() int   { return s.channels }
func (s *chunkSource) Frames() int64   { return s.frames }
func (s *chunkSource) Close() error    { return nil }

func (s *chunkSource) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *chunkSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.dec.Format(),
			SourceBitDepth: 16,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = utils.Int16ToFloat32(int16(s.intBuf.Data[i]))
	}

	if n < len(dst) || err != nil {
		return n, io.EOF
	}
	return n, nil
}

type Decoder struct{}

// Decode reads a PCM 16-bit WAV stream. Seekable input is parsed chunk by
// chunk, so extra chunks (LIST, fact, ...) are skipped; a plain io.Reader must
// use the canonical 44-byte header layout.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return decodeSeekable(rs)
	}
	return decodeCanonical(r)
}

func decodeSeekable(rs io.ReadSeeker) (audio.Source, error) {
	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	dec.ReadInfo()
	if dec.WavAudioFormat != formatPCM || dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}
	if dec.NumChans == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	channels := int(dec.NumChans)
	return &chunkSource{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		frames:     dec.PCMLen() / int64(2*channels),
	}, nil
}

func decodeCanonical(r io.Reader) (audio.Source, error) {
	header := make([]byte, canonicalSize)

	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	if !bytes.HasPrefix(header[:4], []byte("RIFF")) || !bytes.HasPrefix(header[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}

	if !bytes.HasPrefix(header[12:16], []byte("fmt ")) {
		return nil, ErrUnsupportedWavLayout
	}

	audioFormat := binary.LittleEndian.Uint16(header[20:22])
	channels := int(binary.LittleEndian.Uint16(header[22:24]))
	sampleRate := int(binary.LittleEndian.Uint32(header[24:28]))
	bitsPerSample := int(binary.LittleEndian.Uint16(header[34:36]))

	if audioFormat != formatPCM || bitsPerSample != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}
	if channels == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	if !bytes.HasPrefix(header[36:40], []byte("data")) {
		return nil, ErrUnsupportedWavChunks
	}
	dataSize := int64(binary.LittleEndian.Uint32(header[40:44]))

	return &streamSource{
		r:          r,
		sampleRate: sampleRate,
		channels:   channels,
		frames:     dataSize / int64(2*channels),
		buf:        make([]byte, 8192),
	}, nil
}
