// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Only PCM 16-bit is supported, mono or multi-channel, at any sample rate.
//
// # Decoding
//
// When the input implements io.ReadSeeker (an *os.File, a *bytes.Reader)
// the stream is parsed chunk by chunk with github.com/go-audio/wav, so files
// carrying LIST, fact or JUNK chunks decode fine. A plain io.Reader is read
// with a fast path that expects the canonical 44-byte header.
//
//	f, _ := os.Open("audio.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not RIFF/WAVE
//	}
//
// Either way the returned source reports its frame count from the data
// chunk size.
//
// # Writing
//
// WritePCM16 writes interleaved samples behind a canonical header;
// WriteWAV16 is the mono shorthand:
//
//	samples := []int16{100, -100, 200, -200}
//	err := wav.WriteWAV16(out, 8000, samples)
package wav
