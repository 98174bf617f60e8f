// SPDX-License-Identifier: EPL-2.0

// Package audio turns decoded audio into tracks that can be read as
// interleaved 16-bit PCM.
//
// # Sources
//
// A Source is a decoded stream of float32 samples in [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// The decoders under formats/ return Sources. Sources that know their length
// up front also implement Lengther.
//
// # Tracks and readers
//
// A Track is a read-only handle to one audio stream. SourceTrack builds one
// from a function that reopens the stream, so every reader gets its own
// decoder and readers over the same track may run concurrently:
//
//	track, err := audio.OpenFile("speech.wav", wav.Decoder{})
//	r, err := track.NewReader(ctx, &audio.TimeRange{Start: time.Second})
//	defer r.Close()
//	for {
//	    chunk, err := r.ReadChunk()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // chunk holds interleaved int16 samples
//	}
//
// Reader.Status reports whether the stream is still running, completed, was
// cancelled through its context or failed.
//
// # Channel mixing
//
// MonoMixer averages all channels into one. WithMixdown wires it into a
// SourceTrack.
//
// # Format registry
//
// Registry maps format names and file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	dec, ok := registry.ForPath("speech.wav")
package audio
