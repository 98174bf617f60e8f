// SPDX-License-Identifier: EPL-2.0

// Package audwave turns audio tracks into waveform images.
//
// The work is split in two stages that can be used on their own:
//
//   - waveform extracts a normalised amplitude profile from a track. Samples
//     are converted to dBFS, clipped to a noise floor and averaged over
//     fixed windows, so profiles of different tracks are directly comparable.
//   - render draws a profile into an RGBA bitmap in one of three styles
//     (filled, gradient, striped).
//
// Generate chains both stages for the common case.
//
// # Tracks
//
// A track is anything implementing audio.Track. audio.OpenFile builds one over
// a file using one of the decoders in formats/:
//
//   - WAV (PCM 16-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (PCM 16-bit) via formats/aiff
//
// # Quick Start
//
//	track, err := audio.OpenFile("song.mp3", mp3.Decoder{})
//	if err != nil {
//		return err
//	}
//
//	im, _, err := audwave.Generate(ctx, nil, waveform.Request{Track: track}, render.Config{
//		Size:  render.Size{Width: 600, Height: 80},
//		Color: color.RGBA{R: 0x33, G: 0x99, B: 0xff, A: 0xff},
//		Style: render.Gradient{},
//	})
//
// # Extraction in the background
//
// waveform.Extractor runs requests synchronously (Extract), as a future
// (ExtractAsync) or with callbacks (ExtractFunc). Requests carrying an ID can
// be cancelled with Extractor.Cancel.
//
// See the individual subpackages for more detailed documentation.
package audwave
