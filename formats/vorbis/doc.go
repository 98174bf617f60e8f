// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio through github.com/jfreymuth/oggvorbis.
//
// Samples are produced as interleaved float32 values in [-1, 1], with the
// channel count declared by the stream. Pass an io.ReadSeeker (an *os.File)
// to let the decoder learn the stream length up front.
package vorbis
