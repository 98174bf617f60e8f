// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 audio through github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so every source reports two channels
// regardless of how the file was encoded. The stream length is only known
// when the input implements io.Seeker; with a plain io.Reader, Frames
// returns -1 and audio.NewSourceTrack counts the frames by decoding once.
//
//	f, _ := os.Open("audio.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
package mp3
