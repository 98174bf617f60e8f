// SPDX-License-Identifier: EPL-2.0

package audwave_test

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"math"

	"github.com/ik5/audwave"
	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/formats/wav"
	"github.com/ik5/audwave/render"
	"github.com/ik5/audwave/waveform"
)

// Example_generate builds a track over an in-memory WAV file and draws it.
func Example_generate() {
	// One second of a 440 Hz tone fading out, at 8 kHz.
	samples := make([]int16, 8000)
	for i := range samples {
		fade := 1 - float64(i)/float64(len(samples))
		samples[i] = int16(30000 * fade * math.Sin(2*math.Pi*440*float64(i)/8000))
	}

	data := new(bytes.Buffer)
	if err := wav.WritePCM16(data, 8000, 1, samples); err != nil {
		fmt.Println("write error:", err)
		return
	}

	track, err := audio.NewSourceTrack(func() (audio.Source, error) {
		return wav.Decoder{}.Decode(bytes.NewReader(data.Bytes()))
	})
	if err != nil {
		fmt.Println("track error:", err)
		return
	}

	im, profile, err := audwave.Generate(context.Background(), nil,
		waveform.Request{Track: track, SampleCount: 100},
		render.Config{
			Size:            render.Size{Width: 100, Height: 40},
			Color:           color.RGBA{R: 0x33, G: 0x99, B: 0xff, A: 0xff},
			BackgroundColor: color.White,
			Style:           render.Gradient{},
		})
	if err != nil {
		fmt.Println("generate error:", err)
		return
	}

	fmt.Printf("%d samples, image %dx%d\n", profile.Len(), im.Bounds().Dx(), im.Bounds().Dy())
	fmt.Printf("louder at the start: %v\n", profile.At(0) < profile.At(profile.Len()-1))
	// Output:
	// 100 samples, image 100x40
	// louder at the start: true
}
