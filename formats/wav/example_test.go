// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/audwave/audio"
	"github.com/ik5/audwave/formats/wav"
)

func Example() {
	var buf bytes.Buffer
	if err := wav.WriteWAV16(&buf, 8000, []int16{16384, -16384, 0, 8192}); err != nil {
		fmt.Println(err)
		return
	}

	src, err := wav.Decoder{}.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer src.Close()

	samples := make([]float32, 8)
	n, _ := src.ReadSamples(samples)

	fmt.Printf("rate=%d channels=%d frames=%d\n", src.SampleRate(), src.Channels(), audio.FramesOf(src))
	fmt.Println(samples[:n])
	// Output:
	// rate=8000 channels=1 frames=4
	// [0.5 -0.5 0 0.25]
}
