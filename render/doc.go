// SPDX-License-Identifier: EPL-2.0

// Package render draws a normalised amplitude profile into an RGBA bitmap.
//
// Render is a pure function: the same samples and Config always produce the
// same pixels, and it is safe to call from several goroutines at once. A
// Config whose size cannot produce a bitmap yields nil rather than an error.
//
// Geometry is worked out in points and multiplied by Config.Scale. Sample i
// occupies pixel column i; its segment is centred on the anchor line given by
// Position and extends (1 - sample) * Height / PaddingFactor points each way,
// never less than two points.
//
//	im := render.Render(profile.Samples(), profile.Peak(), render.Config{
//		Size:            render.Size{Width: 400, Height: 64},
//		Color:           color.RGBA{R: 0x33, G: 0x99, B: 0xff, A: 0xff},
//		BackgroundColor: color.White,
//		Style:           render.Striped{Period: 3},
//	})
package render
