package raster

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// ToRGBA converts a [0, 1] float color to 8-bit RGBA, clamping each channel.
func ToRGBA(c mgl32.Vec4) color.RGBA {
	return color.RGBA{
		R: clamp255(float64(c[0]) * 255),
		G: clamp255(float64(c[1]) * 255),
		B: clamp255(float64(c[2]) * 255),
		A: clamp255(float64(c[3]) * 255),
	}
}

// FromRGBA converts an 8-bit color to [0, 1] floats.
func FromRGBA(c color.RGBA) mgl32.Vec4 {
	return mgl32.Vec4{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
