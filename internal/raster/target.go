package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// DepthClear is the depth every pixel is reset to. Window depth lives in
// [0, 1], so anything drawn passes the first depth test.
const DepthClear float32 = 10000

// DepthFunc selects the comparison used by DepthTest.
type DepthFunc uint8

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
	DepthAlways
)

// ParseDepthFunc accepts "less", "lequal" or "always".
func ParseDepthFunc(s string) (DepthFunc, error) {
	switch s {
	case "less", "":
		return DepthLess, nil
	case "lequal", "less_equal":
		return DepthLessEqual, nil
	case "always":
		return DepthAlways, nil
	}
	return DepthLess, fmt.Errorf("raster: unknown depth func %q", s)
}

// DefaultClearColor is the color of a freshly allocated target.
var DefaultClearColor = color.RGBA{0, 0, 255, 255}

// RenderTarget holds a color and a depth buffer as flat row-major slices.
// It has no lock of its own: the consumer writes it while it is bound and
// the producer may read it only after the fence for the frame has passed.
type RenderTarget struct {
	Width  int
	Height int
	Color  []color.RGBA // len = W*H
	Depth  []float32    // len = W*H, reset to DepthClear

	depthFunc DepthFunc
}

// NewRenderTarget allocates a target filled with DefaultClearColor.
func NewRenderTarget(w, h int) *RenderTarget {
	rt := &RenderTarget{}
	rt.Resize(w, h)
	return rt
}

// Resize reallocates both buffers and resets them.
func (rt *RenderTarget) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	n := w * h
	rt.Width = w
	rt.Height = h
	rt.Color = make([]color.RGBA, n)
	rt.Depth = make([]float32, n)
	for i := range rt.Color {
		rt.Color[i] = DefaultClearColor
		rt.Depth[i] = DepthClear
	}
}

// Clear fills the color buffer with c and resets every depth value.
func (rt *RenderTarget) Clear(c mgl32.Vec4) {
	rgba := ToRGBA(c)
	for i := range rt.Color {
		rt.Color[i] = rgba
		rt.Depth[i] = DepthClear
	}
}

// SetDepthFunc changes the depth comparison. The default is DepthLess.
func (rt *RenderTarget) SetDepthFunc(f DepthFunc) {
	rt.depthFunc = f
}

// bufferIndex maps logical screen space (origin at the center, y up) to a
// buffer offset: px = x + W/2, py = H/2 - y.
func (rt *RenderTarget) bufferIndex(x, y int) (int, bool) {
	px := x + rt.Width/2
	py := rt.Height/2 - y
	if px < 0 || px >= rt.Width || py < 0 || py >= rt.Height {
		return 0, false
	}
	return py*rt.Width + px, true
}

// DepthTest reports whether depth z passes at logical (x, y).
// Out-of-bounds coordinates never pass.
func (rt *RenderTarget) DepthTest(x, y int, z float32) bool {
	i, ok := rt.bufferIndex(x, y)
	if !ok {
		return false
	}
	switch rt.depthFunc {
	case DepthLessEqual:
		return z <= rt.Depth[i]
	case DepthAlways:
		return true
	}
	return z < rt.Depth[i]
}

// Plot writes color and depth at logical (x, y). Out-of-bounds writes are
// silently discarded.
func (rt *RenderTarget) Plot(x, y int, c mgl32.Vec4, z float32) {
	i, ok := rt.bufferIndex(x, y)
	if !ok {
		return
	}
	rt.Color[i] = ToRGBA(c)
	rt.Depth[i] = z
}

// At returns the color at buffer coordinates (px, py), top-left origin.
func (rt *RenderTarget) At(px, py int) color.RGBA {
	if px < 0 || px >= rt.Width || py < 0 || py >= rt.Height {
		return color.RGBA{}
	}
	return rt.Color[py*rt.Width+px]
}

// DepthAt returns the depth at buffer coordinates (px, py).
func (rt *RenderTarget) DepthAt(px, py int) float32 {
	if px < 0 || px >= rt.Width || py < 0 || py >= rt.Height {
		return DepthClear
	}
	return rt.Depth[py*rt.Width+px]
}

// Image copies the color buffer into an opaque RGBA image, row-major
// top-to-bottom.
func (rt *RenderTarget) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, rt.Width, rt.Height))
	rt.CopyTo(img)
	return img
}

// CopyTo writes the color buffer into dst, which must have the target's
// size. Alpha is forced to 255.
func (rt *RenderTarget) CopyTo(dst *image.RGBA) {
	b := dst.Bounds()
	if b.Dx() != rt.Width || b.Dy() != rt.Height {
		return
	}
	for y := 0; y < rt.Height; y++ {
		off := y * dst.Stride
		row := rt.Color[y*rt.Width : (y+1)*rt.Width]
		for x, c := range row {
			i := off + x*4
			dst.Pix[i] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = 255
		}
	}
}
