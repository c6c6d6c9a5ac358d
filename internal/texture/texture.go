package texture

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Filter selects how Sample reads texels.
type Filter int

const (
	Nearest Filter = iota
	Bilinear
)

// ParseFilter maps "nearest" (or "") and "bilinear" to a Filter.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(s) {
	case "", "nearest":
		return Nearest, nil
	case "bilinear":
		return Bilinear, nil
	}
	return Nearest, fmt.Errorf("texture: unknown filter %q", s)
}

func (f Filter) String() string {
	if f == Bilinear {
		return "bilinear"
	}
	return "nearest"
}

// WithFilter returns a copy of t sampled with f. The image is shared.
func (t *Texture) WithFilter(f Filter) *Texture {
	c := *t
	c.Filter = f
	return &c
}

// Texture is an immutable NRGBA image sampled with wrapped coordinates.
type Texture struct {
	img    *image.NRGBA
	Filter Filter
}

// New wraps img without copying. Non-NRGBA images are converted.
func New(img image.Image) *Texture {
	return &Texture{img: toNRGBA(img)}
}

func (t *Texture) Width() int  { return t.img.Rect.Dx() }
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// Image returns the backing image. Callers must not modify it.
func (t *Texture) Image() *image.NRGBA { return t.img }

// Sample returns the texel color at (u, v) as RGBA in [0, 1]. Coordinates
// wrap, so only their fractional part matters.
func (t *Texture) Sample(u, v float32) mgl32.Vec4 {
	w, h := t.Width(), t.Height()
	if w == 0 || h == 0 {
		return mgl32.Vec4{}
	}
	if t.Filter == Bilinear {
		r, g, b, a := sampleBilinear(t.img, float64(u), float64(v))
		return rgba(r, g, b, a)
	}

	fu := wrap(u)
	fv := wrap(v)
	x := int(fu * float32(w-1))
	y := int(fv * float32(h-1))
	i := y*t.img.Stride + x*4
	p := t.img.Pix[i : i+4 : i+4]
	return rgba(p[0], p[1], p[2], p[3])
}

func wrap(f float32) float32 {
	return f - float32(math.Floor(float64(f)))
}

func rgba(r, g, b, a uint8) mgl32.Vec4 {
	return mgl32.Vec4{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// Checker builds a size×size texture of cells×cells alternating squares.
func Checker(size, cells int, a, b color.NRGBA) *Texture {
	if cells < 1 {
		cells = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	cell := size / cells
	if cell < 1 {
		cell = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return &Texture{img: img}
}

// AverageColor returns the mean opaque color of t, or a neutral gray for an
// empty texture.
func AverageColor(t *Texture) color.NRGBA {
	w, h := t.Width(), t.Height()
	if w == 0 || h == 0 {
		return color.NRGBA{160, 160, 170, 255}
	}

	var sumR, sumG, sumB float64
	stride := t.img.Stride
	for y := 0; y < h; y++ {
		off := y * stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(t.img.Pix[i])
			sumG += float64(t.img.Pix[i+1])
			sumB += float64(t.img.Pix[i+2])
		}
	}
	n := float64(w * h)
	return color.NRGBA{uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), 255}
}
