package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Varying is a shaded vertex the rasterizer can interpolate. Position is the
// post-viewport position in logical screen space: x right, y up, z window
// depth.
type Varying[T any] interface {
	Position() mgl32.Vec4
	WithPosition(p mgl32.Vec4) T
	Lerp(to T, t float32) T
}

// FragmentFunc turns an interpolated fragment at logical pixel (x, y) into
// a final color.
type FragmentFunc[T any] func(x, y int, frag T) mgl32.Vec4

// flatEpsilon decides when two vertices share a scanline height.
const flatEpsilon = 1e-6

// edge is one triangle side with endpoints ordered by ascending y, so the
// same side yields the same x for a row no matter which half asks.
type edge struct {
	x0, y0 float64
	x1, y1 float64
}

func newEdge(a, b mgl32.Vec4) edge {
	if a[1] > b[1] {
		a, b = b, a
	}
	return edge{
		x0: float64(a[0]), y0: float64(a[1]),
		x1: float64(b[0]), y1: float64(b[1]),
	}
}

func (e edge) xAt(y float64) float64 {
	dy := e.y1 - e.y0
	if dy < flatEpsilon {
		return e.x0
	}
	return e.x0 + (y-e.y0)*(e.x1-e.x0)/dy
}

// bounds is the logical pixel rectangle of a target, half-open on both axes.
type bounds struct {
	xMin, xMax int
	yMin, yMax int
}

func targetBounds(rt *RenderTarget) bounds {
	return bounds{
		xMin: -rt.Width / 2, xMax: rt.Width - rt.Width/2,
		yMin: rt.Height/2 - rt.Height + 1, yMax: rt.Height/2 + 1,
	}
}

// clampInt converts v to an int inside [lo, hi]. Clamping happens in float
// space so huge or NaN coordinates never reach the conversion.
func clampInt(v float64, lo, hi int) int {
	switch {
	case math.IsNaN(v), v <= float64(lo):
		return lo
	case v >= float64(hi):
		return hi
	}
	return int(v)
}

// row returns ceil(y) limited to the target's rows. Applying the same
// monotone clamp to every boundary keeps split halves adjacent.
func (b bounds) row(y float32) int {
	return clampInt(math.Ceil(float64(y)), b.yMin, b.yMax)
}

// rowRange returns the half-open integer rows [ceil(lo), ceil(hi)) that lie
// on the target.
func (b bounds) rowRange(lo, hi float32) (int, int) {
	return b.row(lo), b.row(hi)
}

// span is ScanlineSpan limited to the target's columns.
func (b bounds) span(xa, xb float64) (int, int) {
	return clampInt(math.Floor(xa), b.xMin, b.xMax), clampInt(math.Floor(xb+0.5), b.xMin, b.xMax)
}

// DrawTriangle fills a triangle whose vertices are already in logical screen
// space and returns the number of pixels written.
//
// The triangle is split at the middle vertex into a flat-bottom upper half
// and a flat-top lower half. Rows are half-open so the halves meet without
// overlap, and the long edge is always evaluated from its original
// endpoints, so the split fill covers exactly the pixels a single scanline
// pass over the whole triangle would.
func DrawTriangle[T Varying[T]](rt *RenderTarget, v0, v1, v2 T, shade FragmentFunc[T]) int {
	low, mid, high := sortByY(v0, v1, v2)
	pl, pm, ph := low.Position(), mid.Position(), high.Position()

	if ph[1]-pl[1] < flatEpsilon {
		return 0
	}

	long := newEdge(pl, ph)
	b := targetBounds(rt)

	switch {
	case abs32(pm[1]-ph[1]) < flatEpsilon:
		// Flat top: apex at the bottom.
		lo, hi := b.rowRange(pl[1], ph[1])
		return fillFlat(rt, b, low, mid, high, newEdge(pl, pm), long, lo, hi, shade)
	case abs32(pm[1]-pl[1]) < flatEpsilon:
		// Flat bottom: apex at the top.
		lo, hi := b.rowRange(pl[1], ph[1])
		return fillFlat(rt, b, high, mid, low, newEdge(pm, ph), long, lo, hi, shade)
	}

	w := (ph[1] - pm[1]) / (ph[1] - pl[1])
	split := high.Lerp(low, w)

	lo, midRow := b.rowRange(pl[1], pm[1])
	hi := b.row(ph[1])

	n := fillFlat(rt, b, high, mid, split, newEdge(pm, ph), long, midRow, hi, shade)
	n += fillFlat(rt, b, low, mid, split, newEdge(pl, pm), long, lo, midRow, shade)
	return n
}

// fillFlat fills rows [rowLo, rowHi) of a triangle with one horizontal edge
// (a, b) and the given apex. ea and eb are the lines apex→a and apex→b.
// Spans are limited to bnd; attributes still interpolate over the full span.
func fillFlat[T Varying[T]](rt *RenderTarget, bnd bounds, apex, a, b T, ea, eb edge, rowLo, rowHi int, shade FragmentFunc[T]) int {
	apexY := float64(apex.Position()[1])
	flatY := float64(a.Position()[1])
	dy := flatY - apexY

	n := 0
	for y := rowLo; y < rowHi; y++ {
		fy := float64(y)

		var t float32
		if math.Abs(dy) > flatEpsilon {
			t = clampUnit((fy - apexY) / dy)
		}
		va := apex.Lerp(a, t)
		vb := apex.Lerp(b, t)

		xa := ea.xAt(fy)
		xb := eb.xAt(fy)
		if xa > xb {
			xa, xb = xb, xa
			va, vb = vb, va
		}

		left, right := bnd.span(xa, xb)
		width := xb - xa

		for x := left; x < right; x++ {
			var s float32
			if width > flatEpsilon {
				s = clampUnit((float64(x) - xa) / width)
			}
			frag := va.Lerp(vb, s)
			z := frag.Position()[2]
			if !rt.DepthTest(x, y, z) {
				continue
			}
			rt.Plot(x, y, shade(x, y, frag), z)
			n++
		}
	}
	return n
}

// ScanlineSpan returns the pixel span [left, right) covered at row y between
// edge crossings xa and xb: left floored, right floored after a +0.5 bias.
func ScanlineSpan(xa, xb float64) (int, int) {
	if xa > xb {
		xa, xb = xb, xa
	}
	return int(math.Floor(xa)), int(math.Floor(xb + 0.5))
}

func sortByY[T Varying[T]](v0, v1, v2 T) (T, T, T) {
	if v0.Position()[1] > v1.Position()[1] {
		v0, v1 = v1, v0
	}
	if v1.Position()[1] > v2.Position()[1] {
		v1, v2 = v2, v1
	}
	if v0.Position()[1] > v1.Position()[1] {
		v0, v1 = v1, v0
	}
	return v0, v1, v2
}

func clampUnit(v float64) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return float32(v)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
