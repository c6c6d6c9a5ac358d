package shader

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/pipeline"
)

// Light holds the lighting parameters read from SlotLight.
type Light struct {
	LightDir mgl32.Vec3
	RimDir   mgl32.Vec3
	ViewDir  mgl32.Vec3
	HalfMain mgl32.Vec3 // Blinn-Phong half vector, see NewLight
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLight is a key light from the upper right, a cool rim from behind
// and a camera looking down -Z.
func DefaultLight() Light {
	return NewLight(mgl32.Vec3{180, 260, 140}, mgl32.Vec3{-160, 130, -210}, mgl32.Vec3{0, -110, -400})
}

// NewLight builds the standard rig from the given directions.
func NewLight(lightDir, rimDir, viewDir mgl32.Vec3) Light {
	lightDir = lightDir.Normalize()
	rimDir = rimDir.Normalize()
	viewDir = viewDir.Normalize()

	return Light{
		LightDir: lightDir,
		RimDir:   rimDir,
		ViewDir:  viewDir,
		HalfMain: lightDir.Sub(viewDir).Normalize(),
		Ambient:  0.55,
		Hemi:     0.50,
		Direct:   1.50,
		Rim:      0.60,
		SpecInt:  0.45,
		SpecPow:  12.0,
		Exposure: 1.05,
		InvGamma: 1.0 / 2.2,
	}
}

// Shade returns the combined lighting scalar for a surface normal.
func (l *Light) Shade(normal mgl32.Vec3) float64 {
	// Lambertian, abs for double-sided faces.
	ndlMain := math.Abs(float64(normal.Dot(l.LightDir)))
	ndlRim := math.Abs(float64(normal.Dot(l.RimDir)))

	// Hemisphere fill
	hemi := (1.0-math.Abs(float64(normal[1])))*0.5 + 0.5
	hemiLight := hemi * l.Hemi

	// Blinn-Phong specular
	ndh := float64(normal.Dot(l.HalfMain))
	if ndh < 0 {
		ndh = 0
	}
	spec := math.Pow(ndh, l.SpecPow) * l.SpecInt

	return l.Ambient + hemiLight + ndlMain*l.Direct + ndlRim*l.Rim + spec
}

// Apply lights an sRGB color: decode to linear, scale by shade and
// exposure, tone map, encode back. Alpha is untouched.
func (l *Light) Apply(c mgl32.Vec4, shade float64) mgl32.Vec4 {
	out := c
	for i := 0; i < 3; i++ {
		lin := srgbToLinear(float64(c[i]))
		t := ACESTonemap(lin * shade * l.Exposure)
		out[i] = float32(math.Pow(math.Max(t, 0), l.InvGamma))
	}
	return out
}

// srgbToLinear decodes with a plain 2.2 gamma.
func srgbToLinear(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Pow(v, 2.2)
}

// ACESTonemap applies ACES filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// Lit lights the output of Base with the interpolated normal. The light
// comes from SlotLight when set and DefaultLight otherwise.
type Lit struct {
	Base  pipeline.PixelShader[Varying]
	light Light
}

func (s *Lit) Bind(cb *pipeline.ConstantBuffer) error {
	if err := s.Base.Bind(cb); err != nil {
		return err
	}
	s.light = DefaultLight()
	if _, ok := cb.Get(SlotLight); ok {
		light, err := pipeline.Slot[Light](cb, SlotLight)
		if err != nil {
			return err
		}
		s.light = light
	}
	return nil
}

func (s *Lit) Shade(f Varying) mgl32.Vec4 {
	c := s.Base.Shade(f)
	n := f.Normal
	if l := n.Len(); l > 1e-6 {
		n = n.Mul(1 / l)
	}
	return s.light.Apply(c, s.light.Shade(n))
}
