package shader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/mathutil"
	"softgpu/internal/pipeline"
	"softgpu/internal/texture"
)

// Transform moves vertices from model space to clip space using the model,
// view and projection slots.
type Transform struct {
	model    mgl32.Mat4
	normal   mgl32.Mat3
	viewProj mgl32.Mat4
}

func (s *Transform) Bind(cb *pipeline.ConstantBuffer) error {
	model, err := pipeline.Slot[mgl32.Mat4](cb, SlotModel)
	if err != nil {
		return err
	}
	view, err := pipeline.Slot[mgl32.Mat4](cb, SlotView)
	if err != nil {
		return err
	}
	proj, err := pipeline.Slot[mgl32.Mat4](cb, SlotProjection)
	if err != nil {
		return err
	}
	s.model = model
	s.normal = model.Mat3()
	s.viewProj = proj.Mul4(view)
	return nil
}

func (s *Transform) Shade(v Vertex) Varying {
	world := s.model.Mul4x1(v.Position)
	return Varying{
		World:    world,
		Clip:     s.viewProj.Mul4x1(world),
		Color:    v.Color.Vec4(1),
		TexCoord: v.TexCoord,
		Normal:   mathutil.SafeNormalize(s.normal.Mul3x1(v.Normal)),
	}
}

// VertexColor outputs the interpolated vertex color.
type VertexColor struct{}

func (VertexColor) Bind(*pipeline.ConstantBuffer) error { return nil }

func (VertexColor) Shade(f Varying) mgl32.Vec4 { return f.Color }

// Textured modulates the vertex color with the texture bound to
// SlotTexture and, if set, the tint in SlotTint.
type Textured struct {
	tex  *texture.Texture
	tint mgl32.Vec4
}

func (s *Textured) Bind(cb *pipeline.ConstantBuffer) error {
	tex, err := pipeline.Slot[*texture.Texture](cb, SlotTexture)
	if err != nil {
		return err
	}
	if tex == nil {
		return fmt.Errorf("%w: nil texture in slot %d", pipeline.ErrSlotUnset, SlotTexture)
	}
	s.tex = tex
	s.tint = mgl32.Vec4{1, 1, 1, 1}
	if _, ok := cb.Get(SlotTint); ok {
		tint, err := pipeline.Slot[mgl32.Vec4](cb, SlotTint)
		if err != nil {
			return err
		}
		s.tint = tint
	}
	return nil
}

func (s *Textured) Shade(f Varying) mgl32.Vec4 {
	texel := s.tex.Sample(f.TexCoord[0], f.TexCoord[1])
	return mulVec4(mulVec4(texel, f.Color), s.tint)
}

func mulVec4(a, b mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}
