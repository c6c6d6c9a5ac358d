// Package shader provides the vertex formats and stock shaders used by the
// demo scenes.
package shader

import (
	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/mathutil"
)

// Constant buffer slots read by the stock shaders.
const (
	SlotModel = iota
	SlotView
	SlotProjection
	SlotTexture
	SlotLight
	SlotTint
)

// Vertex is the input vertex format. Position is in model space with w = 1.
type Vertex struct {
	Position mgl32.Vec4
	Color    mgl32.Vec3
	TexCoord mgl32.Vec2
	Normal   mgl32.Vec3
}

// Varying is the vertex shader output interpolated across a triangle.
// Clip starts in clip space and is replaced by the logical screen position
// before rasterization.
type Varying struct {
	World    mgl32.Vec4
	Clip     mgl32.Vec4
	Color    mgl32.Vec4
	TexCoord mgl32.Vec2
	Normal   mgl32.Vec3
}

func (v Varying) Position() mgl32.Vec4 { return v.Clip }

func (v Varying) WithPosition(p mgl32.Vec4) Varying {
	v.Clip = p
	return v
}

// Lerp interpolates every attribute. t = 0 returns v and t = 1 returns to
// exactly.
func (v Varying) Lerp(to Varying, t float32) Varying {
	return Varying{
		World:    mathutil.Lerp4(v.World, to.World, t),
		Clip:     mathutil.Lerp4(v.Clip, to.Clip, t),
		Color:    mathutil.Lerp4(v.Color, to.Color, t),
		TexCoord: mathutil.Lerp2(v.TexCoord, to.TexCoord, t),
		Normal:   mathutil.Lerp3(v.Normal, to.Normal, t),
	}
}
