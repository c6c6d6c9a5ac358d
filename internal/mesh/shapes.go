package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/shader"
)

// Triangle returns the red, green and blue corner triangle used by the
// triangle scene, in normalized device coordinates for an 800x600 target.
func Triangle() Mesh[shader.Vertex] {
	var m Mesh[shader.Vertex]
	n := mgl32.Vec3{0, 0, 1}
	m.AddTriangle(
		shader.Vertex{Position: mgl32.Vec4{-200.0 / 800, -150.0 / 600, 0, 1}, Color: mgl32.Vec3{1, 0, 0}, Normal: n},
		shader.Vertex{Position: mgl32.Vec4{-100.0 / 800, 300.0 / 600, 0, 1}, Color: mgl32.Vec3{0, 1, 0}, TexCoord: mgl32.Vec2{0.5, 1}, Normal: n},
		shader.Vertex{Position: mgl32.Vec4{300.0 / 800, 100.0 / 600, 0, 1}, Color: mgl32.Vec3{0, 0, 1}, TexCoord: mgl32.Vec2{1, 0}, Normal: n},
	)
	return m
}

// Plane returns a square in the XZ plane centered on the origin, facing +Y,
// with UVs spanning [0, repeat].
func Plane(size, repeat float32, color mgl32.Vec3) Mesh[shader.Vertex] {
	h := size / 2
	up := mgl32.Vec3{0, 1, 0}
	v := func(x, z, u, t float32) shader.Vertex {
		return shader.Vertex{Position: mgl32.Vec4{x, 0, z, 1}, Color: color, TexCoord: mgl32.Vec2{u, t}, Normal: up}
	}
	var m Mesh[shader.Vertex]
	m.AddQuad(v(-h, h, 0, 0), v(h, h, repeat, 0), v(h, -h, repeat, repeat), v(-h, -h, 0, repeat))
	return m
}

// boxFaces lists each face as its outward normal and the two in-plane axes
// spanning it.
var boxFaces = [6]struct {
	normal, u, v mgl32.Vec3
	color        mgl32.Vec3
}{
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0.35, 0.35}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0.35, 1, 0.35}},
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0.35, 0.35, 1}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 0.35}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{1, 0.35, 1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0.35, 1, 1}},
}

// Box returns an axis-aligned cube of edge length size centered on the
// origin. Each face has its own four vertices so normals and UVs stay flat.
func Box(size float32) Mesh[shader.Vertex] {
	h := size / 2
	var m Mesh[shader.Vertex]
	for _, f := range boxFaces {
		center := f.normal.Mul(h)
		corner := func(su, sv, tu, tv float32) shader.Vertex {
			p := center.Add(f.u.Mul(su * h)).Add(f.v.Mul(sv * h))
			return shader.Vertex{Position: p.Vec4(1), Color: f.color, TexCoord: mgl32.Vec2{tu, tv}, Normal: f.normal}
		}
		m.AddQuad(corner(-1, -1, 0, 1), corner(1, -1, 1, 1), corner(1, 1, 1, 0), corner(-1, 1, 0, 0))
	}
	return m
}
