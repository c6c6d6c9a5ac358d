package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/camera"
	"softgpu/internal/mathutil"
	"softgpu/internal/mesh"
	"softgpu/internal/shader"
)

// triangle draws the RGB triangle with identity transforms.
type triangle struct {
	opts Options
}

func newTriangle(opts Options) Scene { return &triangle{opts: opts} }

func (s *triangle) Setup(p *Producer) {
	p.SetConstant(shader.SlotModel, mgl32.Ident4())
	p.SetConstant(shader.SlotView, mgl32.Ident4())
	p.SetConstant(shader.SlotProjection, mgl32.Ident4())
	p.BindVertexShader(&shader.Transform{})
	p.BindPixelShader(shader.VertexColor{})
	p.BindMesh(mesh.Triangle())
}

func (s *triangle) Frame(p *Producer, _ int) {
	p.Clear(s.opts.ClearColor)
	p.Draw(true)
}

// plane is a textured floor seen by a camera orbiting it.
type plane struct {
	opts   Options
	camera camera.Camera
}

func newPlane(opts Options) Scene {
	return &plane{
		opts:   opts,
		camera: camera.LookAt(mgl32.Vec3{0, 3, 6}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
	}
}

func (s *plane) Setup(p *Producer) {
	p.SetConstant(shader.SlotModel, mgl32.Ident4())
	p.SetConstant(shader.SlotProjection, mathutil.Perspective(s.opts.FOV, s.opts.Aspect, s.opts.Near, s.opts.Far))
	p.SetConstant(shader.SlotTexture, s.opts.Texture)
	p.BindVertexShader(&shader.Transform{})
	p.BindPixelShader(&shader.Textured{})
	p.BindMesh(mesh.Plane(6, 3, mgl32.Vec3{1, 1, 1}))
}

func (s *plane) Frame(p *Producer, i int) {
	cam := s.camera.Orbit(mgl32.Vec3{}, float32(i)*3)
	p.SetConstant(shader.SlotView, cam.View())
	p.Clear(s.opts.ClearColor)
	p.Draw(true)
}

// cube is a lit, textured box spinning above a floor.
type cube struct {
	opts  Options
	box   mesh.Mesh[shader.Vertex]
	floor mesh.Mesh[shader.Vertex]
}

func newCube(opts Options) Scene {
	return &cube{
		opts:  opts,
		box:   mesh.Box(1.5),
		floor: mesh.Plane(8, 4, mgl32.Vec3{0.8, 0.8, 0.8}),
	}
}

func (s *cube) Setup(p *Producer) {
	target := mgl32.Vec3{0, 0.3, 0}
	dist := camera.FitDistance(2.2, s.opts.FOV)
	eye := target.Add(mgl32.Vec3{0, 0.4, 1}.Normalize().Mul(dist))
	cam := camera.LookAt(eye, target, mgl32.Vec3{0, 1, 0})
	p.SetConstant(shader.SlotView, cam.View())
	p.SetConstant(shader.SlotProjection, mathutil.Perspective(s.opts.FOV, s.opts.Aspect, s.opts.Near, s.opts.Far))
	p.SetConstant(shader.SlotTexture, s.opts.Texture)
	p.SetConstant(shader.SlotLight, shader.DefaultLight())
	p.BindVertexShader(&shader.Transform{})
	p.BindPixelShader(&shader.Lit{Base: &shader.Textured{}})
}

func (s *cube) Frame(p *Producer, i int) {
	p.Clear(s.opts.ClearColor)

	p.SetConstant(shader.SlotModel, mgl32.Translate3D(0, -1, 0))
	p.BindMesh(s.floor)
	p.Draw(true)

	t := float32(i)
	model := mgl32.Translate3D(0, 0.5, 0).Mul4(mathutil.RotY(t * 4)).Mul4(mathutil.RotX(t * 2.5))
	p.SetConstant(shader.SlotModel, model)
	p.BindMesh(s.box)
	p.Draw(true)
}
