package gpu

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/bus"
	"softgpu/internal/command"
	"softgpu/internal/fence"
	"softgpu/internal/pipeline"
	"softgpu/internal/raster"
	"softgpu/internal/shader"
	"softgpu/internal/unit"
)

type testGpu = Gpu[shader.Vertex, shader.Varying]

func newTestGpu() (*testGpu, *bus.Bus, *fence.Fence, *fence.ExitCounter) {
	b := bus.New()
	f := fence.New()
	exits := fence.NewExitCounter(2)
	return New[shader.Vertex, shader.Varying](b, f, exits), b, f, exits
}

func mustExecute(t *testing.T, g *testGpu, cmds ...command.Command) {
	t.Helper()
	for _, cmd := range cmds {
		if err := g.Execute(cmd); err != nil {
			t.Fatalf("Execute(%v) error = %v", cmd.Kind(), err)
		}
	}
}

// setupColor binds identity matrices and the vertex color shaders.
func setupColor(t *testing.T, g *testGpu, rt *raster.RenderTarget) {
	t.Helper()
	mustExecute(t, g,
		command.SetRenderTarget{Target: rt},
		command.SetConstantBuffer{Slot: shader.SlotModel, Value: mgl32.Ident4()},
		command.SetConstantBuffer{Slot: shader.SlotView, Value: mgl32.Ident4()},
		command.SetConstantBuffer{Slot: shader.SlotProjection, Value: mgl32.Ident4()},
		command.BindVertexShader{Shader: &shader.Transform{}},
		command.BindPixelShader{Shader: shader.VertexColor{}},
	)
}

func vertex(x, y float32, c mgl32.Vec3) shader.Vertex {
	return shader.Vertex{Position: mgl32.Vec4{x, y, 0, 1}, Color: c}
}

func TestGpu_DrawPreconditions(t *testing.T) {
	tri := []shader.Vertex{
		vertex(-0.5, -0.5, mgl32.Vec3{1, 0, 0}),
		vertex(0.5, -0.5, mgl32.Vec3{0, 1, 0}),
		vertex(0, 0.5, mgl32.Vec3{0, 0, 1}),
	}

	g, _, _, _ := newTestGpu()
	if err := g.Execute(command.Draw{}); !errors.Is(err, ErrNoVertexBuffer) {
		t.Errorf("Draw without vertices error = %v, want ErrNoVertexBuffer", err)
	}

	mustExecute(t, g, command.VertexBuffer(tri))
	if err := g.Execute(command.Draw{}); !errors.Is(err, ErrNoRenderTarget) {
		t.Errorf("Draw without target error = %v, want ErrNoRenderTarget", err)
	}
	if err := g.Execute(command.Clear{}); !errors.Is(err, ErrNoRenderTarget) {
		t.Errorf("Clear without target error = %v, want ErrNoRenderTarget", err)
	}

	mustExecute(t, g, command.SetRenderTarget{Target: raster.NewRenderTarget(16, 16)})
	if err := g.Execute(command.Draw{}); !errors.Is(err, pipeline.ErrShaderNotBound) {
		t.Errorf("Draw without shaders error = %v, want ErrShaderNotBound", err)
	}

	setupColor(t, g, raster.NewRenderTarget(16, 16))
	if err := g.Execute(command.Draw{UseIndex: true}); !errors.Is(err, ErrNoIndexBuffer) {
		t.Errorf("indexed Draw without indices error = %v, want ErrNoIndexBuffer", err)
	}

	mustExecute(t, g, command.IndexBuffer([]int{0, 1, 3}))
	if err := g.Execute(command.Draw{UseIndex: true}); !errors.Is(err, ErrIndexRange) {
		t.Errorf("Draw with index 3 of 3 error = %v, want ErrIndexRange", err)
	}

	mustExecute(t, g, command.IndexBuffer([]int{0, 1, 2}), command.Draw{UseIndex: true}, command.Draw{})
}

func TestGpu_LayoutAndShaderMismatch(t *testing.T) {
	g, _, _, _ := newTestGpu()
	if err := g.Execute(command.VertexBuffer([]mgl32.Vec3{{1, 2, 3}})); !errors.Is(err, ErrVertexLayout) {
		t.Errorf("SetVertexBuffer([]Vec3) error = %v, want ErrVertexLayout", err)
	}
	if err := g.Execute(command.BindVertexShader{Shader: shader.VertexColor{}}); !errors.Is(err, ErrShaderType) {
		t.Errorf("BindVertexShader(pixel shader) error = %v, want ErrShaderType", err)
	}
	if err := g.Execute(command.BindPixelShader{Shader: &shader.Transform{}}); !errors.Is(err, ErrShaderType) {
		t.Errorf("BindPixelShader(vertex shader) error = %v, want ErrShaderType", err)
	}
	if err := g.Execute(command.SetConstantBuffer{Slot: 40, Value: 1}); !errors.Is(err, pipeline.ErrSlotRange) {
		t.Errorf("SetConstantBuffer(40) error = %v, want ErrSlotRange", err)
	}
}

// The RGB triangle scenario: NDC vertices scaled into an 800x600 target.
func TestGpu_RGBTriangle(t *testing.T) {
	g, _, _, _ := newTestGpu()
	rt := raster.NewRenderTarget(800, 600)
	setupColor(t, g, rt)

	tri := []shader.Vertex{
		vertex(-200.0/800, -150.0/600, mgl32.Vec3{1, 0, 0}),
		vertex(-100.0/800, 300.0/600, mgl32.Vec3{0, 1, 0}),
		vertex(300.0/800, 100.0/600, mgl32.Vec3{0, 0, 1}),
	}
	mustExecute(t, g,
		command.Clear{Color: mgl32.Vec4{0, 0, 0, 1}},
		command.VertexBuffer(tri),
		command.Draw{},
	)

	// Screen vertices are (-100,-75), (-50,150), (150,50); the centroid is
	// near logical (0, 41), buffer (400, 259).
	c := rt.At(400, 259)
	for i, ch := range []uint8{c.R, c.G, c.B} {
		if ch < 81 || ch > 89 {
			t.Errorf("centroid channel %d = %d, want about 85 (%v)", i, ch, c)
		}
	}

	// Near the red vertex.
	if c := rt.At(400-90, 300+60); c.R <= c.G || c.R <= c.B {
		t.Errorf("pixel near red vertex = %v, want red dominant", c)
	}

	black := color.RGBA{0, 0, 0, 255}
	for _, p := range [][2]int{{0, 0}, {799, 599}, {400 - 102, 300}, {400 + 152, 300 - 50}, {400, 300 - 155}} {
		if got := rt.At(p[0], p[1]); got != black {
			t.Errorf("pixel %v outside the triangle = %v, want clear color", p, got)
		}
	}

	covered := 0
	for _, px := range rt.Color {
		if px != black {
			covered++
		}
	}
	if covered < 24000 || covered > 26000 {
		t.Errorf("covered pixels = %d, want about 25000", covered)
	}
	tris, pixels := g.Stats()
	if tris != 1 || int(pixels) != covered {
		t.Errorf("Stats() = %d triangles, %d pixels; want 1, %d", tris, pixels, covered)
	}
}

func TestGpu_CenterRoundTrip(t *testing.T) {
	g, _, _, _ := newTestGpu()
	rt := raster.NewRenderTarget(800, 600)
	setupColor(t, g, rt)

	white := mgl32.Vec3{1, 1, 1}
	tri := []shader.Vertex{
		vertex(0, -1.0/300, white),
		vertex(2.0/400, -1.0/300, white),
		vertex(0, 2.0/300, white),
	}
	mustExecute(t, g, command.Clear{Color: mgl32.Vec4{0, 0, 0, 1}}, command.VertexBuffer(tri), command.Draw{})

	want := color.RGBA{255, 255, 255, 255}
	if got := rt.At(400, 300); got != want {
		t.Errorf("buffer (400, 300) = %v, want white", got)
	}
	if got := rt.At(400, 299); got != want {
		t.Errorf("buffer (400, 299) = %v, want white", got)
	}
	if got := rt.At(399, 300); got == want {
		t.Error("buffer (399, 300) drawn, left of the origin")
	}
}

func TestGpu_ToScreen(t *testing.T) {
	g, _, _, _ := newTestGpu()
	mustExecute(t, g, command.SetRenderTarget{Target: raster.NewRenderTarget(800, 600)})

	tests := []struct {
		name string
		clip mgl32.Vec4
		want mgl32.Vec4
	}{
		{"divide by w", mgl32.Vec4{1, 0.5, -1, 2}, mgl32.Vec4{200, 75, 0.25, 1}},
		{"w one", mgl32.Vec4{-1, 1, 1, 1}, mgl32.Vec4{-400, 300, 1, 1}},
		{"w zero", mgl32.Vec4{0.5, 0, 0, 0}, mgl32.Vec4{200, 0, 0.5, 1}},
	}
	for _, tt := range tests {
		got := g.toScreen(shader.Varying{Clip: tt.clip}).Position()
		if !got.ApproxEqualThreshold(tt.want, 1e-5) {
			t.Errorf("%s: toScreen(%v) = %v, want %v", tt.name, tt.clip, got, tt.want)
		}
	}

	mustExecute(t, g, command.SetViewport{X: 10, Y: 20, Width: 200, Height: 100})
	got := g.toScreen(shader.Varying{Clip: mgl32.Vec4{1, 1, 0, 1}}).Position()
	if !got.ApproxEqualThreshold(mgl32.Vec4{110, 70, 0.5, 1}, 1e-5) {
		t.Errorf("toScreen with SetViewport = %v, want {110 70 0.5 1}", got)
	}
}

func TestGpu_RunFIFO(t *testing.T) {
	g, b, f, exits := newTestGpu()

	errc := make(chan error, 1)
	go func() { errc <- g.Run(context.Background()) }()

	var got []int
	for i := 0; i < 100; i++ {
		b.Push(command.Callback{Fn: func() { got = append(got, i) }})
	}
	gen := f.Request()
	b.Push(command.Swap{Generation: gen})
	if err := f.Wait(gen); err != nil {
		t.Fatalf("Wait(%d) = %v", gen, err)
	}

	// The fence orders the callbacks before this read.
	if len(got) != 100 {
		t.Fatalf("ran %d callbacks, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("callback %d ran in position %d", v, i)
		}
	}
	if g.State() != unit.Running {
		t.Errorf("State() = %v, want running", g.State())
	}
	if g.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", g.Frames())
	}

	g.Exit()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Exit")
	}
	if g.State() != unit.Stopped {
		t.Errorf("State() = %v, want stopped", g.State())
	}
	if exits.Remaining() != 1 {
		t.Errorf("exit counter = %d, want 1", exits.Remaining())
	}
	if err := g.Run(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Run() = %v, want ErrAlreadyStarted", err)
	}
}

func TestGpu_RunErrorAbortsFence(t *testing.T) {
	g, b, f, exits := newTestGpu()

	gen := f.Request()
	b.Push(command.Draw{})
	b.Push(command.Swap{Generation: gen})

	if err := g.Run(context.Background()); !errors.Is(err, ErrNoVertexBuffer) {
		t.Fatalf("Run() = %v, want ErrNoVertexBuffer", err)
	}
	if err := f.Wait(gen); !errors.Is(err, ErrNoVertexBuffer) {
		t.Errorf("Wait after failed run = %v, want ErrNoVertexBuffer", err)
	}
	if exits.Remaining() != 1 {
		t.Errorf("exit counter = %d, want 1", exits.Remaining())
	}
}

func TestGpu_RunContextCancel(t *testing.T) {
	g, _, f, _ := newTestGpu()
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- g.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if err := f.Wait(f.Request()); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait after cancel = %v, want context.Canceled", err)
	}
}
