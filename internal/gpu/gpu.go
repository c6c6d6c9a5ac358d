// Package gpu implements the consumer role: it drains the command bus,
// runs the programmable pipeline and rasterizes into the bound render
// target.
package gpu

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/bus"
	"softgpu/internal/command"
	"softgpu/internal/fence"
	"softgpu/internal/logging"
	"softgpu/internal/mathutil"
	"softgpu/internal/pipeline"
	"softgpu/internal/raster"
	"softgpu/internal/unit"
)

var (
	ErrNoVertexBuffer = errors.New("gpu: draw without vertex buffer")
	ErrNoRenderTarget = errors.New("gpu: no render target bound")
	ErrNoIndexBuffer  = errors.New("gpu: indexed draw without index buffer")
	ErrIndexRange     = errors.New("gpu: index out of range")
	ErrVertexLayout   = errors.New("gpu: vertex buffer layout mismatch")
	ErrShaderType     = errors.New("gpu: shader type mismatch")
	ErrUnknownCommand = errors.New("gpu: unknown command")
	ErrAlreadyStarted = errors.New("gpu: already started")
	ErrStopped        = errors.New("gpu: stopped")
)

// wEpsilon guards the perspective divide against a vanishing clip w.
const wEpsilon = 1e-6

// Gpu consumes commands for vertex format V and varying format O. All of its
// state is owned by the goroutine calling Run.
type Gpu[V any, O raster.Varying[O]] struct {
	bus   *bus.Bus
	fence *fence.Fence
	exits *fence.ExitCounter

	status   unit.Status
	exit     chan struct{}
	exitOnce sync.Once

	pipe      pipeline.Pipeline[V, O]
	constants pipeline.ConstantBuffer
	vertices  []V
	indices   []int
	target    *raster.RenderTarget
	viewport  mgl32.Mat4
	shaded    []O

	frames    atomic.Uint64
	triangles atomic.Uint64
	pixels    atomic.Uint64
}

// New creates a consumer reading b, signaling f on every Swap and
// decrementing exits once when Run returns.
func New[V any, O raster.Varying[O]](b *bus.Bus, f *fence.Fence, exits *fence.ExitCounter) *Gpu[V, O] {
	return &Gpu[V, O]{
		bus:      b,
		fence:    f,
		exits:    exits,
		exit:     make(chan struct{}),
		viewport: mgl32.Ident4(),
	}
}

// Run executes commands in FIFO order until Exit is called, ctx is done or
// a command fails. It blocks on the bus when it is empty. Commands still
// queued when the exit flag is seen are dropped.
//
// On return the fence is aborted so a producer blocked in Swap wakes up, and
// the exit counter is decremented exactly once.
func (g *Gpu[V, O]) Run(ctx context.Context) (err error) {
	if !g.status.Transition(unit.Uninitialized, unit.Running) {
		return ErrAlreadyStarted
	}
	log := logging.Logger().With("role", "gpu")
	log.Info("running")

	defer func() {
		g.status.Store(unit.Exiting)
		cause := err
		if cause == nil {
			cause = ErrStopped
		}
		g.fence.Abort(cause)
		if dropped := g.bus.Len(); dropped > 0 {
			log.Debug("dropping queued commands", "count", dropped)
		}
		g.exits.Done()
		g.status.Store(unit.Stopped)
		log.Info("stopped", "frames", g.frames.Load(), "err", err)
	}()

	for {
		select {
		case <-g.exit:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		cmd, ok := g.bus.TryPop()
		if !ok {
			select {
			case <-g.bus.Ready():
			case <-g.exit:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		if err := g.Execute(cmd); err != nil {
			log.Error("command failed", "kind", cmd.Kind(), "err", err)
			return err
		}
	}
}

// Exit asks Run to stop before its next command. Safe to call more than
// once and from any goroutine.
func (g *Gpu[V, O]) Exit() {
	g.exitOnce.Do(func() { close(g.exit) })
}

func (g *Gpu[V, O]) State() unit.State {
	return g.status.Load()
}

// Frames returns the number of Swap commands executed.
func (g *Gpu[V, O]) Frames() uint64 {
	return g.frames.Load()
}

// Stats returns the running triangle and pixel totals.
func (g *Gpu[V, O]) Stats() (triangles, pixels uint64) {
	return g.triangles.Load(), g.pixels.Load()
}

// BindVertexShader sets the vertex stage directly, bypassing the bus.
// Only call it before Run or from a Callback command.
func (g *Gpu[V, O]) BindVertexShader(vs pipeline.VertexShader[V, O]) {
	g.pipe.BindVertexShader(vs)
}

// BindPixelShader sets the pixel stage directly; see BindVertexShader.
func (g *Gpu[V, O]) BindPixelShader(ps pipeline.PixelShader[O]) {
	g.pipe.BindPixelShader(ps)
}

// Execute runs a single command on the caller's goroutine.
func (g *Gpu[V, O]) Execute(cmd command.Command) error {
	switch c := cmd.(type) {
	case command.SetVertexBuffer:
		vs, ok := c.Vertices.([]V)
		if !ok {
			var want V
			return fmt.Errorf("%w: got %T, want []%T", ErrVertexLayout, c.Vertices, want)
		}
		g.vertices = vs

	case command.SetIndexBuffer:
		g.indices = c.Indices

	case command.SetRenderTarget:
		g.target = c.Target
		if c.Target != nil {
			g.viewport = mathutil.Viewport(0, 0, c.Target.Width, c.Target.Height)
		}

	case command.SetConstantBuffer:
		return g.constants.Set(c.Slot, c.Value)

	case command.Clear:
		if g.target == nil {
			return ErrNoRenderTarget
		}
		g.target.Clear(c.Color)

	case command.Draw:
		return g.draw(c.UseIndex)

	case command.Swap:
		g.frames.Add(1)
		g.fence.Signal(c.Generation)
		logging.Logger().Debug("swap", "generation", c.Generation)

	case command.BindVertexShader:
		vs, ok := c.Shader.(pipeline.VertexShader[V, O])
		if !ok {
			return fmt.Errorf("%w: vertex stage got %T", ErrShaderType, c.Shader)
		}
		g.pipe.BindVertexShader(vs)

	case command.BindPixelShader:
		ps, ok := c.Shader.(pipeline.PixelShader[O])
		if !ok {
			return fmt.Errorf("%w: pixel stage got %T", ErrShaderType, c.Shader)
		}
		g.pipe.BindPixelShader(ps)

	case command.SetViewport:
		g.viewport = mathutil.Viewport(c.X, c.Y, c.Width, c.Height)

	case command.Callback:
		if c.Fn != nil {
			c.Fn()
		}

	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	return nil
}

func (g *Gpu[V, O]) draw(useIndex bool) error {
	if g.vertices == nil {
		return ErrNoVertexBuffer
	}
	if g.target == nil {
		return ErrNoRenderTarget
	}
	if useIndex {
		if g.indices == nil {
			return ErrNoIndexBuffer
		}
		for i, idx := range g.indices {
			if idx < 0 || idx >= len(g.vertices) {
				return fmt.Errorf("%w: indices[%d] = %d, %d vertices", ErrIndexRange, i, idx, len(g.vertices))
			}
		}
	}
	if err := g.pipe.Prepare(&g.constants); err != nil {
		return err
	}

	if cap(g.shaded) < len(g.vertices) {
		g.shaded = make([]O, len(g.vertices))
	}
	shaded := g.shaded[:len(g.vertices)]
	for i, v := range g.vertices {
		shaded[i] = g.toScreen(g.pipe.HandleVertex(v))
	}

	shade := func(_, _ int, frag O) mgl32.Vec4 {
		return g.pipe.HandlePixel(frag)
	}

	var tris, pixels int
	if useIndex {
		for i := 0; i+2 < len(g.indices); i += 3 {
			idx := g.indices[i : i+3 : i+3]
			pixels += raster.DrawTriangle(g.target, shaded[idx[0]], shaded[idx[1]], shaded[idx[2]], shade)
			tris++
		}
	} else {
		for i := 0; i+2 < len(shaded); i += 3 {
			pixels += raster.DrawTriangle(g.target, shaded[i], shaded[i+1], shaded[i+2], shade)
			tris++
		}
	}

	g.triangles.Add(uint64(tris))
	g.pixels.Add(uint64(pixels))
	logging.Logger().Debug("draw", "indexed", useIndex, "triangles", tris, "pixels", pixels)
	return nil
}

// toScreen applies the perspective divide and the viewport transform.
// The divisor is clip w, which equals view-space -z under a perspective
// projection. Window depth is remapped from [-1, 1] to [0, 1].
func (g *Gpu[V, O]) toScreen(o O) O {
	p := o.Position()
	if w := p[3]; w > wEpsilon || w < -wEpsilon {
		p = mgl32.Vec4{p[0] / w, p[1] / w, p[2] / w, 1}
	} else {
		p[3] = 1
	}
	p[2] = p[2]*0.5 + 0.5
	return o.WithPosition(g.viewport.Mul4x1(p))
}
