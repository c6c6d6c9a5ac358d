// Package cpu implements the producer role: it records render commands on
// the bus and paces itself on frame completion.
package cpu

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/bus"
	"softgpu/internal/command"
	"softgpu/internal/fence"
	"softgpu/internal/logging"
	"softgpu/internal/mesh"
	"softgpu/internal/raster"
	"softgpu/internal/unit"
)

var ErrNotRunning = errors.New("cpu: not running")

// Cpu records commands for vertex format V. Command methods never block;
// Swap blocks until the consumer has finished the frame.
type Cpu[V any] struct {
	bus   *bus.Bus
	fence *fence.Fence
	exits *fence.ExitCounter

	status   unit.Status
	exitOnce sync.Once
	frames   atomic.Uint64
}

func New[V any](b *bus.Bus, f *fence.Fence, exits *fence.ExitCounter) *Cpu[V] {
	return &Cpu[V]{bus: b, fence: f, exits: exits}
}

// Start moves the producer to Running. It reports false if the producer was
// already started.
func (c *Cpu[V]) Start() bool {
	ok := c.status.Transition(unit.Uninitialized, unit.Running)
	if ok {
		logging.Logger().Info("running", "role", "cpu")
	}
	return ok
}

// Exit stops the producer and records its exit once.
func (c *Cpu[V]) Exit() {
	c.exitOnce.Do(func() {
		c.status.Store(unit.Exiting)
		c.exits.Done()
		c.status.Store(unit.Stopped)
		logging.Logger().Info("stopped", "role", "cpu", "frames", c.frames.Load())
	})
}

func (c *Cpu[V]) State() unit.State {
	return c.status.Load()
}

// Frames returns the number of completed Swap calls.
func (c *Cpu[V]) Frames() uint64 {
	return c.frames.Load()
}

// Submit enqueues any command.
func (c *Cpu[V]) Submit(cmd command.Command) {
	c.bus.Push(cmd)
}

// SetVertexBuffer copies vs and binds it for following draws.
func (c *Cpu[V]) SetVertexBuffer(vs []V) {
	c.Submit(command.VertexBuffer(vs))
}

func (c *Cpu[V]) SetIndexBuffer(idx []int) {
	c.Submit(command.IndexBuffer(idx))
}

// BindMesh binds both buffers of m.
func (c *Cpu[V]) BindMesh(m mesh.Mesh[V]) {
	c.SetVertexBuffer(m.Vertices)
	c.SetIndexBuffer(m.Indices)
}

// SetRenderTarget binds rt. The producer must not touch rt again until the
// next Swap returns.
func (c *Cpu[V]) SetRenderTarget(rt *raster.RenderTarget) {
	c.Submit(command.SetRenderTarget{Target: rt})
}

func (c *Cpu[V]) SetConstant(slot int, v any) {
	c.Submit(command.SetConstantBuffer{Slot: slot, Value: v})
}

func (c *Cpu[V]) Clear(color mgl32.Vec4) {
	c.Submit(command.Clear{Color: color})
}

func (c *Cpu[V]) Draw(useIndex bool) {
	c.Submit(command.Draw{UseIndex: useIndex})
}

func (c *Cpu[V]) SetViewport(x, y, w, h int) {
	c.Submit(command.SetViewport{X: x, Y: y, Width: w, Height: h})
}

// BindVertexShader and BindPixelShader take any value; the consumer
// rejects a shader that does not match its vertex and varying formats.
func (c *Cpu[V]) BindVertexShader(vs any) {
	c.Submit(command.BindVertexShader{Shader: vs})
}

func (c *Cpu[V]) BindPixelShader(ps any) {
	c.Submit(command.BindPixelShader{Shader: ps})
}

// Callback runs fn on the consumer after every earlier command.
func (c *Cpu[V]) Callback(fn func()) {
	c.Submit(command.Callback{Fn: fn})
}

// Swap ends the frame and waits until the consumer has executed every
// command recorded so far. It fails if the consumer stopped first.
func (c *Cpu[V]) Swap() error {
	if c.State() != unit.Running {
		return ErrNotRunning
	}
	gen := c.fence.Request()
	c.bus.Push(command.Swap{Generation: gen})
	if err := c.fence.Wait(gen); err != nil {
		return fmt.Errorf("cpu: swap %d: %w", gen, err)
	}
	c.frames.Add(1)
	return nil
}
