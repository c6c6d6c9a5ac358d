// Package device wires a producer and a consumer around one bus and fence.
package device

import (
	"context"

	"golang.org/x/sync/errgroup"

	"softgpu/internal/bus"
	"softgpu/internal/cpu"
	"softgpu/internal/fence"
	"softgpu/internal/gpu"
	"softgpu/internal/raster"
)

// roles is the number of roles that must report exit before Run returns.
const roles = 2

// Device owns both roles and the state they share.
type Device[V any, O raster.Varying[O]] struct {
	Bus   *bus.Bus
	Fence *fence.Fence
	Exits *fence.ExitCounter
	Cpu   *cpu.Cpu[V]
	Gpu   *gpu.Gpu[V, O]
}

func New[V any, O raster.Varying[O]]() *Device[V, O] {
	b := bus.New()
	f := fence.New()
	exits := fence.NewExitCounter(roles)
	return &Device[V, O]{
		Bus:   b,
		Fence: f,
		Exits: exits,
		Cpu:   cpu.New[V](b, f, exits),
		Gpu:   gpu.New[V, O](b, f, exits),
	}
}

// Run starts the consumer, then calls produce on the producer. When produce
// returns the consumer is told to exit. Run waits for both roles to stop and
// returns the first error from either.
//
// A Device runs once.
func (d *Device[V, O]) Run(ctx context.Context, produce func(ctx context.Context, c *cpu.Cpu[V]) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.Gpu.Run(gctx)
	})
	g.Go(func() error {
		d.Cpu.Start()
		defer d.Gpu.Exit()
		defer d.Cpu.Exit()
		return produce(gctx, d.Cpu)
	})

	err := g.Wait()
	d.Exits.Wait()
	return err
}
