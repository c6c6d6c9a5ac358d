// Package scene holds the demo scenes the binaries render. A scene records
// commands on a producer; it never touches the render target directly.
package scene

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/cpu"
	"softgpu/internal/shader"
	"softgpu/internal/texture"
)

var ErrUnknownScene = errors.New("scene: unknown scene")

// Producer is the command recorder scenes drive.
type Producer = cpu.Cpu[shader.Vertex]

// Options configures a scene. Zero values pick defaults.
type Options struct {
	Aspect     float32
	FOV        float32
	Near, Far  float32
	ClearColor mgl32.Vec4
	Texture    *texture.Texture
	Filter     texture.Filter
}

func (o Options) withDefaults() Options {
	if o.Aspect <= 0 {
		o.Aspect = 4.0 / 3.0
	}
	if o.FOV <= 0 {
		o.FOV = 45
	}
	if o.Near <= 0 {
		o.Near = 0.1
	}
	if o.Far <= o.Near {
		o.Far = 100
	}
	if o.Texture == nil {
		o.Texture = texture.Checker(64, 8, color.NRGBA{230, 230, 230, 255}, color.NRGBA{60, 90, 160, 255})
	}
	if o.Texture.Filter != o.Filter {
		o.Texture = o.Texture.WithFilter(o.Filter)
	}
	return o
}

// Scene records the commands for an animation. Setup runs once after the
// render target is bound; Frame records frame i up to, not including, the
// Swap.
type Scene interface {
	Setup(p *Producer)
	Frame(p *Producer, i int)
}

var registry = map[string]func(Options) Scene{
	"triangle": newTriangle,
	"plane":    newPlane,
	"cube":     newCube,
}

// New builds the named scene.
func New(name string, opts Options) (Scene, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return mk(opts.withDefaults()), nil
}

// Names lists the registered scenes.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
