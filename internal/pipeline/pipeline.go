package pipeline

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrShaderNotBound = errors.New("pipeline: shader not bound")

// VertexShader transforms one input vertex into a shaded vertex.
// Bind pulls the slots the shader depends on before a draw.
type VertexShader[V, O any] interface {
	Bind(cb *ConstantBuffer) error
	Shade(v V) O
}

// PixelShader turns an interpolated fragment into a color in [0, 1].
type PixelShader[O any] interface {
	Bind(cb *ConstantBuffer) error
	Shade(frag O) mgl32.Vec4
}

// Pipeline holds the two programmable stages. Both must be bound before
// Prepare succeeds.
type Pipeline[V, O any] struct {
	vs VertexShader[V, O]
	ps PixelShader[O]
}

func (p *Pipeline[V, O]) BindVertexShader(vs VertexShader[V, O]) {
	p.vs = vs
}

func (p *Pipeline[V, O]) BindPixelShader(ps PixelShader[O]) {
	p.ps = ps
}

// Bound reports whether both stages are set.
func (p *Pipeline[V, O]) Bound() bool {
	return p.vs != nil && p.ps != nil
}

// Prepare pushes the current constant buffer into both shaders. It must
// succeed before HandleVertex or HandlePixel are called for a draw.
func (p *Pipeline[V, O]) Prepare(cb *ConstantBuffer) error {
	if p.vs == nil {
		return fmt.Errorf("%w: vertex stage", ErrShaderNotBound)
	}
	if p.ps == nil {
		return fmt.Errorf("%w: pixel stage", ErrShaderNotBound)
	}
	if err := p.vs.Bind(cb); err != nil {
		return err
	}
	return p.ps.Bind(cb)
}

// HandleVertex runs the vertex stage.
func (p *Pipeline[V, O]) HandleVertex(v V) O {
	return p.vs.Shade(v)
}

// HandlePixel runs the pixel stage.
func (p *Pipeline[V, O]) HandlePixel(frag O) mgl32.Vec4 {
	return p.ps.Shade(frag)
}
