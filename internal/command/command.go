// Package command defines the render commands the producer sends to the
// consumer over the bus.
package command

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"softgpu/internal/raster"
)

// Kind identifies a command variant.
type Kind uint8

const (
	KindSetVertexBuffer Kind = iota
	KindSetIndexBuffer
	KindSetRenderTarget
	KindSetConstantBuffer
	KindClear
	KindDraw
	KindSwap
	KindBindVertexShader
	KindBindPixelShader
	KindSetViewport
	KindCallback
)

var kindNames = [...]string{
	KindSetVertexBuffer:   "SetVertexBuffer",
	KindSetIndexBuffer:    "SetIndexBuffer",
	KindSetRenderTarget:   "SetRenderTarget",
	KindSetConstantBuffer: "SetConstantBuffer",
	KindClear:             "Clear",
	KindDraw:              "Draw",
	KindSwap:              "Swap",
	KindBindVertexShader:  "BindVertexShader",
	KindBindPixelShader:   "BindPixelShader",
	KindSetViewport:       "SetViewport",
	KindCallback:          "Callback",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Command is one unit of work on the bus. Commands are immutable once
// enqueued.
type Command interface {
	Kind() Kind
}

// SetVertexBuffer binds a typed vertex slice. Vertices holds a []V; the
// consumer checks V against its vertex format at bind time.
type SetVertexBuffer struct {
	Vertices any
}

// VertexBuffer copies vs into a SetVertexBuffer command.
func VertexBuffer[V any](vs []V) SetVertexBuffer {
	cp := make([]V, len(vs))
	copy(cp, vs)
	return SetVertexBuffer{Vertices: cp}
}

type SetIndexBuffer struct {
	Indices []int
}

// IndexBuffer copies idx into a SetIndexBuffer command.
func IndexBuffer(idx []int) SetIndexBuffer {
	cp := make([]int, len(idx))
	copy(cp, idx)
	return SetIndexBuffer{Indices: cp}
}

// SetRenderTarget binds the target subsequent Clear and Draw commands write
// to. The target is shared with the producer, which may read it only after
// the Swap that follows.
type SetRenderTarget struct {
	Target *raster.RenderTarget
}

type SetConstantBuffer struct {
	Slot  int
	Value any
}

type Clear struct {
	Color mgl32.Vec4
}

type Draw struct {
	UseIndex bool
}

// Swap marks the end of a frame. The consumer signals the fence with
// Generation once every earlier command has run.
type Swap struct {
	Generation uint64
}

type BindVertexShader struct {
	Shader any
}

type BindPixelShader struct {
	Shader any
}

// SetViewport overrides the viewport derived from the render target.
type SetViewport struct {
	X, Y          int
	Width, Height int
}

// Callback runs Fn on the consumer goroutine in queue order.
type Callback struct {
	Fn func()
}

func (SetVertexBuffer) Kind() Kind   { return KindSetVertexBuffer }
func (SetIndexBuffer) Kind() Kind    { return KindSetIndexBuffer }
func (SetRenderTarget) Kind() Kind   { return KindSetRenderTarget }
func (SetConstantBuffer) Kind() Kind { return KindSetConstantBuffer }
func (Clear) Kind() Kind             { return KindClear }
func (Draw) Kind() Kind              { return KindDraw }
func (Swap) Kind() Kind              { return KindSwap }
func (BindVertexShader) Kind() Kind  { return KindBindVertexShader }
func (BindPixelShader) Kind() Kind   { return KindBindPixelShader }
func (SetViewport) Kind() Kind       { return KindSetViewport }
func (Callback) Kind() Kind          { return KindCallback }
