// Package mesh holds indexed triangle lists and a few procedural shapes.
package mesh

// Mesh is an indexed triangle list. Every three indices form a triangle.
type Mesh[V any] struct {
	Vertices []V
	Indices  []int
}

// AddTriangle appends three new vertices and the triangle that uses them.
func (m *Mesh[V]) AddTriangle(v0, v1, v2 V) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, v0, v1, v2)
	m.Indices = append(m.Indices, base, base+1, base+2)
}

// AddQuad appends four vertices in winding order as two triangles sharing
// the v0-v2 diagonal.
func (m *Mesh[V]) AddQuad(v0, v1, v2, v3 V) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, v0, v1, v2, v3)
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}

// Append copies o into m, rebasing its indices past m's vertices.
func (m *Mesh[V]) Append(o Mesh[V]) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, o.Vertices...)
	for _, idx := range o.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}

func (m *Mesh[V]) TriangleCount() int {
	return len(m.Indices) / 3
}
