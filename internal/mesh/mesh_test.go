package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMesh_AddTriangle(t *testing.T) {
	var m Mesh[int]
	m.AddTriangle(10, 11, 12)
	m.AddTriangle(20, 21, 22)
	if got := m.TriangleCount(); got != 2 {
		t.Fatalf("TriangleCount() = %d, want 2", got)
	}
	want := []int{0, 1, 2, 3, 4, 5}
	for i, idx := range m.Indices {
		if idx != want[i] {
			t.Errorf("Indices[%d] = %d, want %d", i, idx, want[i])
		}
	}
}

func TestMesh_Append(t *testing.T) {
	var a, b Mesh[int]
	a.AddTriangle(1, 2, 3)
	b.AddQuad(4, 5, 6, 7)
	a.Append(b)

	if len(a.Vertices) != 7 {
		t.Fatalf("len(Vertices) = %d, want 7", len(a.Vertices))
	}
	want := []int{0, 1, 2, 3, 4, 5, 3, 5, 6}
	if len(a.Indices) != len(want) {
		t.Fatalf("Indices = %v, want %v", a.Indices, want)
	}
	for i := range want {
		if a.Indices[i] != want[i] {
			t.Errorf("Indices[%d] = %d, want %d", i, a.Indices[i], want[i])
		}
		if a.Vertices[a.Indices[i]] != want[i]+1 {
			t.Errorf("index %d resolves to %d", i, a.Vertices[a.Indices[i]])
		}
	}
}

func TestBox(t *testing.T) {
	m := Box(2)
	if len(m.Vertices) != 24 || m.TriangleCount() != 12 {
		t.Fatalf("Box has %d vertices, %d triangles; want 24, 12", len(m.Vertices), m.TriangleCount())
	}
	for i, v := range m.Vertices {
		for axis := 0; axis < 3; axis++ {
			if c := v.Position[axis]; c != 1 && c != -1 {
				t.Fatalf("vertex %d position %v not on the unit cube", i, v.Position)
			}
		}
		// Every vertex lies on the face its normal points out of.
		if d := v.Position.Vec3().Dot(v.Normal); d != 1 {
			t.Errorf("vertex %d: position·normal = %v, want 1", i, d)
		}
	}
	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Position.Vec3()
		b := m.Vertices[m.Indices[i+1]].Position.Vec3()
		c := m.Vertices[m.Indices[i+2]].Position.Vec3()
		n := m.Vertices[m.Indices[i]].Normal
		if b.Sub(a).Cross(c.Sub(a)).Dot(n) <= 0 {
			t.Errorf("triangle %d winds clockwise seen from outside", i/3)
		}
	}
}

func TestPlane(t *testing.T) {
	m := Plane(4, 2, mgl32.Vec3{1, 1, 1})
	if m.TriangleCount() != 2 {
		t.Fatalf("TriangleCount() = %d, want 2", m.TriangleCount())
	}
	for _, v := range m.Vertices {
		if v.Position[1] != 0 || v.Normal != (mgl32.Vec3{0, 1, 0}) {
			t.Errorf("vertex %+v not on the XZ plane facing up", v)
		}
		if abs(v.Position[0]) != 2 || abs(v.Position[2]) != 2 {
			t.Errorf("vertex %v not at a corner", v.Position)
		}
	}
}

func TestTriangle(t *testing.T) {
	m := Triangle()
	if m.TriangleCount() != 1 {
		t.Fatalf("TriangleCount() = %d, want 1", m.TriangleCount())
	}
	if m.Vertices[0].Color != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("first vertex color = %v, want red", m.Vertices[0].Color)
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
