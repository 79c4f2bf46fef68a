package scene

import "github.com/go-gl/mathgl/mgl32"

// Primitive is one draw call worth of geometry with a single material.
type Primitive struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32 // nil for non-indexed geometry
	Material  *Material
}

// Bounds returns the box around the primitive's positions.
func (p *Primitive) Bounds() AABB {
	box := EmptyAABB()
	for _, v := range p.Positions {
		box.ExpandPoint(v)
	}
	return box
}

// Mesh groups primitives. A mesh with several primitives behaves like a
// mesh with a material array.
type Mesh struct {
	Name       string
	Primitives []*Primitive
}

// Materials returns the material of each primitive in order, skipping nil entries.
// Shared materials appear once per primitive that uses them.
func (m *Mesh) Materials() []*Material {
	out := make([]*Material, 0, len(m.Primitives))
	for _, p := range m.Primitives {
		if p.Material != nil {
			out = append(out, p.Material)
		}
	}
	return out
}

// HasMaterial reports whether any primitive carries a material.
func (m *Mesh) HasMaterial() bool {
	for _, p := range m.Primitives {
		if p.Material != nil {
			return true
		}
	}
	return false
}

// LocalBounds returns the box around all vertex positions in mesh space.
func (m *Mesh) LocalBounds() AABB {
	box := EmptyAABB()
	for _, p := range m.Primitives {
		box.Union(p.Bounds())
	}
	return box
}

// VertexCount returns the number of positions over all primitives.
func (m *Mesh) VertexCount() int {
	n := 0
	for _, p := range m.Primitives {
		n += len(p.Positions)
	}
	return n
}
