package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/scene"
)

// floatsPerVertex is position (3) + normal (3).
const floatsPerVertex = 6

// vertexData interleaves positions and normals. Missing normals are
// generated by averaging the faces around each vertex.
func vertexData(p *scene.Primitive) []float32 {
	normals := p.Normals
	if len(normals) != len(p.Positions) {
		normals = computeNormals(p.Positions, p.Indices)
	}

	out := make([]float32, 0, len(p.Positions)*floatsPerVertex)
	for i, pos := range p.Positions {
		n := normals[i]
		out = append(out, pos[0], pos[1], pos[2], n[0], n[1], n[2])
	}
	return out
}

// computeNormals returns area-weighted vertex normals for a triangle list.
func computeNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))

	tri := func(a, b, c uint32) {
		if int(a) >= len(positions) || int(b) >= len(positions) || int(c) >= len(positions) {
			return
		}
		pa, pb, pc := positions[a], positions[b], positions[c]
		face := pb.Sub(pa).Cross(pc.Sub(pa))
		normals[a] = normals[a].Add(face)
		normals[b] = normals[b].Add(face)
		normals[c] = normals[c].Add(face)
	}

	if indices != nil {
		for i := 0; i+2 < len(indices); i += 3 {
			tri(indices[i], indices[i+1], indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(positions); i += 3 {
			tri(uint32(i), uint32(i+1), uint32(i+2))
		}
	}

	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		} else {
			normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	return normals
}

// drawItem is one primitive placed in the world.
type drawItem struct {
	node  *scene.Node
	prim  *scene.Primitive
	world mgl32.Mat4
	depth float32 // squared distance from the camera
}

// transparent reports whether the item needs blending.
func (d drawItem) transparent() bool {
	return d.prim.Material != nil && d.prim.Material.Color[3] < 0.999
}

// collect gathers the primitives under root. Opaque items come first in
// scene order, then transparent ones sorted back to front.
func collect(root *scene.Node, eye mgl32.Vec3) (opaque, transparent []drawItem) {
	root.TraverseWorld(func(n *scene.Node, world mgl32.Mat4) {
		if n.Mesh == nil {
			return
		}
		for _, p := range n.Mesh.Primitives {
			if len(p.Positions) == 0 {
				continue
			}
			item := drawItem{node: n, prim: p, world: world}
			if item.transparent() {
				d := p.Bounds().Transform(world).Center().Sub(eye)
				item.depth = d.Dot(d)
				transparent = append(transparent, item)
				continue
			}
			opaque = append(opaque, item)
		}
	})

	sort.SliceStable(transparent, func(i, j int) bool {
		return transparent[i].depth > transparent[j].depth
	})
	return opaque, transparent
}
