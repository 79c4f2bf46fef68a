package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
)

// AABB is an axis-aligned bounding box. The zero-size inverted box from
// EmptyAABB contains nothing.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyAABB returns a box that any expansion replaces.
func EmptyAABB() AABB {
	inf := float32(math.Inf(1))
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box holds no points.
func (b AABB) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// IsFinite reports whether every corner coordinate is a finite number.
func (b AABB) IsFinite() bool {
	for i := 0; i < 3; i++ {
		for _, v := range []float32{b.Min[i], b.Max[i]} {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return false
			}
		}
	}
	return true
}

// ExpandPoint grows the box to include p.
func (b *AABB) ExpandPoint(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// Union grows the box to include o.
func (b *AABB) Union(o AABB) {
	if o.IsEmpty() {
		return
	}
	b.ExpandPoint(o.Min)
	b.ExpandPoint(o.Max)
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent along each axis.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Transform returns the box around the eight transformed corners of b.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	if b.IsEmpty() {
		return b
	}
	out := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		out.ExpandPoint(mgl32.TransformCoordinate(corner, m))
	}
	return out
}

// Bounds returns the world-space box around every mesh vertex under root.
func Bounds(root *Node) AABB {
	box := EmptyAABB()
	root.TraverseWorld(func(n *Node, world mgl32.Mat4) {
		if n.Mesh == nil {
			return
		}
		for _, p := range n.Mesh.Primitives {
			for _, v := range p.Positions {
				box.ExpandPoint(mgl32.TransformCoordinate(v, world))
			}
		}
	})
	return box
}

// NodeBounds returns the world-space box around the node's own mesh.
func NodeBounds(n *Node) AABB {
	if n.Mesh == nil {
		return EmptyAABB()
	}
	return n.Mesh.LocalBounds().Transform(n.WorldMatrix())
}

// Center moves root so the center of its bounds lands on the origin.
// Empty or non-finite bounds are logged and leave root untouched.
func Center(root *Node) bool {
	box := Bounds(root)
	if box.IsEmpty() || !box.IsFinite() {
		logger.Warn("cannot center model: degenerate bounds",
			zap.String("node", root.Name),
			zap.Bool("empty", box.IsEmpty()),
		)
		return false
	}

	center := box.Center()
	root.Translation = root.Translation.Sub(center)
	logger.Debug("model centered",
		zap.Float32("x", root.Translation.X()),
		zap.Float32("y", root.Translation.Y()),
		zap.Float32("z", root.Translation.Z()),
	)
	return true
}
