// Package picking provides ray casting and object picking utilities.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/scene"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	near := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, mgl32.Vec4{ndcX, ndcY, 1, 1})

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(inv mgl32.Mat4, ndc mgl32.Vec4) mgl32.Vec3 {
	p := inv.Mul4x1(ndc)
	if p[3] != 0 {
		return p.Vec3().Mul(1 / p[3])
	}
	return p.Vec3()
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box scene.AABB) (t float32, hit bool) {
	if box.IsEmpty() {
		return 0, false
	}
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit is a picked mesh node.
type Hit struct {
	Node     *scene.Node
	Distance float32
}

// Pick returns the nearest mesh node under root whose world bounds the ray
// crosses. accept filters candidates; nil accepts every mesh node.
func Pick(r Ray, root *scene.Node, accept func(*scene.Node) bool) (Hit, bool) {
	var best Hit
	found := false
	root.TraverseWorld(func(n *scene.Node, world mgl32.Mat4) {
		if n.Mesh == nil || (accept != nil && !accept(n)) {
			return
		}
		box := n.Mesh.LocalBounds().Transform(world)
		t, ok := r.IntersectAABB(box)
		if !ok {
			return
		}
		if !found || t < best.Distance {
			best = Hit{Node: n, Distance: t}
			found = true
		}
	})
	return best, found
}
