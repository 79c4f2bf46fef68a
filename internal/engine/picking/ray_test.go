package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/scene"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float32) scene.AABB {
	return scene.AABB{Min: mgl32.Vec3{minX, minY, minZ}, Max: mgl32.Vec3{maxX, maxY, maxZ}}
}

func TestIntersectAABB(t *testing.T) {
	unit := box(-1, -1, -1, 1, 1, 1)
	tests := []struct {
		name string
		ray  Ray
		hit  bool
		dist float32
	}{
		{"front", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}, true, 4},
		{"miss", Ray{mgl32.Vec3{3, 0, 5}, mgl32.Vec3{0, 0, -1}}, false, 0},
		{"behind", Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 1}}, false, 0},
		{"inside", Ray{mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}}, true, 1},
		{"parallel outside", Ray{mgl32.Vec3{0, 2, 5}, mgl32.Vec3{0, 0, -1}}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, hit := tt.ray.IntersectAABB(unit)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && d != tt.dist {
				t.Errorf("distance = %v, want %v", d, tt.dist)
			}
		})
	}
}

func TestIntersectEmptyBox(t *testing.T) {
	r := Ray{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}}
	if _, hit := r.IntersectAABB(scene.EmptyAABB()); hit {
		t.Error("empty box should never be hit")
	}
}

func TestScreenToRayCenter(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	inv := proj.Mul4(view).Inv()

	r := ScreenToRay(400, 300, 800, 600, inv)
	want := mgl32.Vec3{0, 0, -1}
	if !r.Direction.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("direction = %v, want %v", r.Direction, want)
	}
	if d := r.Origin.Z(); d < 9.8 || d > 10 {
		t.Errorf("origin z = %v, want near plane in front of the eye", d)
	}
}

func quad(name string, at mgl32.Vec3) *scene.Node {
	n := scene.NewNode(name)
	n.Translation = at
	n.Mesh = &scene.Mesh{Primitives: []*scene.Primitive{{
		Positions: []mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
	}}}
	return n
}

func TestPickNearest(t *testing.T) {
	root := scene.NewNode("root")
	root.Add(quad("far", mgl32.Vec3{0, 0, -2}))
	root.Add(quad("near", mgl32.Vec3{0, 0, 1}))
	root.Add(quad("aside", mgl32.Vec3{5, 0, 3}))

	r := Ray{mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1}}
	hit, ok := Pick(r, root, nil)
	if !ok || hit.Node.Name != "near" {
		t.Fatalf("Pick = %+v, %v; want near", hit, ok)
	}
	if hit.Distance != 9 {
		t.Errorf("distance = %v, want 9", hit.Distance)
	}

	hit, ok = Pick(r, root, func(n *scene.Node) bool { return n.Name != "near" })
	if !ok || hit.Node.Name != "far" {
		t.Errorf("filtered Pick = %+v, %v; want far", hit, ok)
	}
}

func TestPickFollowsParentTransform(t *testing.T) {
	root := scene.NewNode("root")
	root.Translation = mgl32.Vec3{5, 0, 0}
	root.Add(quad("moved", mgl32.Vec3{}))

	if _, ok := Pick(Ray{mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1}}, root, nil); ok {
		t.Error("ray at origin should miss a quad moved to x=5")
	}
	if _, ok := Pick(Ray{mgl32.Vec3{5, 0, 10}, mgl32.Vec3{0, 0, -1}}, root, nil); !ok {
		t.Error("ray at x=5 should hit the moved quad")
	}
}
