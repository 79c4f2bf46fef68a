package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/scene"
)

func TestVertexDataKeepsNormals(t *testing.T) {
	p := &scene.Primitive{
		Positions: []mgl32.Vec3{{1, 2, 3}},
		Normals:   []mgl32.Vec3{{0, 0, 1}},
	}
	got := vertexData(p)
	want := []float32{1, 2, 3, 0, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("vertexData()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestComputeNormals(t *testing.T) {
	// Counter-clockwise in the XY plane faces +Z.
	positions := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	tests := []struct {
		name    string
		indices []uint32
	}{
		{"non-indexed", nil},
		{"indexed", []uint32{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normals := computeNormals(positions, tt.indices)
			for i, n := range normals {
				if n != (mgl32.Vec3{0, 0, 1}) {
					t.Errorf("normal %d = %v, want (0, 0, 1)", i, n)
				}
			}
		})
	}
}

func TestComputeNormalsIgnoresBadIndices(t *testing.T) {
	positions := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}
	normals := computeNormals(positions, []uint32{0, 1, 7})
	for i, n := range normals {
		if n != (mgl32.Vec3{0, 1, 0}) {
			t.Errorf("normal %d = %v, want fallback up vector", i, n)
		}
	}
}

func TestCollectSortsTransparentBackToFront(t *testing.T) {
	paint := scene.NewMaterial("paint", scene.ShadingStandard)
	glass := scene.NewMaterial("glass", scene.ShadingStandard)
	glass.Color[3] = 0.3

	quad := func(name string, mat *scene.Material, z float32) *scene.Node {
		n := scene.NewNode(name)
		n.Mesh = &scene.Mesh{Name: name, Primitives: []*scene.Primitive{{
			Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Material:  mat,
		}}}
		n.Translation = mgl32.Vec3{0, 0, z}
		return n
	}

	root := scene.NewNode("root")
	root.Add(quad("Body", paint, 0))
	root.Add(quad("GlassNear", glass, 5))
	root.Add(quad("GlassFar", glass, -5))
	root.Add(scene.NewNode("Empty"))

	opaque, transparent := collect(root, mgl32.Vec3{0, 0, 10})
	if len(opaque) != 1 || opaque[0].node.Name != "Body" {
		t.Fatalf("opaque = %v, want only Body", opaque)
	}
	if len(transparent) != 2 {
		t.Fatalf("transparent count = %d, want 2", len(transparent))
	}
	if transparent[0].node.Name != "GlassFar" || transparent[1].node.Name != "GlassNear" {
		t.Errorf("order = %s, %s; want GlassFar, GlassNear",
			transparent[0].node.Name, transparent[1].node.Name)
	}
}
