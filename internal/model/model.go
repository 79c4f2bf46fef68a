// Package model loads glTF 2.0 assets (.gltf and .glb) into the viewer's
// scene graph and writes recolored scenes back out as GLB.
package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/anim"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/scene"
)

// ErrNoScene is returned for documents without any node to show.
var ErrNoScene = errors.New("model: document has no scene")

// unlitExtension marks materials that ignore lighting.
const unlitExtension = "KHR_materials_unlit"

// Asset is a loaded model: its scene root, animation clips and the
// materials shared by its primitives.
type Asset struct {
	Path      string
	Root      *scene.Node
	Clips     []*anim.Clip
	Materials []*scene.Material

	doc *gltf.Document
}

// Load reads a .gltf or .glb file.
func Load(path string) (*Asset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
	default:
		return nil, fmt.Errorf("model %s: unsupported extension", path)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	a, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	a.Path = path

	logger.Info("model loaded",
		zap.String("path", path),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("materials", len(a.Materials)),
		zap.Int("clips", len(a.Clips)),
	)
	return a, nil
}

// FromDocument builds an asset from a decoded glTF document. The document
// is kept so the asset can be exported again.
func FromDocument(doc *gltf.Document) (*Asset, error) {
	roots, err := sceneRoots(doc)
	if err != nil {
		return nil, err
	}

	b := &builder{
		doc:       doc,
		nodes:     make([]*scene.Node, len(doc.Nodes)),
		meshes:    make(map[int]*scene.Mesh),
		materials: make([]*scene.Material, len(doc.Materials)),
	}
	for i, m := range doc.Materials {
		b.materials[i] = convertMaterial(i, m)
	}

	root := scene.NewNode(sceneName(doc))
	for _, idx := range roots {
		n, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}

	clips := make([]*anim.Clip, 0, len(doc.Animations))
	for i, a := range doc.Animations {
		c, err := b.clip(i, a)
		if err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}

	mats := append([]*scene.Material(nil), b.materials...)
	if b.fallback != nil {
		mats = append(mats, b.fallback)
	}

	return &Asset{Root: root, Clips: clips, Materials: mats, doc: doc}, nil
}

// ClipNames returns clip names in file order.
func (a *Asset) ClipNames() []string {
	names := make([]string, len(a.Clips))
	for i, c := range a.Clips {
		names[i] = c.Name
	}
	return names
}

func sceneRoots(doc *gltf.Document) ([]int, error) {
	if len(doc.Scenes) > 0 {
		si := 0
		if i, ok := indexOf(doc.Scene); ok && i < len(doc.Scenes) {
			si = i
		}
		var roots []int
		for _, n := range doc.Scenes[si].Nodes {
			if i, ok := indexOf(n); ok {
				roots = append(roots, i)
			}
		}
		if len(roots) == 0 {
			return nil, ErrNoScene
		}
		return roots, nil
	}

	if len(doc.Nodes) == 0 {
		return nil, ErrNoScene
	}

	// No scene list: every node without a parent is a root.
	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if i, ok := indexOf(c); ok && i < len(child) {
				child[i] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

func sceneName(doc *gltf.Document) string {
	if len(doc.Scenes) > 0 {
		si := 0
		if i, ok := indexOf(doc.Scene); ok && i < len(doc.Scenes) {
			si = i
		}
		if doc.Scenes[si].Name != "" {
			return doc.Scenes[si].Name
		}
	}
	return "Scene"
}

func convertMaterial(i int, m *gltf.Material) *scene.Material {
	kind := scene.ShadingStandard
	if _, ok := m.Extensions[unlitExtension]; ok {
		kind = scene.ShadingBasic
	}

	mat := &scene.Material{
		Name:  m.Name,
		Index: i,
		Kind:  kind,
		Color: mgl32.Vec4{1, 1, 1, 1},
	}
	if m.PBRMetallicRoughness != nil && m.PBRMetallicRoughness.BaseColorFactor != nil {
		mat.Color = vec4(*m.PBRMetallicRoughness.BaseColorFactor)
	}
	return mat
}

// indexOf reads an optional or plain glTF index.
func indexOf[T ~uint32 | ~int | *uint32 | *int](v T) (int, bool) {
	switch x := any(v).(type) {
	case uint32:
		return int(x), true
	case int:
		return x, true
	case *uint32:
		if x == nil {
			return 0, false
		}
		return int(*x), true
	case *int:
		if x == nil {
			return 0, false
		}
		return *x, true
	}
	return 0, false
}

func vec3[T float32 | float64](v [3]T) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func vec4[T float32 | float64](v [4]T) mgl32.Vec4 {
	return mgl32.Vec4{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}
}

func quat[T float32 | float64](v [4]T) mgl32.Quat {
	return mgl32.Quat{W: float32(v[3]), V: mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}}
}

func mat4[T float32 | float64](v [16]T) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range v {
		m[i] = float32(v[i])
	}
	return m
}

// setFactor stores a color into a glTF base color factor.
func setFactor[T float32 | float64](dst **[4]T, c mgl32.Vec4) {
	*dst = &[4]T{T(c[0]), T(c[1]), T(c[2]), T(c[3])}
}
