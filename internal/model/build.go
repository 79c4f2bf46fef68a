package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/anim"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/scene"
)

// builder converts document indices into scene objects, sharing meshes and
// materials the way the document does.
type builder struct {
	doc       *gltf.Document
	nodes     []*scene.Node
	meshes    map[int]*scene.Mesh
	materials []*scene.Material
	fallback  *scene.Material
}

func (b *builder) node(idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", idx)
	}
	if b.nodes[idx] != nil {
		return nil, fmt.Errorf("node %d has more than one parent", idx)
	}

	src := b.doc.Nodes[idx]
	n := scene.NewNode(src.Name)
	b.nodes[idx] = n
	setTransform(n, src)

	if mi, ok := indexOf(src.Mesh); ok {
		mesh, err := b.mesh(mi)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", idx, err)
		}
		n.Mesh = mesh
	}

	for _, c := range src.Children {
		ci, ok := indexOf(c)
		if !ok {
			continue
		}
		child, err := b.node(ci)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func setTransform(n *scene.Node, src *gltf.Node) {
	m := mat4(src.MatrixOrDefault())
	if m == mgl32.Ident4() {
		n.Translation = vec3(src.TranslationOrDefault())
		n.Rotation = quat(src.RotationOrDefault())
		n.Scale = vec3(src.ScaleOrDefault())
		return
	}

	// Decompose the matrix into TRS so animation tracks can drive it.
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	sx, sy, sz := c0.Len(), c1.Len(), c2.Len()
	n.Translation = m.Col(3).Vec3()
	n.Scale = mgl32.Vec3{sx, sy, sz}
	if sx == 0 || sy == 0 || sz == 0 {
		n.Rotation = mgl32.QuatIdent()
		return
	}
	rot := mgl32.Mat4FromCols(
		c0.Mul(1/sx).Vec4(0),
		c1.Mul(1/sy).Vec4(0),
		c2.Mul(1/sz).Vec4(0),
		mgl32.Vec4{0, 0, 0, 1},
	)
	n.Rotation = mgl32.Mat4ToQuat(rot).Normalize()
}

func (b *builder) mesh(idx int) (*scene.Mesh, error) {
	if m, ok := b.meshes[idx]; ok {
		return m, nil
	}
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", idx)
	}

	src := b.doc.Meshes[idx]
	m := &scene.Mesh{Name: src.Name}
	for pi, p := range src.Primitives {
		prim, err := b.primitive(p)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", src.Name, pi, err)
		}
		m.Primitives = append(m.Primitives, prim)
	}
	b.meshes[idx] = m
	return m, nil
}

func (b *builder) primitive(p *gltf.Primitive) (*scene.Primitive, error) {
	prim := &scene.Primitive{}

	if ai, ok := p.Attributes[gltf.POSITION]; ok {
		acr, err := b.accessor(int(ai))
		if err != nil {
			return nil, err
		}
		pos, err := modeler.ReadPosition(b.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("positions: %w", err)
		}
		prim.Positions = toVec3s(pos)
	}

	if ai, ok := p.Attributes[gltf.NORMAL]; ok {
		acr, err := b.accessor(int(ai))
		if err != nil {
			return nil, err
		}
		normals, err := modeler.ReadNormal(b.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		prim.Normals = toVec3s(normals)
	}

	if ii, ok := indexOf(p.Indices); ok {
		acr, err := b.accessor(ii)
		if err != nil {
			return nil, err
		}
		indices, err := modeler.ReadIndices(b.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		prim.Indices = indices
	}

	if mi, ok := indexOf(p.Material); ok && mi < len(b.materials) {
		prim.Material = b.materials[mi]
	} else {
		prim.Material = b.defaultMaterial()
	}
	return prim, nil
}

// defaultMaterial is shared by primitives that reference no material.
func (b *builder) defaultMaterial() *scene.Material {
	if b.fallback == nil {
		b.fallback = scene.NewMaterial("default", scene.ShadingStandard)
	}
	return b.fallback
}

func (b *builder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return b.doc.Accessors[idx], nil
}

func (b *builder) clip(i int, src *gltf.Animation) (*anim.Clip, error) {
	name := src.Name
	if name == "" {
		name = fmt.Sprintf("Animation_%d", i)
	}

	var tracks []*anim.Track
	for ci, ch := range src.Channels {
		ni, ok := indexOf(ch.Target.Node)
		if !ok || ni >= len(b.nodes) || b.nodes[ni] == nil {
			continue
		}

		var path anim.Path
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			path = anim.PathTranslation
		case gltf.TRSRotation:
			path = anim.PathRotation
		case gltf.TRSScale:
			path = anim.PathScale
		default:
			logger.Debug("skipping animation channel",
				zap.String("clip", name),
				zap.Int("channel", ci),
			)
			continue
		}

		si, ok := indexOf(ch.Sampler)
		if !ok || si >= len(src.Samplers) {
			return nil, fmt.Errorf("clip %q channel %d: sampler out of range", name, ci)
		}
		smp := src.Samplers[si]

		in, _ := indexOf(smp.Input)
		out, _ := indexOf(smp.Output)
		times, comps, err := b.floats(in)
		if err != nil {
			return nil, fmt.Errorf("clip %q channel %d: keyframe times: %w", name, ci, err)
		}
		if comps != 1 {
			return nil, fmt.Errorf("clip %q channel %d: keyframe times must be scalar", name, ci)
		}
		values, comps, err := b.floats(out)
		if err != nil {
			return nil, fmt.Errorf("clip %q channel %d: values: %w", name, ci, err)
		}
		if comps != path.Components() {
			return nil, fmt.Errorf("clip %q channel %d: %d components for %s", name, ci, comps, path)
		}

		interp := anim.InterpolationLinear
		switch smp.Interpolation {
		case gltf.InterpolationStep:
			interp = anim.InterpolationStep
		case gltf.InterpolationCubicSpline:
			interp = anim.InterpolationCubicSpline
		}

		tracks = append(tracks, &anim.Track{
			Node:   b.nodes[ni],
			Path:   path,
			Interp: interp,
			Times:  times,
			Values: values,
		})
	}
	return anim.NewClip(name, tracks), nil
}

// floats reads an accessor as a flat float slice and its component count.
// Normalized integer quaternions are scaled to -1..1.
func (b *builder) floats(idx int) ([]float32, int, error) {
	acr, err := b.accessor(idx)
	if err != nil {
		return nil, 0, err
	}
	data, err := modeler.ReadAccessor(b.doc, acr, nil)
	if err != nil {
		return nil, 0, err
	}

	switch v := data.(type) {
	case []float32:
		return v, 1, nil
	case [][3]float32:
		return flatten3(v), 3, nil
	case [][4]float32:
		return flatten4(v), 4, nil
	case [][4]int8:
		return normalize(v, 127, -1), 4, nil
	case [][4]uint8:
		return normalize(v, 255, 0), 4, nil
	case [][4]int16:
		return normalize(v, 32767, -1), 4, nil
	case [][4]uint16:
		return normalize(v, 65535, 0), 4, nil
	}
	return nil, 0, fmt.Errorf("unsupported accessor data %T", data)
}

func flatten3(in [][3]float32) []float32 {
	out := make([]float32, 0, len(in)*3)
	for _, v := range in {
		out = append(out, v[:]...)
	}
	return out
}

func flatten4(in [][4]float32) []float32 {
	out := make([]float32, 0, len(in)*4)
	for _, v := range in {
		out = append(out, v[:]...)
	}
	return out
}

func normalize[T int8 | uint8 | int16 | uint16](in [][4]T, scale, floor float32) []float32 {
	out := make([]float32, 0, len(in)*4)
	for _, v := range in {
		for _, c := range v {
			out = append(out, max(float32(c)/scale, floor))
		}
	}
	return out
}

func toVec3s(in [][3]float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(in))
	for i, v := range in {
		out[i] = mgl32.Vec3(v)
	}
	return out
}
