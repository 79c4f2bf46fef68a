// Package scene holds the in-memory scene graph the viewer owns: nodes with
// TRS transforms, meshes split into primitives, and shared materials.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is a transform in the hierarchy, optionally carrying a mesh.
type Node struct {
	Name        string
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3

	Mesh     *Mesh
	Parent   *Node
	Children []*Node
}

// NewNode creates a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.Parent != nil {
		child.Parent.Remove(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child from n. It reports whether child was attached.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return true
		}
	}
	return false
}

// Label is the name used to address the node: its own name, else its mesh name.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	if n.Mesh != nil {
		return n.Mesh.Name
	}
	return ""
}

// SetEuler sets the rotation from XYZ-ordered Euler angles in radians.
func (n *Node) SetEuler(x, y, z float32) {
	qx := mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1})
	n.Rotation = qx.Mul(qy).Mul(qz).Normalize()
}

// LocalMatrix composes translation, rotation and scale.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Translation.X(), n.Translation.Y(), n.Translation.Z())
	r := n.Rotation.Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix returns the node transform relative to the hierarchy root.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// Traverse visits n and every descendant depth-first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// TraverseWorld is Traverse with each node's world matrix, computed once per node.
func (n *Node) TraverseWorld(fn func(node *Node, world mgl32.Mat4)) {
	parent := mgl32.Ident4()
	if n.Parent != nil {
		parent = n.Parent.WorldMatrix()
	}
	n.traverseWorld(parent, fn)
}

func (n *Node) traverseWorld(parent mgl32.Mat4, fn func(*Node, mgl32.Mat4)) {
	world := parent.Mul4(n.LocalMatrix())
	fn(n, world)
	for _, c := range n.Children {
		c.traverseWorld(world, fn)
	}
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// MeshNodes returns every node in the subtree that carries a mesh, in traversal order.
func (n *Node) MeshNodes() []*Node {
	var out []*Node
	n.Traverse(func(c *Node) {
		if c.Mesh != nil {
			out = append(out, c)
		}
	})
	return out
}
