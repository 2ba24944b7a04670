package scene

import (
	"github.com/Faultbox/phone-teardown/internal/material"
	"github.com/Faultbox/phone-teardown/pkg/math"
)

// Node is an element of the scene graph. A node with Geometry is a mesh.
type Node struct {
	Name     string
	Parent   *Node // Navigation only
	Children []*Node

	Position [3]float32
	Scale    [3]float32
	Visible  bool

	Geometry *Geometry
	Material *material.Material
}

// NewNode creates a visible node with unit scale.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Scale:   [3]float32{1, 1, 1},
		Visible: true,
	}
}

// NewMesh creates a mesh node.
func NewMesh(name string, geom *Geometry, mat *material.Material) *Node {
	n := NewNode(name)
	n.Geometry = geom
	n.Material = mat
	return n
}

// IsMesh reports whether n carries geometry.
func (n *Node) IsMesh() bool {
	return n.Geometry != nil
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.Parent != nil {
		child.Parent.Remove(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child from n.
func (n *Node) Remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Walk visits n and its descendants depth-first, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// LocalMatrix returns the node's translation * scale transform.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.TRS(n.Position, n.Scale)
}

// WorldMatrix composes local matrices from the root down to n.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// WorldBounds returns the bounds of every mesh under n in world space.
func (n *Node) WorldBounds() Bounds {
	b := EmptyBounds()
	n.Walk(func(node *Node) {
		if !node.IsMesh() || node.Geometry.VertexCount() == 0 {
			return
		}
		local := node.Geometry.Bounds()
		world := node.WorldMatrix()
		// translate * scale keeps boxes axis aligned, so two corners suffice
		b.Extend(world.TransformPoint(local.Min))
		b.Extend(world.TransformPoint(local.Max))
	})
	return b
}

// Clone deep-copies the subtree rooted at n. Geometry buffers are copied so
// the clone can be repaired in place; materials are shared because callers
// replace rather than edit them. The clone has no parent.
func (n *Node) Clone() *Node {
	c := &Node{
		Name:     n.Name,
		Position: n.Position,
		Scale:    n.Scale,
		Visible:  n.Visible,
		Geometry: n.Geometry.Clone(),
		Material: n.Material,
	}
	for _, child := range n.Children {
		cc := child.Clone()
		cc.Parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}

// Find returns the first node named name, depth-first.
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
