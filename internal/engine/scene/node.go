// Package scene provides the exhibit's scene graph: a tree of transformable
// nodes, some carrying a mesh (geometry plus material).
package scene

import (
	"sync/atomic"

	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// NodeID uniquely identifies a node for the lifetime of the process.
type NodeID uint64

var lastID atomic.Uint64

func nextID() NodeID {
	return NodeID(lastID.Add(1))
}

// Node is an object placed in the scene.
type Node struct {
	ID       NodeID
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
	Visible  bool

	// Mesh is nil for group nodes.
	Mesh          *Mesh
	CastShadow    bool
	ReceiveShadow bool

	// Attrs carries out-of-band metadata such as the source asset URL.
	Attrs map[string]any

	parent   *Node
	children []*Node
}

// NewNode creates an empty group node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		ID:       nextID(),
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.Splat(1),
		Visible:  true,
	}
}

// NewMeshNode creates a node drawing geometry with material.
func NewMeshNode(name string, geometry *Geometry, material *Material) *Node {
	n := NewNode(name)
	n.Mesh = &Mesh{Geometry: geometry, Material: material}
	return n
}

// IsMesh reports whether the node draws geometry.
func (n *Node) IsMesh() bool {
	return n.Mesh != nil && n.Mesh.Geometry != nil
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in insertion order. The slice must not
// be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add appends children, detaching each from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches child. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse visits n and every descendant in pre-order.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// TraverseMeshes visits n and every descendant that carries a mesh.
func (n *Node) TraverseMeshes(fn func(*Node)) {
	n.Traverse(func(c *Node) {
		if c.IsMesh() {
			fn(c)
		}
	})
}

// Find returns the first node named name in pre-order, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// SetAttr stores a metadata value.
func (n *Node) SetAttr(key string, value any) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	n.Attrs[key] = value
}

// Attr returns a metadata value.
func (n *Node) Attr(key string) (any, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// SetScalar sets a uniform scale.
func (n *Node) SetScalar(s float32) {
	n.Scale = math.Splat(s)
}

// SetRotationXYZ sets the orientation from Euler angles in X-Y-Z order.
func (n *Node) SetRotationXYZ(x, y, z float32) {
	qx := math.QuatFromAxisAngle(math.Vec3{X: 1}, x)
	qy := math.QuatFromAxisAngle(math.Vec3{Y: 1}, y)
	qz := math.QuatFromAxisAngle(math.Vec3{Z: 1}, z)
	n.Rotation = qx.Mul(qy).Mul(qz)
}

// RotateOnAxis rotates the node about an axis in its local space. The axis is
// normalized first; a zero axis leaves the node unchanged.
func (n *Node) RotateOnAxis(axis math.Vec3, angle float32) {
	axis = axis.Normalize()
	if axis == (math.Vec3{}) {
		return
	}
	n.Rotation = n.Rotation.Mul(math.QuatFromAxisAngle(axis, angle)).Normalize()
}

// LocalMatrix returns the node's transform relative to its parent.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the node's transform in scene space.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// WorldVisible reports whether the node and all its ancestors are visible.
func (n *Node) WorldVisible() bool {
	for p := n; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the subtree with fresh IDs. Geometry is shared
// between the copies; materials are cloned so copies can be restyled
// independently.
func (n *Node) Clone() *Node {
	c := &Node{
		ID:            nextID(),
		Name:          n.Name,
		Position:      n.Position,
		Rotation:      n.Rotation,
		Scale:         n.Scale,
		Visible:       n.Visible,
		CastShadow:    n.CastShadow,
		ReceiveShadow: n.ReceiveShadow,
	}
	if n.Mesh != nil {
		c.Mesh = &Mesh{Geometry: n.Mesh.Geometry, Material: n.Mesh.Material.Clone()}
	}
	if n.Attrs != nil {
		c.Attrs = make(map[string]any, len(n.Attrs))
		for k, v := range n.Attrs {
			c.Attrs[k] = v
		}
	}
	for _, child := range n.children {
		c.Add(child.Clone())
	}
	return c
}
