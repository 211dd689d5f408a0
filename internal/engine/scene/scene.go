package scene

import "github.com/Faultbox/warehouse-exhibit/internal/engine/lighting"

// Fog is exponential-squared distance fog.
type Fog struct {
	Color   Color
	Density float32
}

// Scene is the root of everything the renderer draws.
type Scene struct {
	Root       *Node
	Fog        *Fog
	Background Color
	Lights     lighting.Set
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{Root: NewNode("scene")}
}

// Add attaches nodes to the scene root.
func (s *Scene) Add(nodes ...*Node) {
	s.Root.Add(nodes...)
}

// Remove detaches a node from the scene root.
func (s *Scene) Remove(n *Node) bool {
	return s.Root.Remove(n)
}

// Children returns the root's direct children.
func (s *Scene) Children() []*Node {
	return s.Root.Children()
}

// Traverse visits every node below the root in pre-order. The root itself is
// not visited.
func (s *Scene) Traverse(fn func(*Node)) {
	for _, c := range s.Root.Children() {
		c.Traverse(fn)
	}
}
