package renderer

import (
	"sort"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// item is one mesh ready to draw.
type item struct {
	node  *scene.Node
	world math.Mat4
	dist  float32 // from the camera
}

// collect gathers visible meshes. Opaque items are sorted front to back to
// save fill; transparent ones back to front so blending composes.
func collect(s *scene.Scene, eye math.Vec3) (opaque, transparent []item) {
	var walk func(n *scene.Node, parent math.Mat4)
	walk = func(n *scene.Node, parent math.Mat4) {
		if !n.Visible {
			return
		}
		world := parent.Mul(n.LocalMatrix())
		if n.IsMesh() && n.Mesh.Geometry != nil && n.Mesh.Material != nil && len(n.Mesh.Geometry.Positions) > 0 {
			it := item{node: n, world: world, dist: world.Translation().Distance(eye)}
			if n.Mesh.Material.Opacity < 1 {
				transparent = append(transparent, it)
			} else {
				opaque = append(opaque, it)
			}
		}
		for _, c := range n.Children() {
			walk(c, world)
		}
	}
	walk(s.Root, math.Identity())

	sort.SliceStable(opaque, func(i, j int) bool { return opaque[i].dist < opaque[j].dist })
	sort.SliceStable(transparent, func(i, j int) bool { return transparent[i].dist > transparent[j].dist })
	return opaque, transparent
}

// casters filters items that render into shadow maps.
func casters(items []item) []item {
	var out []item
	for _, it := range items {
		if it.node.CastShadow {
			out = append(out, it)
		}
	}
	return out
}
