package picking

import (
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// Projector is anything that can supply a combined view-projection matrix.
type Projector interface {
	ViewProjection() math.Mat4
}

// Intersection is one ray hit against a mesh node.
type Intersection struct {
	Distance float32
	Point    math.Vec3
	Object   *scene.Node
	Face     int
}

// Raycaster intersects a world-space ray with scene nodes.
type Raycaster struct {
	Ray  Ray
	Near float32
	Far  float32
}

// NewRaycaster returns a raycaster accepting hits at any distance.
func NewRaycaster() *Raycaster {
	return &Raycaster{Far: math32.Inf(1)}
}

// SetFromCamera aims the ray through ndc (each axis in [-1, 1]).
func (rc *Raycaster) SetFromCamera(ndc math.Vec2, cam Projector) {
	rc.Ray = NDCToRay(ndc, cam.ViewProjection().Inverse())
}

// IntersectObject tests a single node, and its descendants when recursive is
// set. Results are sorted nearest first.
func (rc *Raycaster) IntersectObject(n *scene.Node, recursive bool) []Intersection {
	var hits []Intersection
	rc.collect(n, recursive, &hits)
	sortHits(hits)
	return hits
}

// IntersectObjects tests every node in nodes and merges the results, nearest
// first.
func (rc *Raycaster) IntersectObjects(nodes []*scene.Node, recursive bool) []Intersection {
	var hits []Intersection
	for _, n := range nodes {
		rc.collect(n, recursive, &hits)
	}
	sortHits(hits)
	return hits
}

func sortHits(hits []Intersection) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
}

func (rc *Raycaster) collect(n *scene.Node, recursive bool, hits *[]Intersection) {
	if !n.Visible {
		return
	}
	if hit, ok := rc.intersectMesh(n); ok {
		*hits = append(*hits, hit)
	}
	if !recursive {
		return
	}
	for _, child := range n.Children() {
		rc.collect(child, true, hits)
	}
}

// intersectMesh returns the nearest hit on n's own geometry.
func (rc *Raycaster) intersectMesh(n *scene.Node) (Intersection, bool) {
	if n.Mesh == nil || n.Mesh.Geometry == nil {
		return Intersection{}, false
	}
	geom := n.Mesh.Geometry
	if geom.TriangleCount() == 0 {
		return Intersection{}, false
	}

	world := n.WorldMatrix()
	lo, hi := geom.Bounds()
	if _, ok := rc.Ray.IntersectAABB(TransformAABB(AABB{Min: lo, Max: hi}, world)); !ok {
		return Intersection{}, false
	}

	doubleSided := n.Mesh.Material != nil && n.Mesh.Material.DoubleSided
	local := rc.Ray.Transform(world.Inverse())

	best := Intersection{Distance: math32.Inf(1), Face: -1}
	for i := 0; i < geom.TriangleCount(); i++ {
		a, b, c := geom.Triangle(i)
		t, ok := local.IntersectTriangle(a, b, c, doubleSided)
		if !ok {
			continue
		}
		point := world.TransformPoint(local.At(t))
		dist := rc.Ray.Origin.Distance(point)
		if dist < rc.Near || dist > rc.Far || dist >= best.Distance {
			continue
		}
		best = Intersection{Distance: dist, Point: point, Object: n, Face: i}
	}
	if best.Face < 0 {
		return Intersection{}, false
	}
	return best, true
}
