package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

type fixedCamera struct {
	vp math.Mat4
}

func (c fixedCamera) ViewProjection() math.Mat4 { return c.vp }

func lookingDownZ() fixedCamera {
	view := math.LookAt(math.Vec3{Z: 20}, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(float32(gomath.Pi/4), 1, 0.1, 1000)
	return fixedCamera{vp: proj.Mul(view)}
}

func boxNode(name string, pos math.Vec3) *scene.Node {
	n := scene.NewMeshNode(name, scene.NewBox(2, 2, 2), scene.NewMaterial())
	n.Position = pos
	return n
}

func TestIntersectObjectsSortedByDistance(t *testing.T) {
	near := boxNode("near", math.Vec3{Z: 5})
	far := boxNode("far", math.Vec3{Z: -5})

	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{}, lookingDownZ())
	hits := rc.IntersectObjects([]*scene.Node{far, near}, false)

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Object != near || hits[1].Object != far {
		t.Errorf("hits not sorted nearest first: %s, %s", hits[0].Object.Name, hits[1].Object.Name)
	}
	if !approx(hits[0].Distance, 20-6-0.1) {
		t.Errorf("near distance = %v, want %v", hits[0].Distance, 20-6-0.1)
	}
	if !approx(hits[0].Point.Z, 6) {
		t.Errorf("hit point should be on the front face, got %+v", hits[0].Point)
	}
}

func TestIntersectObjectRecursive(t *testing.T) {
	group := scene.NewNode("group")
	child := boxNode("child", math.Vec3{})
	group.Add(child)

	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{}, lookingDownZ())

	if hits := rc.IntersectObject(group, false); len(hits) != 0 {
		t.Errorf("non-recursive test of a group should not hit, got %d", len(hits))
	}
	hits := rc.IntersectObject(group, true)
	if len(hits) != 1 || hits[0].Object != child {
		t.Fatalf("recursive test should report the child mesh, got %v", hits)
	}
}

func TestIntersectRespectsParentTransform(t *testing.T) {
	group := scene.NewNode("group")
	group.Position = math.Vec3{X: 100}
	group.Add(boxNode("child", math.Vec3{}))

	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{}, lookingDownZ())
	if hits := rc.IntersectObject(group, true); len(hits) != 0 {
		t.Errorf("child moved off-axis by its parent should miss, got %d hits", len(hits))
	}
}

func TestIntersectScaledMesh(t *testing.T) {
	n := boxNode("scaled", math.Vec3{})
	n.Scale = math.Splat(3)

	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{}, lookingDownZ())
	hits := rc.IntersectObject(n, false)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if !approx(hits[0].Point.Z, 3) {
		t.Errorf("scaled box front face should be at z=3, got %v", hits[0].Point.Z)
	}
}

func TestIntersectSkipsInvisible(t *testing.T) {
	n := boxNode("hidden", math.Vec3{})
	n.Visible = false

	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{}, lookingDownZ())
	if hits := rc.IntersectObject(n, true); len(hits) != 0 {
		t.Errorf("invisible node should not be hit, got %d", len(hits))
	}
}

func TestIntersectMiss(t *testing.T) {
	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{X: 0.9, Y: 0.9}, lookingDownZ())
	if hits := rc.IntersectObject(boxNode("box", math.Vec3{}), false); len(hits) != 0 {
		t.Errorf("ray through the corner of the view should miss, got %d hits", len(hits))
	}
}

func TestIntersectFarLimit(t *testing.T) {
	rc := NewRaycaster()
	rc.Far = 5
	rc.SetFromCamera(math.Vec2{}, lookingDownZ())
	if hits := rc.IntersectObject(boxNode("box", math.Vec3{}), false); len(hits) != 0 {
		t.Errorf("hit beyond Far should be dropped, got %d", len(hits))
	}
}
