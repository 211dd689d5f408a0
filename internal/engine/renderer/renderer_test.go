package renderer

import (
	"testing"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/lighting"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/shadow"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

func meshAt(name string, z float32) *scene.Node {
	n := scene.NewMeshNode(name, scene.NewBox(1, 1, 1), scene.NewMaterial())
	n.Position = math.Vec3{Z: z}
	return n
}

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.node.Name
	}
	return out
}

func TestCollectOrdersByDistance(t *testing.T) {
	s := scene.New()
	far := meshAt("far", -50)
	near := meshAt("near", -5)
	glassFar := meshAt("glass-far", -40)
	glassFar.Mesh.Material.Opacity = 0.5
	glassNear := meshAt("glass-near", -10)
	glassNear.Mesh.Material.Opacity = 0.5
	s.Add(far, glassNear, near, glassFar)

	opaque, transparent := collect(s, math.Vec3{})

	if got := names(opaque); len(got) != 2 || got[0] != "near" || got[1] != "far" {
		t.Errorf("opaque order = %v, want [near far]", got)
	}
	if got := names(transparent); len(got) != 2 || got[0] != "glass-far" || got[1] != "glass-near" {
		t.Errorf("transparent order = %v, want [glass-far glass-near]", got)
	}
}

func TestCollectSkipsHiddenSubtrees(t *testing.T) {
	s := scene.New()
	group := scene.NewNode("group")
	group.Position = math.Vec3{X: 10}
	child := meshAt("child", 0)
	group.Add(child)
	hidden := scene.NewNode("hidden")
	hidden.Visible = false
	hidden.Add(meshAt("under-hidden", 0))
	s.Add(group, hidden, scene.NewNode("empty"))

	opaque, _ := collect(s, math.Vec3{})
	if len(opaque) != 1 || opaque[0].node != child {
		t.Fatalf("collect = %v, want only child", names(opaque))
	}
	if got := opaque[0].world.Translation(); got != (math.Vec3{X: 10}) {
		t.Errorf("world translation = %v, want parent offset", got)
	}
}

func TestCasters(t *testing.T) {
	a := meshAt("a", 0)
	a.CastShadow = true
	b := meshAt("b", 0)
	got := casters([]item{{node: a}, {node: b}})
	if len(got) != 1 || got[0].node != a {
		t.Errorf("casters = %v, want [a]", names(got))
	}
}

func TestPackLights(t *testing.T) {
	var set lighting.Set
	for i := 0; i < lighting.MaxSpotLights+2; i++ {
		l := &lighting.SpotLight{
			Color:     [3]float32{1, 0, 0},
			Intensity: 2000,
			Angle:     0.3,
			Penumbra:  0.1,
			Decay:     1,
			Position:  math.Vec3{Y: 20},
		}
		if i == 1 {
			l.ConfigureShadow(1080)
		}
		set.AddSpot(l)
	}
	set.AddDirectional(&lighting.DirectionalLight{Color: [3]float32{1, 1, 1}, Intensity: 0.5, Position: math.Vec3{Y: 20}})

	spots, dirs := packLights(&set, shadow.Assign(&set))

	if len(spots) != lighting.MaxSpotLights {
		t.Fatalf("len(spots) = %d, want %d", len(spots), lighting.MaxSpotLights)
	}
	if spots[0].Shadow != -1 || spots[1].Shadow != 0 {
		t.Errorf("shadow indices = %d, %d; want -1, 0", spots[0].Shadow, spots[1].Shadow)
	}
	if spots[0].Direction != (math.Vec3{Y: -1}) {
		t.Errorf("direction = %v, want straight down", spots[0].Direction)
	}
	if spots[0].PenumbraCos <= spots[0].ConeCos {
		t.Errorf("inner cos %v must exceed outer cos %v", spots[0].PenumbraCos, spots[0].ConeCos)
	}
	if len(dirs) != 1 || dirs[0].Direction != (math.Vec3{Y: -1}) || dirs[0].Intensity != 0.5 {
		t.Errorf("dirs = %+v", dirs)
	}
}

func TestInterleaveFillsMissingAttributes(t *testing.T) {
	g := &scene.Geometry{
		Positions: []math.Vec3{{X: 1}, {Y: 1}},
		UVs:       []math.Vec2{{X: 0.5, Y: 0.25}},
	}
	got := interleave(g)
	want := []float32{
		1, 0, 0, 0, 1, 0, 0.5, 0.25,
		0, 1, 0, 0, 1, 0, 0, 0,
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interleave()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
