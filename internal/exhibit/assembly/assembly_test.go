package assembly

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/warehouse-exhibit/internal/config"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/camera"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/loop"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/animate"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/interact"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit/pointer"
	"github.com/Faultbox/warehouse-exhibit/internal/logger"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

var errMissing = errors.New("404")

// library serves a small group per URL and counts loads.
type library struct {
	loads atomic.Int32
}

func (l *library) load(_ context.Context, url string) (*scene.Node, error) {
	l.loads.Add(1)
	if url == "/missing.gltf" {
		return nil, errMissing
	}
	root := scene.NewNode(url)
	mat := scene.NewMaterial()
	mat.Color = scene.ColorFromHex(0x808080)
	root.Add(scene.NewMeshNode("body", scene.NewBox(2, 2, 2), mat))
	return root, nil
}

type fixture struct {
	scene    *scene.Scene
	anim     *animate.Animator
	registry *interact.Registry
	loop     *loop.Loop
	lib      *library
	asm      *Assembly
}

func newFixture() *fixture {
	f := &fixture{
		scene: scene.New(),
		anim:  animate.New(),
		loop:  loop.New(),
		lib:   &library{},
	}
	f.registry = interact.NewRegistry(f.anim, nil)
	f.asm = New(f.scene, f.anim, f.registry, f.lib.load, f.loop)
	return f
}

func (f *fixture) run(artifacts ...config.ArtifactConfig) {
	f.asm.Start(context.Background(), artifacts)
	f.asm.Wait()
	f.loop.RunFrame()
}

func artifact(name, url string) config.ArtifactConfig {
	a := config.DefaultArtifact()
	a.Name = name
	a.URL = url
	a.ModalID = "text-1"
	return a
}

func TestAttachPlacement(t *testing.T) {
	f := newFixture()
	a := artifact("pressure", "./assets/pressure.gltf")
	a.Position = [3]float32{10, 20, -80}
	a.Rotation = [3]float32{0, math32.Pi / 2, 0}
	a.Interactive = false
	a.Scale = 2
	a.Shadows = true

	f.run(a)

	require.Len(t, f.scene.Children(), 1)
	n := f.scene.Children()[0]
	assert.Equal(t, "pressure", n.Name)
	assert.Equal(t, math.Vec3{X: 10, Y: 20, Z: -80}, n.Position)
	assert.Equal(t, math.Splat(2), n.Scale)
	assert.InDelta(t, -1, n.Rotation.Rotate(math.Vec3{X: 1}).Z, 1e-5)

	body := n.Find("body")
	require.NotNil(t, body)
	assert.True(t, body.CastShadow)
	assert.True(t, body.ReceiveShadow)
	assert.Equal(t, 1, f.asm.Attached())
}

func TestInteractiveOverridesScale(t *testing.T) {
	f := newFixture()
	a := artifact("air", "./assets/air.gltf")
	a.Scale = 2.8
	a.Scales = [3]float32{2.8, 3.2, 3.5}

	f.run(a)

	n := f.scene.Children()[0]
	rec, ok := f.registry.Lookup(n)
	require.True(t, ok)
	assert.Equal(t, float32(3.2), rec.HoverScale)
	target, _ := f.anim.TargetScale(n)
	assert.Equal(t, float32(2.8), target)
	assert.Equal(t, math.Splat(2.8), n.Scale)
}

func TestClonesPerArtifact(t *testing.T) {
	f := newFixture()
	a := artifact("left", "./assets/shared.gltf")
	b := artifact("right", "./assets/shared.gltf")
	mirror := &config.MaterialConfig{Mode: config.MaterialReplace, Color: config.MustHex("#ffffff"), Metalness: 1, Roughness: 0.2}
	a.Material = mirror

	f.run(a, b)

	require.Len(t, f.scene.Children(), 2)
	left := f.scene.Root.Find("left").Find("body")
	right := f.scene.Root.Find("right").Find("body")
	require.NotNil(t, left)
	require.NotNil(t, right)
	assert.NotSame(t, left, right)
	assert.NotSame(t, left.Mesh.Material, right.Mesh.Material)
	assert.Equal(t, float32(1), left.Mesh.Material.Metalness)
	assert.Equal(t, scene.ColorFromHex(0x808080), right.Mesh.Material.Color, "override must not leak")
}

func TestTintKeepsImportedMaterial(t *testing.T) {
	f := newFixture()
	a := artifact("warehouse", "./assets/warehouse.gltf")
	a.Interactive = false
	a.Material = &config.MaterialConfig{Mode: config.MaterialTint, Color: config.MustHex("#454545")}

	f.run(a)

	mat := f.scene.Root.Find("warehouse").Find("body").Mesh.Material
	assert.Equal(t, scene.ColorFromHex(0x454545), mat.Color)
	assert.Equal(t, float32(1), mat.Roughness, "other fields come from the import")
}

func TestRotationRegistered(t *testing.T) {
	f := newFixture()
	a := artifact("hands", "./assets/hands.gltf")
	a.RotationAxis = &[3]float32{0, 0.5, 0}

	f.run(a)

	axis, speed, ok := f.anim.Rotation(f.scene.Children()[0])
	require.True(t, ok)
	assert.Equal(t, math.Vec3{Y: 1}, axis)
	assert.Equal(t, float32(0.01), speed)
}

func TestDarkroomSphere(t *testing.T) {
	f := newFixture()
	d := config.Default().Artifacts[6]
	require.Equal(t, "darkroom", d.Name)

	f.run(d)

	n := f.scene.Root.Find("darkroom")
	require.NotNil(t, n)
	require.True(t, n.IsMesh())
	lo, hi := n.Mesh.Geometry.Bounds()
	assert.InDelta(t, 15, hi.Y, 1e-4)
	assert.InDelta(t, -15, lo.Y, 1e-4)
	assert.Equal(t, scene.Black, n.Mesh.Material.Color)

	f.registry.HoverEnter(n)
	assert.Equal(t, scene.Color{R: 1}, n.Mesh.Material.Emissive)
	assert.Equal(t, float32(1.5), n.Mesh.Material.EmissiveIntensity)
	f.registry.HoverExit(n)
	assert.Equal(t, scene.Black, n.Mesh.Material.Emissive)
	assert.Equal(t, float32(0), n.Mesh.Material.EmissiveIntensity)
	assert.Zero(t, f.lib.loads.Load(), "shapes need no asset")
}

func TestLoadFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	defer logger.Replace(zap.New(core))()

	f := newFixture()
	f.run(artifact("pressure", "./assets/pressure.gltf"))
	before := f.scene.Children()

	f.run(artifact("ghost", "/missing.gltf"))

	assert.Equal(t, before, f.scene.Children(), "failed artifact must not be attached")
	assert.Equal(t, 1, f.asm.Failed())
	require.Equal(t, 1, logs.FilterMessage("model load failed").Len())
	entry := logs.FilterMessage("model load failed").All()[0]
	assert.Equal(t, "/missing.gltf", entry.ContextMap()["url"])

	cam := camera.NewPerspective(40, 1, 0.1, 1000)
	cam.Position = math.Vec3{Z: 50}
	p := pointer.New(f.scene, cam, pointer.Rect{Width: 100, Height: 100}, pointer.Handlers{
		OnClick:      f.registry.Click,
		OnHoverEnter: f.registry.HoverEnter,
		OnHoverExit:  f.registry.HoverExit,
	})
	assert.NotPanics(t, func() {
		p.Move(50, 50)
		p.Click(50, 50)
		p.Move(0, 0)
		f.anim.Rotate(f.scene.Root)
		f.anim.Ease(f.scene.Root, 1.0/60)
	})
}

func TestUnknownShape(t *testing.T) {
	f := newFixture()
	a := artifact("cube", "")
	a.Shape = "cube"
	f.run(a)
	assert.Empty(t, f.scene.Children())
	assert.Equal(t, 1, f.asm.Failed())
}

func TestConcurrencyLimit(t *testing.T) {
	f := newFixture()
	f.asm.Concurrency = 1
	f.run(
		artifact("a", "./a.gltf"),
		artifact("b", "./b.gltf"),
		artifact("c", "./c.gltf"),
	)
	assert.Len(t, f.scene.Children(), 3)
	assert.Equal(t, int32(3), f.lib.loads.Load())
}

func TestOnAttach(t *testing.T) {
	f := newFixture()
	var names []string
	f.asm.OnAttach = func(cfg config.ArtifactConfig, n *scene.Node) {
		names = append(names, cfg.Name)
	}
	f.run(artifact("hands", "./hands.gltf"))
	assert.Equal(t, []string{"hands"}, names)
}
