package animate

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

func tree() (*scene.Node, *scene.Node) {
	root := scene.NewNode("root")
	n := scene.NewNode("artifact")
	root.Add(n)
	return root, n
}

func TestEaseTickFactor(t *testing.T) {
	root, n := tree()
	a := New()
	a.SetTargetScale(n, 2)

	a.Ease(root, 0.016)
	assert.InDelta(t, 1.1, n.Scale.X, 1e-6)
	assert.Equal(t, n.Scale.X, n.Scale.Y)
	assert.Equal(t, n.Scale.X, n.Scale.Z)

	a.Ease(root, 0.016)
	assert.InDelta(t, 1.19, n.Scale.X, 1e-6)
}

func TestEaseConvergesWithinSixtyTicks(t *testing.T) {
	root, n := tree()
	a := New()
	a.SetTargetScale(n, 1.9)

	for i := 0; i < 60; i++ {
		a.Ease(root, 0.016)
	}
	assert.InDelta(t, 1.9, n.Scale.X, 1e-2)

	// Remaining distance after k ticks is 0.9 * 0.9^k, under 1e-3 by k = 66.
	for i := 0; i < 6; i++ {
		a.Ease(root, 0.016)
	}
	assert.InDelta(t, 1.9, n.Scale.X, 1e-3)
}

func TestEaseTimeZeroDeltaHolds(t *testing.T) {
	root, n := tree()
	a := New()
	a.Easing = EaseTime
	a.SetTargetScale(n, 1.9)

	a.Ease(root, 0)
	assert.Equal(t, math.Splat(1), n.Scale)

	a.Ease(root, 0.016)
	assert.Greater(t, n.Scale.X, float32(1))
	assert.Less(t, n.Scale.X, float32(1.9))
}

func TestEaseAlwaysMovesCloser(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	root, n := tree()
	a := New()

	for i := 0; i < 500; i++ {
		target := 0.1 + rng.Float32()*3
		a.SetTargetScale(n, target)
		if rng.Intn(3) == 0 {
			n.SetScalar(0.1 + rng.Float32()*3)
		}

		before := n.Scale.MaxAbsDistance(math.Splat(target))
		a.Ease(root, 0.016)
		after := n.Scale.MaxAbsDistance(math.Splat(target))

		if before < SnapEpsilon {
			continue
		}
		require.Less(t, after, before, "iteration %d: scale must approach its target", i)
	}
}

func TestEaseTimeMode(t *testing.T) {
	root, n := tree()
	a := New()
	a.Easing = EaseTime
	a.Rate = 6
	a.SetTargetScale(n, 2)

	a.Ease(root, 0.5)
	want := 1 + (1-math32.Exp(-3))*1
	assert.InDelta(t, want, n.Scale.X, 1e-5)

	// Two half steps land where one full step does.
	other, m := tree()
	b := New()
	b.Easing = EaseTime
	b.SetTargetScale(m, 2)
	b.Ease(other, 0.25)
	b.Ease(other, 0.25)
	assert.InDelta(t, n.Scale.X, m.Scale.X, 1e-5)
}

func TestEaseSnapsWithinEpsilon(t *testing.T) {
	root, n := tree()
	a := New()
	n.SetScalar(1.5 + 5e-7)
	a.SetTargetScale(n, 1.5)

	a.Ease(root, 0.016)
	assert.Equal(t, math.Splat(1.5), n.Scale)
}

func TestEaseIgnoresDetachedNodes(t *testing.T) {
	root, _ := tree()
	loose := scene.NewNode("loose")
	a := New()
	a.SetTargetScale(loose, 3)

	a.Ease(root, 0.016)
	assert.Equal(t, math.Splat(1), loose.Scale)
}

func TestRotateYawPerTick(t *testing.T) {
	root, n := tree()
	a := New()
	a.SetRotation(n, math.Vec3{Y: 1}, 0.01)

	const ticks = 250
	for i := 0; i < ticks; i++ {
		a.Rotate(root)
	}

	want := math.QuatFromAxisAngle(math.Vec3{Y: 1}, 0.01*ticks)
	assert.True(t, n.Rotation.ApproxEqual(want, 1e-4), "got %+v want %+v", n.Rotation, want)
}

func TestRotateNormalisesAxis(t *testing.T) {
	root, n := tree()
	a := New()
	a.SetRotation(n, math.Vec3{Y: 0.3}, 0.01)

	axis, speed, ok := a.Rotation(n)
	require.True(t, ok)
	assert.InDelta(t, 1, axis.Y, 1e-6)
	assert.Equal(t, float32(0.01), speed)

	for i := 0; i < 100; i++ {
		a.Rotate(root)
	}
	want := math.QuatFromAxisAngle(math.Vec3{Y: 1}, 1)
	assert.True(t, n.Rotation.ApproxEqual(want, 1e-4))
}

func TestZeroAxisClearsRotation(t *testing.T) {
	_, n := tree()
	a := New()
	a.SetRotation(n, math.Vec3{X: 1}, 0.01)
	a.SetRotation(n, math.Vec3{}, 0.01)

	_, _, ok := a.Rotation(n)
	assert.False(t, ok)
}

func TestForget(t *testing.T) {
	root, n := tree()
	a := New()
	a.SetTargetScale(n, 2)
	a.SetRotation(n, math.Vec3{Y: 1}, 0.1)
	a.Forget(n)

	a.Rotate(root)
	a.Ease(root, 0.016)
	assert.Equal(t, math.Splat(1), n.Scale)
	assert.Equal(t, math.QuatIdentity(), n.Rotation)

	_, ok := a.TargetScale(n)
	assert.False(t, ok)
}
