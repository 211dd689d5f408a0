package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Decompose splits an affine transform into translation, rotation and scale.
// Shear is discarded. A negative determinant flips the X scale.
func (m Mat4) Decompose() (position Vec3, rotation Quat, scale Vec3) {
	position = m.Translation()
	scale = Vec3{
		X: Vec3{X: m[0], Y: m[1], Z: m[2]}.Length(),
		Y: Vec3{X: m[4], Y: m[5], Z: m[6]}.Length(),
		Z: Vec3{X: m[8], Y: m[9], Z: m[10]}.Length(),
	}
	if mgl32.Mat4(m).Mat3().Det() < 0 {
		scale.X = -scale.X
	}

	r := mgl32.Ident4()
	for col, s := range [3]float32{scale.X, scale.Y, scale.Z} {
		if math32.Abs(s) < 1e-12 {
			continue
		}
		for row := 0; row < 3; row++ {
			r[col*4+row] = m[col*4+row] / s
		}
	}
	q := mgl32.Mat4ToQuat(r).Normalize()
	rotation = Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
	return position, rotation, scale
}
