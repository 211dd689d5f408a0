package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Euler holds intrinsic rotation angles in radians, applied in Y-X-Z order:
// yaw about Y, then pitch about X, then roll about Z.
type Euler struct {
	Pitch, Yaw, Roll float32
}

// Quat composes the angles into a quaternion.
func (e Euler) Quat() Quat {
	q := mgl32.AnglesToQuat(e.Yaw, e.Pitch, e.Roll, mgl32.YXZ)
	return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

// EulerFromQuat decomposes q into Y-X-Z angles. Near the pitch singularity
// roll is folded into yaw and reported as zero.
func EulerFromQuat(q Quat) Euler {
	m := q.ToMat4()
	m11, m13 := m[0], m[8]
	m21, m22, m23 := m[1], m[5], m[9]
	m31, m33 := m[2], m[10]

	var e Euler
	e.Pitch = math32.Asin(-clamp(m23, -1, 1))
	if math32.Abs(m23) < 0.9999999 {
		e.Yaw = math32.Atan2(m13, m33)
		e.Roll = math32.Atan2(m21, m22)
	} else {
		e.Yaw = math32.Atan2(-m31, m11)
	}
	return e
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float32) float32 {
	return rad * 180 / math32.Pi
}
