package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// Geometry is an indexed triangle list in local space.
type Geometry struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	UVs       []math.Vec2
	Indices   []uint32

	bounded  bool
	min, max math.Vec3
}

// Bounds returns the local-space bounding box, computed on first call.
func (g *Geometry) Bounds() (min, max math.Vec3) {
	if !g.bounded {
		g.computeBounds()
	}
	return g.min, g.max
}

// InvalidateBounds forces Bounds to recompute after positions change.
func (g *Geometry) InvalidateBounds() {
	g.bounded = false
}

func (g *Geometry) computeBounds() {
	g.bounded = true
	if len(g.Positions) == 0 {
		g.min, g.max = math.Vec3{}, math.Vec3{}
		return
	}
	g.min, g.max = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		g.min = g.min.Min(p)
		g.max = g.max.Max(p)
	}
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	if len(g.Indices) > 0 {
		return len(g.Indices) / 3
	}
	return len(g.Positions) / 3
}

// Triangle returns the corners of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c math.Vec3) {
	if len(g.Indices) > 0 {
		return g.Positions[g.Indices[i*3]], g.Positions[g.Indices[i*3+1]], g.Positions[g.Indices[i*3+2]]
	}
	return g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2]
}

// ComputeNormals fills Normals with area-weighted vertex normals.
func (g *Geometry) ComputeNormals() {
	g.Normals = make([]math.Vec3, len(g.Positions))
	for i := 0; i < g.TriangleCount(); i++ {
		ia, ib, ic := uint32(i*3), uint32(i*3+1), uint32(i*3+2)
		if len(g.Indices) > 0 {
			ia, ib, ic = g.Indices[i*3], g.Indices[i*3+1], g.Indices[i*3+2]
		}
		a, b, c := g.Positions[ia], g.Positions[ib], g.Positions[ic]
		n := b.Sub(a).Cross(c.Sub(a))
		g.Normals[ia] = g.Normals[ia].Add(n)
		g.Normals[ib] = g.Normals[ib].Add(n)
		g.Normals[ic] = g.Normals[ic].Add(n)
	}
	for i := range g.Normals {
		g.Normals[i] = g.Normals[i].Normalize()
	}
}

// NewSphere builds a UV sphere centred on the origin.
func NewSphere(radius float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	g := &Geometry{}
	for y := 0; y <= heightSegments; y++ {
		v := float32(y) / float32(heightSegments)
		theta := v * math32.Pi
		sinT, cosT := math32.Sincos(theta)
		for x := 0; x <= widthSegments; x++ {
			u := float32(x) / float32(widthSegments)
			phi := u * 2 * math32.Pi
			sinP, cosP := math32.Sincos(phi)
			n := math.Vec3{X: -cosP * sinT, Y: cosT, Z: sinP * sinT}
			g.Positions = append(g.Positions, n.Scale(radius))
			g.Normals = append(g.Normals, n)
			g.UVs = append(g.UVs, math.Vec2{X: u, Y: 1 - v})
		}
	}

	row := uint32(widthSegments + 1)
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < widthSegments; x++ {
			a := uint32(y)*row + uint32(x) + 1
			b := uint32(y)*row + uint32(x)
			c := uint32(y+1)*row + uint32(x)
			d := uint32(y+1)*row + uint32(x) + 1
			if y != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if y != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}
	return g
}

// NewBox builds an axis-aligned box centred on the origin.
func NewBox(width, height, depth float32) *Geometry {
	hx, hy, hz := width/2, height/2, depth/2
	faces := []struct {
		n    math.Vec3
		u, v math.Vec3
	}{
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
	}
	half := math.Vec3{X: hx, Y: hy, Z: hz}

	g := &Geometry{}
	for _, f := range faces {
		base := uint32(len(g.Positions))
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := f.n.Add(f.u.Scale(c[0])).Add(f.v.Scale(c[1])).Mul(half)
			g.Positions = append(g.Positions, p)
			g.Normals = append(g.Normals, f.n)
			g.UVs = append(g.UVs, math.Vec2{X: (c[0] + 1) / 2, Y: (c[1] + 1) / 2})
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}
