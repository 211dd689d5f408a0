package scene

import (
	"image"

	"github.com/jinzhu/copier"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGB colour with channels in [0,1].
type Color struct {
	R, G, B float32
}

// Common colours.
var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

// ColorFromHex converts a 0xRRGGBB value.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: float32(hex>>16&0xff) / 255,
		G: float32(hex>>8&0xff) / 255,
		B: float32(hex&0xff) / 255,
	}
}

// ColorFrom converts a go-colorful colour.
func ColorFrom(c colorful.Color) Color {
	return Color{float32(c.R), float32(c.G), float32(c.B)}
}

// Array returns the channels in shader-uniform order.
func (c Color) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// Texture is an image sampled by a material. The renderer uploads it on first
// use and caches the GL handle by pointer.
type Texture struct {
	Image image.Image
}

// Material describes a physically based surface. Emissive light is added as
// Emissive * EmissiveIntensity regardless of scene lighting.
type Material struct {
	Name              string
	Color             Color
	Emissive          Color
	EmissiveIntensity float32
	Metalness         float32
	Roughness         float32
	Clearcoat         float32
	Opacity           float32
	DoubleSided       bool
	Map               *Texture
}

// NewMaterial returns a white dielectric with the defaults of a standard
// material.
func NewMaterial() *Material {
	return &Material{
		Color:             White,
		EmissiveIntensity: 1,
		Roughness:         1,
		Opacity:           1,
	}
}

// Clone returns an independent copy. The texture image is shared.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	var c Material
	if err := copier.Copy(&c, m); err != nil {
		c = *m
	}
	return &c
}

// Mesh pairs geometry with a material.
type Mesh struct {
	Geometry *Geometry
	Material *Material
}
