package ui2d

import (
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// glyph ranges baked into the atlas: printable ASCII and Latin-1, which
// carries the close button's multiplication sign.
var atlasRanges = [][2]rune{
	{0x20, 0x7f},
	{0xa0, 0x100},
}

const atlasColumns = 32

// Font is a fixed-width bitmap font baked from basicfont.Face7x13 into a
// white-on-transparent RGBA atlas.
type Font struct {
	face    *basicfont.Face
	atlas   *image.RGBA
	cells   map[rune]int
	glyphW  int
	glyphH  int
	texture uint32
}

// NewFont bakes the atlas. The GL texture is created on first use.
func NewFont() *Font {
	face := basicfont.Face7x13
	f := &Font{
		face:   face,
		cells:  make(map[rune]int),
		glyphW: face.Advance,
		glyphH: face.Height,
	}

	var runes []rune
	for _, r := range atlasRanges {
		for c := r[0]; c < r[1]; c++ {
			runes = append(runes, c)
		}
	}
	rows := (len(runes) + atlasColumns - 1) / atlasColumns
	f.atlas = image.NewRGBA(image.Rect(0, 0, atlasColumns*f.glyphW, rows*f.glyphH))

	d := font.Drawer{Dst: f.atlas, Src: image.White, Face: face}
	for i, c := range runes {
		f.cells[c] = i
		x := (i % atlasColumns) * f.glyphW
		y := (i / atlasColumns) * f.glyphH
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(c))
	}
	return f
}

// GlyphSize returns the cell size in pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.glyphW, f.glyphH
}

// Atlas returns the baked glyph image.
func (f *Font) Atlas() image.Image {
	return f.atlas
}

// GetGlyphUV returns the atlas coordinates of r. Runes outside the atlas map
// to '?'.
func (f *Font) GetGlyphUV(r rune) (u0, v0, u1, v1 float32) {
	i, ok := f.cells[r]
	if !ok {
		i = f.cells['?']
	}
	b := f.atlas.Bounds()
	x := (i % atlasColumns) * f.glyphW
	y := (i / atlasColumns) * f.glyphH
	u0 = float32(x) / float32(b.Dx())
	v0 = float32(y) / float32(b.Dy())
	u1 = float32(x+f.glyphW) / float32(b.Dx())
	v1 = float32(y+f.glyphH) / float32(b.Dy())
	return u0, v0, u1, v1
}

// MeasureText returns the size of text at scale. Lines are split on '\n'.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	lines := strings.Split(text, "\n")
	widest := 0
	for _, l := range lines {
		widest = max(widest, len([]rune(l)))
	}
	return float32(widest*f.glyphW) * scale, float32(len(lines)*f.glyphH) * scale
}

// Wrap breaks text into lines no wider than maxWidth at scale, splitting on
// spaces. A single word longer than the line is hard-broken.
func (f *Font) Wrap(text string, maxWidth, scale float32) []string {
	perLine := int(maxWidth / (float32(f.glyphW) * scale))
	if perLine < 1 {
		perLine = 1
	}

	var lines []string
	var cur []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > perLine {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = cur[:0]
			}
			lines = append(lines, string(w[:perLine]))
			w = w[perLine:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= perLine:
			cur = append(cur, ' ')
			cur = append(cur, w...)
		default:
			lines = append(lines, string(cur))
			cur = append(cur[:0], w...)
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

// TextureID uploads the atlas on first call and returns the texture.
func (f *Font) TextureID() uint32 {
	if f.texture != 0 {
		return f.texture
	}
	b := f.atlas.Bounds()
	gl.GenTextures(1, &f.texture)
	gl.BindTexture(gl.TEXTURE_2D, f.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(f.atlas.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return f.texture
}

// Close deletes the texture.
func (f *Font) Close() {
	if f.texture != 0 {
		gl.DeleteTextures(1, &f.texture)
		f.texture = 0
	}
}
