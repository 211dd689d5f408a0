// Package ui2d draws the exhibit's 2D overlay: solid quads and bitmap text in
// window pixel coordinates, on top of the composed 3D frame.
package ui2d

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/shader"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// Canvas is what the layout code draws on. Renderer implements it with GL;
// tests record the calls.
type Canvas interface {
	DrawRect(x, y, width, height float32, color Color)
	DrawRectOutline(x, y, width, height, thickness float32, color Color)
	DrawText(x, y float32, text string, scale float32, color Color)
	MeasureText(text string, scale float32) (float32, float32)
}

// Batch accumulates quads for one frame.
type Batch struct {
	font  *Font
	Solid []float32 // x, y, z, r, g, b, a
	Text  []float32 // x, y, z, u, v, r, g, b, a
}

// NewBatch creates an empty batch that lays text out with font.
func NewBatch(font *Font) *Batch {
	return &Batch{
		font:  font,
		Solid: make([]float32, 0, 4096),
		Text:  make([]float32, 0, 4096),
	}
}

// Font returns the font text is laid out with.
func (b *Batch) Font() *Font {
	return b.font
}

// Reset empties the batch.
func (b *Batch) Reset() {
	b.Solid = b.Solid[:0]
	b.Text = b.Text[:0]
}

// DrawRect draws a filled rectangle.
func (b *Batch) DrawRect(x, y, width, height float32, color Color) {
	b.addQuad(x, y, width, height, color)
}

// DrawRectOutline draws a rectangle outline.
func (b *Batch) DrawRectOutline(x, y, width, height, thickness float32, color Color) {
	b.addQuad(x, y, width, thickness, color)
	b.addQuad(x, y+height-thickness, width, thickness, color)
	b.addQuad(x, y+thickness, thickness, height-thickness*2, color)
	b.addQuad(x+width-thickness, y+thickness, thickness, height-thickness*2, color)
}

// DrawPanel draws a panel with border.
func (b *Batch) DrawPanel(x, y, width, height float32, bg, border Color) {
	b.DrawRect(x, y, width, height, bg)
	b.DrawRectOutline(x, y, width, height, 1, border)
}

// DrawText draws text with its top-left corner at x, y.
func (b *Batch) DrawText(x, y float32, text string, scale float32, color Color) {
	gw, gh := b.font.GlyphSize()
	charW := float32(gw) * scale
	charH := float32(gh) * scale

	curX := x
	for _, char := range text {
		if char == '\n' {
			curX = x
			y += charH
			continue
		}
		if char != ' ' {
			u0, v0, u1, v1 := b.font.GetGlyphUV(char)
			b.addTexturedQuad(curX, y, charW, charH, u0, v0, u1, v1, color)
		}
		curX += charW
	}
}

// MeasureText returns the width and height of rendered text.
func (b *Batch) MeasureText(text string, scale float32) (float32, float32) {
	return b.font.MeasureText(text, scale)
}

func (b *Batch) addQuad(x, y, w, h float32, c Color) {
	b.Solid = append(b.Solid,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,

		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,
		x, y+h, 0, c.R, c.G, c.B, c.A,
	)
}

func (b *Batch) addTexturedQuad(x, y, w, h float32, u0, v0, u1, v1 float32, c Color) {
	b.Text = append(b.Text,
		x, y, 0, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y, 0, u1, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, u1, v1, c.R, c.G, c.B, c.A,

		x, y, 0, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, u1, v1, c.R, c.G, c.B, c.A,
		x, y+h, 0, u0, v1, c.R, c.G, c.B, c.A,
	)
}

// Renderer flushes a Batch with OpenGL.
type Renderer struct {
	*Batch

	screenWidth  int
	screenHeight int
	viewWidth    int
	viewHeight   int

	solid *shader.Program
	text  *shader.Program

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32
}

// New creates a new 2D renderer. A GL context must be current.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		Batch:        NewBatch(NewFont()),
		screenWidth:  width,
		screenHeight: height,
	}

	var err error
	if r.solid, err = shader.NewProgram(shader.Preprocess(solidVertSrc, nil), shader.Preprocess(solidFragSrc, nil)); err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	if r.text, err = shader.NewProgram(shader.Preprocess(textVertSrc, nil), shader.Preprocess(textFragSrc, nil)); err != nil {
		r.solid.Delete()
		return nil, fmt.Errorf("create text shader: %w", err)
	}

	r.solidVAO, r.solidVBO = vertexArray(3, 4)
	r.textVAO, r.textVBO = vertexArray(3, 2, 4)
	return r, nil
}

// vertexArray creates a VAO whose attributes have the given float counts,
// interleaved in one VBO.
func vertexArray(sizes ...int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	var stride int32
	for _, s := range sizes {
		stride += s * 4
	}
	offset := 0
	for i, s := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), s, gl.FLOAT, false, stride, uintptr(offset))
		gl.EnableVertexAttribArray(uint32(i))
		offset += int(s) * 4
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

// Resize updates the screen dimensions in window pixels.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// SetViewport sets the framebuffer size in pixels. It differs from the
// screen size on high-DPI displays; zero means the screen size.
func (r *Renderer) SetViewport(width, height int) {
	r.viewWidth = width
	r.viewHeight = height
}

// GetScreenSize returns the current screen dimensions.
func (r *Renderer) GetScreenSize() (int, int) {
	return r.screenWidth, r.screenHeight
}

// Begin starts a new UI frame.
func (r *Renderer) Begin() {
	r.Reset()
}

// End draws everything queued since Begin.
func (r *Renderer) End() {
	if len(r.Solid) == 0 && len(r.Text) == 0 {
		return
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	vw, vh := r.viewWidth, r.viewHeight
	if vw <= 0 || vh <= 0 {
		vw, vh = r.screenWidth, r.screenHeight
	}
	gl.Viewport(0, 0, int32(vw), int32(vh))
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := math.Ortho(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)

	if len(r.Solid) > 0 {
		r.solid.Use()
		r.solid.SetMat4("uProjection", proj)
		gl.BindVertexArray(r.solidVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.solidVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(r.Solid)*4, unsafe.Pointer(&r.Solid[0]), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.Solid)/7))
	}

	// text on top
	if len(r.Text) > 0 {
		r.text.Use()
		r.text.SetMat4("uProjection", proj)
		r.text.SetInt("uTexture", 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.font.TextureID())
		gl.BindVertexArray(r.textVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.textVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(r.Text)*4, unsafe.Pointer(&r.Text[0]), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.Text)/9))
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	r.font.Close()
	gl.DeleteVertexArrays(1, &r.solidVAO)
	gl.DeleteBuffers(1, &r.solidVBO)
	gl.DeleteVertexArrays(1, &r.textVAO)
	gl.DeleteBuffers(1, &r.textVBO)
	r.solid.Delete()
	r.text.Delete()
}

const solidVertSrc = `
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 1.0);
    vColor = aColor;
}
`

const solidFragSrc = `
in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vColor;
}
`

const textVertSrc = `
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vTexCoord;
out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 1.0);
    vTexCoord = aTexCoord;
    vColor = aColor;
}
`

const textFragSrc = `
uniform sampler2D uTexture;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
    float alpha = texture(uTexture, vTexCoord).a;
    FragColor = vec4(vColor.rgb, vColor.a * alpha);
}
`
