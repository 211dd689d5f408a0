package ui2d

// Text scales relative to the 7x13 bitmap font.
const (
	ScaleBody    float32 = 1.5
	ScaleHeading float32 = 2.5
)

const (
	panelPadding = 24
	lineGap      = 6
)

// Context lays out immediate-mode widgets on a Canvas and tracks which
// screen areas the overlay occupies this frame.
type Context struct {
	canvas Canvas
	font   *Font
	input  *InputState

	width, height float32

	// widget pressed and not yet released
	activeWidget string

	panel   *Rect
	alpha   float32
	cursorX float32
	cursorY float32

	occupied []Rect
}

// NewContext creates a context drawing on canvas with font metrics from font.
func NewContext(canvas Canvas, font *Font, width, height int) *Context {
	return &Context{
		canvas: canvas,
		font:   font,
		input:  &InputState{},
		width:  float32(width),
		height: float32(height),
		alpha:  1,
	}
}

// Resize updates the screen size.
func (c *Context) Resize(width, height int) {
	c.width, c.height = float32(width), float32(height)
}

// GetScreenSize returns the current screen dimensions.
func (c *Context) GetScreenSize() (float32, float32) {
	return c.width, c.height
}

// Input returns the input state for modification.
func (c *Context) Input() *InputState {
	return c.input
}

// Begin starts a new UI frame.
func (c *Context) Begin() {
	c.input.Update()
	c.occupied = c.occupied[:0]
}

// End finishes the UI frame.
func (c *Context) End() {
	if c.input.MouseLeftReleased {
		c.activeWidget = ""
	}
	c.input.EndFrame()
}

// Occupies reports whether a panel drawn this frame covers the point.
func (c *Context) Occupies(x, y float32) bool {
	for _, r := range c.occupied {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

// BeginPanel starts a bordered panel. alpha scales every colour drawn until
// EndPanel.
func (c *Context) BeginPanel(r Rect, alpha float32) {
	c.alpha = alpha
	c.panel = &r
	c.occupied = append(c.occupied, r)
	c.canvas.DrawRect(r.X, r.Y, r.W, r.H, c.fade(ColorPanelBg))
	c.canvas.DrawRectOutline(r.X, r.Y, r.W, r.H, 1, c.fade(ColorPanelBorder))
	c.cursorX = r.X + panelPadding
	c.cursorY = r.Y + panelPadding
}

// EndPanel ends the current panel.
func (c *Context) EndPanel() {
	c.panel = nil
	c.alpha = 1
}

func (c *Context) fade(col Color) Color {
	return col.WithAlpha(col.A * c.alpha)
}

func (c *Context) contentWidth() float32 {
	return c.panel.W - 2*panelPadding
}

// Heading draws a wrapped title line.
func (c *Context) Heading(text string) {
	c.text(text, ScaleHeading, ColorAccent)
}

// Paragraph draws wrapped body text.
func (c *Context) Paragraph(text string) {
	c.text(text, ScaleBody, ColorText)
}

// LabelColored draws wrapped body text in a specific colour.
func (c *Context) LabelColored(text string, color Color) {
	c.text(text, ScaleBody, color)
}

func (c *Context) text(text string, scale float32, color Color) {
	if c.panel == nil {
		return
	}
	_, gh := c.font.GlyphSize()
	lineH := float32(gh) * scale
	for _, line := range c.font.Wrap(text, c.contentWidth(), scale) {
		c.canvas.DrawText(c.cursorX, c.cursorY, line, scale, c.fade(color))
		c.cursorY += lineH
	}
	c.cursorY += lineGap * scale
}

// Spacer advances the layout cursor.
func (c *Context) Spacer(height float32) {
	c.cursorY += height
}

// Separator draws a horizontal rule across the panel.
func (c *Context) Separator() {
	if c.panel == nil {
		return
	}
	c.canvas.DrawRect(c.cursorX, c.cursorY, c.contentWidth(), 1, c.fade(ColorPanelBorder))
	c.cursorY += lineGap * 2
}

// Button draws a button at r and reports whether it was clicked: pressed
// and released while the mouse stayed on it.
func (c *Context) Button(id string, r Rect, label string) bool {
	hovered := r.Contains(c.input.MouseX, c.input.MouseY)
	if hovered && c.input.MouseLeftPressed {
		c.activeWidget = id
	}
	clicked := c.activeWidget == id && hovered && c.input.MouseLeftReleased

	color := ColorButtonNormal
	switch {
	case c.activeWidget == id && hovered:
		color = ColorButtonActive
	case hovered:
		color = ColorButtonHover
	}
	c.canvas.DrawRect(r.X, r.Y, r.W, r.H, c.fade(color))
	c.canvas.DrawRectOutline(r.X, r.Y, r.W, r.H, 1, c.fade(ColorPanelBorder))

	textW, textH := c.canvas.MeasureText(label, ScaleBody)
	c.canvas.DrawText(r.X+(r.W-textW)/2, r.Y+(r.H-textH)/2, label, ScaleBody, c.fade(ColorText))
	return clicked
}

// Rect is a simple rectangle struct.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
