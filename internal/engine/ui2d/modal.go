package ui2d

// TextKind styles a block of modal text.
type TextKind int

const (
	TextBody TextKind = iota
	TextHeading
	TextCaption
)

// TextBlock is one run of modal text.
type TextBlock struct {
	Kind TextKind
	Text string
}

// ModalView is what the overlay shows: its text and the current fade.
type ModalView struct {
	Blocks  []TextBlock
	Opacity float32
}

const closeButtonSize = 36

// ModalRect centres the modal panel: 60% of the width, clamped to
// [320, 900] pixels and to the screen, and 70% of the height.
func ModalRect(width, height float32) Rect {
	w := min(max(width*0.6, 320), 900, width)
	h := height * 0.7
	return Rect{X: (width - w) / 2, Y: (height - h) / 2, W: w, H: h}
}

// CloseRect is the close button in the panel's top-right corner.
func CloseRect(panel Rect) Rect {
	return Rect{
		X: panel.X + panel.W - closeButtonSize - 8,
		Y: panel.Y + 8,
		W: closeButtonSize,
		H: closeButtonSize,
	}
}

// Modal draws the backdrop and panel for v and reports whether the close
// button was clicked. Nothing is drawn at zero opacity.
func (c *Context) Modal(v ModalView) (closed bool) {
	if v.Opacity <= 0 {
		return false
	}
	c.canvas.DrawRect(0, 0, c.width, c.height, ColorBackdrop.WithAlpha(ColorBackdrop.A*v.Opacity))

	panel := ModalRect(c.width, c.height)
	c.BeginPanel(panel, v.Opacity)
	c.Spacer(closeButtonSize / 2)
	for _, b := range v.Blocks {
		switch b.Kind {
		case TextHeading:
			c.Heading(b.Text)
		case TextCaption:
			c.LabelColored(b.Text, ColorTextDim)
		default:
			c.Paragraph(b.Text)
		}
	}
	closed = c.Button("modal-close", CloseRect(panel), "×")
	c.EndPanel()
	return closed
}
