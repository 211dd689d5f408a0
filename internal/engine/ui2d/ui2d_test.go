package ui2d

import (
	"image"
	"strings"
	"testing"

	"github.com/Faultbox/warehouse-exhibit/internal/engine/input"
)

// recorder is a Canvas that keeps the text it was asked to draw.
type recorder struct {
	*Batch
	texts []string
}

func (r *recorder) DrawText(x, y float32, text string, scale float32, color Color) {
	r.texts = append(r.texts, text)
	r.Batch.DrawText(x, y, text, scale, color)
}

func newRecorder() *recorder {
	return &recorder{Batch: NewBatch(NewFont())}
}

func TestFontAtlas(t *testing.T) {
	f := NewFont()
	w, h := f.GlyphSize()
	if w != 7 || h != 13 {
		t.Fatalf("GlyphSize() = %d, %d; want 7, 13", w, h)
	}

	// The glyph cell for 'A' must contain ink; the one for space must not.
	ink := func(r rune) int {
		u0, v0, u1, v1 := f.GetGlyphUV(r)
		b := f.Atlas().Bounds()
		rect := image.Rect(int(u0*float32(b.Dx())), int(v0*float32(b.Dy())),
			int(u1*float32(b.Dx())), int(v1*float32(b.Dy())))
		n := 0
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				if _, _, _, a := f.Atlas().At(x, y).RGBA(); a > 0 {
					n++
				}
			}
		}
		return n
	}
	if ink('A') == 0 {
		t.Error("glyph 'A' is empty")
	}
	if ink(' ') != 0 {
		t.Error("glyph ' ' has ink")
	}
	if ink('×') == 0 {
		t.Error("close glyph is missing from the atlas")
	}

	a0, b0, _, _ := f.GetGlyphUV('中')
	q0, r0, _, _ := f.GetGlyphUV('?')
	if a0 != q0 || b0 != r0 {
		t.Error("unknown runes should map to '?'")
	}
}

func TestMeasureText(t *testing.T) {
	f := NewFont()
	w, h := f.MeasureText("abc\nde", 2)
	if w != 42 || h != 52 {
		t.Errorf("MeasureText() = %v, %v; want 42, 52", w, h)
	}
}

func TestWrap(t *testing.T) {
	f := NewFont()
	tests := []struct {
		name     string
		text     string
		maxWidth float32
		want     []string
	}{
		{"fits", "pressure gauge", 200, []string{"pressure gauge"}},
		{"breaks on spaces", "the quick brown fox", 70, []string{"the quick", "brown fox"}},
		{"collapses spaces", "  a   b  ", 70, []string{"a b"}},
		{"hard breaks long words", "abcdefghijklm", 35, []string{"abcde", "fghij", "klm"}},
		{"empty", "", 70, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Wrap(tt.text, tt.maxWidth, 1)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Wrap(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestBatchQuads(t *testing.T) {
	b := NewBatch(NewFont())
	b.DrawRect(0, 0, 10, 10, ColorWhite)
	if len(b.Solid) != 6*7 {
		t.Errorf("len(Solid) = %d, want %d", len(b.Solid), 6*7)
	}
	b.DrawText(0, 0, "a b", 1, ColorWhite)
	if len(b.Text) != 2*6*9 {
		t.Errorf("len(Text) = %d, want two glyph quads", len(b.Text))
	}
	b.Reset()
	if len(b.Solid) != 0 || len(b.Text) != 0 {
		t.Error("Reset left vertices behind")
	}
}

func TestModalRect(t *testing.T) {
	r := ModalRect(1000, 800)
	if r.W != 600 || r.X != 200 || r.H != 560 || r.Y != 120 {
		t.Errorf("ModalRect(1000, 800) = %+v", r)
	}
	if r := ModalRect(300, 400); r.W != 300 || r.X != 0 {
		t.Errorf("narrow screen: %+v, want full width", r)
	}
	if r := ModalRect(3000, 1000); r.W != 900 {
		t.Errorf("wide screen: width %v, want 900", r.W)
	}
}

func frame(c *Context, events []input.Event, v ModalView) bool {
	for _, e := range events {
		c.Input().Feed(e)
	}
	c.Begin()
	closed := c.Modal(v)
	c.End()
	return closed
}

func TestModalCloseButton(t *testing.T) {
	c := NewContext(newRecorder(), NewFont(), 1000, 800)
	v := ModalView{Opacity: 1, Blocks: []TextBlock{{Kind: TextHeading, Text: "Pressure"}}}
	btn := CloseRect(ModalRect(1000, 800))
	x, y := int(btn.X+btn.W/2), int(btn.Y+btn.H/2)

	if frame(c, []input.Event{{Type: input.EventMouseDown, Button: input.ButtonLeft, MouseX: x, MouseY: y}}, v) {
		t.Fatal("press alone must not close")
	}
	if !frame(c, []input.Event{{Type: input.EventMouseUp, Button: input.ButtonLeft, MouseX: x, MouseY: y}}, v) {
		t.Fatal("press and release on the button should close")
	}
	if frame(c, nil, v) {
		t.Error("click must not repeat")
	}
}

func TestModalCloseNeedsReleaseOnButton(t *testing.T) {
	c := NewContext(newRecorder(), NewFont(), 1000, 800)
	v := ModalView{Opacity: 1}
	btn := CloseRect(ModalRect(1000, 800))
	x, y := int(btn.X+2), int(btn.Y+2)

	frame(c, []input.Event{{Type: input.EventMouseDown, Button: input.ButtonLeft, MouseX: x, MouseY: y}}, v)
	if frame(c, []input.Event{{Type: input.EventMouseUp, Button: input.ButtonLeft, MouseX: 5, MouseY: 5}}, v) {
		t.Error("release off the button must not close")
	}
}

func TestModalOccupiesPanel(t *testing.T) {
	rec := newRecorder()
	c := NewContext(rec, NewFont(), 1000, 800)
	c.Begin()
	c.Modal(ModalView{Opacity: 0.5, Blocks: []TextBlock{
		{Kind: TextHeading, Text: "Air"},
		{Kind: TextBody, Text: "Body text"},
	}})

	if !c.Occupies(500, 400) {
		t.Error("panel centre should be occupied")
	}
	if c.Occupies(10, 10) {
		t.Error("backdrop outside the panel should not be occupied")
	}
	want := []string{"Air", "Body text", "×"}
	if strings.Join(rec.texts, "|") != strings.Join(want, "|") {
		t.Errorf("drawn text = %q, want %q", rec.texts, want)
	}
	c.End()

	c.Begin()
	c.Modal(ModalView{Opacity: 0})
	if c.Occupies(500, 400) {
		t.Error("a hidden modal occupies nothing")
	}
}

func TestInputFeed(t *testing.T) {
	var in InputState
	in.Feed(input.Event{Type: input.EventMouseMove, MouseX: 3, MouseY: 4})
	in.Feed(input.Event{Type: input.EventKeyDown, Key: input.KeyEscape})
	in.Feed(input.Event{Type: input.EventMouseDown, Button: input.ButtonRight, MouseX: 3, MouseY: 4})
	in.Update()
	if in.MouseX != 3 || in.MouseY != 4 || !in.KeyEscape {
		t.Errorf("state = %+v", in)
	}
	if in.MouseLeftPressed {
		t.Error("right button must not press left")
	}
	in.EndFrame()
	if in.KeyEscape {
		t.Error("EndFrame should clear Escape")
	}
}
