// Package pointer tracks the cursor over the viewport, raycasts the scene on
// every pointer event and reports hover and click transitions.
package pointer

import (
	"github.com/Faultbox/warehouse-exhibit/internal/engine/input"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/picking"
	"github.com/Faultbox/warehouse-exhibit/internal/engine/scene"
	"github.com/Faultbox/warehouse-exhibit/pkg/math"
)

// Handlers receive pointer transitions. Nil fields are skipped.
type Handlers struct {
	OnClick      func(n *scene.Node)
	OnHoverEnter func(n *scene.Node)
	OnHoverExit  func(n *scene.Node)
}

// Rect is the viewport area in window pixels.
type Rect struct {
	Left, Top, Width, Height float32
}

// Contains reports whether the pixel lies inside the rect.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Top && y < r.Top+r.Height
}

// NDC converts a pixel to normalised device coordinates relative to the rect.
func (r Rect) NDC(x, y float32) math.Vec2 {
	return math.Vec2{
		X: 2*(x-r.Left)/r.Width - 1,
		Y: -2*(y-r.Top)/r.Height + 1,
	}
}

// Service is a pointer tracker bound to one scene and camera.
type Service struct {
	scene    *scene.Scene
	camera   picking.Projector
	rect     Rect
	handlers Handlers

	raycaster *picking.Raycaster
	ndc       math.Vec2
	hovered   []*scene.Node
	pressed   bool
	disposed  bool
}

// New creates a pointer service. Call Dispose to detach it.
func New(s *scene.Scene, cam picking.Projector, rect Rect, h Handlers) *Service {
	return &Service{
		scene:     s,
		camera:    cam,
		rect:      rect,
		handlers:  h,
		raycaster: picking.NewRaycaster(),
	}
}

// SetRect updates the viewport area after a resize.
func (p *Service) SetRect(r Rect) {
	p.rect = r
}

// NDC returns the cursor position from the last accepted event.
func (p *Service) NDC() math.Vec2 {
	return p.ndc
}

// Hovered returns the nodes currently under the cursor, in the order they
// entered.
func (p *Service) Hovered() []*scene.Node {
	return append([]*scene.Node(nil), p.hovered...)
}

// Dispose stops event handling. Nodes still hovered receive OnHoverExit.
func (p *Service) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.pressed = false
	hovered := p.hovered
	p.hovered = nil
	for _, n := range hovered {
		if p.handlers.OnHoverExit != nil {
			p.handlers.OnHoverExit(n)
		}
	}
}

// CancelPress forgets a pending left press, so the next release is not a
// click. Called when a button event lands outside the pointer's reach.
func (p *Service) CancelPress() {
	p.pressed = false
}

// HandleEvent routes mouse events. A click is a left-button release that
// follows a left-button press inside the viewport.
func (p *Service) HandleEvent(e input.Event) {
	x, y := float32(e.MouseX), float32(e.MouseY)
	switch e.Type {
	case input.EventMouseMove:
		p.Move(x, y)
	case input.EventMouseDown:
		if e.Button == input.ButtonLeft && p.rect.Contains(x, y) {
			p.pressed = true
		}
	case input.EventMouseUp:
		if e.Button != input.ButtonLeft {
			return
		}
		if p.pressed {
			p.pressed = false
			p.Click(x, y)
		}
	case input.EventWindowResize:
		p.SetRect(Rect{Width: float32(e.Width), Height: float32(e.Height)})
	}
}

// Move updates the hover set for a cursor at pixel (x, y): nodes no longer
// hit exit first, then newly hit nodes enter in distance order.
func (p *Service) Move(x, y float32) {
	hits, ok := p.cast(x, y)
	if !ok {
		return
	}

	current := make(map[scene.NodeID]*scene.Node, len(hits))
	for _, h := range hits {
		current[h.Object.ID] = h.Object
	}

	kept := p.hovered[:0]
	var exited []*scene.Node
	for _, n := range p.hovered {
		if _, still := current[n.ID]; still {
			kept = append(kept, n)
		} else {
			exited = append(exited, n)
		}
	}
	p.hovered = kept
	for _, n := range exited {
		if p.handlers.OnHoverExit != nil {
			p.handlers.OnHoverExit(n)
		}
	}

	for _, h := range hits {
		if p.isHovered(h.Object.ID) {
			continue
		}
		p.hovered = append(p.hovered, h.Object)
		if p.handlers.OnHoverEnter != nil {
			p.handlers.OnHoverEnter(h.Object)
		}
	}
}

// Click reports the nearest node under pixel (x, y).
func (p *Service) Click(x, y float32) {
	hits, ok := p.cast(x, y)
	if !ok || len(hits) == 0 {
		return
	}
	if p.handlers.OnClick != nil {
		p.handlers.OnClick(hits[0].Object)
	}
}

func (p *Service) cast(x, y float32) ([]picking.Intersection, bool) {
	if p.disposed || p.rect.Width <= 0 || p.rect.Height <= 0 || !p.rect.Contains(x, y) {
		return nil, false
	}
	p.ndc = p.rect.NDC(x, y)
	p.raycaster.SetFromCamera(p.ndc, p.camera)
	return p.raycaster.IntersectObjects(p.scene.Children(), true), true
}

func (p *Service) isHovered(id scene.NodeID) bool {
	for _, n := range p.hovered {
		if n.ID == id {
			return true
		}
	}
	return false
}
