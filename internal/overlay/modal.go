package overlay

import (
	"fmt"
	"strings"
	"time"
)

// Element ids and class names the modal view relies on.
const (
	ModalID        = "modal"
	ModalContentID = "modal-content"
	ModalCloseID   = "modal-close"
	ClassShow      = "show"
)

// Modal is the view state of the overlay element: its display mode, class
// list and aria-hidden attribute live on the document node, and an opacity
// fades toward 1 while the show class is present.
type Modal struct {
	el      *Element
	content *Element

	// Duration is the length of a full opacity fade.
	Duration time.Duration

	opacity   float32
	listeners []func()
}

// Modal binds the document's #modal and #modal-content elements.
func (d *Document) Modal() (*Modal, error) {
	el, err := d.ByID(ModalID)
	if err != nil {
		return nil, err
	}
	content, err := d.ByID(ModalContentID)
	if err != nil {
		return nil, err
	}
	return &Modal{
		el:       el,
		content:  content,
		Duration: 300 * time.Millisecond,
	}, nil
}

// Element returns the overlay element.
func (m *Modal) Element() *Element {
	return m.el
}

// Content returns the element templates are copied into.
func (m *Modal) Content() *Element {
	return m.content
}

// SetContent replaces the content element's children with el.
func (m *Modal) SetContent(el *Element) {
	m.content.sel.Empty()
	m.content.sel.AppendSelection(el.sel)
}

// Display returns the element's CSS display value, "none" when unset.
func (m *Modal) Display() string {
	style, _ := m.el.Attr("style")
	if v, ok := styleProperty(style, "display"); ok {
		return v
	}
	return "none"
}

// SetDisplay sets the element's CSS display value.
func (m *Modal) SetDisplay(v string) {
	style, _ := m.el.Attr("style")
	m.el.SetAttr("style", setStyleProperty(style, "display", v))
}

// Visible reports whether the element takes part in layout.
func (m *Modal) Visible() bool {
	return m.Display() != "none"
}

// HasClass reports whether the overlay element carries class.
func (m *Modal) HasClass(class string) bool {
	return m.el.HasClass(class)
}

// AddClass adds a class to the overlay element.
func (m *Modal) AddClass(class string) {
	m.el.AddClass(class)
}

// RemoveClass removes a class from the overlay element.
func (m *Modal) RemoveClass(class string) {
	m.el.RemoveClass(class)
}

// AriaHidden reports the aria-hidden attribute; absent counts as hidden.
func (m *Modal) AriaHidden() bool {
	v, ok := m.el.Attr("aria-hidden")
	return !ok || v == "true"
}

// SetAriaHidden sets the aria-hidden attribute.
func (m *Modal) SetAriaHidden(hidden bool) {
	m.el.SetAttr("aria-hidden", fmt.Sprint(hidden))
}

// Opacity returns the current fade value in [0, 1].
func (m *Modal) Opacity() float32 {
	return m.opacity
}

// OnceTransitionEnd registers fn to run the next time a fade completes.
func (m *Modal) OnceTransitionEnd(fn func()) {
	m.listeners = append(m.listeners, fn)
}

// ClearTransitionEnd drops pending transition-end listeners.
func (m *Modal) ClearTransitionEnd() {
	m.listeners = nil
}

// Update advances the fade by dt. When the fade reaches its target, or there
// is nothing to fade, pending transition-end listeners fire once.
func (m *Modal) Update(dt time.Duration) {
	if !m.Visible() {
		m.opacity = 0
		m.fireTransitionEnd()
		return
	}

	target := float32(0)
	if m.HasClass(ClassShow) {
		target = 1
	}
	if m.opacity == target {
		m.fireTransitionEnd()
		return
	}

	step := float32(1)
	if m.Duration > 0 {
		step = float32(dt) / float32(m.Duration)
	}
	if m.opacity < target {
		m.opacity = min(target, m.opacity+step)
	} else {
		m.opacity = max(target, m.opacity-step)
	}
	if m.opacity == target {
		m.fireTransitionEnd()
	}
}

func (m *Modal) fireTransitionEnd() {
	if len(m.listeners) == 0 {
		return
	}
	fns := m.listeners
	m.listeners = nil
	for _, fn := range fns {
		fn()
	}
}

// styleProperty reads one property from an inline style attribute.
func styleProperty(style, name string) (string, bool) {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == name {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// setStyleProperty rewrites one property of an inline style attribute,
// keeping the others in order.
func setStyleProperty(style, name, value string) string {
	var decls []string
	found := false
	for _, decl := range strings.Split(style, ";") {
		if strings.TrimSpace(decl) == "" {
			continue
		}
		k, _, _ := strings.Cut(decl, ":")
		if strings.TrimSpace(k) == name {
			decl = name + ": " + value
			found = true
		}
		decls = append(decls, strings.TrimSpace(decl))
	}
	if !found {
		decls = append(decls, name+": "+value)
	}
	return strings.Join(decls, "; ")
}
