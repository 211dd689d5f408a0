package exhibit

import (
	"github.com/Faultbox/warehouse-exhibit/internal/engine/ui2d"
	"github.com/Faultbox/warehouse-exhibit/internal/overlay"
)

// modalView converts the overlay's modal into what ui2d draws. A hidden or
// missing modal yields the zero view, which draws nothing.
func modalView(m *overlay.Modal) ui2d.ModalView {
	if m == nil || !m.Visible() {
		return ui2d.ModalView{}
	}
	v := ui2d.ModalView{Opacity: m.Opacity()}
	content := m.Content()
	if content == nil {
		return v
	}
	for _, b := range content.Blocks() {
		v.Blocks = append(v.Blocks, ui2d.TextBlock{Kind: textKind(b.Kind), Text: b.Text})
	}
	return v
}

func textKind(k overlay.BlockKind) ui2d.TextKind {
	switch k {
	case overlay.BlockHeading:
		return ui2d.TextHeading
	case overlay.BlockPosition:
		return ui2d.TextCaption
	default:
		return ui2d.TextBody
	}
}
