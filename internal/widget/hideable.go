package widget

import (
	"sync"

	"uikit/internal/dom"
)

// Hideable toggles an element between hidden and its original display mode.
// The original display value is captured on the first Hide, not at
// construction, so styles applied after construction are preserved.
type Hideable struct {
	el *dom.Element

	mu       sync.Mutex
	display  string
	captured bool
}

// NewHideable wraps el.
func NewHideable(el *dom.Element) *Hideable {
	return &Hideable{el: el}
}

// Hide stores the current display value (first call only), then makes the
// element not rendered and hidden from the accessibility tree.
func (h *Hideable) Hide() {
	h.mu.Lock()
	if !h.captured {
		h.display = h.el.Style("display")
		h.captured = true
	}
	h.mu.Unlock()
	h.el.SetStyle("display", "none")
	h.el.SetHidden(true)
}

// Show restores the captured display value, if any, and clears hidden.
func (h *Hideable) Show() {
	h.mu.Lock()
	captured, display := h.captured, h.display
	h.mu.Unlock()
	if captured {
		h.el.SetStyle("display", display)
	}
	h.el.SetHidden(false)
}

// Visible reports whether the element is currently rendered.
func (h *Hideable) Visible() bool {
	return h.el.Rendered()
}
