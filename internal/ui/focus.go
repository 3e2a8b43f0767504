package ui

import "uikit/internal/dom"

// FocusRing tracks keyboard focus across the controls of the rendered tree.
// The order is rebuilt from the tree on every Sync, so controls that are
// hidden drop out of the ring and focus moves to a neighbour.
type FocusRing struct {
	current  *dom.Element
	order    []*dom.Element
	OnChange func(from, to *dom.Element)
}

// Focusable reports whether el can hold focus.
func Focusable(el *dom.Element) bool {
	switch el.Tag() {
	case "button", "input", "textarea":
		return true
	}
	return false
}

// Sync rebuilds the order from root, skipping subtrees that are not rendered.
// If the focused control left the tree, focus moves to the first control.
func (f *FocusRing) Sync(root *dom.Element) {
	f.order = f.order[:0]
	root.Walk(func(el *dom.Element) bool {
		if !el.Rendered() {
			return false
		}
		if Focusable(el) {
			f.order = append(f.order, el)
		}
		return true
	})
	if f.indexOf(f.current) < 0 {
		var next *dom.Element
		if len(f.order) > 0 {
			next = f.order[0]
		}
		f.set(next)
	}
}

// Current returns the focused control, or nil.
func (f *FocusRing) Current() *dom.Element { return f.current }

// Len returns the number of controls in the ring.
func (f *FocusRing) Len() int { return len(f.order) }

// Next moves focus forward, wrapping around.
func (f *FocusRing) Next() *dom.Element { return f.step(1) }

// Prev moves focus backward, wrapping around.
func (f *FocusRing) Prev() *dom.Element { return f.step(-1) }

// Focus moves focus to el if it is in the ring.
func (f *FocusRing) Focus(el *dom.Element) bool {
	if f.indexOf(el) < 0 {
		return false
	}
	f.set(el)
	return true
}

func (f *FocusRing) step(delta int) *dom.Element {
	if len(f.order) == 0 {
		return nil
	}
	idx := f.indexOf(f.current)
	if idx < 0 && delta < 0 {
		idx = 0
	}
	n := len(f.order)
	f.set(f.order[((idx+delta)%n+n)%n])
	return f.current
}

func (f *FocusRing) indexOf(el *dom.Element) int {
	if el == nil {
		return -1
	}
	for i, o := range f.order {
		if o == el {
			return i
		}
	}
	return -1
}

func (f *FocusRing) set(el *dom.Element) {
	from := f.current
	f.current = el
	if f.OnChange != nil && from != el {
		f.OnChange(from, el)
	}
}
