package dom

import (
	"strings"
	"sync"
)

// Event names dispatched to elements. These mirror the browser event names the
// controls listen for.
const (
	EventClick      = "click"
	EventMouseEnter = "mouseenter"
	EventMouseDown  = "mousedown"
	EventMouseUp    = "mouseup"
	EventMouseLeave = "mouseleave"
	EventKeyDown    = "keydown"
)

// KeyCodeEnter is the legacy keyCode reported for the Enter key.
const KeyCodeEnter = 13

// Event is a raw event delivered to an element's listeners.
type Event struct {
	Type    string
	Key     string // key name for keydown ("Enter", "a", ...)
	KeyCode int    // legacy key code for keydown
	Target  *Element
}

// IsEnter reports whether the event is a keydown of the Enter key.
func (e Event) IsEnter() bool {
	return e.Type == EventKeyDown && (e.KeyCode == KeyCodeEnter || e.Key == "Enter")
}

// Listener handles one dispatched event.
type Listener func(Event)

// ListenerID identifies an attached listener. It is returned by
// AddEventListener and is the only way to detach that listener.
type ListenerID uint64

type listenerEntry struct {
	id ListenerID
	fn Listener
}

// Element is a node in an in-process document tree. Text nodes have an empty
// tag and carry their content in Text. All methods are safe for concurrent use.
type Element struct {
	mu        sync.Mutex
	tag       string
	text      string
	attrs     map[string]string
	style     Style
	hidden    bool
	disabled  bool
	children  []*Element
	listeners map[string][]listenerEntry
	nextID    ListenerID
}

// NewElement creates a detached element with the given tag.
func NewElement(tag string) *Element {
	return &Element{
		tag:       strings.ToLower(tag),
		attrs:     make(map[string]string),
		listeners: make(map[string][]listenerEntry),
	}
}

// NewText creates a detached text node.
func NewText(content string) *Element {
	e := NewElement("")
	e.text = content
	return e
}

// Tag returns the lower-cased tag name, or "" for text nodes.
func (e *Element) Tag() string { return e.tag }

// IsText reports whether e is a text node.
func (e *Element) IsText() bool { return e.tag == "" }

// Attr returns an attribute value and whether it is set.
func (e *Element) Attr(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.attrs[strings.ToLower(name)]
	return v, ok
}

// SetAttr sets an attribute. The style attribute replaces the inline style.
func (e *Element) SetAttr(name, value string) {
	name = strings.ToLower(name)
	e.mu.Lock()
	defer e.mu.Unlock()
	switch name {
	case "style":
		e.style = ParseStyle(value)
	case "hidden":
		e.hidden = true
	case "disabled":
		e.disabled = true
	default:
		e.attrs[name] = value
	}
}

// ID returns the id attribute.
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return v
}

// Type returns the type attribute (e.g. "button", "text").
func (e *Element) Type() string {
	v, _ := e.Attr("type")
	return v
}

// SetType sets the type attribute.
func (e *Element) SetType(t string) { e.SetAttr("type", t) }

// Value returns the value attribute.
func (e *Element) Value() string {
	v, _ := e.Attr("value")
	return v
}

// SetValue sets the value attribute.
func (e *Element) SetValue(v string) { e.SetAttr("value", v) }

// Style returns an inline style property ("" when unset).
func (e *Element) Style(prop string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.style.Get(prop)
}

// SetStyle sets an inline style property. An empty value removes it.
func (e *Element) SetStyle(prop, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.style.Set(prop, value)
}

// StyleString returns the inline style serialized as a style attribute.
func (e *Element) StyleString() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.style.String()
}

// Hidden reports the hidden flag.
func (e *Element) Hidden() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hidden
}

// SetHidden sets the hidden flag.
func (e *Element) SetHidden(h bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hidden = h
}

// Disabled reports the disabled flag.
func (e *Element) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

// SetDisabled sets the disabled flag.
func (e *Element) SetDisabled(d bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled = d
}

// Rendered reports whether the element takes part in rendering: it is not
// hidden and its display is not "none".
func (e *Element) Rendered() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.hidden && e.style.Get("display") != "none"
}

// AppendChild appends children in order.
func (e *Element) AppendChild(children ...*Element) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range children {
		if c != nil {
			e.children = append(e.children, c)
		}
	}
	return e
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// TextContent concatenates the text of e and all descendants.
func (e *Element) TextContent() string {
	if e.IsText() {
		return e.text
	}
	var b strings.Builder
	for _, c := range e.Children() {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// SetText replaces the content of a text node, or the children of an element
// with a single text node.
func (e *Element) SetText(s string) {
	if e.IsText() {
		e.mu.Lock()
		e.text = s
		e.mu.Unlock()
		return
	}
	e.mu.Lock()
	e.children = []*Element{NewText(s)}
	e.mu.Unlock()
}

// Walk visits e and its descendants depth-first. Returning false from fn
// skips the subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children() {
		c.Walk(fn)
	}
}

// AddEventListener attaches fn for events named name and returns the id used
// to detach it.
func (e *Element) AddEventListener(name string, fn Listener) ListenerID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.listeners[name] = append(e.listeners[name], listenerEntry{id: id, fn: fn})
	return id
}

// RemoveEventListener detaches the listener with the given id. Returns false if
// it was not attached.
func (e *Element) RemoveEventListener(id ListenerID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, entries := range e.listeners {
		for i, l := range entries {
			if l.id != id {
				continue
			}
			e.listeners[name] = append(entries[:i:i], entries[i+1:]...)
			if len(e.listeners[name]) == 0 {
				delete(e.listeners, name)
			}
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners attached for name. An empty
// name counts every listener.
func (e *Element) ListenerCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if name != "" {
		return len(e.listeners[name])
	}
	n := 0
	for _, entries := range e.listeners {
		n += len(entries)
	}
	return n
}

// Dispatch delivers ev to the listeners attached for ev.Type at the time of
// the call, in attach order. Listeners run on the calling goroutine with no
// lock held, so they may attach or detach listeners.
func (e *Element) Dispatch(ev Event) {
	if ev.Target == nil {
		ev.Target = e
	}
	e.mu.Lock()
	entries := make([]listenerEntry, len(e.listeners[ev.Type]))
	copy(entries, e.listeners[ev.Type])
	e.mu.Unlock()

	for _, l := range entries {
		l.fn(ev)
	}
}

// Click dispatches a click event, like HTMLElement.click(). A disabled element
// does not receive synthetic clicks.
func (e *Element) Click() {
	if e.Disabled() {
		return
	}
	e.Dispatch(Event{Type: EventClick})
}
