// Package event provides ordered, token-addressed callback registration keyed
// by a typed event kind, and a concurrent fan-out/join helper.
package event

import (
	"fmt"
	"sync"
)

// Kind identifies a control event.
type Kind int

const (
	Enable Kind = iota
	Disable
	Click
	AfterClick
	Hover
	Down
	Up
	Leave
	Enter
)

func (k Kind) String() string {
	switch k {
	case Enable:
		return "enable"
	case Disable:
		return "disable"
	case Click:
		return "click"
	case AfterClick:
		return "afterClick"
	case Hover:
		return "hover"
	case Down:
		return "down"
	case Up:
		return "up"
	case Leave:
		return "leave"
	case Enter:
		return "enter"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Token identifies one registration. The zero Token matches nothing.
type Token struct {
	Kind Kind
	id   uint64
}

// Valid reports whether t was returned by a registration.
func (t Token) Valid() bool { return t.id != 0 }

type entry[F any] struct {
	id uint64
	fn F
}

// Registry is an ordered list of callbacks of one signature. Insertion order
// is preserved and is the order Snapshot returns them in.
type Registry[F any] struct {
	kind    Kind
	mu      sync.Mutex
	next    uint64
	entries []entry[F]
}

// NewRegistry creates an empty registry whose tokens carry kind.
func NewRegistry[F any](kind Kind) *Registry[F] {
	return &Registry[F]{kind: kind}
}

// Add appends fn and returns its token.
func (r *Registry[F]) Add(fn F) Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.entries = append(r.entries, entry[F]{id: r.next, fn: fn})
	return Token{Kind: r.kind, id: r.next}
}

// Remove deletes the registration for t. Returns false if it is not present.
func (r *Registry[F]) Remove(t Token) bool {
	if t.Kind != r.kind || !t.Valid() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.id == t.id {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns the callbacks in registration order.
func (r *Registry[F]) Snapshot() []F {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]F, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.fn
	}
	return out
}

// Len returns the number of registrations.
func (r *Registry[F]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Bus holds argument-less signal callbacks for every Kind.
type Bus struct {
	mu      sync.Mutex
	signals map[Kind]*Registry[func()]
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{signals: make(map[Kind]*Registry[func()])}
}

func (b *Bus) registry(k Kind) *Registry[func()] {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.signals[k]
	if !ok {
		r = NewRegistry[func()](k)
		b.signals[k] = r
	}
	return r
}

// On registers fn for k.
func (b *Bus) On(k Kind, fn func()) Token {
	return b.registry(k).Add(fn)
}

// Off removes the registration for t.
func (b *Bus) Off(t Token) bool {
	return b.registry(t.Kind).Remove(t)
}

// Count returns the number of callbacks registered for k.
func (b *Bus) Count(k Kind) int {
	return b.registry(k).Len()
}

// Emit calls the callbacks registered for k synchronously, in registration
// order. A panicking callback does not stop the others; the recovered panics
// are returned as one error.
func (b *Bus) Emit(k Kind) error {
	var errs []error
	for _, fn := range b.registry(k).Snapshot() {
		if err := safeCall(k.String(), fn); err != nil {
			errs = append(errs, err)
		}
	}
	return joinErrors(errs)
}
