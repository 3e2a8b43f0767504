package tabs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrUnknownTab is returned when switching to a name that was never added.
var ErrUnknownTab = errors.New("unknown tab")

// Tab is a named view.
type Tab struct {
	Name string
	Show ShowFunc
	Hide HideFunc
}

// Navigator switches between registered tabs by name. Exactly one tab is
// current once Init has returned successfully.
type Navigator struct {
	sw     *Switcher
	log    *logrus.Entry
	tracer Tracer

	mu      sync.Mutex
	tabs    map[string]Tab
	current string
}

// NewNavigator creates an empty navigator.
func NewNavigator(opts ...Option) *Navigator {
	o := options{tracer: noopTracer{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logrus.WithField("component", "tabs")
	}
	return &Navigator{
		sw:     NewSwitcher(),
		log:    o.log,
		tracer: o.tracer,
		tabs:   make(map[string]Tab),
	}
}

// Init adds initial and shows it. Other tabs are not touched.
func (n *Navigator) Init(ctx context.Context, initial Tab) error {
	if err := n.AddTabs(initial); err != nil {
		return err
	}
	return n.ShowByName(ctx, initial.Name)
}

// AddTabs registers tabs. A tab with an existing name replaces it.
func (n *Navigator) AddTabs(tabs ...Tab) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range tabs {
		if t.Name == "" {
			return errors.New("tab name must not be empty")
		}
		n.tabs[t.Name] = t
	}
	return nil
}

// Names returns the registered tab names, sorted.
func (n *Navigator) Names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, 0, len(n.tabs))
	for name := range n.tabs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Current returns the name of the current tab, or "" before Init.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// ShowByName shows the named tab, waits for it, then hides the previously
// current tab. Unknown names return ErrUnknownTab and change nothing. Showing
// the current tab again is a no-op.
func (n *Navigator) ShowByName(ctx context.Context, name string) error {
	n.mu.Lock()
	tab, ok := n.tabs[name]
	from := n.current
	n.mu.Unlock()

	if !ok {
		return fmt.Errorf("show tab %q: %w", name, ErrUnknownTab)
	}
	if from == name {
		return nil
	}

	ctx, end := n.tracer.Start(ctx, "switch", map[string]string{"from": from, "to": name})
	err := n.sw.SwitchTo(ctx, tab.Show, tab.Hide)
	if err != nil {
		end(map[string]string{"error": err.Error()})
		n.log.WithError(err).WithField("tab", name).Warn("tab show failed")
		return fmt.Errorf("show tab %q: %w", name, err)
	}
	end(nil)

	n.mu.Lock()
	n.current = name
	n.mu.Unlock()
	n.log.WithFields(logrus.Fields{"from": from, "to": name}).Debug("switched tab")
	return nil
}
