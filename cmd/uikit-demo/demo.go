package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"uikit/internal/dom"
	"uikit/internal/logging"
	"uikit/internal/tabs"
	"uikit/internal/widget"
)

// demo is the element tree shown by the host: a "buttons" tab exercising
// click cycles and a "form" tab with a text input.
type demo struct {
	root *dom.Element
	nav  *tabs.Navigator

	save, once, reset, flaky, lock, details *widget.Button
	name                                    *widget.TextInput
	detailsText                             *widget.Hideable

	status func(text string, isErr bool)
}

var errFlaky = errors.New("upstream unavailable")

func newDemo(policy widget.OutcomePolicy, tracer widget.Tracer, status func(string, bool)) (*demo, error) {
	d := &demo{status: status}
	opts := func(name string, extra ...widget.Option) []widget.Option {
		return append([]widget.Option{
			widget.WithName(name),
			widget.WithPolicy(policy),
			widget.WithTracer(tracer),
			widget.WithLogger(logging.For("button")),
		}, extra...)
	}
	text := dom.E.Text

	d.save = widget.CreateButton(`id="save"`, []*dom.Element{text("Save")}, opts("save")...)
	d.save.OnClick(widget.Void(func(ctx context.Context) error {
		time.Sleep(800 * time.Millisecond)
		return nil
	}))
	d.save.OnClick(widget.Void(func(ctx context.Context) error {
		time.Sleep(300 * time.Millisecond)
		return nil
	}))
	d.save.OnAfterClick(func(err error) {
		if err == nil {
			d.status("saved", false)
		}
	})

	d.once = widget.CreateButton(`id="once"`, []*dom.Element{text("Submit once")}, opts("once")...)
	d.once.OnClick(widget.StayDisabledIf(func(context.Context) (bool, error) {
		time.Sleep(500 * time.Millisecond)
		return true, nil
	}))

	d.reset = widget.CreateButton(`id="reset"`, []*dom.Element{text("Reset submit")}, opts("reset")...)
	d.reset.OnClick(widget.Void(func(context.Context) error {
		d.once.Enable()
		return nil
	}))

	d.flaky = widget.CreateButton(`id="flaky"`, []*dom.Element{text("Flaky (legacy policy)")},
		opts("flaky", widget.WithPolicy(widget.ReenablePolicy{}))...)
	d.flaky.OnClick(widget.Void(func(context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return errFlaky
	}))
	d.flaky.OnAfterClick(func(err error) {
		if err != nil {
			d.status(err.Error(), true)
		}
	})

	d.lock = widget.CreateButton(`id="lock"`, []*dom.Element{text("Lock save")}, opts("lock")...)
	d.lock.OnClick(widget.Void(func(context.Context) error {
		if d.save.ForceDisabled() {
			d.save.Restore()
			d.lock.Element().SetText("Lock save")
		} else {
			d.save.ForceDisable()
			d.lock.Element().SetText("Unlock save")
		}
		return nil
	}))

	details := dom.E.Label(`id="details"`, text("Clicks disable the button until every callback returns."))
	d.detailsText = widget.NewHideable(details)
	d.detailsText.Hide()
	d.details = widget.CreateButton(`id="details-toggle"`, []*dom.Element{text("Toggle details")}, opts("details")...)
	d.details.OnClick(widget.Void(func(context.Context) error {
		if d.detailsText.Visible() {
			d.detailsText.Hide()
		} else {
			d.detailsText.Show()
		}
		return nil
	}))

	d.name = widget.CreateTextInput(`id="name" placeholder="type a name, then Enter"`,
		widget.WithName("name"), widget.WithTracer(tracer))
	d.name.OnEnter(func(_ context.Context, value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			return errors.New("name is empty")
		}
		d.status(fmt.Sprintf("hello, %s", value), false)
		return nil
	})

	buttons := dom.E.Div(`id="buttons"`, d.save.Element(), d.once.Element(), d.reset.Element(),
		d.flaky.Element(), d.lock.Element(), d.details.Element(), details)
	form := dom.E.Div(`id="form"`, dom.E.Label("", text("Name")), d.name.Element())
	d.root = dom.E.Div(`id="root"`, buttons, form)

	d.nav = tabs.NewNavigator(tabs.WithTracer(tracer), tabs.WithLogger(logging.For("tabs")))
	pages := map[string]*widget.Hideable{
		"buttons": widget.NewHideable(buttons),
		"form":    widget.NewHideable(form),
	}
	pages["form"].Hide()
	if err := d.nav.AddTabs(pageTab("form", pages["form"])); err != nil {
		return nil, err
	}
	if err := d.nav.Init(context.Background(), pageTab("buttons", pages["buttons"])); err != nil {
		return nil, err
	}
	return d, nil
}

func pageTab(name string, page *widget.Hideable) tabs.Tab {
	return tabs.Tab{
		Name: name,
		Show: func(context.Context) error {
			page.Show()
			return nil
		},
		Hide: page.Hide,
	}
}

// Close detaches every control's listeners.
func (d *demo) Close() {
	for _, b := range []*widget.Button{d.save, d.once, d.reset, d.flaky, d.lock, d.details} {
		b.Close()
	}
	d.name.Close()
}
