package widget

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Tracer starts a span around a unit of work and returns the context carrying
// it plus a function that ends it with extra attributes.
type Tracer interface {
	Start(ctx context.Context, name string, attrs map[string]string) (context.Context, func(attrs map[string]string))
}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string, _ map[string]string) (context.Context, func(map[string]string)) {
	return ctx, func(map[string]string) {}
}

type options struct {
	policy OutcomePolicy
	log    *logrus.Entry
	tracer Tracer
	name   string
}

// Option configures a Button or TextInput.
type Option func(*options)

// WithPolicy sets the click outcome policy. Defaults to VotePolicy.
func WithPolicy(p OutcomePolicy) Option {
	return func(o *options) {
		if p != nil {
			o.policy = p
		}
	}
}

// WithLogger sets the logger. Defaults to the standard logrus logger with a
// component field.
func WithLogger(l *logrus.Entry) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithTracer records click cycles and their callbacks as spans.
func WithTracer(t Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithName names the control in logs and spans. Defaults to the element id.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func resolveOptions(component, fallbackName string, opts []Option) options {
	o := options{
		policy: VotePolicy{},
		tracer: noopTracer{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = fallbackName
	}
	if o.name == "" {
		o.name = component
	}
	if o.log == nil {
		o.log = logrus.WithField("component", component)
	}
	o.log = o.log.WithField("control", o.name)
	return o
}
