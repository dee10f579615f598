package flow

import (
	"github.com/kbukum/flowkit/dag"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/observability"
)

// Option configures a Flow during New.
type Option func(*flowOptions)

type flowOptions struct {
	cron       string
	name       string
	engine     *dag.Engine
	logger     *logger.Logger
	decorators []dag.Decorator
	metrics    *observability.Metrics
	tracing    bool
}

func resolveOptions(opts []Option) *flowOptions {
	o := &flowOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCron sets the flow's 5-field cron schedule. An empty string means no
// schedule.
func WithCron(expr string) Option {
	return func(o *flowOptions) {
		o.cron = expr
	}
}

// WithName overrides the flow name used in logs, spans and for unnamed graphs.
func WithName(name string) Option {
	return func(o *flowOptions) {
		o.name = name
	}
}

// WithEngine sets the engine Run executes the graph with.
func WithEngine(e *dag.Engine) Option {
	return func(o *flowOptions) {
		o.engine = e
	}
}

// WithLogger sets the flow logger. Task outcomes are logged through it as well.
func WithLogger(l *logger.Logger) Option {
	return func(o *flowOptions) {
		o.logger = l
	}
}

// WithTracing creates a span for the run and one per task, named "{prefix}.{task}".
func WithTracing(prefix string) Option {
	return func(o *flowOptions) {
		o.tracing = true
		o.decorators = append(o.decorators, dag.Tracing(prefix))
	}
}

// WithMetrics records run and task metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *flowOptions) {
		o.metrics = m
		o.decorators = append(o.decorators, dag.Metrics(m))
	}
}

// WithDecorators wraps every task of the built graph with the given decorators.
func WithDecorators(decorators ...dag.Decorator) Option {
	return func(o *flowOptions) {
		o.decorators = append(o.decorators, decorators...)
	}
}
