package flow

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/flowkit/dag"
	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/observability"
	"github.com/kbukum/flowkit/schedule"
)

// Flow is a validated flow definition ready to build and run.
type Flow struct {
	definition Definition
	name       string
	engine     *dag.Engine
	log        *logger.Logger
	decorators []dag.Decorator
	metrics    *observability.Metrics
	tracing    bool

	mu       sync.RWMutex
	schedule *schedule.Schedule
}

// New wraps def into a Flow. It fails with NOT_IMPLEMENTED when def is nil or
// the bare Base, and with INVALID_SCHEDULE when the cron option does not parse.
func New(def Definition, opts ...Option) (*Flow, error) {
	if isAbstract(def) {
		return nil, errors.NotImplemented("flow definition")
	}

	o := resolveOptions(opts)

	f := &Flow{
		definition: def,
		name:       o.name,
		engine:     o.engine,
		log:        o.logger,
		metrics:    o.metrics,
		tracing:    o.tracing,
	}
	if f.name == "" {
		f.name = typeName(def)
	}
	if f.engine == nil {
		f.engine = &dag.Engine{}
	}
	if f.log == nil {
		f.log = logger.Get(logger.ComponentFlow)
	}
	f.decorators = append([]dag.Decorator{dag.Logging(f.log)}, o.decorators...)
	if o.cron != "" {
		s, err := schedule.Parse(o.cron)
		if err != nil {
			return nil, err
		}
		f.schedule = s
	}
	return f, nil
}

func isAbstract(def Definition) bool {
	if def == nil {
		return true
	}
	switch d := def.(type) {
	case Base, *Base:
		return true
	case BuildFunc:
		return d == nil
	}
	v := reflect.ValueOf(def)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map:
		return v.IsNil()
	}
	return false
}

func typeName(def Definition) string {
	t := reflect.TypeOf(def)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "flow"
	}
	return t.Name()
}

// Name returns the flow name.
func (f *Flow) Name() string { return f.name }

// Cron returns the schedule expression, or "" when the flow has none.
func (f *Flow) Cron() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.schedule == nil {
		return ""
	}
	return f.schedule.String()
}

// Schedule returns the parsed schedule, or nil when the flow has none.
func (f *Flow) Schedule() *schedule.Schedule {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.schedule
}

// SetCron replaces the schedule. An empty expression clears it. On error the
// previous schedule is kept.
func (f *Flow) SetCron(expr string) error {
	var s *schedule.Schedule
	if expr != "" {
		parsed, err := schedule.Parse(expr)
		if err != nil {
			return err
		}
		s = parsed
	}
	f.mu.Lock()
	f.schedule = s
	f.mu.Unlock()
	return nil
}

// NextRun returns the next activation after t. The second value is false when
// the flow has no schedule.
func (f *Flow) NextRun(after time.Time) (time.Time, bool) {
	s := f.Schedule()
	if s == nil {
		return time.Time{}, false
	}
	return s.Next(after), true
}

// Build calls the definition's Build once and checks that it produced a
// runnable graph. Failures carry INVALID_PIPELINE unless the builder already
// returned a coded error.
func (f *Flow) Build(ctx context.Context) (*dag.Graph, error) {
	if f.tracing {
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, observability.SpanFlowBuild)
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrFlowName, f.name)
	}

	g, err := f.build()
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	return g, nil
}

func (f *Flow) build() (*dag.Graph, error) {
	g, err := f.definition.Build()
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.InvalidPipeline(fmt.Sprintf("flow %q failed to build", f.name)).WithCause(err)
	}
	if g == nil {
		return nil, errors.InvalidPipeline("build must return a pipeline graph").
			WithDetail(logger.FieldFlow, f.name)
	}
	if err := g.Validate(); err != nil {
		return nil, errors.InvalidPipeline(fmt.Sprintf("flow %q built an invalid graph", f.name)).WithCause(err)
	}
	if g.Name == "" {
		g.Name = f.name
	}
	return dag.Decorate(g, f.decorators...), nil
}

// Run builds the pipeline and executes it once on the flow's engine. Task
// failures are reported through the result status; the error is non-nil only
// when the build fails or ctx ends before the run completes.
func (f *Flow) Run(ctx context.Context) (*dag.Result, error) {
	if f.tracing {
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, observability.SpanFlowRun)
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrFlowName, f.name)
	}

	g, err := f.Build(ctx)
	if err != nil {
		f.log.WithContext(ctx).Error("flow build failed", logger.MergeWithError(logger.Fields(logger.FieldFlow, f.name), err))
		return nil, err
	}

	log := f.log.WithContext(ctx)
	fields := logger.Fields(
		logger.FieldFlow, f.name,
		logger.FieldPipeline, g.Name,
	)
	if c := f.Cron(); c != "" {
		fields[logger.FieldCron] = c
		observability.SetSpanAttribute(ctx, observability.AttrCron, c)
	}
	log.Info("flow run started", fields)

	if f.metrics != nil {
		f.metrics.RecordRunStart(ctx, f.name)
	}

	res, err := g.RunWith(ctx, f.engine)
	if res == nil {
		observability.SetSpanError(ctx, err)
		log.Error("flow run failed", logger.MergeWithError(fields, err))
		return nil, err
	}

	if f.metrics != nil {
		f.metrics.RecordRunEnd(ctx, f.name, string(res.Status), res.Duration)
	}
	observability.SetSpanAttribute(ctx, observability.AttrRunID, res.RunID.String())
	observability.SetSpanAttribute(ctx, observability.AttrStatus, string(res.Status))

	fields[logger.FieldRunID] = res.RunID.String()
	fields[logger.FieldStatus] = string(res.Status)
	fields = logger.MergeWithDuration(fields, res.Duration)

	switch {
	case err != nil:
		observability.SetSpanError(ctx, err)
		log.Warn("flow run cancelled", logger.MergeWithError(fields, err))
	case !res.IsSuccessful():
		runErr := res.Err()
		observability.SetSpanError(ctx, runErr)
		log.Error("flow run finished", logger.MergeWithError(fields, runErr))
	default:
		log.Info("flow run finished", fields)
	}
	return res, err
}
