package dag

import (
	"context"
	"time"

	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/observability"
)

// Decorator wraps a Node with cross-cutting behaviour.
type Decorator func(Node) Node

// Decorate returns a copy of g whose nodes are wrapped by decorators, applied
// in order (the first decorator is innermost).
func Decorate(g *Graph, decorators ...Decorator) *Graph {
	if len(decorators) == 0 {
		return g
	}
	out := &Graph{
		Name:   g.Name,
		Nodes:  make(map[string]Node, len(g.Nodes)),
		Edges:  g.Edges,
		Filter: g.Filter,
	}
	for name, node := range g.Nodes {
		for _, d := range decorators {
			node = d(node)
		}
		out.Nodes[name] = node
	}
	return out
}

// WithTracing wraps a Node with OpenTelemetry span creation.
// Each execution creates a span named "{prefix}.{nodeName}".
func WithTracing(node Node, prefix string) Node {
	return &tracingNode{inner: node, prefix: prefix}
}

// Tracing is WithTracing as a Decorator.
func Tracing(prefix string) Decorator {
	return func(n Node) Node { return WithTracing(n, prefix) }
}

type tracingNode struct {
	inner  Node
	prefix string
}

func (n *tracingNode) Name() string { return n.inner.Name() }

func (n *tracingNode) Run(ctx context.Context, state *State) (any, error) {
	spanName := n.prefix + "." + n.inner.Name()
	ctx, span := observability.StartSpan(ctx, spanName)
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrNode, n.inner.Name())

	result, err := n.inner.Run(ctx, state)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}

	return result, err
}

// WithMetrics wraps a Node with metric recording.
// Records task count, duration, and errors.
func WithMetrics(node Node, metrics *observability.Metrics) Node {
	return &metricsNode{inner: node, metrics: metrics}
}

// Metrics is WithMetrics as a Decorator.
func Metrics(metrics *observability.Metrics) Decorator {
	return func(n Node) Node { return WithMetrics(n, metrics) }
}

type metricsNode struct {
	inner   Node
	metrics *observability.Metrics
}

func (n *metricsNode) Name() string { return n.inner.Name() }

func (n *metricsNode) Run(ctx context.Context, state *State) (any, error) {
	start := time.Now()
	result, err := n.inner.Run(ctx, state)
	duration := time.Since(start)

	status := NodeCompleted
	if err != nil {
		status = NodeFailed
		n.metrics.RecordError(ctx, "task", n.inner.Name())
	}
	n.metrics.RecordTask(ctx, n.inner.Name(), status, duration)

	return result, err
}

// WithLogging wraps a Node with execution logging.
// Logs: node name, duration, and success/error status.
func WithLogging(node Node, log *logger.Logger) Node {
	return &loggingNode{inner: node, log: log}
}

// Logging is WithLogging as a Decorator.
func Logging(log *logger.Logger) Decorator {
	return func(n Node) Node { return WithLogging(n, log) }
}

type loggingNode struct {
	inner Node
	log   *logger.Logger
}

func (n *loggingNode) Name() string { return n.inner.Name() }

func (n *loggingNode) Run(ctx context.Context, state *State) (any, error) {
	start := time.Now()
	result, err := n.inner.Run(ctx, state)

	fields := logger.Fields(
		logger.FieldNode, n.inner.Name(),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)

	log := n.log.WithContext(ctx)
	if err != nil {
		log.Error("task failed", logger.MergeWithError(fields, err))
	} else {
		log.Debug("task completed", fields)
	}

	return result, err
}
