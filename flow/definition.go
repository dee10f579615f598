package flow

import (
	"fmt"

	"github.com/kbukum/flowkit/dag"
	"github.com/kbukum/flowkit/errors"
)

// Definition is implemented by user flows. Build assembles the pipeline
// graph the flow executes; it is called once per Flow.Build or Flow.Run.
type Definition interface {
	Build() (*dag.Graph, error)
}

// Base can be embedded by definitions that want a named base type. Its Build
// reports that the embedding type did not provide one.
type Base struct{}

// Build always fails with NOT_IMPLEMENTED.
func (Base) Build() (*dag.Graph, error) {
	return nil, errors.NotImplemented("flow Build")
}

// BuildFunc adapts a plain function into a Definition.
type BuildFunc func() (*dag.Graph, error)

// Build calls f.
func (f BuildFunc) Build() (*dag.Graph, error) {
	return f()
}

// Untyped adapts a builder whose result is only known at runtime, such as a
// plugin or a scripted builder. Build fails with INVALID_PIPELINE unless fn
// returns a *dag.Graph.
func Untyped(fn func() (any, error)) Definition {
	return BuildFunc(func() (*dag.Graph, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}
		g, ok := v.(*dag.Graph)
		if !ok {
			return nil, errors.InvalidPipeline(fmt.Sprintf("build returned %T, want *dag.Graph", v)).
				WithDetail("type", fmt.Sprintf("%T", v))
		}
		return g, nil
	})
}
