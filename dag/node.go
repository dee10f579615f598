package dag

import (
	"context"
)

// Node is the execution unit in a DAG.
type Node interface {
	Name() string
	Run(ctx context.Context, state *State) (any, error)
}

// TaskFunc is the body of a task node.
type TaskFunc func(ctx context.Context, state *State) (any, error)

// Task adapts a plain function into a Node.
func Task(name string, fn TaskFunc) Node {
	return &taskNode{name: name, fn: fn}
}

type taskNode struct {
	name string
	fn   TaskFunc
}

func (n *taskNode) Name() string { return n.name }

func (n *taskNode) Run(ctx context.Context, state *State) (any, error) {
	return n.fn(ctx, state)
}

// TypedTask adapts a function producing a typed value into a Node. The value
// is written to state through out so downstream nodes can Read it.
func TypedTask[O any](name string, out Port[O], fn func(ctx context.Context, state *State) (O, error)) Node {
	return Task(name, func(ctx context.Context, state *State) (any, error) {
		v, err := fn(ctx, state)
		if err != nil {
			return nil, err
		}
		Write(state, out, v)
		return v, nil
	})
}

// Named returns node under a different name. Registries use it when one
// implementation is registered under several component keys.
func Named(name string, node Node) Node {
	if node.Name() == name {
		return node
	}
	return &namedNode{name: name, inner: node}
}

type namedNode struct {
	name  string
	inner Node
}

func (n *namedNode) Name() string { return n.name }

func (n *namedNode) Run(ctx context.Context, state *State) (any, error) {
	return n.inner.Run(ctx, state)
}
