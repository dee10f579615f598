package process

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/flowkit/dag"
)

// OutputPort is the state key a command task stores its *Result under.
func OutputPort(name string) dag.Port[*Result] {
	return dag.Port[*Result]{Key: name + ".result"}
}

// Task returns a node that runs cmd. The Result is written to OutputPort(name)
// even when the process fails, so downstream conditions can inspect it.
func Task(name string, cmd Command) dag.Node {
	return dag.Task(name, func(ctx context.Context, state *dag.State) (any, error) {
		res, err := Run(ctx, cmd)
		if res != nil {
			dag.Write(state, OutputPort(name), res)
		}
		return res, err
	})
}

// RegisterCommands registers a Task for every node of p that declares a
// command. Nodes without a command are left for the caller to register.
func RegisterCommands(reg *dag.Registry, p *dag.Pipeline) error {
	for _, def := range p.Nodes {
		if def.Command == nil {
			continue
		}
		if err := registerCommand(reg, def); err != nil {
			return err
		}
	}
	return nil
}

func registerCommand(reg *dag.Registry, def dag.NodeDef) error {
	if def.Command.Binary == "" {
		return fmt.Errorf("process: node %q: command binary is required", def.Component)
	}
	return reg.RegisterNode(Task(def.Component, FromDef(def.Command)))
}

// Registry builds a registry holding the command nodes of p.
func Registry(p *dag.Pipeline) (*dag.Registry, error) {
	reg := dag.NewRegistry()
	if err := RegisterCommands(reg, p); err != nil {
		return nil, err
	}
	return reg, nil
}

// Loader wraps a pipeline loader so that command nodes of every loaded
// include are registered in reg before the include is resolved. A component
// is registered once per loader, so the same include can be loaded again on
// every rebuild of a flow.
func Loader(inner dag.PipelineLoader, reg *dag.Registry) dag.PipelineLoader {
	return &commandLoader{inner: inner, reg: reg, registered: make(map[string]bool)}
}

type commandLoader struct {
	inner dag.PipelineLoader
	reg   *dag.Registry

	mu         sync.Mutex
	registered map[string]bool
}

func (l *commandLoader) Load(name string) (*dag.Pipeline, error) {
	p, err := l.inner.Load(name)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, def := range p.Nodes {
		if def.Command == nil || l.registered[def.Component] {
			continue
		}
		if err := registerCommand(l.reg, def); err != nil {
			return nil, fmt.Errorf("process: include %q: %w", name, err)
		}
		l.registered[def.Component] = true
	}
	return p, nil
}
