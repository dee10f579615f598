package dag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/logger"
)

// Engine executes a graph in dependency order.
type Engine struct {
	// MaxParallel limits concurrent nodes per level (0 = unlimited).
	MaxParallel int
}

// NodeFilter returns true if a node should execute in this run.
type NodeFilter func(nodeName string, state *State) bool

// ExecuteBatch runs ALL nodes in dependency order, one-shot.
func (e *Engine) ExecuteBatch(ctx context.Context, g *Graph, state *State) (*Result, error) {
	return e.Execute(ctx, g, state, nil)
}

// Execute runs the graph. Nodes rejected by filter are marked "skipped" and do
// not block their dependents. A node whose dependency failed is not run and
// is marked "upstream_failed".
//
// Node errors are reported through the Result, not the returned error. The
// error is non-nil only when the graph is invalid or ctx ends mid-run; in the
// latter case the partial Result is returned with StatusCancelled.
func (e *Engine) Execute(ctx context.Context, g *Graph, state *State, filter NodeFilter) (*Result, error) {
	levels, err := BuildLevels(g)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:       uuid.New(),
		Pipeline:    g.Name,
		Status:      StatusRunning,
		NodeResults: make(map[string]NodeResult, len(g.Nodes)),
		StartedAt:   time.Now(),
	}
	defer func() { result.Duration = time.Since(result.StartedAt) }()
	ctx = logger.ContextWithRunID(ctx, result.RunID.String())

	for i, level := range levels {
		if err := ctx.Err(); err != nil {
			markNotRun(result, levels[i:])
			result.Status = StatusCancelled
			return result, errors.Cancelled(fmt.Sprintf("pipeline %q", g.Name), err)
		}

		var toRun []string
		for _, name := range level {
			if upstreamFailed(g, result, name) {
				result.NodeResults[name] = NodeResult{Name: name, Status: NodeUpstreamFailed}
				continue
			}
			if filter != nil && !filter(name, state) {
				result.NodeResults[name] = NodeResult{Name: name, Status: NodeSkipped}
				continue
			}
			toRun = append(toRun, name)
		}

		if len(toRun) == 0 {
			continue
		}

		e.executeLevel(ctx, g, state, toRun, result)
	}

	if err := ctx.Err(); err != nil {
		result.Status = StatusCancelled
		return result, errors.Cancelled(fmt.Sprintf("pipeline %q", g.Name), err)
	}

	result.Status = StatusSuccess
	for _, nr := range result.NodeResults {
		if nr.Status == NodeFailed || nr.Status == NodeUpstreamFailed {
			result.Status = StatusFailed
			break
		}
	}
	return result, nil
}

func upstreamFailed(g *Graph, result *Result, name string) bool {
	for _, dep := range g.Upstream(name) {
		switch result.NodeResults[dep].Status {
		case NodeFailed, NodeUpstreamFailed:
			return true
		}
	}
	return false
}

func markNotRun(result *Result, levels [][]string) {
	for _, level := range levels {
		for _, name := range level {
			result.NodeResults[name] = NodeResult{Name: name, Status: NodeNotRun}
		}
	}
}

func (e *Engine) executeLevel(ctx context.Context, g *Graph, state *State, names []string, result *Result) {
	var mu sync.Mutex
	var wg sync.WaitGroup

	sem := make(chan struct{}, e.concurrency(len(names)))

	for _, name := range names {
		wg.Add(1)
		go func(nodeName string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			nr := e.executeNode(ctx, g.Nodes[nodeName], state)
			mu.Lock()
			result.NodeResults[nodeName] = nr
			mu.Unlock()
		}(name)
	}

	wg.Wait()
}

func (e *Engine) executeNode(ctx context.Context, node Node, state *State) (nr NodeResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			nr = NodeResult{
				Name:     node.Name(),
				Status:   NodeFailed,
				Duration: time.Since(start),
				Error:    fmt.Errorf("dag: node %q panicked: %v", node.Name(), r),
			}
		}
	}()

	output, err := node.Run(ctx, state)
	duration := time.Since(start)

	if err != nil {
		return NodeResult{
			Name:     node.Name(),
			Status:   NodeFailed,
			Duration: duration,
			Error:    err,
		}
	}

	return NodeResult{
		Name:     node.Name(),
		Status:   NodeCompleted,
		Duration: duration,
		Output:   output,
	}
}

func (e *Engine) concurrency(levelSize int) int {
	if e.MaxParallel <= 0 || e.MaxParallel > levelSize {
		return levelSize
	}
	return e.MaxParallel
}
