package dag

import (
	"context"
	"fmt"
	"sort"
)

// Graph declares nodes and edges (dependency relationships).
type Graph struct {
	// Name identifies the pipeline in results and logs.
	Name  string
	Nodes map[string]Node
	Edges []Edge
	// Filter, if set, decides per run which nodes execute; the rest are skipped.
	Filter NodeFilter
}

// Edge represents a dependency: To depends on From.
type Edge struct {
	From string
	To   string
}

// NewGraph creates an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{Name: name, Nodes: make(map[string]Node)}
}

// Add registers node and makes it depend on each of dependsOn.
// It returns the graph so calls can be chained.
func (g *Graph) Add(node Node, dependsOn ...string) *Graph {
	if g.Nodes == nil {
		g.Nodes = make(map[string]Node)
	}
	g.Nodes[node.Name()] = node
	for _, dep := range dependsOn {
		g.Edges = append(g.Edges, Edge{From: dep, To: node.Name()})
	}
	return g
}

// Upstream returns the sorted names of the nodes name depends on.
func (g *Graph) Upstream(name string) []string {
	var deps []string
	for _, e := range g.Edges {
		if e.To == name {
			deps = append(deps, e.From)
		}
	}
	sort.Strings(deps)
	return deps
}

// Validate checks that the graph can be executed: it has at least one node,
// every node is stored under its own name, edges only reference known nodes
// and there are no cycles.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		return fmt.Errorf("dag: graph %q has no nodes", g.Name)
	}
	for key, node := range g.Nodes {
		if node == nil {
			return fmt.Errorf("dag: node %q is nil", key)
		}
		if node.Name() != key {
			return fmt.Errorf("dag: node %q registered under key %q", node.Name(), key)
		}
	}
	_, err := BuildLevels(g)
	return err
}

// Run executes the graph once with a default Engine.
func (g *Graph) Run(ctx context.Context) (*Result, error) {
	return g.RunWith(ctx, &Engine{})
}

// RunWith executes the graph once with the given engine and a fresh State.
func (g *Graph) RunWith(ctx context.Context, e *Engine) (*Result, error) {
	return e.Execute(ctx, g, NewState(), g.Filter)
}

// BuildLevels uses Kahn's algorithm to group nodes by dependency level.
// Nodes within the same level can execute in parallel.
// Returns an error if a cycle is detected.
func BuildLevels(g *Graph) ([][]string, error) {
	inDegree := make(map[string]int)
	dependents := make(map[string][]string) // from -> [to...]

	for name := range g.Nodes {
		inDegree[name] = 0
	}

	for _, e := range g.Edges {
		if _, ok := g.Nodes[e.From]; !ok {
			return nil, fmt.Errorf("dag: edge references unknown node %q", e.From)
		}
		if _, ok := g.Nodes[e.To]; !ok {
			return nil, fmt.Errorf("dag: edge references unknown node %q", e.To)
		}
		inDegree[e.To]++
		dependents[e.From] = append(dependents[e.From], e.To)
	}

	var queue []string
	for name, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var levels [][]string
	visited := 0

	for len(queue) > 0 {
		levels = append(levels, queue)
		visited += len(queue)

		var next []string
		for _, name := range queue {
			for _, dep := range dependents[name] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		sort.Strings(next)
		queue = next
	}

	if visited != len(g.Nodes) {
		return nil, fmt.Errorf("dag: cycle detected, processed %d of %d nodes", visited, len(g.Nodes))
	}

	return levels, nil
}
