package dag

import (
	"fmt"
	"sort"
	"sync"
)

// Registry provides named node lookup for building graphs from Pipeline definitions.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]Node
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[string]Node)}
}

// Register adds a node to the registry under name, replacing any previous entry.
func (r *Registry) Register(name string, node Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[name] = node
}

// RegisterNode adds node under its own name. It fails if the name is taken.
func (r *Registry) RegisterNode(node Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nodes[node.Name()]; exists {
		return fmt.Errorf("dag: component %q already registered", node.Name())
	}
	r.nodes[node.Name()] = node
	return nil
}

// Get retrieves a node by name.
func (r *Registry) Get(name string) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[name]
	return n, ok
}

// List returns sorted names of all registered nodes.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
