package dag

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/flowkit/errors"
)

// PipelineLoader loads pipeline definitions by name.
type PipelineLoader interface {
	Load(name string) (*Pipeline, error)
}

// FilePipelineLoader loads pipelines from YAML files on disk.
type FilePipelineLoader struct {
	dirs []string
}

// NewFilePipelineLoader creates a loader that searches the given directories for pipeline YAML files.
func NewFilePipelineLoader(dirs ...string) PipelineLoader {
	return &FilePipelineLoader{dirs: dirs}
}

// Load searches for a pipeline YAML file by name across configured directories.
// It searches for {name}.yaml and {name}.yml in each directory and one level below it.
func (l *FilePipelineLoader) Load(name string) (*Pipeline, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if p, err := LoadPipelineFile(path); err == nil {
				return p, nil
			}

			matches, _ := filepath.Glob(filepath.Join(dir, "*", name+ext))
			for _, match := range matches {
				if p, err := LoadPipelineFile(match); err == nil {
					return p, nil
				}
			}
		}
	}
	return nil, errors.NotFound("pipeline", name).WithDetail("dirs", l.dirs)
}

// LoadPipelineFile reads and parses a single pipeline YAML file.
func LoadPipelineFile(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParsePipeline(data)
	if err != nil {
		return nil, fmt.Errorf("dag: parsing %s: %w", path, err)
	}
	return p, nil
}

// ParsePipeline decodes a pipeline definition from YAML.
func ParsePipeline(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, errors.MissingField("name")
	}
	for i, def := range p.Nodes {
		if def.Component == "" {
			return nil, errors.MissingField(fmt.Sprintf("nodes[%d].component", i))
		}
	}
	return &p, nil
}

// LoadPipeline loads a pipeline from explicit file paths.
// It tries each path until one succeeds.
func LoadPipeline(name string, paths ...string) (*Pipeline, error) {
	for _, path := range paths {
		p, err := LoadPipelineFile(path)
		if err == nil {
			return p, nil
		}
	}
	return nil, errors.NotFound("pipeline", name)
}

// ResolvePipeline converts a Pipeline definition into an executable Graph.
// It resolves includes recursively and looks up node implementations from the registry.
func ResolvePipeline(p *Pipeline, registry *Registry, loader PipelineLoader) (*Graph, error) {
	return ResolvePipelineWithConditions(p, registry, loader, nil)
}

// ResolvePipelineWithConditions is ResolvePipeline plus a Graph.Filter that
// evaluates the named conditions of every node, including included ones.
func ResolvePipelineWithConditions(p *Pipeline, registry *Registry, loader PipelineLoader, conditions map[string]ConditionFunc) (*Graph, error) {
	r := &resolver{
		registry: registry,
		loader:   loader,
		stack:    make(map[string]bool),
		resolved: make(map[string]bool),
	}
	g, err := r.resolve(p)
	if err != nil {
		return nil, err
	}
	g.Name = p.Name
	if len(conditions) > 0 || hasConditions(r.defs) {
		g.Filter = ConditionFilter(&Pipeline{Name: p.Name, Nodes: r.defs}, conditions)
	}
	return g, nil
}

type resolver struct {
	registry *Registry
	loader   PipelineLoader
	stack    map[string]bool // current recursion path (cycle detection)
	resolved map[string]bool // already fully resolved (dedup)
	defs     []NodeDef
}

func (r *resolver) resolve(p *Pipeline) (*Graph, error) {
	if r.stack[p.Name] {
		return nil, fmt.Errorf("dag: circular include detected for pipeline %q", p.Name)
	}
	r.stack[p.Name] = true
	defer delete(r.stack, p.Name)

	g := NewGraph(p.Name)

	for _, includeName := range p.Includes {
		if r.resolved[includeName] {
			continue // already resolved in a different branch (diamond)
		}
		if r.loader == nil {
			return nil, fmt.Errorf("dag: pipeline %q includes %q but no loader is configured", p.Name, includeName)
		}

		sub, err := r.loader.Load(includeName)
		if err != nil {
			return nil, fmt.Errorf("dag: loading include %q: %w", includeName, err)
		}

		subGraph, err := r.resolve(sub)
		if err != nil {
			return nil, err
		}

		for name, node := range subGraph.Nodes {
			if _, exists := g.Nodes[name]; exists {
				continue // first wins (diamond includes)
			}
			g.Nodes[name] = node
		}
		g.Edges = append(g.Edges, subGraph.Edges...)
	}

	for _, def := range p.Nodes {
		if _, exists := g.Nodes[def.Component]; exists {
			continue // already added via include
		}

		node, ok := r.registry.Get(def.Component)
		if !ok {
			return nil, errors.NotFound("component", def.Component).WithDetail("pipeline", p.Name)
		}
		g.Add(Named(def.Component, node), def.DependsOn...)
		r.defs = append(r.defs, def)
	}

	r.resolved[p.Name] = true
	return g, nil
}
