package flow

import (
	"github.com/kbukum/flowkit/dag"
	"github.com/kbukum/flowkit/errors"
)

// PipelineDefinition builds its graph from a YAML pipeline definition.
type PipelineDefinition struct {
	Pipeline   *dag.Pipeline
	Registry   *dag.Registry
	Loader     dag.PipelineLoader
	Conditions map[string]dag.ConditionFunc
}

// Build resolves the pipeline's nodes and includes against the registry.
func (d *PipelineDefinition) Build() (*dag.Graph, error) {
	if d.Pipeline == nil {
		return nil, errors.InvalidPipeline("no pipeline definition")
	}
	if d.Registry == nil {
		return nil, errors.InvalidPipeline("no component registry").WithDetail("pipeline", d.Pipeline.Name)
	}
	return dag.ResolvePipelineWithConditions(d.Pipeline, d.Registry, d.Loader, d.Conditions)
}

// FromPipeline creates a Flow from a YAML pipeline. The pipeline's name and
// cron become the flow's defaults; opts are applied after them and may
// override either.
func FromPipeline(p *dag.Pipeline, registry *dag.Registry, loader dag.PipelineLoader, opts ...Option) (*Flow, error) {
	if p == nil {
		return nil, errors.NotImplemented("flow definition")
	}
	defaults := []Option{WithName(p.Name), WithCron(p.Cron)}
	def := &PipelineDefinition{Pipeline: p, Registry: registry, Loader: loader}
	return New(def, append(defaults, opts...)...)
}
