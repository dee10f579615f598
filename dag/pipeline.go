package dag

import "time"

// Pipeline is a composable, YAML-defined graph definition.
type Pipeline struct {
	// Name is the pipeline identifier.
	Name string `yaml:"name"`
	// Description is free text shown by tooling.
	Description string `yaml:"description,omitempty"`
	// Cron is the optional 5-field schedule the flow built from this pipeline carries.
	Cron string `yaml:"cron,omitempty"`
	// Includes lists sub-pipeline names to compose (recursive).
	Includes []string `yaml:"includes,omitempty"`
	// Nodes defines the pipeline's node specifications.
	Nodes []NodeDef `yaml:"nodes"`
}

// NodeDef defines a node within a pipeline.
type NodeDef struct {
	// Component is the registry lookup key for this node.
	Component string `yaml:"component"`
	// DependsOn lists node names this node depends on.
	DependsOn []string `yaml:"depends_on,omitempty"`
	// Condition is a named condition function key.
	Condition string `yaml:"condition,omitempty"`
	// Command declares a subprocess task; the process package turns these into nodes.
	Command *CommandDef `yaml:"command,omitempty"`
}

// CommandDef declares a subprocess to execute as a task.
type CommandDef struct {
	Binary  string        `yaml:"binary"`
	Args    []string      `yaml:"args,omitempty"`
	Dir     string        `yaml:"dir,omitempty"`
	Env     []string      `yaml:"env,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
