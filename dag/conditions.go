package dag

import "github.com/kbukum/flowkit/logger"

// ConditionFunc evaluates whether a node should run based on state.
type ConditionFunc func(state *State) bool

// ConditionFilter returns a NodeFilter that runs a node only when the
// condition named in its NodeDef (if any) returns true. Nodes without a
// condition always run. A node whose condition is not in conditions also
// runs, and a warning naming it is logged when the filter is built.
func ConditionFilter(pipeline *Pipeline, conditions map[string]ConditionFunc) NodeFilter {
	nodeDefs := make(map[string]NodeDef, len(pipeline.Nodes))
	for _, def := range pipeline.Nodes {
		nodeDefs[def.Component] = def
		if def.Condition == "" {
			continue
		}
		if _, ok := conditions[def.Condition]; !ok {
			logger.Get(logger.ComponentDAG).Warn("unknown node condition, node will always run", logger.Fields(
				logger.FieldPipeline, pipeline.Name,
				logger.FieldNode, def.Component,
				"condition", def.Condition,
			))
		}
	}

	return func(nodeName string, state *State) bool {
		def, ok := nodeDefs[nodeName]
		if !ok || def.Condition == "" {
			return true
		}
		condFn, exists := conditions[def.Condition]
		if !exists {
			return true
		}
		return condFn(state)
	}
}

func hasConditions(defs []NodeDef) bool {
	for _, def := range defs {
		if def.Condition != "" {
			return true
		}
	}
	return false
}
