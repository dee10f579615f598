// Package dag is the pipeline engine flows hand their work to.
//
// A Graph is the unit of work: named task nodes plus dependency edges.
// Graph.Run executes it in dependency order, running the nodes of each
// level concurrently, and returns a Result whose Status says how the run
// ended.
//
//	g := dag.NewGraph("etl")
//	g.Add(dag.Task("extract", extract))
//	g.Add(dag.Task("load", load), "extract")
//	res, err := g.Run(ctx)
//	if res.IsSuccessful() { ... }
//
// Graphs can also be declared in YAML (see Pipeline) and resolved against a
// Registry of node implementations.
package dag
