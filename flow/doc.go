// Package flow wraps a user-defined pipeline builder into a runnable,
// optionally scheduled flow.
//
// A flow definition is any type with a Build method returning a *dag.Graph.
// New rejects a missing definition, validates the optional cron expression
// and returns a Flow whose Run builds the graph and hands it to the dag
// engine:
//
//	type nightly struct{}
//
//	func (nightly) Build() (*dag.Graph, error) {
//		return dag.NewGraph("nightly").
//			Add(dag.Task("extract", extract)).
//			Add(dag.Task("load", load), "extract"), nil
//	}
//
//	f, err := flow.New(nightly{}, flow.WithCron("0 3 * * *"))
//	if err != nil {
//		return err
//	}
//	res, err := f.Run(ctx)
//
// Definitions can also come from YAML pipelines through FromPipeline.
package flow
