package flow_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/flowkit/dag"
	fkerrors "github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/flow"
	"github.com/kbukum/flowkit/process"
)

func newRegistry() *dag.Registry {
	reg := dag.NewRegistry()
	reg.Register("extract", dag.Task("extract", func(_ context.Context, s *dag.State) (any, error) {
		s.Set("rows", 3)
		return nil, nil
	}))
	reg.Register("load", dag.Task("load", func(_ context.Context, s *dag.State) (any, error) {
		v, _ := s.Get("rows")
		return v, nil
	}))
	return reg
}

func TestFromPipeline_CarriesCronAndName(t *testing.T) {
	p, err := dag.ParsePipeline([]byte(`
name: nightly-etl
cron: "30 2 * * *"
nodes:
  - component: extract
  - component: load
    depends_on: [extract]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	f, err := flow.FromPipeline(p, newRegistry(), nil, flow.WithLogger(quietLogger(&buf)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name() != "nightly-etl" || f.Cron() != "30 2 * * *" {
		t.Fatalf("unexpected flow name/cron: %q %q", f.Name(), f.Cron())
	}

	res, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsSuccessful() || res.NodeResults["load"].Output != 3 {
		t.Fatalf("unexpected result: %s %v", res.Summary(), res.NodeResults["load"].Output)
	}
}

func TestFromPipeline_OptionsOverrideCron(t *testing.T) {
	p := &dag.Pipeline{Name: "p", Cron: "0 0 * * *", Nodes: []dag.NodeDef{{Component: "extract"}}}
	f, err := flow.FromPipeline(p, newRegistry(), nil, flow.WithCron("0 12 * * *"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Cron() != "0 12 * * *" {
		t.Fatalf("expected override, got %q", f.Cron())
	}
}

func TestFromPipeline_InvalidCron(t *testing.T) {
	p := &dag.Pipeline{Name: "p", Cron: "* c x 3", Nodes: []dag.NodeDef{{Component: "extract"}}}
	if _, err := flow.FromPipeline(p, newRegistry(), nil); !fkerrors.IsCode(err, fkerrors.ErrCodeInvalidSchedule) {
		t.Fatalf("expected INVALID_SCHEDULE, got %v", err)
	}
}

func TestFromPipeline_NilPipeline(t *testing.T) {
	if _, err := flow.FromPipeline(nil, newRegistry(), nil); !fkerrors.IsCode(err, fkerrors.ErrCodeNotImplemented) {
		t.Fatalf("expected NOT_IMPLEMENTED, got %v", err)
	}
}

func TestPipelineDefinition_UnknownComponent(t *testing.T) {
	p := &dag.Pipeline{Name: "p", Nodes: []dag.NodeDef{{Component: "ghost"}}}
	f, err := flow.FromPipeline(p, newRegistry(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.Build(context.Background()); !fkerrors.IsCode(err, fkerrors.ErrCodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestPipelineDefinition_MissingRegistry(t *testing.T) {
	def := &flow.PipelineDefinition{Pipeline: &dag.Pipeline{Name: "p"}}
	if _, err := def.Build(); !fkerrors.IsCode(err, fkerrors.ErrCodeInvalidPipeline) {
		t.Fatalf("expected INVALID_PIPELINE, got %v", err)
	}
}

func TestPipelineDefinition_Conditions(t *testing.T) {
	p := &dag.Pipeline{
		Name: "conditional",
		Nodes: []dag.NodeDef{
			{Component: "extract"},
			{Component: "load", DependsOn: []string{"extract"}, Condition: "never"},
		},
	}
	def := &flow.PipelineDefinition{
		Pipeline:   p,
		Registry:   newRegistry(),
		Conditions: map[string]dag.ConditionFunc{"never": func(*dag.State) bool { return false }},
	}
	var buf bytes.Buffer
	f, err := flow.New(def, flow.WithLogger(quietLogger(&buf)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NodeResults["load"].Status != dag.NodeSkipped {
		t.Fatalf("expected load skipped, got %s", res.NodeResults["load"].Status)
	}
}

func TestFromPipeline_RerunsWithIncludedCommands(t *testing.T) {
	dir := t.TempDir()
	sub := "name: sub\nnodes:\n  - component: a\n    command:\n      binary: \"true\"\n"
	if err := os.WriteFile(filepath.Join(dir, "sub.yaml"), []byte(sub), 0o644); err != nil {
		t.Fatal(err)
	}

	root := &dag.Pipeline{
		Name:     "root",
		Includes: []string{"sub"},
		Nodes: []dag.NodeDef{
			{Component: "b", DependsOn: []string{"a"}, Command: &dag.CommandDef{Binary: "true"}},
		},
	}
	reg, err := process.Registry(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	f, err := flow.FromPipeline(root, reg, process.Loader(dag.NewFilePipelineLoader(dir), reg), flow.WithLogger(quietLogger(&buf)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i <= 3; i++ {
		res, err := f.Run(context.Background())
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if !res.IsSuccessful() {
			t.Fatalf("run %d: expected success, got %s", i, res.Summary())
		}
		if res.NodeResults["a"].Status != dag.NodeCompleted {
			t.Fatalf("run %d: included node status %q", i, res.NodeResults["a"].Status)
		}
	}
}
