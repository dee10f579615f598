package process_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/flowkit/dag"
	"github.com/kbukum/flowkit/process"
)

func TestTask_WritesResult(t *testing.T) {
	node := process.Task("greet", process.Command{Binary: "echo", Args: []string{"hi"}})
	if node.Name() != "greet" {
		t.Fatalf("expected 'greet', got %q", node.Name())
	}

	state := dag.NewState()
	if _, err := node.Run(context.Background(), state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := dag.Read(state, process.OutputPort("greet"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(string(res.Stdout)) != "hi" {
		t.Fatalf("expected 'hi', got %q", res.Stdout)
	}
}

func TestTask_FailureStillWritesResult(t *testing.T) {
	node := process.Task("fail", process.Command{Binary: "sh", Args: []string{"-c", "exit 3"}})

	state := dag.NewState()
	if _, err := node.Run(context.Background(), state); err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	res, err := dag.Read(state, process.OutputPort("fail"))
	if err != nil {
		t.Fatalf("expected result in state: %v", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", res.ExitCode)
	}
}

func TestRegistry_FromPipeline(t *testing.T) {
	p, err := dag.ParsePipeline([]byte(`
name: shell
nodes:
  - component: first
    command:
      binary: sh
      args: ["-c", "echo one"]
  - component: second
    depends_on: [first]
    command:
      binary: sh
      args: ["-c", "echo two"]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reg, err := process.Registry(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := reg.List(); len(names) != 2 {
		t.Fatalf("expected 2 registered commands, got %v", names)
	}

	g, err := dag.ResolvePipeline(p, reg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsSuccessful() {
		t.Fatalf("expected success, got %s", res.Summary())
	}
	out, ok := res.NodeResults["second"].Output.(*process.Result)
	if !ok || strings.TrimSpace(string(out.Stdout)) != "two" {
		t.Fatalf("unexpected output: %v", res.NodeResults["second"].Output)
	}
}

func TestRegisterCommands_SkipsPlainNodes(t *testing.T) {
	p := &dag.Pipeline{
		Name: "mixed",
		Nodes: []dag.NodeDef{
			{Component: "native"},
			{Component: "shell", Command: &dag.CommandDef{Binary: "true"}},
		},
	}
	reg := dag.NewRegistry()
	if err := process.RegisterCommands(reg, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := reg.Get("native"); ok {
		t.Fatal("plain nodes should not be registered")
	}
	if _, ok := reg.Get("shell"); !ok {
		t.Fatal("command node should be registered")
	}
}

func TestRegisterCommands_Errors(t *testing.T) {
	tests := []struct {
		name string
		p    *dag.Pipeline
	}{
		{"empty binary", &dag.Pipeline{Name: "p", Nodes: []dag.NodeDef{
			{Component: "x", Command: &dag.CommandDef{}},
		}}},
		{"duplicate", &dag.Pipeline{Name: "p", Nodes: []dag.NodeDef{
			{Component: "x", Command: &dag.CommandDef{Binary: "true"}},
			{Component: "x", Command: &dag.CommandDef{Binary: "true"}},
		}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := process.Registry(tc.p); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoader_RegistersIncludedCommands(t *testing.T) {
	dir := t.TempDir()
	shared := "name: shared\nnodes:\n  - component: prepare\n    command:\n      binary: \"true\"\n"
	if err := os.WriteFile(filepath.Join(dir, "shared.yaml"), []byte(shared), 0o644); err != nil {
		t.Fatal(err)
	}

	root := &dag.Pipeline{
		Name:     "main",
		Includes: []string{"shared"},
		Nodes: []dag.NodeDef{
			{Component: "report", DependsOn: []string{"prepare"}, Command: &dag.CommandDef{Binary: "true"}},
		},
	}
	reg, err := process.Registry(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g, err := dag.ResolvePipeline(root, reg, process.Loader(dag.NewFilePipelineLoader(dir), reg))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := g.Nodes["prepare"]; !ok {
		t.Fatalf("expected included command node, got %v", reg.List())
	}
	res, err := g.Run(context.Background())
	if err != nil || !res.IsSuccessful() {
		t.Fatalf("expected success, got %v / %v", res, err)
	}
}

func TestLoader_RepeatedLoadIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	shared := "name: shared\nnodes:\n  - component: prepare\n    command:\n      binary: \"true\"\n"
	if err := os.WriteFile(filepath.Join(dir, "shared.yaml"), []byte(shared), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := dag.NewRegistry()
	loader := process.Loader(dag.NewFilePipelineLoader(dir), reg)
	for i := 0; i < 2; i++ {
		if _, err := loader.Load("shared"); err != nil {
			t.Fatalf("load %d: unexpected error: %v", i+1, err)
		}
	}
	if names := reg.List(); len(names) != 1 || names[0] != "prepare" {
		t.Fatalf("expected [prepare], got %v", names)
	}
}

func TestLoader_RejectsClashWithRootCommand(t *testing.T) {
	dir := t.TempDir()
	shared := "name: shared\nnodes:\n  - component: prepare\n    command:\n      binary: \"true\"\n"
	if err := os.WriteFile(filepath.Join(dir, "shared.yaml"), []byte(shared), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := dag.NewRegistry()
	reg.Register("prepare", process.Task("prepare", process.Command{Binary: "true"}))
	if _, err := process.Loader(dag.NewFilePipelineLoader(dir), reg).Load("shared"); err == nil {
		t.Fatal("expected duplicate component error")
	}
}

func TestLoader_PropagatesLoadError(t *testing.T) {
	loader := process.Loader(dag.NewFilePipelineLoader(t.TempDir()), dag.NewRegistry())
	if _, err := loader.Load("missing"); err == nil {
		t.Fatal("expected error")
	}
}
