package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePipeline(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("FLOWRUN_LOGGING_LEVEL", "error")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Success(t *testing.T) {
	dir := t.TempDir()
	writePipeline(t, dir, "common.yaml", `
name: common
nodes:
  - component: prepare
    command:
      binary: sh
      args: ["-c", "echo preparing"]
`)
	path := writePipeline(t, dir, "nightly.yaml", `
name: nightly
cron: "0 3 * * *"
includes: [common]
nodes:
  - component: export
    depends_on: [prepare]
    command:
      binary: sh
      args: ["-c", "echo exporting"]
`)

	code, stdout, stderr := runCLI(t, "--pipeline", path, "--max-parallel", "1")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d\nstdout: %s\nstderr: %s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "nightly success") {
		t.Errorf("expected success summary, got:\n%s", stdout)
	}
	for _, node := range []string{"prepare", "export"} {
		if !strings.Contains(stdout, node) {
			t.Errorf("expected %s in output:\n%s", node, stdout)
		}
	}
}

func TestRun_PositionalPipeline(t *testing.T) {
	path := writePipeline(t, t.TempDir(), "one.yaml", "name: one\nnodes:\n  - component: a\n    command:\n      binary: \"true\"\n")
	if code, stdout, _ := runCLI(t, path); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stdout)
	}
}

func TestRun_TaskFailure(t *testing.T) {
	path := writePipeline(t, t.TempDir(), "broken.yaml", `
name: broken
nodes:
  - component: fail
    command:
      binary: sh
      args: ["-c", "echo 'no input rows' >&2; exit 7"]
  - component: after
    depends_on: [fail]
    command:
      binary: "true"
`)

	code, stdout, _ := runCLI(t, "--pipeline", path)
	if code != exitFailed {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout, "broken failed") || !strings.Contains(stdout, "upstream_failed") ||
		!strings.Contains(stdout, "no input rows") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	path := writePipeline(t, t.TempDir(), "ok.yaml", "name: ok\nnodes:\n  - component: a\n    command:\n      binary: \"true\"\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no pipeline", nil, "pipeline: is required"},
		{"bad cron", []string{"--pipeline", path, "--cron", "* c x 3"}, "* c x 3"},
		{"negative parallelism", []string{"--pipeline", path, "--max-parallel", "-1"}, "max_parallel"},
		{"unknown flag", []string{"--frobnicate"}, "frobnicate"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tc.args...)
			if code != exitUsage {
				t.Fatalf("expected exit 2, got %d (stderr: %s)", code, stderr)
			}
			if !strings.Contains(stderr, tc.want) {
				t.Errorf("stderr should mention %q:\n%s", tc.want, stderr)
			}
		})
	}
}

func TestRun_SetupFailures(t *testing.T) {
	dir := t.TempDir()
	emptyBinary := writePipeline(t, dir, "nobinary.yaml", "name: nobinary\nnodes:\n  - component: a\n    command:\n      binary: \"\"\n")
	missingInclude := writePipeline(t, dir, "noinclude.yaml", "name: noinclude\nincludes: [ghost]\nnodes:\n  - component: a\n    command:\n      binary: \"true\"\n")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), "nope.yaml"},
		{"empty binary", emptyBinary, "command binary is required"},
		{"missing include", missingInclude, "ghost"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "--pipeline", tc.path)
			if code != exitFailed {
				t.Fatalf("expected exit 1, got %d (stderr: %s)", code, stderr)
			}
			if !strings.Contains(stderr, tc.want) {
				t.Errorf("stderr should mention %q:\n%s", tc.want, stderr)
			}
		})
	}
}

func TestRun_InvalidPipelineCron(t *testing.T) {
	path := writePipeline(t, t.TempDir(), "badcron.yaml", "name: badcron\ncron: \"* c x 3\"\nnodes:\n  - component: a\n    command:\n      binary: \"true\"\n")
	code, _, stderr := runCLI(t, "--pipeline", path)
	if code != exitUsage || !strings.Contains(stderr, "INVALID_SCHEDULE") {
		t.Fatalf("expected INVALID_SCHEDULE usage error, got %d: %s", code, stderr)
	}
}

func TestRun_Next(t *testing.T) {
	path := writePipeline(t, t.TempDir(), "weekly.yaml", "name: weekly\ncron: \"0 9 * * 1\"\nnodes:\n  - component: a\n    command:\n      binary: \"true\"\n")

	code, stdout, _ := runCLI(t, "--pipeline", path, "--next", "3")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 4 || lines[0] != "weekly (0 9 * * 1)" {
		t.Fatalf("unexpected output:\n%s", stdout)
	}

	unscheduled := writePipeline(t, t.TempDir(), "adhoc.yaml", "name: adhoc\nnodes:\n  - component: a\n    command:\n      binary: \"true\"\n")
	if code, _, _ := runCLI(t, "--pipeline", unscheduled, "--next", "1"); code != exitUsage {
		t.Fatalf("expected exit 2 without a schedule, got %d", code)
	}
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	if code != exitOK || !strings.HasPrefix(stdout, "flowrun ") {
		t.Fatalf("unexpected version output %d: %q", code, stdout)
	}
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "--help")
	if code != exitOK || !strings.Contains(stderr, "--pipeline") {
		t.Fatalf("expected usage on stderr, got %d: %s", code, stderr)
	}
}

func TestRun_Cancelled(t *testing.T) {
	t.Setenv("FLOWRUN_LOGGING_LEVEL", "error")
	path := writePipeline(t, t.TempDir(), "slow.yaml", "name: slow\nnodes:\n  - component: a\n    command:\n      binary: sleep\n      args: [\"5\"]\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	if code := run(ctx, []string{"--pipeline", path}, &stdout, &stderr); code != exitFailed {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(stdout.String(), "slow cancelled") {
		t.Errorf("expected cancelled summary, got:\n%s", stdout.String())
	}
}
