package process_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/process"
)

func TestRunEcho(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "echo",
		Args:   []string{"hello", "world"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", result.ExitCode)
	}
	out := strings.TrimSpace(string(result.Stdout))
	if out != "hello world" {
		t.Fatalf("expected 'hello world', got %q", out)
	}
}

func TestRunStdin(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "cat",
		Stdin:  strings.NewReader("from stdin"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(result.Stdout)
	if out != "from stdin" {
		t.Fatalf("expected 'from stdin', got %q", out)
	}
}

func TestRunExitCode(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "exit 42"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result.ExitCode != 42 {
		t.Fatalf("expected exit code 42, got %d", result.ExitCode)
	}
}

func TestRunFailureReportsCommandAndStderr(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo first >&2; echo 'disk full' >&2; exit 3"},
	})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result.Succeeded() {
		t.Fatal("expected Succeeded to be false")
	}
	if !strings.HasPrefix(result.Command, "sh -c ") {
		t.Fatalf("unexpected command %q", result.Command)
	}
	if result.StderrTail() != "disk full" {
		t.Fatalf("expected last stderr line, got %q", result.StderrTail())
	}
	if !strings.Contains(err.Error(), "exit code 3") || !strings.Contains(err.Error(), "(stderr: disk full)") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResult_StderrTail(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{"empty", "", ""},
		{"single line", "boom\n", "boom"},
		{"trailing blank lines", "one\ntwo\n\n  \n", "two"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &process.Result{Stderr: []byte(tc.stderr)}
			if got := r.StderrTail(); got != tc.want {
				t.Fatalf("StderrTail() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	cmd := process.Command{Binary: "rsync", Args: []string{"-a", "src/", "dst/"}}
	if got := cmd.String(); got != "rsync -a src/ dst/" {
		t.Fatalf("unexpected command line %q", got)
	}
}

func TestRunStderr(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo oops >&2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stderr := strings.TrimSpace(string(result.Stderr))
	if stderr != "oops" {
		t.Fatalf("expected 'oops' on stderr, got %q", stderr)
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := process.Run(ctx, process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		GracePeriod: 500 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error from context cancellation")
	}
	if result.Duration > 5*time.Second {
		t.Fatalf("process took too long to kill: %v", result.Duration)
	}
}

func TestRunEmptyBinary(t *testing.T) {
	_, err := process.Run(context.Background(), process.Command{})
	if !errors.IsCode(err, errors.ErrCodeMissingField) {
		t.Fatalf("expected MISSING_FIELD for empty binary, got %v", err)
	}
}

func TestRunDuration(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sleep",
		Args:   []string{"0.1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Duration < 50*time.Millisecond {
		t.Fatalf("duration too short: %v", result.Duration)
	}
}

func TestRunEnv(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary: "sh",
		Args:   []string{"-c", "echo $MY_TEST_VAR"},
		Env:    []string{"MY_TEST_VAR=hello123"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := strings.TrimSpace(string(result.Stdout))
	if out != "hello123" {
		t.Fatalf("expected 'hello123', got %q", out)
	}
}

func TestRunTimeout(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary:      "sleep",
		Args:        []string{"10"},
		Timeout:     100 * time.Millisecond,
		GracePeriod: 500 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if result.Duration > 5*time.Second {
		t.Fatalf("process ignored timeout: %v", result.Duration)
	}
}
