package process

import (
	"bytes"
	"time"
)

// Result is what a command task leaves in state under OutputPort.
type Result struct {
	// Command is the command line that ran, as rendered by Command.String.
	Command string
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit code, or -1 when the process did not
	// start or was killed by a signal.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
}

// Succeeded reports whether the command exited with status 0.
func (r *Result) Succeeded() bool { return r.ExitCode == 0 }

// StderrTail returns the last non-empty line of Stderr.
func (r *Result) StderrTail() string {
	lines := bytes.Split(bytes.TrimSpace(r.Stderr), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if line := bytes.TrimSpace(lines[i]); len(line) > 0 {
			return string(line)
		}
	}
	return ""
}
