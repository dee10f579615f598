package dag

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/flowkit/errors"
)

// RunStatus is the state a pipeline run ended in.
type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusRunning   RunStatus = "running"
	StatusSuccess   RunStatus = "success"
	StatusFailed    RunStatus = "failed"
	StatusCancelled RunStatus = "cancelled"
)

// Node statuses.
const (
	NodeCompleted      = "completed"
	NodeFailed         = "failed"
	NodeSkipped        = "skipped"
	NodeUpstreamFailed = "upstream_failed"
	NodeNotRun         = "not_run"
)

// Result holds the outcome of a graph execution.
type Result struct {
	RunID       uuid.UUID
	Pipeline    string
	Status      RunStatus
	NodeResults map[string]NodeResult
	StartedAt   time.Time
	Duration    time.Duration
}

// NodeResult holds the outcome of a single node execution.
type NodeResult struct {
	Name     string
	Status   string // "completed" | "skipped" | "failed" | "upstream_failed" | "not_run"
	Duration time.Duration
	Output   any
	Error    error
}

// IsFinished reports whether the run reached a terminal state.
func (r *Result) IsFinished() bool {
	switch r.Status {
	case StatusSuccess, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// IsSuccessful reports whether every executed node completed.
func (r *Result) IsSuccessful() bool {
	return r.Status == StatusSuccess
}

// Failed returns the sorted names of nodes that returned an error.
func (r *Result) Failed() []string {
	var names []string
	for name, nr := range r.NodeResults {
		if nr.Status == NodeFailed {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Err summarises failed nodes as a TASK_FAILED error, or returns nil.
func (r *Result) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	first := r.NodeResults[failed[0]]
	if len(failed) == 1 {
		return errors.TaskFailed(first.Name, first.Error)
	}
	return errors.TaskFailed(first.Name, first.Error).
		WithDetail("failed", failed).
		WithDetail("summary", fmt.Sprintf("%d tasks failed: %s", len(failed), strings.Join(failed, ", ")))
}

// Summary returns a one-line description of the run.
func (r *Result) Summary() string {
	counts := make(map[string]int)
	for _, nr := range r.NodeResults {
		counts[nr.Status]++
	}
	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)

	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		parts = append(parts, fmt.Sprintf("%s=%d", s, counts[s]))
	}
	return fmt.Sprintf("%s %s in %s (%s)", r.Pipeline, r.Status, r.Duration.Round(time.Millisecond), strings.Join(parts, " "))
}
