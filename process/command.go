package process

import (
	"io"
	"strings"
	"time"

	"github.com/kbukum/flowkit/dag"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// Timeout bounds the run; zero means only the caller's context applies.
	Timeout time.Duration
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}

// String renders the command line for logs and results.
func (c Command) String() string {
	return strings.Join(append([]string{c.Binary}, c.Args...), " ")
}

// FromDef converts a pipeline command declaration into a Command.
func FromDef(def *dag.CommandDef) Command {
	return Command{
		Binary:  def.Binary,
		Args:    def.Args,
		Dir:     def.Dir,
		Env:     def.Env,
		Timeout: def.Timeout,
	}
}
