// Package process runs subprocesses and exposes them as dag task nodes.
//
// Run executes a Command with context cancellation: the process group gets
// SIGTERM first and SIGKILL once the grace period passes. Task wraps a
// Command into a dag.Node whose Result is written to state under
// OutputPort(name), and RegisterCommands turns the command declarations of a
// YAML pipeline into registry entries.
package process
