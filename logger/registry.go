package logger

import "sync"

// Component loggers used by flowkit packages. Get falls back to the global
// logger tagged with the name, so none of them has to be registered.
const (
	ComponentFlow = "flow"
	ComponentDAG  = "dag"
)

var (
	namedMu sync.RWMutex
	named   = make(map[string]*Logger)
)

// Register makes l the logger Get returns for name, e.g. to send one
// component's output to a separate writer.
func Register(name string, l *Logger) {
	namedMu.Lock()
	named[name] = l
	namedMu.Unlock()
}

// Unregister removes name, so Get falls back to the global logger again.
func Unregister(name string) {
	namedMu.Lock()
	delete(named, name)
	namedMu.Unlock()
}

// Get returns the logger registered under name. Unregistered names resolve
// at call time to the global logger with component=name, so loggers taken
// after Init pick up the configured level and format.
func Get(name string) *Logger {
	namedMu.RLock()
	l, ok := named[name]
	namedMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}
