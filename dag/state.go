package dag

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/flowkit/errors"
)

// State carries values between the tasks of one run. A fresh State is
// created for every Graph.Run, so nothing leaks from one run to the next.
type State struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewState creates an empty State.
func NewState() *State {
	return &State{data: make(map[string]any)}
}

// Get returns the value stored under key.
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Has reports whether key was written. Conditions that only care whether an
// upstream task produced output can use it instead of Read.
func (s *State) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set stores value under key, replacing any previous value.
func (s *State) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Keys returns the sorted keys currently stored.
func (s *State) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Port names a state key together with the type stored under it, so the
// task writing a value and the tasks reading it agree at compile time.
type Port[T any] struct {
	Key string
}

// Has reports whether a value was written to p.
func (p Port[T]) Has(state *State) bool {
	return state.Has(p.Key)
}

// Read returns the value stored at port. A missing key is NOT_FOUND; a value
// of another type is INVALID_INPUT.
func Read[T any](state *State, port Port[T]) (T, error) {
	var zero T
	raw, ok := state.Get(port.Key)
	if !ok {
		return zero, errors.NotFound("state key", port.Key)
	}
	val, ok := raw.(T)
	if !ok {
		return zero, errors.InvalidInput(port.Key, fmt.Sprintf("state key %q holds %T, want %T", port.Key, raw, zero))
	}
	return val, nil
}

// Write stores value at port.
func Write[T any](state *State, port Port[T], value T) {
	state.Set(port.Key, value)
}
