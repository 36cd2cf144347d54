package fleet

import (
	"sort"
	"sync"
)

// FailureSet records the devices deemed unreachable during a run. Every
// polling stage inserts into it and every later stage consults it before
// doing device-keyed work. Membership is sticky: there is no removal, so one
// failed operation excludes a device for the remainder of the run even if a
// later attempt would have succeeded.
//
// The zero value is not usable; construct with NewFailureSet. A FailureSet is
// scoped to a single run and never persisted.
type FailureSet struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewFailureSet returns an empty FailureSet safe for concurrent use.
func NewFailureSet() *FailureSet {
	return &FailureSet{
		names: make(map[string]struct{}),
	}
}

// MarkUnreachable inserts a device identifier. Idempotent and safe under
// concurrent callers.
func (s *FailureSet) MarkUnreachable(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[name] = struct{}{}
}

// IsUnreachable reports whether the device identifier has been marked.
func (s *FailureSet) IsUnreachable(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.names[name]
	return ok
}

// Len returns the number of devices marked unreachable.
func (s *FailureSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// Names returns the marked device identifiers in sorted order.
func (s *FailureSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
