// Package consistent demonstrates keeping compound state consistent when it
// is updated and inspected from different goroutines.
//
// A state is a pair (value, twice) which is consistent when
// twice == 2*value. Updates write the two halves with a pause in between,
// so any reader which can run during an update may see a torn pair unless
// reads and writes exclude each other.
package consistent

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPause is the gap between writing the two halves of a state.
const DefaultPause = 3 * time.Millisecond

// Store is a (value, twice) pair which may be updated and checked
// concurrently.
type Store interface {
	SetValues(v int64)
	IsConsistent() bool
}

// Guarded holds its pair under a single mutex, so a check never observes
// an update half done.
type Guarded struct {
	Pause time.Duration

	mu    sync.Mutex
	value int64
	twice int64
}

// SetValues stores v and 2*v.
func (s *Guarded) SetValues(v int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	time.Sleep(s.Pause)
	s.twice = v * 2
}

// IsConsistent reports whether the pair is consistent. It waits for an
// in-flight SetValues to finish.
func (s *Guarded) IsConsistent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value*2 == s.twice
}

// Unguarded stores each half atomically but nothing ties the halves
// together: there is no data race on either field, yet a check that runs
// during SetValues sees an inconsistent pair.
type Unguarded struct {
	Pause time.Duration

	value atomic.Int64
	twice atomic.Int64
}

// SetValues stores v and 2*v, one field at a time.
func (s *Unguarded) SetValues(v int64) {
	s.value.Store(v)
	time.Sleep(s.Pause)
	s.twice.Store(v * 2)
}

// IsConsistent reports whether the two halves currently agree.
func (s *Unguarded) IsConsistent() bool {
	return s.value.Load()*2 == s.twice.Load()
}
