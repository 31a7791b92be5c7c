// Package activity keeps a bounded in-memory log of dashboard events with
// drop-oldest eviction.
package activity

import (
	"sync"
	"time"
)

// Kind labels an activity entry.
type Kind string

// Recorded event kinds.
const (
	KindStudentCreated Kind = "student_created"
	KindStudentUpdated Kind = "student_updated"
	KindStudentDeleted Kind = "student_deleted"
	KindQueryAsked     Kind = "query_asked"
)

const defaultCapacity = 200

// Entry is one recorded event.
type Entry struct {
	At        time.Time `json:"at"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	StudentID string    `json:"student_id,omitempty"`
}

// Option applies a configuration option to the Log.
type Option func(*Log)

// WithCapacity bounds the number of retained entries.
func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// Log is a bounded, drop-oldest event log safe for concurrent use.
type Log struct {
	mu       sync.RWMutex
	capacity int
	entries  []Entry
	now      func() time.Time
}

// NewLog creates a Log with the given options.
func NewLog(opts ...Option) *Log {
	l := &Log{
		capacity: defaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends an entry, evicting the oldest once capacity is reached.
func (l *Log) Record(kind Kind, message, studentID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		At:        l.now(),
		Kind:      kind,
		Message:   message,
		StudentID: studentID,
	})
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// Entries returns up to limit entries, newest first. A non-positive limit
// returns everything retained.
func (l *Log) Entries(limit int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(l.entries) - 1; i >= len(l.entries)-n; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
