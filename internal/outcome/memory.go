package outcome

import (
	"context"
	"sync"
)

// DefaultMemoryCapacity bounds MemorySink when no capacity is given.
const DefaultMemoryCapacity = 10000

// MemorySink keeps the most recent events in a ring buffer. When full, the
// oldest event is dropped to make room.
type MemorySink struct {
	mu       sync.Mutex
	events   []Event
	head     int // next write position
	tail     int // oldest event
	count    int
	capacity int
	dropped  int64
}

// NewMemorySink creates a sink holding at most capacity events.
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemorySink{events: make([]Event, capacity), capacity: capacity}
}

func (s *MemorySink) Publish(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count >= s.capacity {
		s.tail = (s.tail + 1) % s.capacity
		s.count--
		s.dropped++
	}
	s.events[s.head] = event
	s.head = (s.head + 1) % s.capacity
	s.count++
	return nil
}

// Recent returns up to limit events, newest first. limit <= 0 returns all.
func (s *MemorySink) Recent(limit int) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.count
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		idx := (s.head - 1 - i + s.capacity) % s.capacity
		out = append(out, s.events[idx])
	}
	return out
}

// ForEvent returns every retained outcome for a collection event, oldest first.
func (s *MemorySink) ForEvent(eventID string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Event
	for i := 0; i < s.count; i++ {
		e := s.events[(s.tail+i)%s.capacity]
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of retained events.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Dropped returns how many events were evicted.
func (s *MemorySink) Dropped() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *MemorySink) Health(context.Context) error { return nil }
