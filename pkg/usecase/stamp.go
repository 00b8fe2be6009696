package usecase

import (
	"sync"
	"time"
)

// stamper issues strictly increasing millisecond stamps for working branch names,
// even when the clock returns the same or an earlier instant.
type stamper struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func newStamper(now func() time.Time) *stamper {
	if now == nil {
		now = time.Now
	}
	return &stamper{now: now}
}

func (s *stamper) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := s.now().UnixMilli()
	if stamp <= s.last {
		stamp = s.last + 1
	}
	s.last = stamp
	return stamp
}
