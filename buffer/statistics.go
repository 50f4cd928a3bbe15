package buffer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks buffer activity. All counters are safe for
// concurrent updates and reads.
type Statistics struct {
	// Atomic counters
	pushes    int64
	pulls     int64
	peeks     int64
	overflows int64
	drops     int64

	// Protected by mutex
	mu           sync.RWMutex
	startTime    time.Time
	currentDepth int64
	maxDepth     int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

// Push records a buffer push operation.
func (s *Statistics) Push() {
	atomic.AddInt64(&s.pushes, 1)
}

// Pull records a buffer pull operation.
func (s *Statistics) Pull() {
	atomic.AddInt64(&s.pulls, 1)
}

// Peek records a buffer peek operation.
func (s *Statistics) Peek() {
	atomic.AddInt64(&s.peeks, 1)
}

// Overflow records a buffer overflow event.
func (s *Statistics) Overflow() {
	atomic.AddInt64(&s.overflows, 1)
}

// Drop records an item drop due to overflow policy.
func (s *Statistics) Drop() {
	atomic.AddInt64(&s.drops, 1)
}

// UpdateDepth updates the current buffer depth.
func (s *Statistics) UpdateDepth(depth int64) {
	s.mu.Lock()
	s.currentDepth = depth
	if depth > s.maxDepth {
		s.maxDepth = depth
	}
	s.mu.Unlock()
}

// Pushes returns the total number of push operations.
func (s *Statistics) Pushes() int64 {
	return atomic.LoadInt64(&s.pushes)
}

// Pulls returns the total number of pull operations.
func (s *Statistics) Pulls() int64 {
	return atomic.LoadInt64(&s.pulls)
}

// Peeks returns the total number of peek operations.
func (s *Statistics) Peeks() int64 {
	return atomic.LoadInt64(&s.peeks)
}

// Overflows returns the total number of overflow events.
func (s *Statistics) Overflows() int64 {
	return atomic.LoadInt64(&s.overflows)
}

// Drops returns the total number of dropped items.
func (s *Statistics) Drops() int64 {
	return atomic.LoadInt64(&s.drops)
}

// CurrentDepth returns the depth recorded by the last update.
func (s *Statistics) CurrentDepth() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentDepth
}

// MaxDepth returns the highest depth observed.
func (s *Statistics) MaxDepth() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxDepth
}

// Uptime returns the time elapsed since the statistics were created.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}
