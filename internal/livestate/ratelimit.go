package livestate

import (
	"sync"
	"time"
)

// RateLimiter gates high-frequency topics by a fixed minimum interval
// between accepted samples. Dropped samples leave no trace; each
// accepted line supersedes the previous one for display.
type RateLimiter struct {
	minInterval time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		minInterval: minInterval,
		last:        make(map[string]time.Time),
	}
}

// Admit reports whether a sample for topic arriving at now should be
// accepted. The first sample for a topic is always accepted.
func (rl *RateLimiter) Admit(topic string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	prev, seen := rl.last[topic]
	if seen && now.Sub(prev) < rl.minInterval {
		return false
	}
	rl.last[topic] = now
	return true
}

// Reset forgets all last-accepted timestamps.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.last = make(map[string]time.Time)
}
