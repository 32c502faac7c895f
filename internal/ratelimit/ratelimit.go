// Package ratelimit tracks the daily per-IP council quota.
package ratelimit

import (
	"sync"
	"time"
)

type record struct {
	dateKey string
	count   int
}

// DailyLimiter allows a fixed number of councils per client per UTC day.
type DailyLimiter struct {
	mu    sync.Mutex
	limit int
	now   func() time.Time
	usage map[string]record
}

// NewDailyLimiter creates a limiter allowing limit councils per day.
func NewDailyLimiter(limit int) *DailyLimiter {
	return &DailyLimiter{
		limit: limit,
		now:   time.Now,
		usage: make(map[string]record),
	}
}

// Allow consumes one unit of today's quota for key. It returns whether
// the request is allowed and how many units remain afterward.
func (l *DailyLimiter) Allow(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	today := l.now().UTC().Format("2006-01-02")
	current, ok := l.usage[key]
	if !ok || current.dateKey != today {
		l.usage[key] = record{dateKey: today, count: 1}
		return true, l.limit - 1
	}

	if current.count >= l.limit {
		return false, 0
	}

	current.count++
	l.usage[key] = current
	return true, l.limit - current.count
}
