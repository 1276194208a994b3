package auth

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultMaxLoginFailures = 5
	defaultLoginWindow      = 15 * time.Minute
)

// LoginLimiter counts failed logins per client key inside a fixed window.
// Once the limit is hit the key stays blocked until its window expires.
type LoginLimiter struct {
	failures    *cache.Cache
	maxFailures int
	window      time.Duration
}

func NewLoginLimiter(maxFailures int, window time.Duration) *LoginLimiter {
	if maxFailures <= 0 {
		maxFailures = defaultMaxLoginFailures
	}
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &LoginLimiter{
		failures:    cache.New(window, 2*window),
		maxFailures: maxFailures,
		window:      window,
	}
}

// Allow reports whether key may attempt another login.
func (l *LoginLimiter) Allow(key string) bool {
	n, found := l.failures.Get(key)
	if !found {
		return true
	}
	return n.(int) < l.maxFailures
}

// RecordFailure counts one failed attempt. The window starts at the first failure.
func (l *LoginLimiter) RecordFailure(key string) {
	if l.failures.Add(key, 1, l.window) == nil {
		return
	}
	if _, err := l.failures.IncrementInt(key, 1); err != nil {
		// Expired between Add and IncrementInt; start a new window.
		l.failures.Set(key, 1, l.window)
	}
}

// Reset forgets the failures of key after a successful login.
func (l *LoginLimiter) Reset(key string) {
	l.failures.Delete(key)
}
