package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiter(t *testing.T) {
	t.Run("BlocksAfterMaxFailures", func(t *testing.T) {
		l := NewLoginLimiter(5, time.Minute)
		for i := 0; i < 5; i++ {
			assert.True(t, l.Allow("10.0.0.1"), "attempt %d", i+1)
			l.RecordFailure("10.0.0.1")
		}
		assert.False(t, l.Allow("10.0.0.1"))
		assert.True(t, l.Allow("10.0.0.2"))
	})

	t.Run("ResetClearsFailures", func(t *testing.T) {
		l := NewLoginLimiter(2, time.Minute)
		l.RecordFailure("k")
		l.RecordFailure("k")
		assert.False(t, l.Allow("k"))

		l.Reset("k")
		assert.True(t, l.Allow("k"))
	})

	t.Run("WindowExpires", func(t *testing.T) {
		l := NewLoginLimiter(1, 20*time.Millisecond)
		l.RecordFailure("k")
		assert.False(t, l.Allow("k"))

		assert.Eventually(t, func() bool { return l.Allow("k") }, time.Second, 10*time.Millisecond)
	})

	t.Run("Defaults", func(t *testing.T) {
		l := NewLoginLimiter(0, 0)
		assert.Equal(t, defaultMaxLoginFailures, l.maxFailures)
		assert.Equal(t, defaultLoginWindow, l.window)
	})

	t.Run("Concurrent", func(t *testing.T) {
		l := NewLoginLimiter(100, time.Minute)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.RecordFailure("shared")
				l.Allow("shared")
			}()
		}
		wg.Wait()

		n, found := l.failures.Get("shared")
		assert.True(t, found)
		assert.Equal(t, 50, n)
	})
}
