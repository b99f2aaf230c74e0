package api

import (
	"runtime"
	"testing"
	"time"
)

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d within burst was throttled", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Error("request over burst was allowed")
	}
	// Other clients have their own budget.
	if !rl.allow("5.6.7.8") {
		t.Error("fresh client was throttled")
	}
}

func TestRateLimiterStopEndsCleanup(t *testing.T) {
	before := runtime.NumGoroutine()

	limiters := make([]*RateLimiter, 10)
	for i := range limiters {
		limiters[i] = NewRateLimiter(1)
	}
	for _, rl := range limiters {
		rl.Stop()
		rl.Stop() // idempotent
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("%d goroutines still running after Stop, started with %d", runtime.NumGoroutine(), before)
}
