package ratelimit

import (
	"testing"
	"time"
)

func TestAttemptLimiter_BlocksAfterMax(t *testing.T) {
	l := NewAttemptLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if blocked, _ := l.TooManyAttempts("k"); blocked {
			t.Fatalf("blocked after %d hits", i)
		}
		l.Hit("k")
	}

	blocked, retryAfter := l.TooManyAttempts("k")
	if !blocked {
		t.Fatal("not blocked after max hits")
	}
	if retryAfter <= 0 || retryAfter > 60 {
		t.Fatalf("retryAfter = %d", retryAfter)
	}

	// Other keys are unaffected.
	if blocked, _ := l.TooManyAttempts("other"); blocked {
		t.Fatal("unrelated key blocked")
	}
}

func TestAttemptLimiter_WindowExpires(t *testing.T) {
	now := time.Now()
	l := NewAttemptLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	l.Hit("k")
	l.Hit("k")
	if blocked, _ := l.TooManyAttempts("k"); !blocked {
		t.Fatal("not blocked inside window")
	}

	now = now.Add(time.Minute + time.Second)
	if blocked, _ := l.TooManyAttempts("k"); blocked {
		t.Fatal("still blocked after window expired")
	}

	// The stale entry is gone; one new hit starts a fresh window.
	l.Hit("k")
	if blocked, _ := l.TooManyAttempts("k"); blocked {
		t.Fatal("blocked after a single hit in a new window")
	}
}

func TestAttemptLimiter_Clear(t *testing.T) {
	l := NewAttemptLimiter(1, time.Minute)

	l.Hit("k")
	if blocked, _ := l.TooManyAttempts("k"); !blocked {
		t.Fatal("not blocked")
	}

	l.Clear("k")
	if blocked, _ := l.TooManyAttempts("k"); blocked {
		t.Fatal("blocked after clear")
	}
}
