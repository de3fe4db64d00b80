package middleware

import (
	"context"
	"testing"
)

func TestMemoryRateLimiterIsolatesKeys(t *testing.T) {
	limiter := NewMemoryRateLimiter(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "caller-a")
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !ok {
			t.Fatalf("request %d within budget should pass", i)
		}
	}
	if ok, _ := limiter.Allow(ctx, "caller-a"); ok {
		t.Fatal("burst exceeded, should be limited")
	}

	// A different caller has their own budget.
	if ok, _ := limiter.Allow(ctx, "caller-b"); !ok {
		t.Fatal("unrelated caller should not be limited")
	}
}
