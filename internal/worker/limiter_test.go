package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 4 {
		t.Errorf("expected default burst 4 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://api.fda.gov/device/510k.json"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A different host draws from its own bucket
	if err := limiter.Wait(ctx, "https://clinicaltrials.gov/api/v2/studies"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	url := "https://api.fda.gov/device/510k.json"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst 1: the token is spent, an immediate Allow must fail
	if limiter.Allow(url) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Another host is unaffected
	if !limiter.Allow("https://clinicaltrials.gov/api/v2/studies") {
		t.Errorf("expected allow for other host")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	host := "slow.example.com"

	limiter.SetHostRate(host, 0.1, 1)

	if !limiter.Allow("https://" + host + "/feed") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("https://" + host + "/feed") {
		t.Errorf("second request should fail")
	}

	// Other hosts keep the fast default
	if !limiter.Allow("https://fast.example.com/feed") {
		t.Errorf("other host should pass")
	}
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("https://api.fda.gov/device/510k.json?limit=10")
	if err != nil {
		t.Fatalf("extractHost failed: %v", err)
	}
	if host != "api.fda.gov" {
		t.Errorf("expected api.fda.gov, got %s", host)
	}

	_, err = extractHost("::invalid")
	if err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
