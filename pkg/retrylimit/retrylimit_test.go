package retrylimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialDelay:   time.Millisecond,
		MaxDelay:       2 * time.Millisecond,
		RateLimitDelay: time.Millisecond,
		Multiplier:     2.0,
		Jitter:         false,
	}
}

func TestWithRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return nil
	}, nil, fastConfig())
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestWithRetryRecoversAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, nil, fastConfig())
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestWithRetryExhaustsBudget(t *testing.T) {
	boom := errors.New("still broken")
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return boom
	}, nil, fastConfig())
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Fatalf("calls = %d", calls)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("final error does not wrap the last failure: %v", err)
	}
}

func TestWithRetryStopsOnFatal(t *testing.T) {
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return &FatalError{Err: errors.New("bad api key")}
	}, nil, fastConfig())
	if err == nil || calls != 1 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}
}

func TestWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WithRetryConfig(ctx, func() error {
		t.Fatal("fn ran with canceled context")
		return nil
	}, nil, fastConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestStatusErrorClassification(t *testing.T) {
	cases := []struct {
		code        int
		rateLimited bool
		server      bool
	}{
		{429, true, false},
		{500, false, true},
		{503, false, true},
		{400, false, false},
		{200, false, false},
	}
	for _, tc := range cases {
		err := &StatusError{Code: tc.code}
		if got := isRateLimitError(err); got != tc.rateLimited {
			t.Fatalf("code %d: rate limit = %t", tc.code, got)
		}
		if got := isServerError(err); got != tc.server {
			t.Fatalf("code %d: server error = %t", tc.code, got)
		}
	}
	if DefaultClassifier(errors.New("plain")) {
		t.Fatal("plain error classified as overload")
	}
}

func TestAdaptiveLimiterBackoffAndRecovery(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 8, 1, 0.5)
	if got := lim.CurrentLimit(); got != 4 {
		t.Fatalf("initial limit = %v", got)
	}

	lim.RateLimited()
	if got := lim.CurrentLimit(); got != 2 {
		t.Fatalf("limit after backoff = %v", got)
	}
	lim.RateLimited()
	lim.RateLimited()
	if got := lim.CurrentLimit(); got != 1 {
		t.Fatalf("limit did not clamp at min: %v", got)
	}

	// Success inside the recovery window must not raise the limit.
	lim.Success()
	if got := lim.CurrentLimit(); got != 1 {
		t.Fatalf("limit rose during recovery window: %v", got)
	}

	// After the window passes, successes climb toward the max.
	lim.recoveryWindow = 0
	for i := 0; i < 20; i++ {
		lim.Success()
	}
	if got := lim.CurrentLimit(); got != 8 {
		t.Fatalf("limit did not climb to max: %v", got)
	}
}

func TestRateLimitedErrorCutsLimiter(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 8, 1, 0.5)
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return &StatusError{Code: 429}
	}, lim, fastConfig())
	if err == nil {
		t.Fatal("expected failure")
	}
	if calls != 3 {
		t.Fatalf("calls = %d", calls)
	}
	if got := lim.CurrentLimit(); got >= 4 {
		t.Fatalf("limiter not reduced: %v", got)
	}
}
