// Package retrylimit wraps calls to chat completion providers with adaptive
// rate limiting and bounded retries. The limiter speeds up while the provider
// is healthy and backs off when it returns 429s or 5xx errors.
//
// Example usage:
//
//	lim := retrylimit.NewAdaptiveLimiter(2, 0.5, 8, 0.5, 0.5)
//	err := retrylimit.WithRetry(ctx, func() error {
//	    return callProvider()
//	}, lim)
package retrylimit

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// Limiter
// =============================================================================

// AdaptiveLimiter manages a request rate that adjusts to provider feedback:
// nudged up after a quiet stretch of successes, cut down on overload errors.
// Safe for concurrent use.
type AdaptiveLimiter struct {
	mu             sync.RWMutex
	limiter        *rate.Limiter
	minLimit       rate.Limit
	maxLimit       rate.Limit
	stepUp         rate.Limit
	stepDown       float64
	recoveryWindow time.Duration
	lastError      time.Time
}

// NewAdaptiveLimiter creates a limiter starting at initial requests per
// second, bounded by [min, max]. stepUp is added after successes once the
// recovery window has passed since the last error; stepDown multiplies the
// rate on failure (0.5 halves it).
func NewAdaptiveLimiter(initial, min, max, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if initial <= 0 {
		initial = 1
	}
	if min <= 0 {
		min = 0.1
	}
	return &AdaptiveLimiter{
		limiter:        rate.NewLimiter(initial, max(1, int(initial))),
		minLimit:       min,
		maxLimit:       max,
		stepUp:         stepUp,
		stepDown:       stepDown,
		recoveryWindow: 10 * time.Second,
	}
}

// Wait blocks until a request token is available or the context ends.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return a.limiter.Wait(ctx)
}

// Success nudges the rate up, but only after a quiet stretch since the last
// error so a single good response does not undo a backoff.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > a.recoveryWindow {
		a.setLimit(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited cuts the rate after an overload response.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.setLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLimit(newLimit rate.Limit) {
	if newLimit > a.maxLimit {
		newLimit = a.maxLimit
	} else if newLimit < a.minLimit {
		newLimit = a.minLimit
	}
	if newLimit != a.limiter.Limit() {
		a.limiter.SetLimit(newLimit)
		a.limiter.SetBurst(max(1, int(newLimit)))
	}
}

// =============================================================================
// Errors
// =============================================================================

// StatusError is an error carrying the HTTP status a provider returned.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider returned status %d", e.Code)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.Code, e.Body)
}

// StatusCode returns the HTTP status.
func (e *StatusError) StatusCode() int { return e.Code }

// HTTPError is implemented by errors that carry an HTTP status code.
// StatusError satisfies it; callers may bring their own.
type HTTPError interface {
	error
	StatusCode() int
}

// FatalError wraps errors that should stop retries immediately, like a
// rejected API key or a malformed request that will never succeed.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// ErrorClassifier reports whether an error should trigger rate limiting.
type ErrorClassifier func(error) bool

// DefaultClassifier treats 429 and 5xx as overload.
func DefaultClassifier(err error) bool {
	return isRateLimitError(err) || isServerError(err)
}

// =============================================================================
// Retry
// =============================================================================

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts     int             // total attempts before giving up
	InitialDelay    time.Duration   // first backoff sleep
	MaxDelay        time.Duration   // backoff ceiling
	RateLimitDelay  time.Duration   // fixed sleep after a 429
	Multiplier      float64         // backoff growth factor
	Jitter          bool            // randomize sleeps to avoid lockstep
	ErrorClassifier ErrorClassifier // nil = DefaultClassifier
}

// DefaultRetryConfig returns the retry tuning for interactive chat calls.
// Three attempts keeps the user-facing stall short; callers that can wait
// longer raise MaxAttempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialDelay:   400 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		RateLimitDelay: 1500 * time.Millisecond,
		Multiplier:     2.0,
		Jitter:         true,
	}
}

// WithRetry executes fn with the default retry tuning. A nil limiter skips
// rate limiting. Retries stop on success, FatalError, context cancellation,
// or attempt exhaustion.
func WithRetry(ctx context.Context, fn func() error, lim *AdaptiveLimiter) error {
	return WithRetryConfig(ctx, fn, lim, DefaultRetryConfig())
}

// WithRetryConfig executes fn with custom retry tuning.
func WithRetryConfig(ctx context.Context, fn func() error, lim *AdaptiveLimiter, cfg RetryConfig) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.ErrorClassifier == nil {
		cfg.ErrorClassifier = DefaultClassifier
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			if lim != nil {
				lim.Success()
				if attempt > 1 {
					log.Printf("[Retry] success after %d attempts, limiter=%.2f rps",
						attempt, lim.CurrentLimit())
				}
			}
			return nil
		}
		lastErr = err

		if isFatalError(err) {
			return err
		}

		if isRateLimitError(err) {
			if lim != nil {
				lim.RateLimited()
				log.Printf("[Retry] rate limited (attempt %d), new limit %.2f rps",
					attempt, lim.CurrentLimit())
			}
			if err := sleep(ctx, cfg.RateLimitDelay); err != nil {
				return err
			}
			continue
		}

		if cfg.ErrorClassifier(err) && lim != nil {
			lim.RateLimited()
		}
		log.Printf("[Retry] attempt %d failed: %v, sleeping %v", attempt, err, delay)

		next := delay
		if cfg.Jitter {
			next = addJitter(delay)
		}
		if err := sleep(ctx, next); err != nil {
			return err
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("retry budget (%d attempts) exhausted: %w", cfg.MaxAttempts, lastErr)
}

// =============================================================================
// Helpers
// =============================================================================

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// addJitter adds 0-25% of the delay so concurrent callers spread out.
func addJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}

func isFatalError(err error) bool {
	_, ok := err.(*FatalError)
	return ok
}

func isRateLimitError(err error) bool {
	if httpErr, ok := err.(HTTPError); ok {
		return httpErr.StatusCode() == http.StatusTooManyRequests
	}
	return false
}

func isServerError(err error) bool {
	if httpErr, ok := err.(HTTPError); ok {
		code := httpErr.StatusCode()
		return code >= 500 && code < 600
	}
	return false
}
