package rate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	minuteWindow = time.Minute
	hourWindow   = time.Hour
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// Limiter throttles repeated attempts per subject, typically an IP or
// an email address on the auth endpoints.
type Limiter struct {
	store     WindowStore
	perMinute int
	perHour   int
}

func NewLimiter(store WindowStore, perMinute, perHour int) *Limiter {
	if perMinute < 0 {
		perMinute = 0
	}
	if perHour < 0 {
		perHour = 0
	}

	return &Limiter{
		store:     store,
		perMinute: perMinute,
		perHour:   perHour,
	}
}

// AllowAttempt records one attempt and reports whether it is within
// the limits. When blocked it returns how many seconds to wait.
func (l *Limiter) AllowAttempt(ctx context.Context, scope, subject string) (int64, bool, error) {
	if strings.TrimSpace(scope) == "" || strings.TrimSpace(subject) == "" {
		return 0, false, fmt.Errorf("invalid rate subject")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}

	retryAfterSec := int64(0)

	if l.perMinute > 0 {
		count, ttl, err := l.store.IncrementWindow(ctx, minuteKey(scope, subject), minuteWindow)
		if err != nil {
			return 0, false, err
		}
		if count > int64(l.perMinute) {
			retryAfterSec = maxInt64(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if l.perHour > 0 {
		count, ttl, err := l.store.IncrementWindow(ctx, hourKey(scope, subject), hourWindow)
		if err != nil {
			return 0, false, err
		}
		if count > int64(l.perHour) {
			retryAfterSec = maxInt64(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if retryAfterSec > 0 {
		return retryAfterSec, false, nil
	}

	return 0, true, nil
}

// RetryAfter reports the current wait without recording an attempt.
func (l *Limiter) RetryAfter(ctx context.Context, scope, subject string) (int64, error) {
	if strings.TrimSpace(scope) == "" || strings.TrimSpace(subject) == "" {
		return 0, fmt.Errorf("invalid rate subject")
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}

	retryAfterSec := int64(0)

	if l.perMinute > 0 {
		count, ttl, err := l.store.WindowState(ctx, minuteKey(scope, subject))
		if err != nil {
			return 0, err
		}
		if count >= int64(l.perMinute) {
			retryAfterSec = maxInt64(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if l.perHour > 0 {
		count, ttl, err := l.store.WindowState(ctx, hourKey(scope, subject))
		if err != nil {
			return 0, err
		}
		if count >= int64(l.perHour) {
			retryAfterSec = maxInt64(retryAfterSec, ceilSeconds(ttl))
		}
	}

	return retryAfterSec, nil
}

func minuteKey(scope, subject string) string {
	return "rate:" + scope + ":min:" + subject
}

func hourKey(scope, subject string) string {
	return "rate:" + scope + ":hr:" + subject
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
