package http

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net/http"
	"time"
)

// BackoffConfig describes an exponential retry policy with jitter.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// JitterFactor adds up to this fraction of the delay at random.
	JitterFactor float64
}

// DefaultBackoffConfig retries three times starting at 200ms.
func DefaultBackoffConfig() *BackoffConfig {
	return &BackoffConfig{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2,
		JitterFactor:    0.1,
	}
}

// Delay returns the wait before the given retry, counting from 1.
func (b *BackoffConfig) Delay(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	multiplier := b.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := float64(b.InitialInterval) * math.Pow(multiplier, float64(retry-1))
	if b.MaxInterval > 0 && delay > float64(b.MaxInterval) {
		delay = float64(b.MaxInterval)
	}
	if b.JitterFactor > 0 {
		delay += delay * b.JitterFactor * rand.Float64()
	}
	return time.Duration(delay)
}

// isRetryable reports whether an attempt failed transiently: a transport error,
// a timeout, 429 or any 5xx.
func isRetryable(status int, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if status == 0 {
		return true
	}
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
