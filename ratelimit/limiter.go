// Package ratelimit provides a token-bucket rate limiter backed by
// golang.org/x/time/rate for use as a gate in front of action dispatches.
package ratelimit

import "golang.org/x/time/rate"

// Limiter wraps a token-bucket limiter that decides whether a dispatch
// should be allowed.
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter creates a Limiter that permits rps dispatches per second
// with the given burst size.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow reports whether a single dispatch may proceed.
func (l *Limiter) Allow() bool {
	return l.lim.Allow()
}
