package middleware

import (
	"context"
	"errors"
	"sync"

	"github.com/Keksclan/goAcornFlow/policy"
	"github.com/Keksclan/goAcornFlow/ratelimit"
)

// ErrRateLimited is returned when the applicable rate limiter has been
// exhausted. Allocated once to avoid per-dispatch allocations on the hot
// path.
var ErrRateLimited = errors.New("middleware: rate limit exceeded")

// rateLimitState holds the global limiter, an optional policy resolver, and a
// cache of per-group limiters created lazily from resolved policies.
type rateLimitState struct {
	global   *ratelimit.Limiter
	resolver *policy.Resolver

	mu     sync.Mutex
	groups map[string]*ratelimit.Limiter
}

// limiterFor returns the per-group limiter when the resolver matches
// actionType to a group with a RateLimit policy. Otherwise it returns the
// global limiter.
func (s *rateLimitState) limiterFor(actionType string) *ratelimit.Limiter {
	if s.resolver != nil {
		if _, pol, ok := s.resolver.Resolve(actionType); ok && pol != nil && pol.RateLimit != nil {
			return s.groupLimiter(actionType, pol.RateLimit)
		}
	}
	return s.global
}

// groupLimiter returns (or lazily creates) a per-group limiter keyed by the
// resolved group name.
func (s *rateLimitState) groupLimiter(actionType string, rl *policy.RateLimitRule) *ratelimit.Limiter {
	// Resolve again to get the group name (cheap, no allocations).
	name, _, _ := s.resolver.Resolve(actionType)

	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.groups[name]; ok {
		return l
	}
	l := ratelimit.NewLimiter(float64(rl.Rate)/rl.Window.Seconds(), rl.Rate)
	s.groups[name] = l
	return l
}

// RateLimit returns a middleware that rejects dispatches with
// [ErrRateLimited] when the applicable rate limiter has been exhausted.
// When a policy resolver is provided and the action type matches a group
// with a RateLimit rule, that per-group limiter is used; otherwise the
// global limiter applies.
func RateLimit(l *ratelimit.Limiter, r *policy.Resolver) Middleware {
	st := &rateLimitState{global: l, resolver: r, groups: make(map[string]*ratelimit.Limiter)}
	return func(api API) func(Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(ctx context.Context, action any) (any, error) {
				if !st.limiterFor(ActionType(action)).Allow() {
					return nil, ErrRateLimited
				}
				return next(ctx, action)
			}
		}
	}
}
