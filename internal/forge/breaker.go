package forge

import (
	"time"

	"github.com/sony/gobreaker"
)

// newAPIBreaker trips after 5 consecutive failures against the forge API and
// stays open for 20s before allowing a single probe request through. One
// breaker is shared across every call an adapter makes, since a forge outage
// affects all endpoints together, not one at a time.
func newAPIBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     20 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// callBreaker runs fn through cb, preserving fn's own error unless the
// breaker itself refuses the call (open state, in which case v comes back
// as an untyped nil and the comma-ok assertion below falls through to the
// zero value).
func callBreaker[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	v, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if t, ok := v.(T); ok {
		return t, err
	}
	var zero T
	return zero, err
}
