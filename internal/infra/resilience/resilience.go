// Package resilience provides the circuit breaker that guards dependency
// health checks. Calls are never retried.
package resilience

import (
	"time"

	"github.com/sony/gobreaker"
)

// NewCircuitBreaker creates a circuit breaker with sensible defaults.
// Errors for which isRejection returns true are answers from a healthy
// backend (bad credentials, forbidden) and do not count as failures.
func NewCircuitBreaker(name string, isRejection func(error) bool) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,                // half-open: allow 3 requests
		Interval:    30 * time.Second, // closed: reset counters every 30s
		Timeout:     10 * time.Second, // open -> half-open after 10s
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || (isRejection != nil && isRejection(err))
		},
	})
}
