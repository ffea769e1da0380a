package providers

import (
	"errors"
	"fmt"
)

// ErrUpstreamRateLimited means the provider itself throttled this call.
// Distinct from the local quota gate even though both surface as 429.
var ErrUpstreamRateLimited = errors.New("upstream provider rate limited the request")

// ErrQuotaExhausted means the provider reported depleted billing credits.
// Fatal until an operator intervenes; never retried.
var ErrQuotaExhausted = errors.New("upstream provider credits exhausted")

// UpstreamError covers any other non-success provider response. The raw
// provider body is never carried here, only the status code.
type UpstreamError struct {
	Provider   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API returned status %d", e.Provider, e.StatusCode)
}

// classifyStatus maps a non-2xx provider status into the taxonomy.
func classifyStatus(provider string, status int) error {
	switch status {
	case 429:
		return ErrUpstreamRateLimited
	case 402:
		return ErrQuotaExhausted
	default:
		return &UpstreamError{Provider: provider, StatusCode: status}
	}
}
