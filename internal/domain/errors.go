package domain

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Handlers map these to HTTP statuses; the messages
// shown to end users are generic, full detail is only logged.
var (
	// ErrProviderUnavailable means every retry attempt failed with a
	// retryable status.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderRejected means the provider refused the request with a
	// non-retryable status (bad request, bad credentials, ...).
	ErrProviderRejected = errors.New("provider rejected request")

	// ErrMalformedResponse means the provider returned 2xx but the expected
	// choices[0].message.content structure was missing.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrNetworkFailure means the transport failed before any status code
	// was known.
	ErrNetworkFailure = errors.New("network failure")

	// ErrInvalidPlanFormat means the model output contained no parseable
	// diet plan. The pipeline never returns a partial plan.
	ErrInvalidPlanFormat = errors.New("invalid plan format")
)

// ValidationError rejects a malformed inbound request before any provider
// call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ProviderError is a provider failure that carries an HTTP status code.
// The gateway's retry predicate classifies calls by this code.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}
