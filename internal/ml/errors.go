// Package ml is the client side of the external match scoring service.
package ml

import "errors"

var (
	// ErrMLServiceUnavailable indicates the ML service is unreachable or failing
	ErrMLServiceUnavailable = errors.New("ml service unavailable")

	// ErrCircuitOpen indicates requests are being short-circuited after repeated failures
	ErrCircuitOpen = errors.New("ml service circuit open")

	// ErrInvalidPrediction indicates the prediction response is invalid
	ErrInvalidPrediction = errors.New("invalid prediction response")
)

// IsDegraded reports whether err belongs to the family of scoring failures the
// caller is expected to absorb with a statistical estimate.
func IsDegraded(err error) bool {
	return errors.Is(err, ErrMLServiceUnavailable) ||
		errors.Is(err, ErrCircuitOpen) ||
		errors.Is(err, ErrInvalidPrediction)
}
