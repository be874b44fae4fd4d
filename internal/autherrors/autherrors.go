// Package autherrors defines the failure taxonomy shared by the auth
// flows. Flow controllers convert every one of these into a redirect to
// the generic error page; nothing below leaks provider or database
// internals to the browser.
package autherrors

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParameter is returned when a required query parameter is
	// absent. No network call is made in that case.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrTokenInvalid is the single verification failure for both token
	// classes. Callers never learn whether the signature, expiry, or
	// payload shape was at fault.
	ErrTokenInvalid = errors.New("invalid token")
)

// ExchangeError is a non-success response from the provider's token
// endpoint, carrying the provider-supplied error description.
type ExchangeError struct {
	Description string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("provider token exchange failed: %s", e.Description)
}

// IdentityError is a non-success response from the provider's identity
// endpoint.
type IdentityError struct {
	StatusCode int
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("provider identity fetch failed with status %d", e.StatusCode)
}

// StoreError is a credential-store failure. The originating transaction
// has always been rolled back by the time a StoreError surfaces.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
