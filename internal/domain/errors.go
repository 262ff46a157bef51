package domain

import "errors"

// Sentinel errors for cross-provider error classification.
// Providers wrap these so the CLI can handle error categories uniformly
// without importing vendor-specific SDKs.
//
//	return fmt.Errorf("failed to destroy server: %w", domain.ErrNotFound)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the vendor throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a state or uniqueness conflict, such as a
	// duplicate server name.
	ErrConflict = errors.New("conflict")
)
