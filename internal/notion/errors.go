package notion

import "errors"

var (
	// ErrUnauthorized indicates the integration token was rejected.
	ErrUnauthorized = errors.New("notion token rejected")

	// ErrObjectNotFound indicates a database or page id does not exist or is
	// not shared with the integration.
	ErrObjectNotFound = errors.New("notion object not found")

	// ErrInvalidRequest indicates the API rejected the request body.
	ErrInvalidRequest = errors.New("invalid notion request")

	// ErrRateLimited indicates the API returned 429.
	ErrRateLimited = errors.New("notion rate limit exceeded")

	// ErrServerError indicates a 5xx response from the API.
	ErrServerError = errors.New("notion server error")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("notion retry attempts exhausted")
)

// IsStructural reports whether an error means the request can never succeed
// as written. Structural failures abort a sync instead of moving on to the
// next row.
func IsStructural(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrObjectNotFound) ||
		errors.Is(err, ErrInvalidRequest)
}

// IsTransient reports whether a retry of the same request may succeed.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServerError)
}
