package search

import "fmt"

// The error types below form the full failure taxonomy of a search
// invocation. Lower layers return them without printing or exiting;
// only the CLI boundary decides how they surface.

// ValidationError indicates bad caller input. It is never retried.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NetworkError indicates a transport-level failure (connection refused,
// DNS, timeout) before any HTTP status was received.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UpstreamError indicates a non-2xx response from the vendor. BodyExcerpt
// holds up to excerptLimit bytes of the response body for diagnostics.
type UpstreamError struct {
	StatusCode  int
	BodyExcerpt string
}

func (e *UpstreamError) Error() string {
	if e.BodyExcerpt == "" {
		return fmt.Sprintf("vendor returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("vendor returned HTTP %d: %s", e.StatusCode, e.BodyExcerpt)
}

// ParseError indicates the response body was not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vendor response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError indicates well-formed JSON that lacks the expected results
// shape. It is distinct from an empty results array, which is a normal
// zero-match response.
type SchemaError struct {
	Missing string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("vendor response missing expected shape: %s", e.Missing)
}
