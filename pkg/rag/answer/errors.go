package answer

import "fmt"

// UpstreamError means the oracle call itself failed (network, quota, auth,
// timeout). Surfaced to the user as the turn's error banner.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("the answer service is unavailable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ResponseFormatError means the oracle answered, but with text that failed
// JSON parsing or the schema checks at the parse boundary.
type ResponseFormatError struct {
	Reason string
	Raw    string
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("the model returned an unexpected response format: %s", e.Reason)
}
