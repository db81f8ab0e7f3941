package llm

import "fmt"

// QuotaError is returned once the model service's rate limit has been hit
// on every allowed attempt. It is terminal; callers should not retry.
type QuotaError struct {
	Attempts int
	Err      error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("model quota exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *QuotaError) Unwrap() error {
	return e.Err
}

// ModelError wraps any non-quota failure from the model service. These are
// not retried.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model service error: %v", e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ParseError is returned when the model's reply is not the JSON the prompt
// asked for. Raw carries the full reply for diagnostics; no partial
// recovery is attempted.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
