package document

import "fmt"

// UnsupportedTypeError is returned when a file's extension is not one of
// the types the extractor knows how to read.
type UnsupportedTypeError struct {
	Filename string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Filename)
}

// ExtractionError wraps a parser failure for a specific file. Extraction
// failures are terminal; they are never retried.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract content from %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
