package models

import "fmt"

// LoadError reports a source that could not be read or parsed. It is
// fatal for that source but must not abort a batch ingestion.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load source %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// EmbeddingError reports a provider-side embedding failure (rate limit,
// malformed input, network failure). It is not retried internally.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding provider failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// DimensionMismatchError reports an embedding whose length does not match
// the vector store's configured dimension. This indicates a provider/store
// configuration mismatch and is never auto-corrected.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: store expects %d, got %d", e.Want, e.Got)
}

// TemplateError reports a malformed prompt template. It is raised before
// any external model call is made.
type TemplateError struct {
	Reason string
}

func (e *TemplateError) Error() string {
	return "invalid prompt template: " + e.Reason
}

// GenerationError reports a language model invocation failure.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("model generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
