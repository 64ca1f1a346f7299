package llm

import "fmt"

// EmbeddingError is returned when the embedding provider call fails.
type EmbeddingError struct {
	Provider Provider
	Model    string
	Cause    error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding request to %s (%s) failed: %v", e.Provider, e.Model, e.Cause)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Cause
}

// NarrativeProviderError is returned when the text-generation provider call fails.
type NarrativeProviderError struct {
	Provider Provider
	Model    string
	Cause    error
}

func (e *NarrativeProviderError) Error() string {
	return fmt.Sprintf("generation request to %s (%s) failed: %v", e.Provider, e.Model, e.Cause)
}

func (e *NarrativeProviderError) Unwrap() error {
	return e.Cause
}
